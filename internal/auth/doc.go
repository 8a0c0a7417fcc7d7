// Package auth guards the HTTP API.
//
// Accounts are declared in configuration with an Argon2id password hash
// and one of three roles (viewer, operator, admin). A successful login
// yields a short-lived HS256 JWT carrying the role; requests are then
// authorised against a static role-permission table without any storage
// lookup.
package auth
