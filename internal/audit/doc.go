// Package audit records administrative activity in the audit_logs table:
// every console dispatch and every device add, remove or rejection.
//
// The trail is an operational log. Live handler state is held by the
// registry and is never written here; restarting the hub starts with an
// empty registry regardless of what the audit trail contains.
//
// Entries older than the configured retention are removed by RunRetention.
package audit
