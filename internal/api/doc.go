// Package api implements handlerhub's HTTP REST API.
//
// Endpoints (all under /api/v1):
//
//	GET    /health              liveness plus database and MQTT probes
//	GET    /metrics             runtime and handler registry statistics
//	GET    /things              registered handlers
//	POST   /things              add a device (replaces an existing handler)
//	DELETE /things/{uid}        remove a device; 204 even when absent
//	GET    /console             console extensions and their usages
//	POST   /console/{ext}       dispatch a console command
//	GET    /audit               paged audit trail
//
// Console failures map onto HTTP status codes: invalid_id and
// bad_arguments are 400, unknown_device is 404, unsupported_command is 422
// and handler_failed is 502. The error body carries the console code and,
// for unsupported commands, the reason.
//
// The server follows the same lifecycle pattern as the infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
package api
