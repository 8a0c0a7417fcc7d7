// Package logging builds handlerhub's slog-based logger.
//
// Every entry carries service and version; components derive a child with
// Component so their lines can be filtered:
//
//	log := logging.New(cfg.Logging, version)
//	reg.SetLogger(log.Component("registry"))
//
// The logging section of the config picks level (debug, info, warn,
// error), format (json or text) and output (stdout or stderr).
//
// Secrets stay out of logs: MQTT passwords, InfluxDB tokens, JWT secrets
// and TV pairing keys are never passed as attributes.
package logging
