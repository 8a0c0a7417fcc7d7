// Package config loads handlerhub's YAML configuration.
//
// Values are layered: built-in defaults, then the file, then HANDLERHUB_*
// environment variables. Validate reports every problem in one error,
// including syntax errors in the static things list. Whether a binding
// actually supports a declared type is only known when the thing is added.
//
// Secrets (MQTT password, InfluxDB token, JWT secret) belong in the
// environment rather than the file.
//
//	cfg, err := config.Load("configs/config.yaml")
package config
