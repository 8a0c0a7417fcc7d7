package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nerrad567/handlerhub/internal/thing"
)

// Config is the root configuration structure for handlerhub.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Hub      HubConfig      `yaml:"hub"`
	Database DatabaseConfig `yaml:"database"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	API      APIConfig      `yaml:"api"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Audit    AuditConfig    `yaml:"audit"`
	Logging  LoggingConfig  `yaml:"logging"`

	// Things are declared statically and added at startup, in order.
	// Bridges must come before the things that name them.
	Things []thing.Params `yaml:"things"`
}

// HubConfig identifies this hub instance.
type HubConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
	Auth     AuthConfig       `yaml:"auth"`
	// DispatchTimeout bounds a single console dispatch, in seconds.
	DispatchTimeout int `yaml:"dispatch_timeout"`
}

// APITimeoutConfig contains HTTP timeout settings.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// AuthConfig controls API authentication. When disabled every route is open.
type AuthConfig struct {
	Enabled   bool   `yaml:"enabled"`
	JWTSecret string `yaml:"jwt_secret"`
	// TokenTTL is the access token lifetime in minutes.
	TokenTTL int           `yaml:"token_ttl"`
	Users    []AuthAccount `yaml:"users"`
}

// AuthAccount is one API login. PasswordHash is an Argon2id PHC string
// as printed by `handlerhub hash-password`.
type AuthAccount struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"`
	Role         string `yaml:"role"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// AuditConfig controls the command and lifecycle audit trail.
type AuditConfig struct {
	Enabled bool `yaml:"enabled"`
	// RetentionDays prunes entries older than this, at startup and daily. 0 keeps everything.
	RetentionDays int `yaml:"retention_days"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: HANDLERHUB_SECTION_KEY
// For example: HANDLERHUB_DATABASE_PATH, HANDLERHUB_API_PORT
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Hub: HubConfig{
			ID:   "hub-001",
			Name: "handlerhub",
		},
		Database: DatabaseConfig{
			Path:        "./data/handlerhub.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Enabled: true,
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "handlerhub",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
			DispatchTimeout: 10,
			Auth: AuthConfig{
				TokenTTL: 15,
			},
		},
		Audit: AuditConfig{
			Enabled:       true,
			RetentionDays: 90,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// envOverrides maps HANDLERHUB_* variables onto config fields. Values
// that fail to parse are ignored and the file value stands.
func envOverrides(cfg *Config) map[string]func(string) {
	return map[string]func(string){
		"HANDLERHUB_DATABASE_PATH":  setString(&cfg.Database.Path),
		"HANDLERHUB_MQTT_ENABLED":   setBool(&cfg.MQTT.Enabled),
		"HANDLERHUB_MQTT_HOST":      setString(&cfg.MQTT.Broker.Host),
		"HANDLERHUB_MQTT_PORT":      setInt(&cfg.MQTT.Broker.Port),
		"HANDLERHUB_MQTT_USERNAME":  setString(&cfg.MQTT.Auth.Username),
		"HANDLERHUB_MQTT_PASSWORD":  setString(&cfg.MQTT.Auth.Password),
		"HANDLERHUB_API_HOST":       setString(&cfg.API.Host),
		"HANDLERHUB_API_PORT":       setInt(&cfg.API.Port),
		"HANDLERHUB_AUTH_ENABLED":   setBool(&cfg.API.Auth.Enabled),
		"HANDLERHUB_JWT_SECRET":     setString(&cfg.API.Auth.JWTSecret),
		"HANDLERHUB_INFLUXDB_URL":   setString(&cfg.InfluxDB.URL),
		"HANDLERHUB_INFLUXDB_TOKEN": setString(&cfg.InfluxDB.Token),
		"HANDLERHUB_LOG_LEVEL":      setString(&cfg.Logging.Level),
		"HANDLERHUB_LOG_FORMAT":     setString(&cfg.Logging.Format),
	}
}

// applyEnvOverrides applies every set, non-empty HANDLERHUB_* variable.
func applyEnvOverrides(cfg *Config) {
	for name, set := range envOverrides(cfg) {
		if v := os.Getenv(name); v != "" {
			set(v)
		}
	}
}

func setString(dst *string) func(string) {
	return func(v string) { *dst = v }
}

func setInt(dst *int) func(string) {
	return func(v string) {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool) func(string) {
	return func(v string) {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []string
	check := func(ok bool, msg string) {
		if !ok {
			errs = append(errs, msg)
		}
	}

	check(c.Hub.ID != "", "hub.id is required")
	check(c.Database.Path != "", "database.path is required")
	check(c.MQTT.QoS >= 0 && c.MQTT.QoS <= 2, "mqtt.qos must be 0, 1, or 2")
	check(c.API.Port >= 1 && c.API.Port <= 65535, "api.port must be between 1 and 65535")
	check(c.API.DispatchTimeout >= 0, "api.dispatch_timeout cannot be negative")
	if a := c.API.Auth; a.Enabled {
		check(a.JWTSecret != "", "api.auth.jwt_secret is required when auth is enabled")
		check(len(a.Users) > 0, "api.auth.users must list at least one account when auth is enabled")
	}
	check(!c.InfluxDB.Enabled || c.InfluxDB.URL != "", "influxdb.url is required when influxdb is enabled")
	check(c.Audit.RetentionDays >= 0, "audit.retention_days cannot be negative")
	errs = append(errs, validateThings(c.Things)...)

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// validateThings checks syntax and uniqueness only. Whether a binding
// supports a type is decided when the thing is added.
func validateThings(things []thing.Params) []string {
	var errs []string
	seen := make(map[thing.UID]bool, len(things))
	for i, t := range things {
		if _, err := thing.ParseUID(string(t.UID)); err != nil {
			errs = append(errs, fmt.Sprintf("things[%d].uid: %v", i, err))
		} else if seen[t.UID] {
			errs = append(errs, fmt.Sprintf("things[%d].uid: duplicate %q", i, t.UID))
		}
		seen[t.UID] = true

		if _, err := thing.ParseTypeUID(string(t.Type)); err != nil {
			errs = append(errs, fmt.Sprintf("things[%d].type: %v", i, err))
		}
		if t.BridgeUID != "" {
			if _, err := thing.ParseUID(string(t.BridgeUID)); err != nil {
				errs = append(errs, fmt.Sprintf("things[%d].bridge: %v", i, err))
			}
		}
	}
	return errs
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}

// GetDispatchTimeout returns the console dispatch timeout as a Duration.
func (c *Config) GetDispatchTimeout() time.Duration {
	return time.Duration(c.API.DispatchTimeout) * time.Second
}

// GetTokenTTL returns the API access token lifetime as a Duration.
func (c *Config) GetTokenTTL() time.Duration {
	return time.Duration(c.API.Auth.TokenTTL) * time.Minute
}
