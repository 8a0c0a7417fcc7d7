// handlerhub hosts protocol binding handlers for an openHAB-style thing
// model: a registry of live handlers, a handler factory fed by the
// OpenWebNet and LG webOS bindings, and per-binding console extensions
// reachable over HTTP and MQTT.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/nerrad567/handlerhub/migrations"

	"github.com/nerrad567/handlerhub/internal/api"
	"github.com/nerrad567/handlerhub/internal/audit"
	"github.com/nerrad567/handlerhub/internal/auth"
	"github.com/nerrad567/handlerhub/internal/bindings/lgwebos"
	"github.com/nerrad567/handlerhub/internal/bindings/openwebnet"
	"github.com/nerrad567/handlerhub/internal/console"
	"github.com/nerrad567/handlerhub/internal/factory"
	"github.com/nerrad567/handlerhub/internal/infrastructure/config"
	"github.com/nerrad567/handlerhub/internal/infrastructure/database"
	"github.com/nerrad567/handlerhub/internal/infrastructure/influxdb"
	"github.com/nerrad567/handlerhub/internal/infrastructure/logging"
	"github.com/nerrad567/handlerhub/internal/infrastructure/mqtt"
	"github.com/nerrad567/handlerhub/internal/lifecycle"
	"github.com/nerrad567/handlerhub/internal/mqttbridge"
	"github.com/nerrad567/handlerhub/internal/registry"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// retentionInterval is how often old audit entries are pruned.
const retentionInterval = 24 * time.Hour

func main() {
	if len(os.Args) > 1 && os.Args[1] == "hash-password" {
		if err := hashPassword(os.Stdin, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
func run(ctx context.Context) error { //nolint:gocognit,gocyclo // linear startup sequence
	log := logging.Default()
	log.Info("starting handlerhub",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Database
	db, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Audit trail (optional)
	var auditRepo audit.Repository
	var recorder *audit.Recorder
	if cfg.Audit.Enabled {
		repo := audit.NewSQLiteRepository(db.DB)
		auditRepo = repo
		recorder = audit.NewRecorder(repo)
		recorder.SetLogger(log.Component("audit"))
		if cfg.Audit.RetentionDays > 0 {
			keep := time.Duration(cfg.Audit.RetentionDays) * 24 * time.Hour
			go audit.RunRetention(ctx, repo, keep, retentionInterval, log.Component("audit"))
		}
		log.Info("audit trail enabled", "retention_days", cfg.Audit.RetentionDays)
	}

	// InfluxDB (optional)
	influxClient, err := influxdb.Connect(cfg.InfluxDB)
	switch {
	case errors.Is(err, influxdb.ErrDisabled):
		influxClient = nil
		log.Info("InfluxDB disabled")
	case err != nil:
		return fmt.Errorf("connecting to InfluxDB: %w", err)
	default:
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
	}

	// MQTT (optional). frameClient stays a nil interface when disabled so
	// the frame sender reports ErrNoTransport.
	var mqttClient *mqtt.Client
	var frameClient mqttbridge.MQTTClient
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log.Component("mqtt"))
		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
		frameClient = mqttClient
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)
	} else {
		log.Info("MQTT disabled")
	}

	// Registry, factory and bindings. The registry is closed before MQTT
	// disconnects so handler teardown can still reach the broker.
	reg := registry.New()
	reg.SetLogger(log.Component("registry"))
	defer func() {
		log.Info("tearing down handlers", "count", reg.Len())
		reg.Close()
	}()

	f := factory.New()
	f.SetLogger(log.Component("factory"))
	lgwebos.Register(f, nil)
	openwebnet.NewBinding(mqttbridge.NewFrameSender(frameClient)).Register(f)
	log.Info("bindings registered", "constructors", f.Names())

	mgr := lifecycle.New(f, reg)
	mgr.SetLogger(log.Component("lifecycle"))

	consoles := console.NewSet()
	for _, ext := range []*console.Extension{lgwebos.NewExtension(reg), openwebnet.NewExtension(reg)} {
		if addErr := consoles.Add(ext); addErr != nil {
			return fmt.Errorf("adding console extension: %w", addErr)
		}
	}

	if recorder != nil {
		mgr.OnLifecycle(recorder.RecordLifecycle)
		consoles.OnDispatch(recorder.RecordDispatch)
	}
	if influxClient != nil {
		mgr.OnLifecycle(func(ev lifecycle.Event) {
			influxClient.WriteLifecycle(string(ev.Action), string(ev.Type))
		})
		consoles.OnDispatch(func(o console.Outcome) {
			code := "ok"
			if o.Err != nil {
				code = string(o.Err.Code)
			}
			influxClient.WriteDispatch(o.Extension, o.Command, code, o.Duration)
		})
	}

	// MQTT bridge, started before static things load so their events are announced.
	if mqttClient != nil {
		bridge, bridgeErr := mqttbridge.New(mqttbridge.Options{
			Client:          mqttClient,
			Extensions:      consoles,
			Lifecycle:       mgr,
			Registry:        reg,
			Logger:          log.Component("mqttbridge"),
			DispatchTimeout: cfg.GetDispatchTimeout(),
		})
		if bridgeErr != nil {
			return fmt.Errorf("creating MQTT bridge: %w", bridgeErr)
		}
		if startErr := bridge.Start(); startErr != nil {
			return fmt.Errorf("starting MQTT bridge: %w", startErr)
		}
		defer func() {
			log.Info("stopping MQTT bridge")
			bridge.Stop()
		}()
		log.Info("MQTT bridge started")
	}

	if loadErr := mgr.LoadStatic(ctx, cfg.Things); loadErr != nil {
		log.Warn("some configured things were not added", "error", loadErr)
	}
	log.Info("static things loaded", "configured", len(cfg.Things), "registered", reg.Len())

	// HTTP API
	authenticator, err := buildAuthenticator(cfg)
	if err != nil {
		return fmt.Errorf("configuring API auth: %w", err)
	}
	if authenticator == nil {
		log.Warn("API authentication disabled")
	}

	deps := api.Deps{
		Config:          cfg.API,
		Logger:          log.Component("api"),
		Registry:        reg,
		Lifecycle:       mgr,
		Console:         consoles,
		Audit:           auditRepo,
		Database:        db,
		DispatchTimeout: cfg.GetDispatchTimeout(),
		Version:         version,
	}
	if mqttClient != nil {
		deps.MQTT = mqttClient
	}
	if authenticator != nil {
		deps.Auth = authenticator
	}
	apiServer, err := api.New(deps)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := apiServer.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")
	<-ctx.Done()
	log.Info("shutdown signal received, cleaning up")

	// Deferred calls run in reverse: API, MQTT bridge, registry (handler
	// teardown), MQTT, InfluxDB, database.

	log.Info("handlerhub stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses HANDLERHUB_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("HANDLERHUB_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// buildAuthenticator returns nil when API auth is disabled.
func buildAuthenticator(cfg *config.Config) (*auth.Authenticator, error) {
	if !cfg.API.Auth.Enabled {
		return nil, nil //nolint:nilnil // disabled is not an error
	}
	accounts := make([]auth.Account, 0, len(cfg.API.Auth.Users))
	for _, u := range cfg.API.Auth.Users {
		accounts = append(accounts, auth.Account{
			Username:     u.Username,
			PasswordHash: u.PasswordHash,
			Role:         auth.Role(u.Role),
		})
	}
	return auth.NewAuthenticator(cfg.API.Auth.JWTSecret, cfg.GetTokenTTL(), accounts)
}

// hashPassword reads one password line from r and writes its argon2id
// hash to w, ready to paste into api.auth.users[].password_hash.
func hashPassword(r io.Reader, w io.Writer) error {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("reading password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return errors.New("empty password")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, hash)
	return err
}

// healthCheck verifies all infrastructure connections are healthy.
// mqttClient and influxClient may be nil when disabled.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}
