package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nerrad567/handlerhub/internal/audit"
	"github.com/nerrad567/handlerhub/internal/auth"
	"github.com/nerrad567/handlerhub/internal/console"
	"github.com/nerrad567/handlerhub/internal/infrastructure/config"
	"github.com/nerrad567/handlerhub/internal/infrastructure/logging"
	"github.com/nerrad567/handlerhub/internal/registry"
	"github.com/nerrad567/handlerhub/internal/thing"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

const defaultDispatchTimeout = 10 * time.Second

// Registry is the read side of the handler registry. Satisfied by *registry.Registry.
type Registry interface {
	Snapshot() []registry.Entry
	GetStats() registry.Stats
}

// Lifecycle applies device add and remove requests. Satisfied by *lifecycle.Manager.
type Lifecycle interface {
	OnDeviceAdded(ctx context.Context, params thing.Params) (thing.UID, error)
	OnDeviceRemoved(ctx context.Context, uid thing.UID) bool
}

// HealthChecker is implemented by infrastructure with an active probe.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Connectivity reports whether a client is connected to its broker.
type Connectivity interface {
	IsConnected() bool
}

// Authenticator checks logins and bearer tokens. Satisfied by *auth.Authenticator.
type Authenticator interface {
	Login(username, password string) (string, auth.Role, error)
	Verify(token string) (*auth.Claims, error)
	TTL() time.Duration
}

// Deps holds the dependencies required by the API server. Audit, Auth,
// Database and MQTT are optional; leave them nil (not a typed nil) when
// absent. Without Auth every route is open.
type Deps struct {
	Config          config.APIConfig
	Logger          *logging.Logger
	Registry        Registry
	Lifecycle       Lifecycle
	Console         *console.Set
	Audit           audit.Repository
	Auth            Authenticator
	Database        HealthChecker
	MQTT            Connectivity
	DispatchTimeout time.Duration
	Version         string
}

// Server is the HTTP API server for handlerhub.
type Server struct {
	cfg             config.APIConfig
	logger          *logging.Logger
	registry        Registry
	lifecycle       Lifecycle
	console         *console.Set
	auditRepo       audit.Repository
	auth            Authenticator
	db              HealthChecker
	mqtt            Connectivity
	dispatchTimeout time.Duration
	version         string
	startTime       time.Time
	server          *http.Server
}

// New creates a new API server with the given dependencies.
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Registry == nil {
		return nil, fmt.Errorf("handler registry is required")
	}
	if deps.Lifecycle == nil {
		return nil, fmt.Errorf("lifecycle manager is required")
	}
	if deps.Console == nil {
		return nil, fmt.Errorf("console set is required")
	}
	if deps.DispatchTimeout <= 0 {
		deps.DispatchTimeout = defaultDispatchTimeout
	}

	return &Server{
		cfg:             deps.Config,
		logger:          deps.Logger,
		registry:        deps.Registry,
		lifecycle:       deps.Lifecycle,
		console:         deps.Console,
		auditRepo:       deps.Audit,
		auth:            deps.Auth,
		db:              deps.Database,
		mqtt:            deps.MQTT,
		dispatchTimeout: deps.DispatchTimeout,
		version:         deps.Version,
		startTime:       time.Now(),
	}, nil
}

// Start begins listening for HTTP connections in a background goroutine.
// The server can be stopped with Close().
func (s *Server) Start(_ context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		s.logger.Info("API server starting", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server, waiting up to 10 seconds for
// in-flight requests.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}
