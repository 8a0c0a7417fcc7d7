package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/handlerhub/internal/auth"
)

// healthProbeTimeout bounds each dependency probe in /health.
const healthProbeTimeout = 2 * time.Second

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(s.middlewares()...)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/auth/me", s.handleMe)

			r.With(s.requirePermission(auth.PermThingsRead)).Get("/metrics", s.handleMetrics)

			r.Route("/things", func(r chi.Router) {
				r.With(s.requirePermission(auth.PermThingsRead)).Get("/", s.handleListThings)
				r.With(s.requirePermission(auth.PermThingsManage)).Post("/", s.handleAddThing)
				r.With(s.requirePermission(auth.PermThingsManage)).Delete("/{uid}", s.handleRemoveThing)
			})

			r.Route("/console", func(r chi.Router) {
				r.With(s.requirePermission(auth.PermThingsRead)).Get("/", s.handleListExtensions)
				r.With(s.requirePermission(auth.PermConsoleDispatch)).Post("/{ext}", s.handleDispatch)
			})

			r.With(s.requirePermission(auth.PermAuditRead)).Get("/audit", s.handleListAudit)
		})
	})

	return r
}

// handleHealth reports "ok", or "degraded" with 503 when the database
// probe fails. A disconnected MQTT client is reported but not fatal.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	checks := map[string]string{}

	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthProbeTimeout)
		err := s.db.HealthCheck(ctx)
		cancel()
		if err != nil {
			checks["database"] = err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		} else {
			checks["database"] = "ok"
		}
	}
	if s.mqtt != nil {
		if s.mqtt.IsConnected() {
			checks["mqtt"] = "ok"
		} else {
			checks["mqtt"] = "disconnected"
		}
	}

	writeJSON(w, code, map[string]any{
		"status":  status,
		"version": s.version,
		"checks":  checks,
	})
}
