// Package lifecycle connects device-added and device-removed events to the
// factory and the registry.
//
// A Manager is the only writer to the registry in a running hub: the MQTT
// bridge, the HTTP API and the static thing list from configuration all go
// through it.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nerrad567/handlerhub/internal/thing"
)

// Logger defines the logging interface used by the Manager.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}

// Builder constructs handlers. *factory.Factory satisfies it.
type Builder interface {
	Create(params thing.Params) (thing.Handler, error)
}

// Store holds live handlers. *registry.Registry satisfies it.
type Store interface {
	Register(h thing.Handler) error
	Unregister(uid thing.UID) bool
}

// Action names a lifecycle event.
type Action string

const (
	ActionAdd    Action = "add"
	ActionRemove Action = "remove"
	ActionReject Action = "reject"
)

// Event describes one processed lifecycle request.
type Event struct {
	Action Action        `json:"action"`
	UID    thing.UID     `json:"uid"`
	Type   thing.TypeUID `json:"type,omitempty"`
	Error  string        `json:"error,omitempty"`
	Origin string        `json:"origin,omitempty"`
	Actor  string        `json:"actor,omitempty"`
	Time   time.Time     `json:"time"`
}

// Manager applies lifecycle events.
type Manager struct {
	builder Builder
	store   Store
	logger  Logger

	obsMu     sync.RWMutex
	observers []func(Event)
}

// New creates a Manager over a builder and a store.
func New(builder Builder, store Store) *Manager {
	return &Manager{builder: builder, store: store, logger: noopLogger{}}
}

// SetLogger sets the logger for the manager.
func (m *Manager) SetLogger(logger Logger) {
	m.logger = logger
}

// OnLifecycle registers an observer called after every processed event.
func (m *Manager) OnLifecycle(fn func(Event)) {
	m.obsMu.Lock()
	m.observers = append(m.observers, fn)
	m.obsMu.Unlock()
}

// OnDeviceAdded builds a handler for params and registers it, replacing
// any handler already registered under the same UID.
//
// An unsupported thing type is returned as *factory.UnsupportedTypeError;
// the caller decides whether that matters.
func (m *Manager) OnDeviceAdded(ctx context.Context, params thing.Params) (thing.UID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if _, err := thing.ParseUID(string(params.UID)); err != nil {
		return "", m.reject(ctx, params, err)
	}
	if _, err := thing.ParseTypeUID(string(params.Type)); err != nil {
		return "", m.reject(ctx, params, err)
	}

	h, err := m.builder.Create(params)
	if err != nil {
		return "", m.reject(ctx, params, err)
	}

	if err := m.store.Register(h); err != nil {
		return "", m.reject(ctx, params, fmt.Errorf("registering handler: %w", err))
	}

	m.logger.Info("device added", "uid", h.UID(), "type", params.Type, "kind", h.Kind())
	m.notify(Event{Action: ActionAdd, UID: h.UID(), Type: params.Type, Origin: thing.OriginFrom(ctx), Actor: thing.ActorFrom(ctx), Time: time.Now().UTC()})
	return h.UID(), nil
}

// OnDeviceRemoved unregisters the handler for uid. It reports whether a
// handler was removed; removing an unknown UID is a no-op.
func (m *Manager) OnDeviceRemoved(ctx context.Context, uid thing.UID) bool {
	removed := m.store.Unregister(uid)
	if !removed {
		m.logger.Debug("device removal ignored, not registered", "uid", uid)
		return false
	}
	m.logger.Info("device removed", "uid", uid)
	m.notify(Event{Action: ActionRemove, UID: uid, Origin: thing.OriginFrom(ctx), Actor: thing.ActorFrom(ctx), Time: time.Now().UTC()})
	return true
}

// LoadStatic adds every thing in things. A failing thing does not stop the
// ones after it; all failures are joined into the returned error.
func (m *Manager) LoadStatic(ctx context.Context, things []thing.Params) error {
	if thing.OriginFrom(ctx) == "" {
		ctx = thing.WithOrigin(ctx, thing.OriginConfig)
	}
	var errs []error
	for _, p := range things {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if _, err := m.OnDeviceAdded(ctx, p); err != nil {
			errs = append(errs, fmt.Errorf("thing %q: %w", p.UID, err))
		}
	}
	return errors.Join(errs...)
}

func (m *Manager) reject(ctx context.Context, params thing.Params, err error) error {
	m.logger.Warn("device rejected", "uid", params.UID, "type", params.Type, "error", err)
	m.notify(Event{
		Action: ActionReject,
		UID:    params.UID,
		Type:   params.Type,
		Error:  err.Error(),
		Origin: thing.OriginFrom(ctx),
		Actor:  thing.ActorFrom(ctx),
		Time:   time.Now().UTC(),
	})
	return err
}

func (m *Manager) notify(ev Event) {
	m.obsMu.RLock()
	observers := m.observers
	m.obsMu.RUnlock()
	for _, fn := range observers {
		fn(ev)
	}
}
