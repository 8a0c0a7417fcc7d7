// Package factory builds thing handlers from thing-type descriptors.
//
// A Factory holds an ordered list of (predicate, constructor) entries.
// Create evaluates them in registration order and the first matching entry
// builds the handler, so overlapping entries resolve deterministically.
// The factory never registers what it builds; that is the caller's job.
package factory

import (
	"fmt"
	"sync"

	"github.com/nerrad567/handlerhub/internal/thing"
)

// Logger defines the logging interface used by the Factory.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

// Predicate reports whether an entry handles a thing type.
type Predicate func(thing.TypeUID) bool

// Constructor builds a handler for params.
type Constructor func(params thing.Params) (thing.Handler, error)

type entry struct {
	name      string
	predicate Predicate
	construct Constructor
}

// Factory constructs handlers. It is safe for concurrent use; entries are
// normally registered once at startup.
type Factory struct {
	mu      sync.RWMutex
	entries []entry
	logger  Logger
}

// New creates an empty factory.
func New() *Factory {
	return &Factory{logger: noopLogger{}}
}

// SetLogger sets the logger for the factory.
func (f *Factory) SetLogger(logger Logger) {
	f.mu.Lock()
	f.logger = logger
	f.mu.Unlock()
}

// Register appends an entry. Entries registered earlier take precedence.
func (f *Factory) Register(name string, predicate Predicate, construct Constructor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry{name: name, predicate: predicate, construct: construct})
}

// RegisterTypes appends an entry matching any of types.
func (f *Factory) RegisterTypes(name string, types []thing.TypeUID, construct Constructor) {
	f.Register(name, TypeIn(types...), construct)
}

// TypeIn returns a predicate matching membership in types.
func TypeIn(types ...thing.TypeUID) Predicate {
	set := make(map[thing.TypeUID]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return func(t thing.TypeUID) bool {
		_, ok := set[t]
		return ok
	}
}

// Supports reports whether any entry matches typ.
func (f *Factory) Supports(typ thing.TypeUID) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, e := range f.entries {
		if e.predicate(typ) {
			return true
		}
	}
	return false
}

// Names returns entry names in evaluation order.
func (f *Factory) Names() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, len(f.entries))
	for i, e := range f.entries {
		names[i] = e.name
	}
	return names
}

// Create builds the handler for params.Type using the first matching entry.
//
// When nothing matches, Create logs a warning and returns an
// *UnsupportedTypeError naming the descriptor. A matched constructor's error
// is wrapped with ErrConstructFailed. On success the handler's UID equals
// params.UID.
func (f *Factory) Create(params thing.Params) (thing.Handler, error) {
	f.mu.RLock()
	entries := f.entries
	log := f.logger
	f.mu.RUnlock()

	for _, e := range entries {
		if !e.predicate(params.Type) {
			continue
		}
		log.Debug("creating handler", "entry", e.name, "type", params.Type, "uid", params.UID)

		h, err := e.construct(params)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrConstructFailed, e.name, err)
		}
		if h == nil {
			return nil, fmt.Errorf("%w: %s returned no handler", ErrConstructFailed, e.name)
		}
		if h.UID() != params.UID {
			// the handler is unusable; release whatever it acquired
			_ = h.Teardown() //nolint:errcheck // best effort on the error path
			return nil, fmt.Errorf("%w: %s built uid %q, want %q", ErrConstructFailed, e.name, h.UID(), params.UID)
		}
		return h, nil
	}

	log.Warn("thing type is not supported", "type", params.Type, "uid", params.UID)
	return nil, &UnsupportedTypeError{Type: params.Type, UID: params.UID}
}
