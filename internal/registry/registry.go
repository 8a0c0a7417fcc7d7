package registry

import (
	"sort"
	"sync"

	"github.com/nerrad567/handlerhub/internal/thing"
)

// Logger defines the logging interface used by the Registry.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Registry maps thing UIDs to live handlers.
//
// Invariant: at most one live handler per UID. A single RWMutex guards the
// map, so Lookup never observes a handler mid-replacement.
type Registry struct {
	mu      sync.RWMutex
	entries map[thing.UID]*entry
	closed  bool
	logger  Logger
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		entries: make(map[thing.UID]*entry),
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.mu.Lock()
	r.logger = logger
	r.mu.Unlock()
}

// Register inserts h under h.UID(), replacing and retiring any previous
// handler for that UID. Registering the handler that is already live is a no-op.
//
// After Close, the handler is torn down immediately and ErrClosed is returned.
func (r *Registry) Register(h thing.Handler) error {
	uid := h.UID()
	e := &entry{handler: h}

	r.mu.Lock()
	log := r.logger
	if r.closed {
		r.mu.Unlock()
		e.retire()
		e.destroy(log)
		return ErrClosed
	}

	old, replaced := r.entries[uid]
	if replaced && old.handler == h {
		r.mu.Unlock()
		return nil
	}
	r.entries[uid] = e
	destroyOld := replaced && old.retire()
	r.mu.Unlock()

	if replaced {
		log.Info("handler replaced", "uid", uid, "kind", h.Kind(), "previous_kind", old.handler.Kind())
		if destroyOld {
			old.destroy(log)
		}
	} else {
		log.Info("handler registered", "uid", uid, "kind", h.Kind())
	}
	return nil
}

// Lookup returns an acquired Handle for uid, or false when nothing is registered.
// The caller must Release the handle.
func (r *Registry) Lookup(uid thing.UID) (*Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[uid]
	if !ok {
		return nil, false
	}
	e.acquire()
	return &Handle{e: e, log: r.logger}, true
}

// LookupAs returns the handler for uid only if its capability set contains
// capability. On failure the returned *LookupError says whether the UID was
// unknown (ReasonNotFound) or the handler lacks the capability (ReasonUnsupported).
func (r *Registry) LookupAs(uid thing.UID, capability thing.Capability) (*Handle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[uid]
	if !ok {
		return nil, &LookupError{UID: uid, Capability: capability, Reason: ReasonNotFound}
	}
	if !e.handler.Capabilities().Has(capability) {
		return nil, &LookupError{UID: uid, Capability: capability, Reason: ReasonUnsupported}
	}
	e.acquire()
	return &Handle{e: e, log: r.logger}, nil
}

// Unregister removes and retires the handler for uid. It reports whether a
// handler was removed; calling it for an absent UID is a no-op.
func (r *Registry) Unregister(uid thing.UID) bool {
	r.mu.Lock()
	e, ok := r.entries[uid]
	if !ok {
		r.mu.Unlock()
		return false
	}
	delete(r.entries, uid)
	log := r.logger
	destroy := e.retire()
	r.mu.Unlock()

	log.Info("handler unregistered", "uid", uid, "kind", e.handler.Kind())
	if destroy {
		e.destroy(log)
	}
	return true
}

// Close retires every handler and rejects further registrations. Handlers
// still referenced by a Handle are torn down when that handle is released.
func (r *Registry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	var ready []*entry
	for uid, e := range r.entries {
		delete(r.entries, uid)
		if e.retire() {
			ready = append(ready, e)
		}
	}
	log := r.logger
	r.mu.Unlock()

	for _, e := range ready {
		e.destroy(log)
	}
	log.Info("registry closed", "torn_down", len(ready))
}

// Len returns the number of live handlers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// UIDs returns the registered UIDs in sorted order.
func (r *Registry) UIDs() []thing.UID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	uids := make([]thing.UID, 0, len(r.entries))
	for uid := range r.entries {
		uids = append(uids, uid)
	}
	sort.Slice(uids, func(i, j int) bool { return uids[i] < uids[j] })
	return uids
}

// Entry describes one registered handler for monitoring and the REST API.
type Entry struct {
	UID          thing.UID  `json:"uid"`
	Kind         thing.Kind `json:"kind"`
	Capabilities []string   `json:"capabilities"`
	References   int64      `json:"references"`
}

// Snapshot returns a description of every registered handler, sorted by UID.
func (r *Registry) Snapshot() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, 0, len(r.entries))
	for uid, e := range r.entries {
		out = append(out, Entry{
			UID:          uid,
			Kind:         e.handler.Kind(),
			Capabilities: e.handler.Capabilities().Strings(),
			References:   e.refs.Load(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UID < out[j].UID })
	return out
}

// Stats returns registry statistics for monitoring.
type Stats struct {
	Total  int                `json:"total"`
	ByKind map[thing.Kind]int `json:"by_kind"`
}

// GetStats returns current registry statistics.
func (r *Registry) GetStats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := Stats{Total: len(r.entries), ByKind: make(map[thing.Kind]int)}
	for _, e := range r.entries {
		stats.ByKind[e.handler.Kind()]++
	}
	return stats
}
