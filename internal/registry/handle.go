package registry

import (
	"sync"
	"sync/atomic"

	"github.com/nerrad567/handlerhub/internal/thing"
)

// entry is the registry's bookkeeping for one handler.
type entry struct {
	handler  thing.Handler
	refs     atomic.Int64
	retired  atomic.Bool
	teardown sync.Once
}

// acquire adds a reference. Callers must hold the registry lock so the
// entry cannot be retired concurrently.
func (e *entry) acquire() {
	e.refs.Add(1)
}

// release drops a reference and reports whether the entry is now retired
// with no references left.
func (e *entry) release() bool {
	return e.refs.Add(-1) == 0 && e.retired.Load()
}

// retire marks the entry removed from the map and reports whether no
// references are outstanding. Either retire or the last release sees the
// other's write, so teardown is never skipped; sync.Once stops it running twice.
func (e *entry) retire() bool {
	e.retired.Store(true)
	return e.refs.Load() == 0
}

// destroy invokes the handler teardown at most once.
func (e *entry) destroy(log Logger) {
	e.teardown.Do(func() {
		if err := e.handler.Teardown(); err != nil {
			log.Warn("handler teardown failed",
				"uid", e.handler.UID(),
				"kind", e.handler.Kind(),
				"error", err,
			)
			return
		}
		log.Debug("handler torn down", "uid", e.handler.UID(), "kind", e.handler.Kind())
	})
}

// Handle is a counted reference to a registered handler. The handler stays
// valid until Release is called, even if it is unregistered or replaced in
// the meantime.
type Handle struct {
	e        *entry
	log      Logger
	released atomic.Bool
}

// Handler returns the referenced handler.
func (h *Handle) Handler() thing.Handler {
	return h.e.handler
}

// UID is shorthand for h.Handler().UID().
func (h *Handle) UID() thing.UID {
	return h.e.handler.UID()
}

// Retired reports whether the handler has been removed from the registry
// since the handle was acquired.
func (h *Handle) Retired() bool {
	return h.e.retired.Load()
}

// Release drops the reference. It is safe to call more than once; only the
// first call counts.
func (h *Handle) Release() {
	if !h.released.CompareAndSwap(false, true) {
		return
	}
	if h.e.release() {
		h.e.destroy(h.log)
	}
}
