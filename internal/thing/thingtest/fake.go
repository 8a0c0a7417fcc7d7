// Package thingtest provides a configurable fake thing.Handler for tests.
package thingtest

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/nerrad567/handlerhub/internal/thing"
)

// Kind is the kind reported by fakes unless overridden.
const Kind thing.Kind = "test.fake"

// Handler is a fake handler. Report returns Reports[subject]; Command
// records the call and returns CommandLines. Teardowns counts Teardown calls.
type Handler struct {
	ID   thing.UID
	K    thing.Kind
	Caps thing.CapabilitySet

	Reports      map[string][]string
	CommandLines []string
	AccessKey    string

	// Err, when set, is returned from Report and Command.
	Err error
	// Block, when set, makes Report wait until it is closed.
	Block chan struct{}
	// TeardownErr is returned from Teardown.
	TeardownErr error

	mu       sync.Mutex
	commands [][]string
	down     atomic.Int32
}

// New returns a fake with the given UID and capabilities.
func New(uid string, caps ...thing.Capability) *Handler {
	return &Handler{
		ID:      thing.MustParseUID(uid),
		K:       Kind,
		Caps:    thing.NewCapabilitySet(caps...),
		Reports: make(map[string][]string),
	}
}

func (h *Handler) UID() thing.UID                    { return h.ID }
func (h *Handler) Kind() thing.Kind                  { return h.K }
func (h *Handler) Capabilities() thing.CapabilitySet { return h.Caps }
func (h *Handler) Key() string                       { return h.AccessKey }

// Report implements thing.Reporter.
func (h *Handler) Report(ctx context.Context, subject string) ([]string, error) {
	if h.Block != nil {
		select {
		case <-h.Block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if h.Err != nil {
		return nil, h.Err
	}
	lines, ok := h.Reports[subject]
	if !ok {
		return nil, fmt.Errorf("%w: %s", thing.ErrUnknownSubject, subject)
	}
	return lines, nil
}

// Command implements thing.Commander.
func (h *Handler) Command(_ context.Context, name string, args []string) ([]string, error) {
	if h.Err != nil {
		return nil, h.Err
	}
	h.mu.Lock()
	h.commands = append(h.commands, append([]string{name}, args...))
	h.mu.Unlock()
	return h.CommandLines, nil
}

// Commands returns every recorded command as name followed by its args.
func (h *Handler) Commands() [][]string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([][]string, len(h.commands))
	copy(out, h.commands)
	return out
}

// Teardown implements thing.Handler.
func (h *Handler) Teardown() error {
	h.down.Add(1)
	return h.TeardownErr
}

// Teardowns returns how many times Teardown has been called.
func (h *Handler) Teardowns() int {
	return int(h.down.Load())
}
