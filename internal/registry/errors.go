package registry

import (
	"errors"
	"fmt"

	"github.com/nerrad567/handlerhub/internal/thing"
)

var (
	// ErrNotFound is returned when no handler is registered for a UID.
	ErrNotFound = errors.New("registry: handler not found")

	// ErrUnsupported is returned when the registered handler lacks a requested capability.
	ErrUnsupported = errors.New("registry: capability not supported")

	// ErrClosed is returned when registering into a registry that has been closed.
	ErrClosed = errors.New("registry: closed")
)

// Reason distinguishes why LookupAs returned no handler.
type Reason string

const (
	// ReasonNotFound means nothing is registered under the UID.
	ReasonNotFound Reason = "not_found"

	// ReasonUnsupported means a handler exists but its capability set lacks the capability.
	ReasonUnsupported Reason = "unsupported"
)

// LookupError reports a failed LookupAs with the precise reason.
type LookupError struct {
	UID        thing.UID
	Capability thing.Capability
	Reason     Reason
}

func (e *LookupError) Error() string {
	if e.Reason == ReasonNotFound {
		return fmt.Sprintf("registry: no handler for %q", e.UID)
	}
	return fmt.Sprintf("registry: handler %q does not support %s", e.UID, e.Capability)
}

// Unwrap maps the reason onto the package sentinels so errors.Is works.
func (e *LookupError) Unwrap() error {
	if e.Reason == ReasonNotFound {
		return ErrNotFound
	}
	return ErrUnsupported
}
