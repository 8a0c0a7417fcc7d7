package factory

import (
	"errors"
	"fmt"

	"github.com/nerrad567/handlerhub/internal/thing"
)

var (
	// ErrUnsupportedType is matched (via errors.Is) by every UnsupportedTypeError.
	ErrUnsupportedType = errors.New("factory: unsupported thing type")

	// ErrConstructFailed is returned when a matched constructor fails or
	// returns a handler that violates the construction post-conditions.
	ErrConstructFailed = errors.New("factory: construction failed")
)

// UnsupportedTypeError reports a thing type that no registered entry matched.
// It is an ordinary value; callers decide whether it is fatal.
type UnsupportedTypeError struct {
	Type thing.TypeUID
	UID  thing.UID
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("factory: thing type %s is not supported (thing %s)", e.Type, e.UID)
}

func (e *UnsupportedTypeError) Unwrap() error { return ErrUnsupportedType }
