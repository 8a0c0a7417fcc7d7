package console

import (
	"errors"
	"fmt"
	"strings"
)

// Code classifies a dispatch failure.
type Code string

const (
	CodeInvalidID          Code = "invalid_id"
	CodeUnknownDevice      Code = "unknown_device"
	CodeUnsupportedCommand Code = "unsupported_command"
	CodeBadArguments       Code = "bad_arguments"
	CodeHandlerFailed      Code = "handler_failed"
)

// Reason refines CodeUnsupportedCommand.
type Reason string

const (
	// ReasonWrongKind means the handler belongs to a binding the extension does not serve.
	ReasonWrongKind Reason = "wrong_kind"
	// ReasonUnknownCommand means the command name is not in the table.
	ReasonUnknownCommand Reason = "unknown_command"
	// ReasonMissingCapability means the handler lacks the capability the command requires.
	ReasonMissingCapability Reason = "missing_capability"
)

// Sentinels matched by errors.Is against an *Error with the same code.
var (
	ErrInvalidID          = errors.New("console: invalid thing id")
	ErrUnknownDevice      = errors.New("console: unknown device")
	ErrUnsupportedCommand = errors.New("console: unsupported command")
	ErrBadArguments       = errors.New("console: bad arguments")
	ErrHandlerFailed      = errors.New("console: handler failed")
)

var sentinels = map[Code]error{
	CodeInvalidID:          ErrInvalidID,
	CodeUnknownDevice:      ErrUnknownDevice,
	CodeUnsupportedCommand: ErrUnsupportedCommand,
	CodeBadArguments:       ErrBadArguments,
	CodeHandlerFailed:      ErrHandlerFailed,
}

// Error is a dispatch failure carrying enough context for a precise diagnostic.
type Error struct {
	Code    Code
	Reason  Reason
	UID     string // as supplied by the caller
	Command string
	Label   string // binding label used in the wrong-kind message
	Detail  string
	Err     error
}

func (e *Error) Error() string {
	switch e.Code {
	case CodeInvalidID:
		return fmt.Sprintf("Bad thing id '%s'", e.UID)
	case CodeUnknownDevice:
		return fmt.Sprintf("No handler initialized for the thing id '%s'", e.UID)
	case CodeUnsupportedCommand:
		switch e.Reason {
		case ReasonWrongKind:
			return fmt.Sprintf("'%s' is not a %s thing id", e.UID, e.Label)
		case ReasonUnknownCommand:
			return fmt.Sprintf("Unknown command '%s'", e.Command)
		default:
			return fmt.Sprintf("Command '%s' is not supported by thing '%s'", e.Command, e.UID)
		}
	case CodeBadArguments:
		return fmt.Sprintf("Bad arguments for '%s': %s", e.Command, e.Detail)
	case CodeHandlerFailed:
		var b strings.Builder
		fmt.Fprintf(&b, "Command '%s' failed for thing '%s'", e.Command, e.UID)
		if e.Err != nil {
			b.WriteString(": ")
			b.WriteString(e.Err.Error())
		}
		return b.String()
	}
	return "console: " + string(e.Code)
}

// Unwrap returns the handler error, if any.
func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel for e.Code.
func (e *Error) Is(target error) bool {
	return sentinels[e.Code] == target
}
