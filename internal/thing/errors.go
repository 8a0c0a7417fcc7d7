package thing

import "errors"

// Domain errors for the thing package.
var (
	// ErrInvalidUID is returned when a thing UID is not syntactically well-formed.
	ErrInvalidUID = errors.New("thing: invalid uid")

	// ErrInvalidTypeUID is returned when a thing type UID is not of the form binding:type.
	ErrInvalidTypeUID = errors.New("thing: invalid type uid")

	// ErrUnknownSubject is returned by Reporter implementations for subjects they do not report.
	ErrUnknownSubject = errors.New("thing: unknown report subject")

	// ErrUnknownCommand is returned by Commander implementations for commands they do not accept.
	ErrUnknownCommand = errors.New("thing: unknown command")

	// ErrTornDown is returned when an operation reaches a handler after its teardown.
	ErrTornDown = errors.New("thing: handler torn down")
)
