package thing

import (
	"fmt"
	"regexp"
	"strings"
)

// separator splits UID and TypeUID segments.
const separator = ":"

// UID identifies one device instance. It is immutable once assigned and
// independent of the device's protocol.
type UID string

// ParseUID validates raw and returns it as a UID.
//
// A UID is one or more ':'-separated segments, each non-empty and made of
// ASCII letters, digits, '_' or '-'.
func ParseUID(raw string) (UID, error) {
	if raw == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidUID)
	}
	for _, seg := range strings.Split(raw, separator) {
		if !validSegment(seg) {
			return "", fmt.Errorf("%w: %q", ErrInvalidUID, raw)
		}
	}
	return UID(raw), nil
}

// MustParseUID is like ParseUID but panics on error. Intended for tests and constants.
func MustParseUID(raw string) UID {
	uid, err := ParseUID(raw)
	if err != nil {
		panic(err)
	}
	return uid
}

func (u UID) String() string { return string(u) }

// Segments returns the ':'-separated parts of the UID.
func (u UID) Segments() []string {
	return strings.Split(string(u), separator)
}

// TypeUID describes the protocol family and model of a thing, e.g.
// "openwebnet:bus_dimmer". It is consulted only at construction time.
type TypeUID string

// ParseTypeUID validates raw as binding:type.
func ParseTypeUID(raw string) (TypeUID, error) {
	parts := strings.Split(raw, separator)
	if len(parts) != 2 || !validSegment(parts[0]) || !validSegment(parts[1]) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTypeUID, raw)
	}
	return TypeUID(raw), nil
}

// NewTypeUID joins a binding id and a type id.
func NewTypeUID(binding, id string) TypeUID {
	return TypeUID(binding + separator + id)
}

// Binding returns the binding part of the type ("openwebnet").
func (t TypeUID) Binding() string {
	binding, _, _ := strings.Cut(string(t), separator)
	return binding
}

// ID returns the type part ("bus_dimmer").
func (t TypeUID) ID() string {
	_, id, _ := strings.Cut(string(t), separator)
	return id
}

func (t TypeUID) String() string { return string(t) }

// segmentPattern matches one UID or TypeUID segment.
var segmentPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func validSegment(s string) bool {
	return segmentPattern.MatchString(s)
}
