package thing

import (
	"sort"
	"strings"
)

// Capability is a named operation or reporting function a handler variant
// may or may not support.
type Capability string

// Capabilities understood by the console and the MQTT bridge.
const (
	// Reportable handlers list information about the device (channels, status, ...).
	Reportable Capability = "reportable"

	// Commandable handlers accept imperative commands (switch, dim, ...).
	Commandable Capability = "commandable"

	// KeyHolder handlers hold a pairing or access key.
	KeyHolder Capability = "key_holder"

	// Dimmable handlers accept a brightness level.
	Dimmable Capability = "dimmable"
)

// CapabilitySet is an immutable set of capabilities. The zero value is the empty set.
type CapabilitySet struct {
	caps map[Capability]struct{}
}

// NewCapabilitySet builds a set from caps. Duplicates are ignored.
func NewCapabilitySet(caps ...Capability) CapabilitySet {
	m := make(map[Capability]struct{}, len(caps))
	for _, c := range caps {
		m[c] = struct{}{}
	}
	return CapabilitySet{caps: m}
}

// Has reports whether c is in the set.
func (s CapabilitySet) Has(c Capability) bool {
	_, ok := s.caps[c]
	return ok
}

// Len returns the number of capabilities in the set.
func (s CapabilitySet) Len() int { return len(s.caps) }

// List returns the capabilities sorted by name.
func (s CapabilitySet) List() []Capability {
	out := make([]Capability, 0, len(s.caps))
	for c := range s.caps {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Strings returns the sorted capability names, handy for JSON and logs.
func (s CapabilitySet) Strings() []string {
	list := s.List()
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = string(c)
	}
	return out
}

func (s CapabilitySet) String() string {
	return "{" + strings.Join(s.Strings(), ",") + "}"
}
