package thing

import "context"

// Kind tags a handler variant ("lgwebos.tv", "openwebnet.lighting").
// Every handler of a given Kind has the same CapabilitySet.
type Kind string

// Handler is the object responsible for all interaction with one device.
//
// Handlers are owned by the registry once constructed. Teardown is invoked
// exactly once, after the handler has been removed or replaced and no
// in-flight caller still references it.
type Handler interface {
	UID() UID
	Kind() Kind
	Capabilities() CapabilitySet
	Teardown() error
}

// Reporter is implemented by handlers with the Reportable capability.
// Report returns zero or more human-readable lines for subject.
type Reporter interface {
	Report(ctx context.Context, subject string) ([]string, error)
}

// Commander is implemented by handlers with the Commandable capability.
type Commander interface {
	Command(ctx context.Context, name string, args []string) ([]string, error)
}

// Keyed is implemented by handlers with the KeyHolder capability.
type Keyed interface {
	Key() string
}
