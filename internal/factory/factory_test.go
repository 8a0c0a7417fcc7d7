package factory

import (
	"errors"
	"testing"

	"github.com/nerrad567/handlerhub/internal/thing"
	"github.com/nerrad567/handlerhub/internal/thing/thingtest"
)

const (
	typeGateway thing.TypeUID = "openwebnet:bus_gateway"
	typeDimmer  thing.TypeUID = "openwebnet:bus_dimmer"
	typeTV      thing.TypeUID = "lgwebos:WebOSTV"
)

func constructKind(kind thing.Kind) Constructor {
	return func(p thing.Params) (thing.Handler, error) {
		h := thingtest.New(string(p.UID), thing.Reportable)
		h.K = kind
		return h, nil
	}
}

func TestCreate_FirstMatchWins(t *testing.T) {
	f := New()
	// both entries match typeDimmer; registration order decides
	f.RegisterTypes("first", []thing.TypeUID{typeGateway, typeDimmer}, constructKind("first"))
	f.RegisterTypes("second", []thing.TypeUID{typeDimmer}, constructKind("second"))

	h, err := f.Create(thing.Params{UID: "dimmer1", Type: typeDimmer})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if h.Kind() != "first" {
		t.Errorf("Kind() = %q, want first", h.Kind())
	}

	g := New()
	g.RegisterTypes("second", []thing.TypeUID{typeDimmer}, constructKind("second"))
	g.RegisterTypes("first", []thing.TypeUID{typeGateway, typeDimmer}, constructKind("first"))

	h, err = g.Create(thing.Params{UID: "dimmer1", Type: typeDimmer})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if h.Kind() != "second" {
		t.Errorf("Kind() = %q, want second after reordering", h.Kind())
	}
}

func TestCreate_Unsupported(t *testing.T) {
	f := New()
	f.RegisterTypes("gateway", []thing.TypeUID{typeGateway}, constructKind("gw"))

	h, err := f.Create(thing.Params{UID: "tv1", Type: typeTV})
	if h != nil {
		t.Errorf("expected nil handler, got %v", h)
	}
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("error = %v, want ErrUnsupportedType", err)
	}
	var uerr *UnsupportedTypeError
	if !errors.As(err, &uerr) || uerr.Type != typeTV || uerr.UID != "tv1" {
		t.Errorf("UnsupportedTypeError = %+v", uerr)
	}
}

func TestCreate_ConstructorError(t *testing.T) {
	f := New()
	boom := errors.New("missing host")
	f.RegisterTypes("gateway", []thing.TypeUID{typeGateway}, func(thing.Params) (thing.Handler, error) {
		return nil, boom
	})

	_, err := f.Create(thing.Params{UID: "gw1", Type: typeGateway})
	if !errors.Is(err, ErrConstructFailed) || !errors.Is(err, boom) {
		t.Errorf("error = %v, want ErrConstructFailed wrapping cause", err)
	}
}

func TestCreate_UIDMismatchTearsDown(t *testing.T) {
	f := New()
	built := thingtest.New("other", thing.Reportable)
	f.RegisterTypes("gateway", []thing.TypeUID{typeGateway}, func(thing.Params) (thing.Handler, error) {
		return built, nil
	})

	_, err := f.Create(thing.Params{UID: "gw1", Type: typeGateway})
	if !errors.Is(err, ErrConstructFailed) {
		t.Fatalf("error = %v, want ErrConstructFailed", err)
	}
	if built.Teardowns() != 1 {
		t.Errorf("teardowns = %d, want 1", built.Teardowns())
	}
}

func TestSupportsAndNames(t *testing.T) {
	f := New()
	f.RegisterTypes("bridge", []thing.TypeUID{typeGateway}, constructKind("b"))
	f.Register("tv", func(t thing.TypeUID) bool { return t.Binding() == "lgwebos" }, constructKind("tv"))

	if !f.Supports(typeGateway) || !f.Supports(typeTV) {
		t.Error("expected gateway and tv supported")
	}
	if f.Supports(typeDimmer) {
		t.Error("dimmer should not be supported")
	}
	names := f.Names()
	if len(names) != 2 || names[0] != "bridge" || names[1] != "tv" {
		t.Errorf("Names() = %v", names)
	}
}
