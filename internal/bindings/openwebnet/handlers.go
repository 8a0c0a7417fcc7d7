package openwebnet

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/nerrad567/handlerhub/internal/thing"
)

var (
	bridgeCapabilities   = thing.NewCapabilitySet(thing.Reportable)
	genericCapabilities  = thing.NewCapabilitySet(thing.Reportable)
	lightingCapabilities = thing.NewCapabilitySet(thing.Reportable, thing.Commandable)
	dimmerCapabilities   = thing.NewCapabilitySet(thing.Reportable, thing.Commandable, thing.Dimmable)
)

// BridgeHandler handles a gateway. While registered, lighting things
// naming it as their bridge can send frames.
type BridgeHandler struct {
	binding *Binding
	uid     thing.UID
	typ     thing.TypeUID
	host    string
	port    int

	once sync.Once
}

func newBridgeHandler(b *Binding, p thing.Params) (*BridgeHandler, error) {
	h := &BridgeHandler{
		binding: b,
		uid:     p.UID,
		typ:     p.Type,
		host:    p.String("host", ""),
		port:    p.Int("port", 20000),
	}
	if p.Type == ThingTypeBusGateway && h.host == "" {
		return nil, fmt.Errorf("bus gateway %s: host is required", p.UID)
	}
	b.gatewayOnline(h)
	return h, nil
}

func (h *BridgeHandler) UID() thing.UID                    { return h.uid }
func (h *BridgeHandler) Kind() thing.Kind                  { return KindBridge }
func (h *BridgeHandler) Capabilities() thing.CapabilitySet { return bridgeCapabilities }

// Report returns the gateway status lines.
func (h *BridgeHandler) Report(_ context.Context, subject string) ([]string, error) {
	if subject != SubjectStatus {
		return nil, fmt.Errorf("%w: %s", thing.ErrUnknownSubject, subject)
	}
	lines := []string{"type: " + h.typ.ID()}
	if h.host != "" {
		lines = append(lines, "host: "+h.host, "port: "+strconv.Itoa(h.port))
	}
	return append(lines, "frames sent: "+strconv.Itoa(h.binding.FramesSent(h.uid))), nil
}

// Teardown takes the gateway offline.
func (h *BridgeHandler) Teardown() error {
	h.once.Do(func() { h.binding.gatewayOffline(h) })
	return nil
}

// GenericHandler handles a device the binding does not drive.
type GenericHandler struct {
	uid   thing.UID
	typ   thing.TypeUID
	where string
}

func newGenericHandler(p thing.Params) *GenericHandler {
	return &GenericHandler{uid: p.UID, typ: p.Type, where: p.String("where", "")}
}

func (h *GenericHandler) UID() thing.UID                    { return h.uid }
func (h *GenericHandler) Kind() thing.Kind                  { return KindGeneric }
func (h *GenericHandler) Capabilities() thing.CapabilitySet { return genericCapabilities }
func (h *GenericHandler) Teardown() error                   { return nil }

// Report returns the device type and address.
func (h *GenericHandler) Report(_ context.Context, subject string) ([]string, error) {
	if subject != SubjectStatus {
		return nil, fmt.Errorf("%w: %s", thing.ErrUnknownSubject, subject)
	}
	return []string{"type: " + h.typ.ID(), "where: " + h.where}, nil
}

// LightingHandler handles a switch or a dimmer. Only dimmers are Dimmable.
type LightingHandler struct {
	binding *Binding
	uid     thing.UID
	typ     thing.TypeUID
	bridge  thing.UID
	where   string
	dimmer  bool

	mu     sync.Mutex
	on     bool
	level  int
	closed bool
}

func newLightingHandler(b *Binding, p thing.Params) (*LightingHandler, error) {
	if p.BridgeUID == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoBridge, p.UID)
	}
	where := p.String("where", "")
	if !validWhere(where) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidWhere, where)
	}
	return &LightingHandler{
		binding: b,
		uid:     p.UID,
		typ:     p.Type,
		bridge:  p.BridgeUID,
		where:   where,
		dimmer:  p.Type == ThingTypeBusDimmer || p.Type == ThingTypeZBDimmer,
	}, nil
}

func (h *LightingHandler) UID() thing.UID                    { return h.uid }
// Kind is KindDimmer for dimmer types and KindLighting for on/off switches.
func (h *LightingHandler) Kind() thing.Kind {
	if h.dimmer {
		return KindDimmer
	}
	return KindLighting
}

func (h *LightingHandler) Capabilities() thing.CapabilitySet {
	if h.dimmer {
		return dimmerCapabilities
	}
	return lightingCapabilities
}

// Dimmer reports whether the device accepts dim levels.
func (h *LightingHandler) Dimmer() bool { return h.dimmer }

// Command runs "switch on|off" or "dim <0-100>".
func (h *LightingHandler) Command(ctx context.Context, name string, args []string) ([]string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrClosed
	}

	switch name {
	case "switch":
		if len(args) != 1 || !slices.Contains([]string{"on", "off"}, args[0]) {
			return nil, fmt.Errorf("switch expects on or off, got %v", args)
		}
		what := WhatOff
		if args[0] == "on" {
			what = WhatOn
		}
		if err := h.binding.send(ctx, h.bridge, LightingFrame(what, h.where)); err != nil {
			return nil, err
		}
		h.on = what == WhatOn
		return []string{fmt.Sprintf("%s switched %s", h.uid, args[0])}, nil

	case "dim":
		if !h.dimmer {
			return nil, fmt.Errorf("%w: %s", ErrNotDimmer, h.uid)
		}
		if len(args) != 1 {
			return nil, fmt.Errorf("dim expects one level, got %v", args)
		}
		level, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidLevel, args[0])
		}
		what, err := DimWhat(level)
		if err != nil {
			return nil, err
		}
		if err := h.binding.send(ctx, h.bridge, LightingFrame(what, h.where)); err != nil {
			return nil, err
		}
		h.on = what != WhatOff
		if h.on {
			h.level = level
		}
		return []string{fmt.Sprintf("%s dimmed to %d%%", h.uid, level)}, nil
	}
	return nil, fmt.Errorf("%w: %s", thing.ErrUnknownCommand, name)
}

// Report returns the last commanded state.
func (h *LightingHandler) Report(_ context.Context, subject string) ([]string, error) {
	if subject != SubjectStatus {
		return nil, fmt.Errorf("%w: %s", thing.ErrUnknownSubject, subject)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrClosed
	}

	state := "OFF"
	if h.on {
		state = "ON"
	}
	lines := []string{"type: " + h.typ.ID(), "where: " + h.where, "bridge: " + h.bridge.String(), "state: " + state}
	if h.dimmer {
		lines = append(lines, fmt.Sprintf("level: %d%%", h.level))
	}
	return lines, nil
}

// Teardown stops the handler from sending further frames.
func (h *LightingHandler) Teardown() error {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
	return nil
}
