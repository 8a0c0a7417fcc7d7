// Package openwebnet is the BTicino/Legrand OpenWebNet binding.
//
// Bridge things stand for gateways (BUS or Zigbee). Lighting things send
// WHO=1 frames through their gateway; generic things are placeholders for
// devices the binding discovers but does not drive.
package openwebnet

import (
	"context"
	"fmt"
	"sync"

	"github.com/nerrad567/handlerhub/internal/console"
	"github.com/nerrad567/handlerhub/internal/factory"
	"github.com/nerrad567/handlerhub/internal/thing"
)

// BindingID is the binding part of every openwebnet thing type.
const BindingID = "openwebnet"

// Thing types.
const (
	ThingTypeBusGateway     thing.TypeUID = "openwebnet:bus_gateway"
	ThingTypeZBGateway      thing.TypeUID = "openwebnet:zb_gateway"
	ThingTypeBusGeneric     thing.TypeUID = "openwebnet:bus_generic"
	ThingTypeZBGeneric      thing.TypeUID = "openwebnet:zb_generic"
	ThingTypeBusOnOffSwitch thing.TypeUID = "openwebnet:bus_on_off_switch"
	ThingTypeBusDimmer      thing.TypeUID = "openwebnet:bus_dimmer"
	ThingTypeZBOnOffSwitch  thing.TypeUID = "openwebnet:zb_on_off_switch"
	ThingTypeZBDimmer       thing.TypeUID = "openwebnet:zb_dimmer"
)

// Handler kinds.
const (
	KindBridge   thing.Kind = "openwebnet.bridge"
	KindGeneric  thing.Kind = "openwebnet.generic"
	KindLighting thing.Kind = "openwebnet.lighting"
	KindDimmer   thing.Kind = "openwebnet.dimmer"
)

// SubjectStatus is the only report subject of the binding.
const SubjectStatus = "status"

// Supported thing types per handler.
var (
	BridgeTypes   = []thing.TypeUID{ThingTypeBusGateway, ThingTypeZBGateway}
	GenericTypes  = []thing.TypeUID{ThingTypeBusGeneric, ThingTypeZBGeneric}
	LightingTypes = []thing.TypeUID{ThingTypeBusOnOffSwitch, ThingTypeBusDimmer, ThingTypeZBOnOffSwitch, ThingTypeZBDimmer}
)

// AllSupportedTypes returns every thing type the binding builds.
func AllSupportedTypes() []thing.TypeUID {
	out := make([]thing.TypeUID, 0, len(BridgeTypes)+len(GenericTypes)+len(LightingTypes))
	out = append(out, BridgeTypes...)
	out = append(out, GenericTypes...)
	return append(out, LightingTypes...)
}

// Binding holds state shared by the binding's handlers: the frame sender
// and the online gateways.
type Binding struct {
	sender FrameSender

	mu       sync.Mutex
	gateways map[thing.UID]*gateway
}

// gateway is an online bridge. A replacement bridge takes over the entry,
// so the retired bridge's teardown must not remove it.
type gateway struct {
	owner *BridgeHandler
	sent  int
}

// NewBinding creates a binding that sends frames through sender.
func NewBinding(sender FrameSender) *Binding {
	return &Binding{sender: sender, gateways: make(map[thing.UID]*gateway)}
}

// Register adds the bridge, generic and lighting constructors to f, in that order.
func (b *Binding) Register(f *factory.Factory) {
	f.RegisterTypes(BindingID+".bridge", BridgeTypes, func(p thing.Params) (thing.Handler, error) {
		h, err := newBridgeHandler(b, p)
		if err != nil {
			return nil, err
		}
		return h, nil
	})
	f.RegisterTypes(BindingID+".generic", GenericTypes, func(p thing.Params) (thing.Handler, error) {
		return newGenericHandler(p), nil
	})
	f.RegisterTypes(BindingID+".lighting", LightingTypes, func(p thing.Params) (thing.Handler, error) {
		h, err := newLightingHandler(b, p)
		if err != nil {
			return nil, err
		}
		return h, nil
	})
}

// FramesSent returns the number of frames sent through the gateway since
// its bridge came online.
func (b *Binding) FramesSent(uid thing.UID) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if gw, ok := b.gateways[uid]; ok {
		return gw.sent
	}
	return 0
}

func (b *Binding) gatewayOnline(h *BridgeHandler) {
	b.mu.Lock()
	b.gateways[h.uid] = &gateway{owner: h}
	b.mu.Unlock()
}

func (b *Binding) gatewayOffline(h *BridgeHandler) {
	b.mu.Lock()
	if gw, ok := b.gateways[h.uid]; ok && gw.owner == h {
		delete(b.gateways, h.uid)
	}
	b.mu.Unlock()
}

func (b *Binding) send(ctx context.Context, uid thing.UID, frame string) error {
	b.mu.Lock()
	gw, online := b.gateways[uid]
	b.mu.Unlock()
	if !online {
		return fmt.Errorf("%w: %s", ErrGatewayOffline, uid)
	}

	if err := b.sender.SendFrame(ctx, uid, frame); err != nil {
		return fmt.Errorf("sending frame %s: %w", frame, err)
	}

	b.mu.Lock()
	gw.sent++
	b.mu.Unlock()
	return nil
}

// NewExtension returns the "openwebnet" console extension.
func NewExtension(reg console.Lookuper) *console.Extension {
	return console.New(console.Options{
		Name:        BindingID,
		Description: "Interact with the OpenWebNet binding.",
		Label:       "OpenWebNet",
		Kinds:       []thing.Kind{KindBridge, KindGeneric, KindLighting, KindDimmer},
	}, reg,
		console.Command{
			Name:        SubjectStatus,
			Requires:    thing.Reportable,
			Description: "show the thing status",
			Run:         console.Report(SubjectStatus),
		},
		console.Command{
			Name:        "switch",
			Args:        []console.Arg{{Name: "state", Choices: []string{"on", "off"}}},
			Requires:    thing.Commandable,
			Description: "switch a light on or off",
			Run:         console.Invoke("switch"),
		},
		console.Command{
			Name:        "dim",
			Args:        []console.Arg{{Name: "level", Validate: console.IntRange(0, 100)}},
			Requires:    thing.Dimmable,
			Description: "set a dimmer level (0-100)",
			Run:         console.Invoke("dim"),
		},
	)
}
