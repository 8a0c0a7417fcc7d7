package openwebnet

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/nerrad567/handlerhub/internal/console"
	"github.com/nerrad567/handlerhub/internal/factory"
	"github.com/nerrad567/handlerhub/internal/registry"
	"github.com/nerrad567/handlerhub/internal/thing"
)

type sentFrame struct {
	gateway thing.UID
	frame   string
}

type recordingSender struct {
	mu     sync.Mutex
	frames []sentFrame
	err    error
}

func (s *recordingSender) SendFrame(_ context.Context, gateway thing.UID, frame string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.frames = append(s.frames, sentFrame{gateway, frame})
	return nil
}

const gatewayUID thing.UID = "openwebnet:bus_gateway:mh202"

func setup(t *testing.T) (*Binding, *factory.Factory, *recordingSender) {
	t.Helper()
	sender := &recordingSender{}
	b := NewBinding(sender)
	f := factory.New()
	b.Register(f)
	return b, f, sender
}

func mustCreate(t *testing.T, f *factory.Factory, p thing.Params) thing.Handler {
	t.Helper()
	h, err := f.Create(p)
	if err != nil {
		t.Fatalf("Create(%s): %v", p.Type, err)
	}
	return h
}

func gatewayParams() thing.Params {
	return thing.Params{UID: gatewayUID, Type: ThingTypeBusGateway, Config: map[string]any{"host": "192.168.1.35", "port": 20000}}
}

func lightParams(uid thing.UID, typ thing.TypeUID, where string) thing.Params {
	return thing.Params{UID: uid, Type: typ, BridgeUID: gatewayUID, Config: map[string]any{"where": where}}
}

func TestRegister_KindsPerType(t *testing.T) {
	_, f, _ := setup(t)
	mustCreate(t, f, gatewayParams())

	tests := []struct {
		params   thing.Params
		wantKind thing.Kind
		wantCmd  bool
		wantDim  bool
	}{
		{thing.Params{UID: "zb", Type: ThingTypeZBGateway}, KindBridge, false, false},
		{thing.Params{UID: "g1", Type: ThingTypeBusGeneric}, KindGeneric, false, false},
		{thing.Params{UID: "g2", Type: ThingTypeZBGeneric}, KindGeneric, false, false},
		{lightParams("l1", ThingTypeBusOnOffSwitch, "21"), KindLighting, true, false},
		{lightParams("l2", ThingTypeBusDimmer, "22"), KindDimmer, true, true},
		{lightParams("l3", ThingTypeZBOnOffSwitch, "765432101#9"), KindLighting, true, false},
		{lightParams("l4", ThingTypeZBDimmer, "765432102#9"), KindDimmer, true, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.params.Type), func(t *testing.T) {
			h := mustCreate(t, f, tt.params)
			if h.Kind() != tt.wantKind {
				t.Errorf("Kind() = %s, want %s", h.Kind(), tt.wantKind)
			}
			caps := h.Capabilities()
			if caps.Has(thing.Commandable) != tt.wantCmd {
				t.Errorf("Commandable = %v, want %v", !tt.wantCmd, tt.wantCmd)
			}
			if caps.Has(thing.Dimmable) != tt.wantDim {
				t.Errorf("Dimmable = %v, want %v", !tt.wantDim, tt.wantDim)
			}
			if !caps.Has(thing.Reportable) {
				t.Error("not Reportable")
			}
		})
	}

	if got := len(AllSupportedTypes()); got != 8 {
		t.Errorf("AllSupportedTypes() has %d types, want 8", got)
	}
	if names := f.Names(); strings.Join(names, ",") != "openwebnet.bridge,openwebnet.generic,openwebnet.lighting" {
		t.Errorf("entry order = %v", names)
	}
}

func TestRegister_ConstructionErrors(t *testing.T) {
	_, f, _ := setup(t)

	tests := []struct {
		name    string
		params  thing.Params
		wantErr error
	}{
		{name: "bus gateway without host", params: thing.Params{UID: "gw", Type: ThingTypeBusGateway}},
		{name: "light without bridge", params: thing.Params{UID: "l", Type: ThingTypeBusDimmer, Config: map[string]any{"where": "21"}}, wantErr: ErrNoBridge},
		{name: "light with bad where", params: lightParams("l", ThingTypeBusDimmer, "A1"), wantErr: ErrInvalidWhere},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Create(tt.params)
			if !errors.Is(err, factory.ErrConstructFailed) {
				t.Fatalf("error = %v, want ErrConstructFailed", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLighting_SendsFrames(t *testing.T) {
	b, f, sender := setup(t)
	mustCreate(t, f, gatewayParams())
	dimmer := mustCreate(t, f, lightParams("kitchen", ThingTypeBusDimmer, "22")).(*LightingHandler)
	ctx := context.Background()

	if _, err := dimmer.Command(ctx, "switch", []string{"on"}); err != nil {
		t.Fatal(err)
	}
	if _, err := dimmer.Command(ctx, "dim", []string{"55"}); err != nil {
		t.Fatal(err)
	}
	if _, err := dimmer.Command(ctx, "switch", []string{"off"}); err != nil {
		t.Fatal(err)
	}

	want := []string{"*1*1*22##", "*1*6*22##", "*1*0*22##"}
	if len(sender.frames) != len(want) {
		t.Fatalf("frames = %v", sender.frames)
	}
	for i, fr := range sender.frames {
		if fr.frame != want[i] || fr.gateway != gatewayUID {
			t.Errorf("frame %d = %+v, want %s via %s", i, fr, want[i], gatewayUID)
		}
	}
	if b.FramesSent(gatewayUID) != 3 {
		t.Errorf("FramesSent = %d", b.FramesSent(gatewayUID))
	}

	lines, _ := dimmer.Report(ctx, SubjectStatus)
	if !strings.Contains(strings.Join(lines, "\n"), "state: OFF") || !strings.Contains(strings.Join(lines, "\n"), "level: 55%") {
		t.Errorf("status = %v", lines)
	}
}

func TestLighting_CommandErrors(t *testing.T) {
	_, f, sender := setup(t)
	mustCreate(t, f, gatewayParams())
	sw := mustCreate(t, f, lightParams("hall", ThingTypeBusOnOffSwitch, "21")).(*LightingHandler)
	dimmer := mustCreate(t, f, lightParams("kitchen", ThingTypeBusDimmer, "22")).(*LightingHandler)
	ctx := context.Background()

	if _, err := sw.Command(ctx, "dim", []string{"50"}); !errors.Is(err, ErrNotDimmer) {
		t.Errorf("dim on switch = %v", err)
	}
	if _, err := dimmer.Command(ctx, "dim", []string{"150"}); !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("dim 150 = %v", err)
	}
	if _, err := dimmer.Command(ctx, "dim", []string{"bright"}); !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("dim bright = %v", err)
	}
	if _, err := sw.Command(ctx, "toggle", nil); !errors.Is(err, thing.ErrUnknownCommand) {
		t.Errorf("toggle = %v", err)
	}
	if len(sender.frames) != 0 {
		t.Errorf("frames sent on error paths: %v", sender.frames)
	}

	_ = sw.Teardown()
	if _, err := sw.Command(ctx, "switch", []string{"on"}); !errors.Is(err, ErrClosed) {
		t.Errorf("command after teardown = %v", err)
	}
	if _, err := sw.Report(ctx, SubjectStatus); !errors.Is(err, ErrClosed) {
		t.Errorf("report after teardown = %v", err)
	}
}

func TestGatewayLifecycle(t *testing.T) {
	_, f, _ := setup(t)
	gw := mustCreate(t, f, gatewayParams())
	light := mustCreate(t, f, lightParams("hall", ThingTypeBusOnOffSwitch, "21")).(*LightingHandler)
	ctx := context.Background()

	// A replacement bridge keeps the gateway online after the old one is torn down.
	replacement := mustCreate(t, f, gatewayParams())
	_ = gw.Teardown()
	if _, err := light.Command(ctx, "switch", []string{"on"}); err != nil {
		t.Fatalf("after replacement: %v", err)
	}

	_ = replacement.Teardown()
	if _, err := light.Command(ctx, "switch", []string{"on"}); !errors.Is(err, ErrGatewayOffline) {
		t.Errorf("after removal = %v, want ErrGatewayOffline", err)
	}
}

func TestExtension_Dispatch(t *testing.T) {
	_, f, sender := setup(t)
	reg := registry.New()
	ext := NewExtension(reg)
	for _, p := range []thing.Params{
		gatewayParams(),
		lightParams("openwebnet:bus_on_off_switch:hall", ThingTypeBusOnOffSwitch, "21"),
		lightParams("openwebnet:bus_dimmer:kitchen", ThingTypeBusDimmer, "22"),
		{UID: "openwebnet:bus_generic:x", Type: ThingTypeBusGeneric, Config: map[string]any{"where": "99"}},
	} {
		if err := reg.Register(mustCreate(t, f, p)); err != nil {
			t.Fatal(err)
		}
	}
	ctx := context.Background()

	res, err := ext.Dispatch(ctx, "openwebnet:bus_on_off_switch:hall", "switch", []string{"on"})
	if err != nil {
		t.Fatalf("switch: %v", err)
	}
	if len(res.Lines) != 1 || len(sender.frames) != 1 {
		t.Errorf("lines = %v, frames = %v", res.Lines, sender.frames)
	}

	_, err = ext.Dispatch(ctx, "openwebnet:bus_generic:x", "switch", []string{"on"})
	var derr *console.Error
	if !errors.As(err, &derr) || derr.Reason != console.ReasonMissingCapability {
		t.Errorf("switch on generic = %v", err)
	}

	_, err = ext.Dispatch(ctx, "openwebnet:bus_on_off_switch:hall", "switch", []string{"dim"})
	if !errors.Is(err, console.ErrBadArguments) {
		t.Errorf("bad switch arg = %v", err)
	}

	_, err = ext.Dispatch(ctx, "openwebnet:bus_on_off_switch:hall", "dim", []string{"40"})
	if !errors.As(err, &derr) || derr.Code != console.CodeUnsupportedCommand || derr.Reason != console.ReasonMissingCapability {
		t.Errorf("dim on switch = %v, want missing capability", err)
	}

	for _, level := range []string{"abc", "150", "-5", "4.5"} {
		_, err = ext.Dispatch(ctx, "openwebnet:bus_dimmer:kitchen", "dim", []string{level})
		if !errors.As(err, &derr) || derr.Code != console.CodeBadArguments {
			t.Errorf("dim %s = %v, want bad arguments", level, err)
		}
	}
	if len(sender.frames) != 1 {
		t.Fatalf("frames after rejected commands = %v", sender.frames)
	}

	res, err = ext.Dispatch(ctx, "openwebnet:bus_dimmer:kitchen", "dim", []string{"40"})
	if err != nil {
		t.Fatalf("dim 40: %v", err)
	}
	if len(res.Lines) != 1 || sender.frames[1].frame != "*1*4*22##" {
		t.Errorf("lines = %v, frames = %v", res.Lines, sender.frames)
	}

	res, err = ext.Dispatch(ctx, string(gatewayUID), "status", nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(res.Lines, "|"); got != "type: bus_gateway|host: 192.168.1.35|port: 20000|frames sent: 2" {
		t.Errorf("gateway status = %q", got)
	}
}
