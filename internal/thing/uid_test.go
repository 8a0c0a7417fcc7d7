package thing

import (
	"errors"
	"testing"
)

func TestParseUID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "single segment", input: "dev1"},
		{name: "three segments", input: "lgwebos:WebOSTV:living"},
		{name: "dashes and underscores", input: "openwebnet:bus_dimmer:gw-1_12"},
		{name: "empty", input: "", wantErr: true},
		{name: "space and bang", input: "bad id!", wantErr: true},
		{name: "empty segment", input: "lgwebos::tv", wantErr: true},
		{name: "trailing separator", input: "lgwebos:", wantErr: true},
		{name: "dot", input: "a.b", wantErr: true},
		{name: "non-ascii letter", input: "lgwebos:tv-ñ", wantErr: true},
		{name: "trailing newline", input: "dev1\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uid, err := ParseUID(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidUID) {
					t.Fatalf("ParseUID(%q) error = %v, want ErrInvalidUID", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseUID(%q) unexpected error: %v", tt.input, err)
			}
			if uid.String() != tt.input {
				t.Errorf("ParseUID(%q) = %q", tt.input, uid)
			}
		})
	}
}

func TestUIDSegments(t *testing.T) {
	segs := MustParseUID("lgwebos:WebOSTV:living").Segments()
	if len(segs) != 3 || segs[2] != "living" {
		t.Errorf("Segments() = %v", segs)
	}
}

func TestParseTypeUID(t *testing.T) {
	typ, err := ParseTypeUID("openwebnet:bus_dimmer")
	if err != nil {
		t.Fatalf("ParseTypeUID: %v", err)
	}
	if typ.Binding() != "openwebnet" || typ.ID() != "bus_dimmer" {
		t.Errorf("Binding/ID = %q/%q", typ.Binding(), typ.ID())
	}
	if typ != NewTypeUID("openwebnet", "bus_dimmer") {
		t.Errorf("NewTypeUID mismatch: %q", typ)
	}

	for _, bad := range []string{"", "openwebnet", "a:b:c", "a :b"} {
		if _, err := ParseTypeUID(bad); !errors.Is(err, ErrInvalidTypeUID) {
			t.Errorf("ParseTypeUID(%q) error = %v, want ErrInvalidTypeUID", bad, err)
		}
	}
}
