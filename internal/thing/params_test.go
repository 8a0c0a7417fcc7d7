package thing

import "testing"

func TestParamsGetters(t *testing.T) {
	p := Params{Config: map[string]any{
		"host":     "192.168.1.35",
		"port":     float64(20000),
		"where":    "12",
		"level":    "42",
		"channels": []any{"1 - BBC One", 2},
		"apps":     []string{"netflix"},
	}}

	if got := p.String("host", ""); got != "192.168.1.35" {
		t.Errorf("String(host) = %q", got)
	}
	if got := p.String("missing", "def"); got != "def" {
		t.Errorf("String(missing) = %q", got)
	}
	if got := p.String("port", ""); got != "20000" {
		t.Errorf("String(port) = %q", got)
	}
	if got := p.Int("port", 0); got != 20000 {
		t.Errorf("Int(port) = %d", got)
	}
	if got := p.Int("level", 0); got != 42 {
		t.Errorf("Int(level) = %d", got)
	}
	if got := p.Int("host", 7); got != 7 {
		t.Errorf("Int(host) = %d, want default", got)
	}
	if got := p.Strings("channels"); len(got) != 2 || got[1] != "2" {
		t.Errorf("Strings(channels) = %v", got)
	}
	if got := p.Strings("apps"); len(got) != 1 || got[0] != "netflix" {
		t.Errorf("Strings(apps) = %v", got)
	}
	if got := p.Strings("missing"); got != nil {
		t.Errorf("Strings(missing) = %v", got)
	}
}
