package thing

import (
	"fmt"
	"strconv"
)

// Params carries everything a handler constructor needs.
type Params struct {
	UID       UID            `json:"uid" yaml:"uid"`
	Type      TypeUID        `json:"type" yaml:"type"`
	Label     string         `json:"label,omitempty" yaml:"label"`
	BridgeUID UID            `json:"bridge,omitempty" yaml:"bridge"`
	Config    map[string]any `json:"config,omitempty" yaml:"config"`
}

// String returns the config value for key as a string, or def when absent.
func (p Params) String(key, def string) string {
	v, ok := p.Config[key]
	if !ok || v == nil {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Int returns the config value for key as an int, or def when absent or not numeric.
// JSON numbers (float64) and YAML ints are both accepted.
func (p Params) Int(key string, def int) int {
	switch v := p.Config[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// Strings returns the config value for key as a string slice.
// Non-string elements are formatted with fmt.Sprint.
func (p Params) Strings(key string) []string {
	switch v := p.Config[key].(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			out = append(out, fmt.Sprint(e))
		}
		return out
	}
	return nil
}
