package openwebnet

import (
	"context"
	"fmt"
	"regexp"

	"github.com/nerrad567/handlerhub/internal/thing"
)

// WHO 1 is lighting.
const whoLighting = 1

// Lighting WHAT values.
const (
	WhatOff = 0
	WhatOn  = 1
	// dim levels use WHAT 2 (20%) through 10 (100%)
	whatDimMin = 2
	whatDimMax = 10
)

// FrameSender delivers frames to a gateway.
type FrameSender interface {
	SendFrame(ctx context.Context, gateway thing.UID, frame string) error
}

// LightingFrame encodes a lighting command frame, e.g. "*1*1*21##".
func LightingFrame(what int, where string) string {
	return fmt.Sprintf("*%d*%d*%s##", whoLighting, what, where)
}

// DimWhat converts a level in percent to a lighting WHAT value.
// 0 switches off; any other level maps to ceil(level/10) clamped to 2..10.
func DimWhat(level int) (int, error) {
	if level < 0 || level > 100 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidLevel, level)
	}
	if level == 0 {
		return WhatOff, nil
	}
	what := (level + 9) / 10
	return min(max(what, whatDimMin), whatDimMax), nil
}

// whereRe matches a WHERE address: digits, with '#' separating Zigbee
// unit suffixes ("21", "765432101#9").
var whereRe = regexp.MustCompile(`^[0-9]+(#[0-9]+)*$`)

func validWhere(where string) bool {
	return whereRe.MatchString(where)
}
