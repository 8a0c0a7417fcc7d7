package openwebnet

import "errors"

var (
	// ErrInvalidWhere is returned for a missing or malformed WHERE address.
	ErrInvalidWhere = errors.New("openwebnet: invalid where address")

	// ErrInvalidLevel is returned for a dim level outside 0..100.
	ErrInvalidLevel = errors.New("openwebnet: invalid dim level")

	// ErrNotDimmer is returned when dimming an on/off switch.
	ErrNotDimmer = errors.New("openwebnet: thing is not a dimmer")

	// ErrNoBridge is returned when a device is declared without a bridge.
	ErrNoBridge = errors.New("openwebnet: bridge required")

	// ErrGatewayOffline is returned when the device's gateway is not registered.
	ErrGatewayOffline = errors.New("openwebnet: gateway offline")

	// ErrClosed is returned by a handler after Teardown.
	ErrClosed = errors.New("openwebnet: handler torn down")
)
