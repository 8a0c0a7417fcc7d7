package mqttbridge

import "errors"

var (
	// ErrInvalidPayload is returned when an MQTT message cannot be decoded.
	ErrInvalidPayload = errors.New("mqttbridge: invalid payload")

	// ErrNoTransport is returned when a frame is sent while MQTT is unavailable.
	ErrNoTransport = errors.New("mqttbridge: mqtt not connected")

	// ErrNotTV is returned for a state update addressed to a handler that is
	// not a webOS TV.
	ErrNotTV = errors.New("mqttbridge: thing is not a webOS TV")
)
