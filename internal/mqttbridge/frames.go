package mqttbridge

import (
	"context"
	"fmt"

	"github.com/nerrad567/handlerhub/internal/infrastructure/mqtt"
	"github.com/nerrad567/handlerhub/internal/thing"
)

// FrameSender publishes OpenWebNet frames on handlerhub/openwebnet/{gateway}/tx
// for a gateway adapter to forward. A nil client makes every send fail with
// ErrNoTransport.
type FrameSender struct {
	client MQTTClient
	topics mqtt.Topics
}

// NewFrameSender creates a frame sender over client, which may be nil.
func NewFrameSender(client MQTTClient) *FrameSender {
	return &FrameSender{client: client}
}

// SendFrame publishes frame for gateway.
func (s *FrameSender) SendFrame(ctx context.Context, gateway thing.UID, frame string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.client == nil || !s.client.IsConnected() {
		return ErrNoTransport
	}
	if err := s.client.Publish(s.topics.GatewayTX(string(gateway)), []byte(frame), qos, false); err != nil {
		return fmt.Errorf("publishing frame: %w", err)
	}
	return nil
}
