package thing

import (
	"context"
	"testing"
)

func TestOrigin(t *testing.T) {
	ctx := context.Background()
	if got := OriginFrom(ctx); got != "" {
		t.Errorf("OriginFrom(background) = %q, want empty", got)
	}

	ctx = WithOrigin(ctx, OriginMQTT)
	if got := OriginFrom(ctx); got != OriginMQTT {
		t.Errorf("OriginFrom() = %q, want %q", got, OriginMQTT)
	}
	if got := OriginFrom(WithOrigin(ctx, OriginAPI)); got != OriginAPI {
		t.Errorf("inner origin = %q, want %q", got, OriginAPI)
	}
}

func TestActor(t *testing.T) {
	ctx := WithOrigin(context.Background(), OriginAPI)
	if got := ActorFrom(ctx); got != "" {
		t.Errorf("ActorFrom() = %q, want empty", got)
	}

	ctx = WithActor(ctx, "installer")
	if got := ActorFrom(ctx); got != "installer" {
		t.Errorf("ActorFrom() = %q, want installer", got)
	}
	if got := OriginFrom(ctx); got != OriginAPI {
		t.Errorf("origin lost: %q", got)
	}
}
