package thing

import "context"

// Origins of a request, recorded in the audit trail.
const (
	OriginAPI    = "api"
	OriginMQTT   = "mqtt"
	OriginConfig = "config"
)

type originKey struct{}

// WithOrigin tags ctx with the surface a request arrived on.
func WithOrigin(ctx context.Context, origin string) context.Context {
	return context.WithValue(ctx, originKey{}, origin)
}

// OriginFrom returns the origin set by WithOrigin, or "" when none was set.
func OriginFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	origin, _ := ctx.Value(originKey{}).(string)
	return origin
}

type actorKey struct{}

// WithActor tags ctx with the authenticated user behind a request.
func WithActor(ctx context.Context, user string) context.Context {
	return context.WithValue(ctx, actorKey{}, user)
}

// ActorFrom returns the user set by WithActor, or "" for anonymous requests.
func ActorFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	user, _ := ctx.Value(actorKey{}).(string)
	return user
}
