package document

import (
	"context"
	"time"
)

// Clock supplies timestamps to the stores.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

type actorKey struct{}

// WithActor attaches the name of the acting user to ctx.
func WithActor(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, actorKey{}, name)
}

// ActorFrom returns the acting user stored in ctx, or fallback when none is set.
func ActorFrom(ctx context.Context, fallback string) string {
	if v, ok := ctx.Value(actorKey{}).(string); ok && v != "" {
		return v
	}
	return fallback
}
