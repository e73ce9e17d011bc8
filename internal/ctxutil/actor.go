// Package ctxutil carries request-scoped values (who is editing) through the
// pipeline. It has no internal dependencies so any package may import it.
package ctxutil

import (
	"context"
	"os"
)

// ActorKey is the context key for the actor ID.
type ActorKey struct{}

// WithActorID returns a context carrying the editor's identity.
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, ActorKey{}, actorID)
}

// ActorFromContext returns the actor ID from context, or empty string if not set.
func ActorFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ActorKey{}).(string); ok {
		return v
	}
	return ""
}

// ResolveActor returns configured if set, otherwise the login name from the environment.
func ResolveActor(configured string) string {
	if configured != "" {
		return configured
	}
	for _, env := range []string{"USER", "USERNAME"} {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}
	return ""
}
