package componente

import (
	"context"
)

var actorCtxKey = &contextKey{"actor"}

type contextKey struct {
	name string
}

// WithActor stores the authenticated actor identity in the context. The
// authentication middleware calls this after validating a token so the
// auditing collaborator can stamp created/modified-by fields.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorCtxKey, actor)
}

// ActorFromContext returns the authenticated actor identity, if any.
func ActorFromContext(ctx context.Context) (string, bool) {
	actor, ok := ctx.Value(actorCtxKey).(string)
	return actor, ok && actor != ""
}

// ContextAuditor resolves the current actor from the request context,
// falling back to the SISTEMA sentinel when no authenticated actor is
// present.
func ContextAuditor() Auditor {
	return AuditorFunc(func(ctx context.Context) string {
		if actor, ok := ActorFromContext(ctx); ok {
			return actor
		}
		return ActorSistema
	})
}
