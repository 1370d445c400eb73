package componente

import (
	"context"

	"github.com/goliatone/go-router"
	"github.com/osvalois-ultrasist/vucem-componente/middleware/jwtware"
)

// ActorContextEnricher propagates the authenticated username into the
// standard context so the auditing collaborator can stamp the real actor.
func ActorContextEnricher() func(ctx context.Context, username string) context.Context {
	return WithActor
}

// ProtectedRoute builds the standard authentication filter for this
// component: bearer token lookup, validation through the token service, and
// actor propagation. Pass a role to additionally gate by the "roles" claim.
func ProtectedRoute(tokens *TokenService, requiredRole string) router.MiddlewareFunc {
	return jwtware.New(jwtware.Config{
		TokenService:    tokens,
		RequiredRole:    requiredRole,
		ContextKey:      LocalsUsername,
		ContextEnricher: ActorContextEnricher(),
	})
}
