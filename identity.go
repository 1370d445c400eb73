package componente

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

// RoleSystem is the role granted to the built-in demonstration identity.
const RoleSystem = "ROLE_SYSTEM"

// ErrIdentityNotFound is the error we return for non found identities.
var ErrIdentityNotFound = goerrors.New("usuario no encontrado", goerrors.CategoryNotFound)

// Identity holds the attributes of an authenticated principal.
type Identity interface {
	ID() string
	Username() string
	Roles() []string
}

// IdentityProvider resolves identities for the authentication entry points.
// Real deployments should back this with a central identity service; the
// in-memory implementation below exists for demonstration and testing only.
type IdentityProvider interface {
	VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error)
	FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error)
}

type identity struct {
	id       string
	username string
	roles    []string
}

func (i identity) ID() string { return i.id }

func (i identity) Username() string { return i.username }

func (i identity) Roles() []string { return i.roles }

type memoryUser struct {
	passwordHash string
	roles        []string
}

// MemoryIdentityProvider keeps identities in memory. It always contains the
// "sistema" identity with the system role, mirroring the demo auth endpoint.
type MemoryIdentityProvider struct {
	users map[string]memoryUser
}

// NewMemoryIdentityProvider seeds the provider with the sistema identity.
func NewMemoryIdentityProvider() *MemoryIdentityProvider {
	return &MemoryIdentityProvider{
		users: map[string]memoryUser{
			// password never used: sistema authenticates by token only
			"sistema": {roles: []string{RoleSystem}},
		},
	}
}

// AddUser registers an identity with a bcrypt hashed password.
func (p *MemoryIdentityProvider) AddUser(username, password string, roles ...string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	p.users[username] = memoryUser{passwordHash: hash, roles: roles}
	return nil
}

// FindIdentityByIdentifier implements IdentityProvider.
func (p *MemoryIdentityProvider) FindIdentityByIdentifier(_ context.Context, identifier string) (Identity, error) {
	user, ok := p.users[identifier]
	if !ok {
		return nil, ErrIdentityNotFound
	}
	return identity{id: identifier, username: identifier, roles: user.roles}, nil
}

// VerifyIdentity implements IdentityProvider.
func (p *MemoryIdentityProvider) VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error) {
	user, ok := p.users[identifier]
	if !ok {
		// burn a comparison so unknown users cost the same as bad passwords
		_ = ComparePasswordAndHash(password, RandomPasswordHash())
		return nil, ErrIdentityNotFound
	}
	if err := ComparePasswordAndHash(password, user.passwordHash); err != nil {
		return nil, err
	}
	return p.FindIdentityByIdentifier(ctx, identifier)
}

// Autenticador issues tokens for verified identities. It is the
// demonstration session-start entry point; per-request validation lives in
// the authentication middleware.
type Autenticador struct {
	provider IdentityProvider
	tokens   *TokenService
	logger   Logger
}

// NewAutenticador wires the demo authentication flow.
func NewAutenticador(provider IdentityProvider, tokens *TokenService, logger Logger) *Autenticador {
	return &Autenticador{
		provider: provider,
		tokens:   tokens,
		logger:   normalizeLogger(logger),
	}
}

// Login verifies credentials and returns a signed token for the identity.
func (a *Autenticador) Login(ctx context.Context, identifier, password string) (string, error) {
	identity, err := a.provider.VerifyIdentity(ctx, identifier, password)
	if err != nil {
		return "", fmt.Errorf("unauthorized: %w", err)
	}

	return a.tokens.GenerateToken(identity.Username(), map[string]any{
		"roles": identity.Roles(),
	})
}

// TokenSistema issues a token for the built-in sistema identity. For
// demonstration and testing only; do not expose it in production.
func (a *Autenticador) TokenSistema(ctx context.Context) (string, error) {
	a.logger.Warn("Generando token de sistema para pruebas")

	identity, err := a.provider.FindIdentityByIdentifier(ctx, "sistema")
	if err != nil {
		return "", err
	}

	return a.tokens.GenerateToken(identity.Username(), map[string]any{
		"roles": identity.Roles(),
	})
}
