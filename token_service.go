package componente

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenService emits and validates the JWT tokens used by the component's
// authentication filter. The signing key is resolved lazily, exactly once,
// and stays immutable for the process lifetime.
type TokenService struct {
	secret          string
	tokenExpiration time.Duration
	issuer          string
	audience        jwt.ClaimStrings
	logger          Logger
	now             func() time.Time
	decorators      []ClaimsDecorator

	once sync.Once
	key  signingKey
}

// TokenServiceOption mutates the service during construction.
type TokenServiceOption func(*TokenService)

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) TokenServiceOption {
	return func(ts *TokenService) {
		if now != nil {
			ts.now = now
		}
	}
}

// NewTokenService creates a TokenService from the given configuration.
func NewTokenService(cfg Config, logger Logger, opts ...TokenServiceOption) *TokenService {
	if cfg == nil {
		cfg = TokenConfig{}
	}

	ts := &TokenService{
		secret:          cfg.GetSigningKey(),
		tokenExpiration: time.Duration(cfg.GetTokenExpiration()) * time.Second,
		issuer:          cfg.GetIssuer(),
		audience:        jwt.ClaimStrings(cfg.GetAudience()),
		logger:          normalizeLogger(logger),
		now:             time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(ts)
		}
	}

	return ts
}

// init resolves the signing key. Guarded so concurrent startup paths cannot
// double-initialize; after the first call the key never changes.
func (ts *TokenService) init() {
	ts.once.Do(func() {
		ts.key = resolveSigningKey(ts.secret, ts.logger)
	})
}

// KeyState reports which resolution path produced the signing key.
func (ts *TokenService) KeyState() KeyState {
	ts.init()
	return ts.key.state
}

// GenerateToken builds and signs a token for the subject. Extra claims are
// merged first; the registered claims (sub, iss, aud, iat, nbf, exp, jti)
// always win over caller-supplied values.
func (ts *TokenService) GenerateToken(subject string, extraClaims map[string]any) (string, error) {
	ts.init()

	now := ts.now()
	claims := jwt.MapClaims{}
	for k, v := range extraClaims {
		claims[k] = v
	}

	for _, decorator := range ts.decorators {
		if err := decorator.Decorate(subject, claims); err != nil {
			return "", err
		}
	}

	claims["sub"] = subject
	claims["iss"] = ts.issuer
	claims["aud"] = ts.audience
	claims["iat"] = jwt.NewNumericDate(now)
	claims["nbf"] = jwt.NewNumericDate(now)
	claims["exp"] = jwt.NewNumericDate(now.Add(ts.tokenExpiration))
	claims["jti"] = uuid.NewString()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(ts.key.material)
}

// IsTokenValid reports whether the token verifies against the adopted key,
// carries the expected subject, has not expired, and was emitted by the
// configured issuer. It fails closed: any parse or signature problem yields
// false, never an error.
func (ts *TokenService) IsTokenValid(tokenString, expectedSubject string) bool {
	claims, err := ts.parseClaims(tokenString)
	if err != nil {
		ts.logger.Warn("Token JWT inválido: %v", err)
		return false
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return false
	}

	return subject == expectedSubject
}

// ExtractUsername returns the subject claim of a verified token.
func (ts *TokenService) ExtractUsername(tokenString string) (string, error) {
	claims, err := ts.parseClaims(tokenString)
	if err != nil {
		return "", err
	}
	return claims.GetSubject()
}

// ExtractClaim parses and verifies the token before handing the claims to
// the selector. Claims are never released from an unverified token.
func (ts *TokenService) ExtractClaim(tokenString string, selector func(claims jwt.MapClaims) any) (any, error) {
	claims, err := ts.parseClaims(tokenString)
	if err != nil {
		return nil, err
	}
	if selector == nil {
		return nil, nil
	}
	return selector(claims), nil
}

// parseClaims verifies signature, expiry and issuer in one pass.
func (ts *TokenService) parseClaims(tokenString string) (jwt.MapClaims, error) {
	ts.init()

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.key.material, nil
	},
		jwt.WithTimeFunc(ts.now),
		jwt.WithIssuer(ts.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	if parsed, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return parsed, nil
	}
	return nil, jwt.ErrTokenUnverifiable
}
