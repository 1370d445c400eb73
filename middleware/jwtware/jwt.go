// Package jwtware is the per-request authentication filter for the
// component. It extracts a bearer token, validates it through the token
// service, optionally enforces a role, and exposes the authenticated
// username to downstream handlers.
package jwtware

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-router"
)

var (
	defaultTokenLookup       = "header:" + router.HeaderAuthorization
	ErrJWTMissingOrMalformed = errors.New("missing or malformed JWT")
)

// TokenService mirrors the componente token service surface needed by the
// filter, declared locally to avoid an import cycle.
type TokenService interface {
	ExtractUsername(token string) (string, error)
	IsTokenValid(token, subject string) bool
	ExtractClaim(token string, selector func(claims jwt.MapClaims) any) (any, error)
}

// Config controls the authentication filter.
type Config struct {
	// Filter skips the middleware when it returns true.
	Filter         func(router.Context) bool
	SuccessHandler router.HandlerFunc
	ErrorHandler   router.ErrorHandler

	// TokenService validates locally signed tokens. Required unless
	// JWKSetURLs or SigningKeys provide external key material.
	TokenService TokenService

	// SigningKeys and JWKSetURLs enable validation of tokens emitted by an
	// external identity provider instead of the local token service.
	SigningKeys map[string]SigningKey
	JWKSetURLs  []string

	// ContextKey is the locals key under which the username is stored.
	ContextKey string
	// RolesKey is the locals key under which the token roles are stored.
	RolesKey string
	// RequiredRole rejects validated tokens that do not carry the role in
	// their "roles" claim.
	RequiredRole string

	TokenLookup string
	AuthScheme  string

	// ContextEnricher propagates the authenticated username to the standard
	// Go context (e.g. componente.WithActor).
	ContextEnricher func(ctx context.Context, username string) context.Context
}

// SigningKey is an externally supplied verification key.
type SigningKey struct {
	JWTAlg string
	Key    any
}

// New builds the authentication middleware.
func New(config ...Config) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		cfg := GetDefaultConfig(config...)
		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return ctx.Next()
			}

			raw, err := ExtractRawTokenFromContext(ctx, cfg.getExtractors())
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			username, roles, err := cfg.validate(raw)
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			if cfg.RequiredRole != "" && !contains(roles, cfg.RequiredRole) {
				return cfg.ErrorHandler(ctx, fmt.Errorf("access denied: required role %q not found", cfg.RequiredRole))
			}

			ctx.Locals(cfg.ContextKey, username)
			if len(roles) > 0 {
				ctx.Locals(cfg.RolesKey, roles)
			}

			if cfg.ContextEnricher != nil {
				ctx.SetContext(cfg.ContextEnricher(ctx.Context(), username))
			}

			return cfg.SuccessHandler(ctx)
		}
	}
}

// validate resolves the username and roles of a raw token, either through
// the local token service or against external key material.
func (cfg *Config) validate(raw string) (string, []string, error) {
	if cfg.TokenService != nil {
		username, err := cfg.TokenService.ExtractUsername(raw)
		if err != nil {
			return "", nil, ErrJWTMissingOrMalformed
		}
		if !cfg.TokenService.IsTokenValid(raw, username) {
			return "", nil, errors.New("invalid or expired token")
		}

		rolesClaim, err := cfg.TokenService.ExtractClaim(raw, func(claims jwt.MapClaims) any {
			return claims["roles"]
		})
		if err != nil {
			return "", nil, err
		}
		return username, toRoles(rolesClaim), nil
	}

	return cfg.validateExternal(raw)
}

func (cfg *Config) validateExternal(raw string) (string, []string, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, cfg.keyFunc(), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", nil, errors.New("invalid or expired token")
	}

	username, err := claims.GetSubject()
	if err != nil || username == "" {
		return "", nil, ErrJWTMissingOrMalformed
	}

	return username, toRoles(claims["roles"]), nil
}

func toRoles(claim any) []string {
	switch v := claim.(type) {
	case []string:
		return v
	case []any:
		roles := make([]string, 0, len(v))
		for _, r := range v {
			if s, ok := r.(string); ok {
				roles = append(roles, s)
			}
		}
		return roles
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	}
	return nil
}

func contains(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// GetDefaultConfig applies defaults and panics on unusable configuration,
// mirroring the fail-fast behavior expected at composition time.
func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(ctx router.Context) error {
			return ctx.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c router.Context, err error) error {
			if err.Error() == ErrJWTMissingOrMalformed.Error() {
				return c.Status(router.StatusBadRequest).SendString(ErrJWTMissingOrMalformed.Error())
			}
			return c.Status(router.StatusUnauthorized).SendString("Invalid or expired token")
		}
	}

	if cfg.TokenService == nil && len(cfg.SigningKeys) == 0 && len(cfg.JWKSetURLs) == 0 {
		panic("JWT middleware configuration: TokenService, SigningKeys or JWKSetURLs is required.")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}

	if cfg.RolesKey == "" {
		cfg.RolesKey = "roles"
	}

	if cfg.TokenLookup == "" {
		cfg.TokenLookup = defaultTokenLookup
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	return cfg
}

func (cfg *Config) keyFunc() jwt.Keyfunc {
	if len(cfg.JWKSetURLs) > 0 {
		kf, err := multiKeyfunc(givenKeys(cfg.SigningKeys), cfg.JWKSetURLs)
		if err != nil {
			panic("Failed to create keyfunc from JWK Set URL: " + err.Error())
		}
		return kf
	}
	return keyfunc.NewGiven(givenKeys(cfg.SigningKeys)).Keyfunc
}

func givenKeys(signingKeys map[string]SigningKey) map[string]keyfunc.GivenKey {
	if len(signingKeys) == 0 {
		return nil
	}
	given := make(map[string]keyfunc.GivenKey, len(signingKeys))
	for kid, key := range signingKeys {
		given[kid] = keyfunc.NewGivenCustom(key.Key, keyfunc.GivenKeyOptions{
			Algorithm: key.JWTAlg,
		})
	}
	return given
}

func multiKeyfunc(givenKeys map[string]keyfunc.GivenKey, jwtSetUrls []string) (jwt.Keyfunc, error) {
	opts := keyfuncOptions(givenKeys)
	m := make(map[string]keyfunc.Options, len(jwtSetUrls))
	for _, url := range jwtSetUrls {
		m[url] = opts
	}
	mopts := keyfunc.MultipleOptions{
		KeySelector: keyfunc.KeySelectorFirst,
	}
	multi, err := keyfunc.GetMultiple(m, mopts)
	if err != nil {
		return nil, fmt.Errorf("failed to get JWT URLs: %w", err)
	}
	return multi.Keyfunc, nil
}

func keyfuncOptions(givenKeys map[string]keyfunc.GivenKey) keyfunc.Options {
	return keyfunc.Options{
		GivenKeys: givenKeys,
		RefreshErrorHandler: func(err error) {
			log.Printf("failed to do a background refresh of JWT set: %s", err)
		},
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  time.Minute * 5,
		RefreshTimeout:    time.Second * 10,
		RefreshUnknownKID: true,
	}
}

func (cfg *Config) getExtractors() []JWTExtractor {
	return GetExtractors(cfg.TokenLookup, cfg.AuthScheme)
}

// GetExtractors parses a token lookup expression such as
// "header:Authorization,cookie:jwt,query:auth_token,param:token".
func GetExtractors(tokenLookup string, authSchemes ...string) []JWTExtractor {
	extractors := make([]JWTExtractor, 0)

	authScheme := "Bearer"
	if len(authSchemes) > 0 {
		authScheme = authSchemes[0]
	}

	rootParts := strings.Split(tokenLookup, ",")
	for _, rootPart := range rootParts {
		parts := strings.Split(strings.TrimSpace(rootPart), ":")

		for i, el := range parts {
			parts[i] = strings.TrimSpace(el)
		}

		switch parts[0] {
		case "header":
			extractors = append(extractors, jwtFromHeader(parts[1], authScheme))
		case "query":
			extractors = append(extractors, jwtFromQuery(parts[1]))
		case "param":
			extractors = append(extractors, jwtFromParam(parts[1]))
		case "cookie":
			extractors = append(extractors, jwtFromCookie(parts[1]))
		}
	}

	return extractors
}

// ExtractRawTokenFromContext tries each extractor until one yields a token.
func ExtractRawTokenFromContext(ctx router.Context, extractors []JWTExtractor) (string, error) {
	var raw string
	var err error

	for _, extractor := range extractors {
		raw, err = extractor(ctx)
		if raw != "" && err == nil {
			break
		}
	}

	return raw, err
}

type JWTExtractor func(c router.Context) (string, error)

// jwtFromHeader returns a function that extracts token from the request header.
func jwtFromHeader(header string, authScheme string) func(c router.Context) (string, error) {
	return func(c router.Context) (string, error) {
		a := c.GetString(header, "")
		l := len(authScheme)
		if len(a) > l+1 && strings.EqualFold(a[:l], authScheme) {
			return strings.TrimSpace(a[l:]), nil
		}
		return "", ErrJWTMissingOrMalformed
	}
}

// jwtFromQuery returns a function that extracts token from the query string.
func jwtFromQuery(param string) func(c router.Context) (string, error) {
	return func(c router.Context) (string, error) {
		token := c.Query(param, "")
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}

// jwtFromParam returns a function that extracts token from the url param string.
func jwtFromParam(param string) func(c router.Context) (string, error) {
	return func(c router.Context) (string, error) {
		token := c.Param(param)
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}

// jwtFromCookie returns a function that extracts token from the named cookie.
func jwtFromCookie(name string) func(c router.Context) (string, error) {
	return func(c router.Context) (string, error) {
		token := c.Cookies(name)
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}
