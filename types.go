package componente

import (
	"context"
	"fmt"
)

// Logger is the minimal logging surface consumed by the component. Callers
// can plug in any structured logger; when nil is given the constructors fall
// back to a stdout logger.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds the security options consumed by the token service.
type Config interface {
	// GetSigningKey returns the base64 encoded signing key material. Empty
	// means no key was configured and one will be generated.
	GetSigningKey() string
	// GetTokenExpiration returns the token TTL in seconds.
	GetTokenExpiration() int
	GetIssuer() string
	GetAudience() []string
}

const (
	// DefaultTokenExpiration is the token TTL in seconds used when the
	// configuration does not provide one.
	DefaultTokenExpiration = 3600
	// MinTokenExpiration is the lowest TTL accepted from configuration.
	MinTokenExpiration = 60
	// DefaultIssuer is the issuer claim stamped on emitted tokens.
	DefaultIssuer = "vucem.gob.mx"
	// DefaultAudience is the audience claim stamped on emitted tokens.
	DefaultAudience = "api"
)

// TokenConfig is a plain Config implementation with component defaults.
type TokenConfig struct {
	SigningKey      string
	TokenExpiration int
	Issuer          string
	Audience        []string
}

func (c TokenConfig) GetSigningKey() string { return c.SigningKey }

func (c TokenConfig) GetTokenExpiration() int {
	if c.TokenExpiration == 0 {
		return DefaultTokenExpiration
	}
	if c.TokenExpiration < MinTokenExpiration {
		return MinTokenExpiration
	}
	return c.TokenExpiration
}

func (c TokenConfig) GetIssuer() string {
	if c.Issuer == "" {
		return DefaultIssuer
	}
	return c.Issuer
}

func (c TokenConfig) GetAudience() []string {
	if len(c.Audience) == 0 {
		return []string{DefaultAudience}
	}
	return c.Audience
}

// ActorSistema is the sentinel identity used when no authenticated actor is
// present.
const ActorSistema = "SISTEMA"

// Auditor supplies the identity of the actor behind the current operation.
// It is used to stamp the audit columns of persisted records.
type Auditor interface {
	CurrentActor(ctx context.Context) string
}

// AuditorFunc adapts a function to the Auditor interface.
type AuditorFunc func(ctx context.Context) string

// CurrentActor implements Auditor.
func (f AuditorFunc) CurrentActor(ctx context.Context) string {
	if f == nil {
		return ActorSistema
	}
	return f(ctx)
}

type sistemaAuditor struct{}

func (sistemaAuditor) CurrentActor(context.Context) string { return ActorSistema }

func normalizeAuditor(a Auditor) Auditor {
	if a == nil {
		return sistemaAuditor{}
	}
	return a
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] COMPONENTE "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] COMPONENTE "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] COMPONENTE "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] COMPONENTE "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}

func normalizeLogger(l Logger) Logger {
	if l == nil {
		return defLogger{}
	}
	return l
}
