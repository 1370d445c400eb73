package componente

import "github.com/golang-jwt/jwt/v5"

// ClaimsDecorator can mutate allowed JWT claim extensions before a token is
// signed. Decorators run before the registered claims (sub, iss, aud, exp,
// etc.) are stamped, so core token semantics stay stable no matter what a
// decorator writes.
type ClaimsDecorator interface {
	Decorate(subject string, claims jwt.MapClaims) error
}

// ClaimsDecoratorFunc adapts a function into a ClaimsDecorator.
type ClaimsDecoratorFunc func(subject string, claims jwt.MapClaims) error

// Decorate satisfies the ClaimsDecorator interface.
func (f ClaimsDecoratorFunc) Decorate(subject string, claims jwt.MapClaims) error {
	if f == nil {
		return nil
	}
	return f(subject, claims)
}

// WithClaimsDecorator appends a decorator applied on every GenerateToken
// call. A decorator error aborts the issuance.
func WithClaimsDecorator(d ClaimsDecorator) TokenServiceOption {
	return func(ts *TokenService) {
		if d != nil {
			ts.decorators = append(ts.decorators, d)
		}
	}
}
