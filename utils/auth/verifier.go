package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrInvalidClaims = errors.New("invalid token claims")
)

// VerifierConfig holds identity-provider token settings. The provider
// issues and revokes tokens; this service only checks signatures and
// claims.
type VerifierConfig struct {
	// Secret is the shared HS256 signing secret configured on the
	// provider application.
	Secret string
	// Issuer must match the provider tenant, e.g. "https://tenant.auth0.com/".
	Issuer string
	// Audience must match this API's identifier at the provider.
	Audience string
	// Leeway tolerates small clock skew on expiry checks.
	Leeway time.Duration
}

// Claims are the provider claims this service cares about.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// Verifier validates provider-issued bearer tokens.
type Verifier struct {
	config VerifierConfig
}

// NewVerifier creates a token verifier.
func NewVerifier(config VerifierConfig) *Verifier {
	if config.Leeway == 0 {
		config.Leeway = 30 * time.Second
	}
	return &Verifier{config: config}
}

// Verify parses and validates a bearer token, returning its claims.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(v.config.Leeway),
		jwt.WithExpirationRequired(),
	}
	if v.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(v.config.Issuer))
	}
	if v.config.Audience != "" {
		options = append(options, jwt.WithAudience(v.config.Audience))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(v.config.Secret), nil
	}, options...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.Email == "" {
		return nil, ErrInvalidClaims
	}

	return claims, nil
}
