package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-signing-secret"

func signToken(t *testing.T, claims Claims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func baseClaims(email string) Claims {
	now := time.Now()
	return Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://tenant.example.com/",
			Audience:  jwt.ClaimStrings{"propel-api"},
			Subject:   "auth0|12345",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

func newTestVerifier() *Verifier {
	return NewVerifier(VerifierConfig{
		Secret:   testSecret,
		Issuer:   "https://tenant.example.com/",
		Audience: "propel-api",
	})
}

func TestVerifyValidToken(t *testing.T) {
	v := newTestVerifier()

	claims, err := v.Verify(signToken(t, baseClaims("ada@state.edu"), testSecret))
	require.NoError(t, err)
	assert.Equal(t, "ada@state.edu", claims.Email)
	assert.Equal(t, "auth0|12345", claims.Subject)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	v := newTestVerifier()

	_, err := v.Verify(signToken(t, baseClaims("ada@state.edu"), "some-other-secret"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	v := newTestVerifier()

	claims := baseClaims("ada@state.edu")
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	_, err := v.Verify(signToken(t, claims, testSecret))
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	v := newTestVerifier()

	claims := baseClaims("ada@state.edu")
	claims.Issuer = "https://imposter.example.com/"

	_, err := v.Verify(signToken(t, claims, testSecret))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsMissingEmail(t *testing.T) {
	v := newTestVerifier()

	_, err := v.Verify(signToken(t, baseClaims(""), testSecret))
	assert.ErrorIs(t, err, ErrInvalidClaims)
}
