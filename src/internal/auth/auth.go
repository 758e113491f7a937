// Package auth verifies bearer tokens issued by the external identity
// provider and resolves them to provisioned portal users. Credential
// verification (passwords, OAuth, etc.) happens upstream; all this package
// trusts is a signed token carrying the authenticated email.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Config holds token verification parameters.
type Config struct {
	Secret string
	Issuer string
}

var ErrMissingToken = errors.New("missing bearer token")

var ErrInvalidToken = errors.New("invalid bearer token")

// VerifiedEmail validates an HS256 JWT and returns the email it asserts.
func VerifiedEmail(token string, cfg Config) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingToken
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.Secret), nil
	}, jwt.WithIssuer(cfg.Issuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return "", ErrInvalidToken
	}

	email, _ := claims["email"].(string)
	if email == "" {
		// Fall back to the subject; some issuers put the email there.
		email, _ = claims["sub"].(string)
	}
	if email == "" {
		return "", ErrInvalidToken
	}
	return email, nil
}

// BearerToken extracts the token from an "Authorization: Bearer x" header
// value. Returns "" when the header is absent or malformed.
func BearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
