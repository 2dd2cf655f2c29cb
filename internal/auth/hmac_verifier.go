package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"studynotes/internal/domain"
)

// HMACVerifier validates tokens signed with a shared HS256 secret. It is
// the default mode for deployments without a JWKS-publishing issuer.
type HMACVerifier struct {
	secret []byte
}

// NewHMACVerifier creates a shared-secret verifier.
func NewHMACVerifier(secret string) (Verifier, error) {
	if secret == "" {
		return nil, errors.New("JWT secret cannot be empty")
	}
	return &HMACVerifier{secret: []byte(secret)}, nil
}

func (v *HMACVerifier) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}

func (v *HMACVerifier) Close() error { return nil }
