package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
)

// ErrInvalidToken covers every verification failure. Callers map it to 401
// without exposing what exactly was wrong with the token.
var ErrInvalidToken = errors.New("auth: invalid token")

// TokenVerifier resolves a bearer token to a verified subject id.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// Verifier validates HS256-signed tokens issued by the auth service.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

func (v *Verifier) Verify(_ context.Context, token string) (string, error) {
	var claims jwt.RegisteredClaims
	tok, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !tok.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
