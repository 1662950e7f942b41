package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LocalVerifier validates HS256 tokens issued by the auth service without a
// network round trip. Used when no verify endpoint is configured.
type LocalVerifier struct {
	secret []byte
	now    func() time.Time
}

func NewLocalVerifier(secret string) *LocalVerifier {
	return &LocalVerifier{secret: []byte(strings.TrimSpace(secret)), now: time.Now}
}

func (v *LocalVerifier) Verify(_ context.Context, token string) (map[string]any, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}
	if len(v.secret) == 0 {
		return nil, fmt.Errorf("%w: jwt secret not configured", ErrTokenRejected)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithTimeFunc(v.now), jwt.WithLeeway(5*time.Second))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenRejected, err)
	}
	if !parsed.Valid {
		return nil, ErrTokenRejected
	}

	if subject, _ := claims.GetSubject(); strings.TrimSpace(subject) == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenRejected)
	}

	return map[string]any(claims), nil
}

var _ TokenVerifier = (*LocalVerifier)(nil)
