package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

var (
	ErrMissingToken  = errors.New("missing token")
	ErrTokenRejected = errors.New("token rejected")
)

// TokenVerifier authorizes a bearer token and returns the verified identity
// claims as an open map.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (map[string]any, error)
}

// Subject extracts the best identity field from a claims map.
func Subject(claims map[string]any) string {
	for _, key := range []string{"sub", "user_id", "email"} {
		if value, ok := claims[key].(string); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// HTTPVerifier validates tokens against the auth service verify endpoint
// (GET <base>/api/auth/verify?token=...). Any non-200 response means the
// token is rejected.
type HTTPVerifier struct {
	verifyURL string
	client    *http.Client
	timeout   time.Duration
}

func NewHTTPVerifier(baseURL string, timeout time.Duration, client *http.Client) *HTTPVerifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPVerifier{
		verifyURL: strings.TrimRight(strings.TrimSpace(baseURL), "/") + "/api/auth/verify",
		client:    client,
		timeout:   timeout,
	}
}

func (v *HTTPVerifier) Verify(ctx context.Context, token string) (map[string]any, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.verifyURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build verify request: %w", err)
	}
	query := req.URL.Query()
	query.Set("token", token)
	req.URL.RawQuery = query.Encode()
	req.Header.Set("Accept", "application/json")

	res, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verify request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		slog.Warn("token verification rejected", slog.Int("status", res.StatusCode))
		return nil, fmt.Errorf("%w: verify status %d", ErrTokenRejected, res.StatusCode)
	}

	var claims map[string]any
	if err := json.NewDecoder(res.Body).Decode(&claims); err != nil {
		return nil, fmt.Errorf("decode verify claims: %w", err)
	}
	return claims, nil
}

var _ TokenVerifier = (*HTTPVerifier)(nil)
