package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPVerifierReturnsClaims(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/verify" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("token"); got != "tok-123" {
			t.Fatalf("unexpected token param: %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sub":"driver-9","role":"driver"}`))
	}))
	defer server.Close()

	verifier := NewHTTPVerifier(server.URL, time.Second, nil)
	claims, err := verifier.Verify(context.Background(), "tok-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := Subject(claims); got != "driver-9" {
		t.Fatalf("unexpected subject: %s", got)
	}
	if got := claims["role"]; got != "driver" {
		t.Fatalf("unexpected role claim: %v", got)
	}
}

func TestHTTPVerifierRejectsNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	verifier := NewHTTPVerifier(server.URL, time.Second, nil)
	if _, err := verifier.Verify(context.Background(), "bad-token"); !errors.Is(err, ErrTokenRejected) {
		t.Fatalf("expected ErrTokenRejected, got %v", err)
	}
}

func TestHTTPVerifierRequiresToken(t *testing.T) {
	verifier := NewHTTPVerifier("http://localhost:0", time.Second, nil)
	if _, err := verifier.Verify(context.Background(), "  "); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestSubjectFallbackOrder(t *testing.T) {
	if got := Subject(map[string]any{"user_id": "u-1", "email": "a@b.c"}); got != "u-1" {
		t.Fatalf("expected user_id fallback, got %s", got)
	}
	if got := Subject(map[string]any{"email": "a@b.c"}); got != "a@b.c" {
		t.Fatalf("expected email fallback, got %s", got)
	}
	if got := Subject(map[string]any{"sub": 42}); got != "" {
		t.Fatalf("expected empty subject for non-string sub, got %s", got)
	}
}

func TestExtractBearerTokenFromHeader(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"Bearer tok-1", "tok-1"},
		{"bearer tok-2", "tok-2"},
		{"BEARER  tok-3 ", "tok-3"},
		{"Basic dXNlcg==", ""},
		{"", ""},
		{"Bearer", ""},
	}
	for _, tc := range cases {
		if got := ExtractBearerTokenFromHeader(tc.header); got != tc.want {
			t.Fatalf("ExtractBearerTokenFromHeader(%q) = %q, want %q", tc.header, got, tc.want)
		}
	}
}
