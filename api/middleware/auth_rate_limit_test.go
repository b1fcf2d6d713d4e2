package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	pkgerrors "github.com/timerapp/timerapp-backend/pkg/errors"
)

func TestAuthRateLimit_AllowsUnderLimit(t *testing.T) {
	limiter := newFakeLimiter()
	policy := NewAuthRateLimitPolicy("dev_auth", time.Minute, 2)
	handler := AuthRateLimit(policy, limiter, nil)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/dev", strings.NewReader(`{"email":"tester@example.com"}`))
	req.RemoteAddr = "1.2.3.4:5678"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if limiter.counts["ip:dev_auth:1.2.3.4"] != 1 {
		t.Fatalf("expected counter keyed by ip, got %v", limiter.counts)
	}
}

func TestAuthRateLimit_IPLimitTriggers(t *testing.T) {
	limiter := newFakeLimiter()
	policy := NewAuthRateLimitPolicy("dev_auth", time.Minute, 1)
	handler := AuthRateLimit(policy, limiter, nil)(okHandler())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/dev", nil)
		req.Header.Set("X-Forwarded-For", "5.6.7.8, 10.0.0.1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if i == 0 && rec.Code != http.StatusOK {
			t.Fatalf("expected success, got %d", rec.Code)
		}
		if i == 1 {
			if rec.Code != http.StatusTooManyRequests {
				t.Fatalf("expected 429, got %d", rec.Code)
			}
			if rec.Header().Get("Retry-After") != "60" {
				t.Fatalf("expected Retry-After 60, got %q", rec.Header().Get("Retry-After"))
			}
			var payload struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
				t.Fatalf("decode error: %v", err)
			}
			if payload.Error.Code != string(pkgerrors.CodeRateLimit) {
				t.Fatalf("unexpected code: %s", payload.Error.Code)
			}
		}
	}
}

func TestAuthRateLimit_StoreFailure(t *testing.T) {
	limiter := newFakeLimiter()
	limiter.err = errors.New("redis down")
	handler := AuthRateLimit(NewAuthRateLimitPolicy("dev_auth", time.Minute, 5), limiter, nil)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/dev", nil)
	req.RemoteAddr = "1.2.3.4:5678"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestAuthRateLimit_DisabledPolicyPassesThrough(t *testing.T) {
	handler := AuthRateLimit(NewAuthRateLimitPolicy("dev_auth", 0, 0), newFakeLimiter(), nil)(okHandler())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/dev", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

type fakeLimiter struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func newFakeLimiter() *fakeLimiter {
	return &fakeLimiter{counts: map[string]int64{}}
}

func (f *fakeLimiter) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, 0, f.err
	}
	f.counts[scope]++
	return f.counts[scope] <= limit, f.counts[scope], nil
}
