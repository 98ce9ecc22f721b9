package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestIPRateLimiter_Allow(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(1, 2, time.Minute)
	l.now = func() time.Time { return now }

	if !l.Allow("10.0.0.1") || !l.Allow("10.0.0.1") {
		t.Fatal("burst of 2 should be allowed")
	}
	if l.Allow("10.0.0.1") {
		t.Fatal("third request within the same instant should be refused")
	}
	if !l.Allow("10.0.0.2") {
		t.Fatal("other clients have their own bucket")
	}

	now = now.Add(time.Second)
	if !l.Allow("10.0.0.1") {
		t.Fatal("one token should be back after a second")
	}
}

func TestIPRateLimiter_ForgetsIdleVisitors(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(1, 1, time.Minute)
	l.now = func() time.Time { return now }

	l.Allow("10.0.0.1")
	now = now.Add(2 * time.Minute)
	l.Allow("10.0.0.2")

	if _, ok := l.visitors["10.0.0.1"]; ok {
		t.Error("idle visitor should have been dropped")
	}
	if len(l.visitors) != 1 {
		t.Errorf("visitors = %d; want 1", len(l.visitors))
	}
}

type stubLimiter struct {
	allow bool
	keys  []string
}

func (s *stubLimiter) Allow(key string) bool {
	s.keys = append(s.keys, key)
	return s.allow
}

func TestWithRateLimit(t *testing.T) {
	tests := []struct {
		name       string
		limiter    RateLimiter
		wantStatus int
		wantNext   bool
	}{
		{"disabled", nil, http.StatusAccepted, true},
		{"allowed", &stubLimiter{allow: true}, http.StatusAccepted, true},
		{"refused", &stubLimiter{allow: false}, http.StatusTooManyRequests, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusAccepted)
			})
			req := httptest.NewRequest(http.MethodPost, "/videos/upload", nil)
			req.RemoteAddr = "192.0.2.7:51234"
			rec := httptest.NewRecorder()

			WithRateLimit(tc.limiter)(next).ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d; want %d", rec.Code, tc.wantStatus)
			}
			if nextCalled != tc.wantNext {
				t.Errorf("nextCalled = %v; want %v", nextCalled, tc.wantNext)
			}
			if s, ok := tc.limiter.(*stubLimiter); ok && (len(s.keys) != 1 || s.keys[0] != "192.0.2.7") {
				t.Errorf("limiter keys = %v; want [192.0.2.7]", s.keys)
			}
		})
	}
}
