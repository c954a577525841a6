package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimitMiddleware_AllowsRequestsWithinBurst(t *testing.T) {
	cfg := RateLimiterConfig{
		Rate:            2, // 2 req/sec
		Burst:           5, // バースト5
		CleanupInterval: 1 * time.Minute,
		EntryTTL:        1 * time.Minute,
	}

	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	mw := rl.Middleware()

	handlerCallCount := 0
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCallCount++
		w.WriteHeader(http.StatusOK)
	}))

	// バースト内の5リクエストは全て通る
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
		req.RemoteAddr = "203.0.113.7:51000"
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Result().StatusCode != http.StatusOK {
			t.Errorf("request %d: status = %d, want %d", i, w.Result().StatusCode, http.StatusOK)
		}
	}

	if handlerCallCount != 5 {
		t.Errorf("handler call count = %d, want 5", handlerCallCount)
	}
}

func TestRateLimitMiddleware_Returns429WhenLimitExceeded(t *testing.T) {
	cfg := RateLimiterConfig{
		Rate:            1, // 1 req/sec
		Burst:           2, // バースト2
		CleanupInterval: 1 * time.Minute,
		EntryTTL:        1 * time.Minute,
	}

	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	mw := rl.Middleware()

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// バースト分（2回）は通る
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
		req.RemoteAddr = "203.0.113.8:51000"
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Result().StatusCode != http.StatusOK {
			t.Errorf("request %d: status = %d, want %d", i, w.Result().StatusCode, http.StatusOK)
		}
	}

	// 3回目はレート制限に引っかかる
	req := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
	req.RemoteAddr = "203.0.113.8:51000"
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusTooManyRequests)
	}

	if got := w.Result().Header.Get("Retry-After"); got != "60" {
		t.Errorf("Retry-After = %q, want %q", got, "60")
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(w.Result().Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if body.Code != "RATE_LIMITED" {
		t.Errorf("error code = %q, want %q", body.Code, "RATE_LIMITED")
	}
}

func TestRateLimitMiddleware_LimitsPerClient(t *testing.T) {
	cfg := RateLimiterConfig{
		Rate:            1, // 1 req/sec
		Burst:           1, // バースト1
		CleanupInterval: 1 * time.Minute,
		EntryTTL:        1 * time.Minute,
	}

	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	mw := rl.Middleware()

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// クライアントAがバーストを使い切る
	reqA := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
	reqA.RemoteAddr = "203.0.113.10:51000"
	wA := httptest.NewRecorder()
	handler.ServeHTTP(wA, reqA)
	if wA.Result().StatusCode != http.StatusOK {
		t.Fatalf("client A first request: status = %d, want %d", wA.Result().StatusCode, http.StatusOK)
	}

	// クライアントBは影響を受けない
	reqB := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
	reqB.RemoteAddr = "203.0.113.11:51000"
	wB := httptest.NewRecorder()
	handler.ServeHTTP(wB, reqB)
	if wB.Result().StatusCode != http.StatusOK {
		t.Errorf("client B: status = %d, want %d", wB.Result().StatusCode, http.StatusOK)
	}
}

func TestDefaultRateLimiterConfig_ConvertsPerMinuteToPerSecond(t *testing.T) {
	cfg := DefaultRateLimiterConfig(120)

	if float64(cfg.Rate) != 2.0 {
		t.Errorf("rate = %v, want 2.0", float64(cfg.Rate))
	}
	if cfg.Burst != 120 {
		t.Errorf("burst = %d, want 120", cfg.Burst)
	}
}

func TestDefaultRateLimiterConfig_FallsBackOnInvalidInput(t *testing.T) {
	cfg := DefaultRateLimiterConfig(0)

	if float64(cfg.Rate) != 2.0 {
		t.Errorf("rate = %v, want 2.0", float64(cfg.Rate))
	}
	if cfg.Burst != 120 {
		t.Errorf("burst = %d, want 120", cfg.Burst)
	}
}

func TestClientKey_StripsPort(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
	req.RemoteAddr = "198.51.100.3:40312"

	if got := clientKey(req); got != "198.51.100.3" {
		t.Errorf("clientKey = %q, want %q", got, "198.51.100.3")
	}
}
