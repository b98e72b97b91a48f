package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func rateLimitFixture(t *testing.T, limit int) (http.Handler, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	handler := RateLimitMiddleware(client, RateLimitConfig{
		RequestsPerWindow: limit,
		Window:            time.Minute,
		KeyPrefix:         "rate_limit:test",
	}, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	return handler, mr
}

func doRequest(handler http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/admin/login", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitAllowsRequestsWithinWindow(t *testing.T) {
	handler, _ := rateLimitFixture(t, 3)

	for i := 0; i < 3; i++ {
		rec := doRequest(handler, "10.0.0.1:1234")
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
		}
	}
}

func TestRateLimitBlocksExcessRequests(t *testing.T) {
	handler, _ := rateLimitFixture(t, 2)

	doRequest(handler, "10.0.0.1:1234")
	doRequest(handler, "10.0.0.1:1234")
	rec := doRequest(handler, "10.0.0.1:1234")

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Fatalf("expected zero remaining, got %q", rec.Header().Get("X-RateLimit-Remaining"))
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("Retry-After header missing")
	}
}

func TestRateLimitTracksClientsSeparately(t *testing.T) {
	handler, _ := rateLimitFixture(t, 1)

	if rec := doRequest(handler, "10.0.0.1:1234"); rec.Code != http.StatusOK {
		t.Fatalf("first client: expected 200, got %d", rec.Code)
	}
	if rec := doRequest(handler, "10.0.0.2:1234"); rec.Code != http.StatusOK {
		t.Fatalf("second client: expected 200, got %d", rec.Code)
	}
	if rec := doRequest(handler, "10.0.0.1:1234"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("first client over limit: expected 429, got %d", rec.Code)
	}
}

func TestRateLimitResetsAfterWindow(t *testing.T) {
	handler, mr := rateLimitFixture(t, 1)

	doRequest(handler, "10.0.0.1:1234")
	if rec := doRequest(handler, "10.0.0.1:1234"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}

	mr.FastForward(2 * time.Minute)

	if rec := doRequest(handler, "10.0.0.1:1234"); rec.Code != http.StatusOK {
		t.Fatalf("after window: expected 200, got %d", rec.Code)
	}
}

func TestRateLimitFailsOpenWhenRedisIsDown(t *testing.T) {
	handler, mr := rateLimitFixture(t, 1)
	mr.Close()

	if rec := doRequest(handler, "10.0.0.1:1234"); rec.Code != http.StatusOK {
		t.Fatalf("expected fail-open 200, got %d", rec.Code)
	}
}

func TestRateLimitSetsRemainingHeader(t *testing.T) {
	handler, _ := rateLimitFixture(t, 5)

	rec := doRequest(handler, "10.0.0.1:1234")
	if rec.Header().Get("X-RateLimit-Limit") != "5" {
		t.Fatalf("expected limit header 5, got %q", rec.Header().Get("X-RateLimit-Limit"))
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "4" {
		t.Fatalf("expected remaining 4, got %q", rec.Header().Get("X-RateLimit-Remaining"))
	}
}
