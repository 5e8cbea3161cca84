package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stepClock struct{ t time.Time }

func (s *stepClock) Now() time.Time          { return s.t }
func (s *stepClock) Advance(d time.Duration) { s.t = s.t.Add(d) }

func newTestLimiter(t *testing.T, rate int, window time.Duration) (*RateLimiter, *stepClock) {
	t.Helper()
	clock := &stepClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	rl := NewShardedRateLimiter(rate, window, 4)
	rl.now = clock.Now
	t.Cleanup(rl.Stop)
	return rl, clock
}

func TestNewShardedRateLimiter(t *testing.T) {
	tests := []struct {
		name       string
		numShards  int
		wantShards int
	}{
		{name: "default shards when zero", numShards: 0, wantShards: defaultNumShards},
		{name: "default shards when negative", numShards: -1, wantShards: defaultNumShards},
		{name: "custom shard count", numShards: 8, wantShards: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := NewShardedRateLimiter(10, time.Minute, tt.numShards)
			defer rl.Stop()

			assert.Equal(t, tt.wantShards, rl.numShards)
			assert.Len(t, rl.shards, tt.wantShards)
		})
	}

	rl := NewRateLimiter(10, time.Minute)
	rl.Stop()
	rl.Stop()
	assert.Equal(t, defaultNumShards, rl.numShards)
}

func TestRateLimiter_CheckRateLimit(t *testing.T) {
	tests := []struct {
		name        string
		rate        int
		requests    int
		wantAllowed int
		wantBlocked int
	}{
		{name: "all requests allowed under limit", rate: 5, requests: 3, wantAllowed: 3},
		{name: "exact rate limit", rate: 5, requests: 5, wantAllowed: 5},
		{name: "exceeds rate limit", rate: 5, requests: 8, wantAllowed: 5, wantBlocked: 3},
		{name: "single request allowed", rate: 1, requests: 3, wantAllowed: 1, wantBlocked: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl, _ := newTestLimiter(t, tt.rate, time.Minute)

			allowed, blocked := 0, 0
			for i := 0; i < tt.requests; i++ {
				if ok, _, _ := rl.checkRateLimit("10.0.0.1"); ok {
					allowed++
				} else {
					blocked++
				}
			}

			assert.Equal(t, tt.wantAllowed, allowed)
			assert.Equal(t, tt.wantBlocked, blocked)
		})
	}
}

func TestRateLimiter_RemainingAndReset(t *testing.T) {
	rl, clock := newTestLimiter(t, 3, time.Minute)

	_, remaining, resetIn := rl.checkRateLimit("a")
	assert.Equal(t, 2, remaining)
	assert.Equal(t, time.Minute, resetIn)

	clock.Advance(20 * time.Second)
	_, remaining, resetIn = rl.checkRateLimit("a")
	assert.Equal(t, 1, remaining)
	assert.Equal(t, 40*time.Second, resetIn)

	_, _, _ = rl.checkRateLimit("a")
	allowed, remaining, _ := rl.checkRateLimit("a")
	assert.False(t, allowed)
	assert.Zero(t, remaining)

	clock.Advance(40 * time.Second)
	allowed, remaining, _ = rl.checkRateLimit("a")
	assert.True(t, allowed)
	assert.Equal(t, 2, remaining)
}

func TestRateLimiter_MultipleIdentifiers(t *testing.T) {
	rl, _ := newTestLimiter(t, 3, time.Minute)

	for _, id := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		for i := 0; i < 3; i++ {
			allowed, _, _ := rl.checkRateLimit(id)
			assert.True(t, allowed, "request %d for %s should be allowed", i+1, id)
		}
		allowed, _, _ := rl.checkRateLimit(id)
		assert.False(t, allowed, "4th request for %s should be blocked", id)
	}
}

func TestRateLimiter_RateLimit_Middleware(t *testing.T) {
	rl, _ := newTestLimiter(t, 2, time.Minute)

	router := gin.New()
	router.Use(RequestID(), rl.RateLimit())
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		last = httptest.NewRecorder()
		router.ServeHTTP(last, req)
		codes = append(codes, last.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, "2", last.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", last.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "60", last.Header().Get("Retry-After"))
	assert.Contains(t, last.Body.String(), "rate_limit_exceeded")
	assert.Contains(t, last.Body.String(), "Too many requests")

	other := httptest.NewRequest(http.MethodGet, "/test", nil)
	other.RemoteAddr = "192.168.1.2:12345"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, other)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiter_CleanupAndStats(t *testing.T) {
	rl, clock := newTestLimiter(t, 10, time.Minute)

	for _, id := range []string{"a", "b", "c", "d", "e"} {
		rl.checkRateLimit(id)
	}

	total, perShard := rl.Stats()
	assert.Equal(t, 5, total)
	assert.Len(t, perShard, 4)
	sum := 0
	for _, n := range perShard {
		sum += n
	}
	assert.Equal(t, total, sum)

	clock.Advance(90 * time.Second)
	rl.checkRateLimit("f")
	clock.Advance(60 * time.Second)
	rl.cleanupExpired()

	total, _ = rl.Stats()
	assert.Equal(t, 1, total)
}
