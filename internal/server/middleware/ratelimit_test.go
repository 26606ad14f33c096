package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute, setupTestLogger())
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("1.2.3.4"), "request %d should pass", i+1)
	}
	assert.False(t, rl.Allow("1.2.3.4"), "request over the limit should be rejected")

	// Another key has its own bucket
	assert.True(t, rl.Allow("5.6.7.8"))
}

func TestRateLimiter_Refill(t *testing.T) {
	rl := NewRateLimiter(1, 20*time.Millisecond, setupTestLogger())
	defer rl.Stop()

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))

	time.Sleep(30 * time.Millisecond)
	assert.True(t, rl.Allow("1.2.3.4"), "bucket should refill after the window")
}

func TestRateLimitMiddleware(t *testing.T) {
	wrapped := RateLimitMiddleware(2, time.Minute, setupTestLogger())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/notes", nil)
		req.RemoteAddr = "1.2.3.4:5000"
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notes", nil)
	req.RemoteAddr = "1.2.3.4:5000"
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "rate limit exceeded")
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name     string
		xff      string
		xRealIP  string
		remote   string
		expected string
	}{
		{
			name:     "remote addr only",
			remote:   "10.0.0.1:1234",
			expected: "10.0.0.1:1234",
		},
		{
			name:     "x-forwarded-for single",
			xff:      "203.0.113.5",
			remote:   "10.0.0.1:1234",
			expected: "203.0.113.5",
		},
		{
			name:     "x-forwarded-for chain takes first",
			xff:      "203.0.113.5,198.51.100.2",
			remote:   "10.0.0.1:1234",
			expected: "203.0.113.5",
		},
		{
			name:     "x-real-ip",
			xRealIP:  "203.0.113.9",
			remote:   "10.0.0.1:1234",
			expected: "203.0.113.9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xRealIP != "" {
				req.Header.Set("X-Real-IP", tt.xRealIP)
			}

			assert.Equal(t, tt.expected, getClientIP(req))
		})
	}
}
