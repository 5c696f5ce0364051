package server

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRateLimitKey(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		byAPIKey bool
		byIP     bool
		wantKey  string
		wantKind string
	}{
		{"ip only", nil, false, true, "ip:192.0.2.1", "ip"},
		{"api key header", map[string]string{"X-API-Key": "k1"}, true, true, "api:k1", "api_key"},
		{"bearer token", map[string]string{"Authorization": "Bearer k2"}, true, false, "api:k2", "api_key"},
		{"api key mode without key falls back to ip", nil, true, true, "ip:192.0.2.1", "ip"},
		{"forwarded for", map[string]string{"X-Forwarded-For": "bogus, 203.0.113.9"}, false, true, "ip:203.0.113.9", "ip"},
		{"real ip", map[string]string{"X-Real-IP": "203.0.113.10"}, false, true, "ip:203.0.113.10", "ip"},
		{"nothing enabled", map[string]string{"X-API-Key": "k1"}, false, false, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/parse", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			key, kind := getRateLimitKey(req, tt.byAPIKey, tt.byIP)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantKind, kind)
		})
	}
}

func TestRateLimiterAllowAndCleanup(t *testing.T) {
	rl := NewRateLimiter(60, time.Hour, 2, nil)
	defer rl.Close()

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))

	stats := rl.GetStats()
	assert.Equal(t, 2, stats["active_limiters"])
	assert.EqualValues(t, 1, stats["rejected_requests"])
	assert.InDelta(t, 60.0, stats["rate_per_minute"], 0.001)

	rl.cleanup(0)
	assert.Equal(t, 0, rl.GetStats()["active_limiters"])

	rl.Close()
}

func TestNewRateLimiterDefaults(t *testing.T) {
	rl := NewRateLimiter(30, 0, 0, nil)
	defer rl.Close()

	stats := rl.GetStats()
	require.Equal(t, 1, stats["burst_capacity"])
	assert.Equal(t, defaultEvictionAge.String(), stats["eviction_age"])
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "abcdefgh****", maskAPIKey("abcdefghijkl"))
}
