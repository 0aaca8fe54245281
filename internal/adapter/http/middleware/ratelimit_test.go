package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGetIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded chain uses first hop", map[string]string{"X-Forwarded-For": "10.0.0.1, 172.16.0.1"}, "1.1.1.1:80", "10.0.0.1"},
		{"real ip", map[string]string{"X-Real-IP": "10.0.0.2"}, "1.1.1.1:80", "10.0.0.2"},
		{"remote addr without port", nil, "1.2.3.4:5555", "1.2.3.4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			if got := getIP(req); got != tt.want {
				t.Fatalf("getIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.getLimiter("a")
	rl.visitors["a"].lastSeen = time.Now().Add(-2 * time.Hour)
	rl.getLimiter("b")

	rl.CleanupLimiters(time.Hour)

	if _, ok := rl.visitors["a"]; ok {
		t.Fatalf("expected idle visitor to be dropped")
	}
	if _, ok := rl.visitors["b"]; !ok {
		t.Fatalf("expected active visitor to be kept")
	}
}
