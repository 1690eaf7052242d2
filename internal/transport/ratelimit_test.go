package transport

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoginLimiterEvictsIdleEntries(t *testing.T) {
	clock := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	l := newLoginLimiter(1)
	l.now = func() time.Time { return clock }

	require.True(t, l.get("10.0.0.1").Allow())
	require.False(t, l.get("10.0.0.1").Allow())
	l.get("10.0.0.2")
	require.Len(t, l.limiters, 2)

	step := limiterIdleTTL * 6 / 10
	clock = clock.Add(step)
	l.get("10.0.0.2")

	clock = clock.Add(step)
	l.get("10.0.0.3")
	require.Len(t, l.limiters, 2)
	require.NotContains(t, l.limiters, "10.0.0.1")
	require.Contains(t, l.limiters, "10.0.0.2")
}

func TestLoginLimiterDisabled(t *testing.T) {
	l := newLoginLimiter(0)
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := l.middleware(next)

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
	}
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:4242"
	require.Equal(t, "192.0.2.7", getClientIP(req))

	req.RemoteAddr = "192.0.2.8"
	require.Equal(t, "192.0.2.8", getClientIP(req))
}
