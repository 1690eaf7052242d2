package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/clients", "200"))
	ObserveHTTPRequest("GET", "/api/clients", 200, 15*time.Millisecond)
	require.Equal(t, before+1, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/clients", "200")))

	beforeUnmatched := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404"))
	ObserveHTTPRequest("GET", "", 404, time.Millisecond)
	require.Equal(t, beforeUnmatched+1, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestObserveClientDelete(t *testing.T) {
	okBefore := testutil.ToFloat64(ClientDeletesTotal.WithLabelValues("success"))
	errBefore := testutil.ToFloat64(ClientDeletesTotal.WithLabelValues("error"))
	projBefore := testutil.ToFloat64(CascadeRowsDeleted.WithLabelValues("project"))

	ObserveClientDelete(2, 3, 1, nil)
	ObserveClientDelete(5, 5, 5, errors.New("boom"))

	require.Equal(t, okBefore+1, testutil.ToFloat64(ClientDeletesTotal.WithLabelValues("success")))
	require.Equal(t, errBefore+1, testutil.ToFloat64(ClientDeletesTotal.WithLabelValues("error")))
	require.Equal(t, projBefore+2, testutil.ToFloat64(CascadeRowsDeleted.WithLabelValues("project")))
}

func TestObserveReminderSync(t *testing.T) {
	before := testutil.ToFloat64(ReminderSyncItems.WithLabelValues("created"))
	ObserveReminderSync(3, 0, 1, 0)
	require.Equal(t, before+3, testutil.ToFloat64(ReminderSyncItems.WithLabelValues("created")))
}
