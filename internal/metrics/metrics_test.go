package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.CycleCompleted(0.2)
	m.CycleCompleted(0.1)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.pollCycles))

	m.TransportFailure(1)
	m.TransportFailure(2)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.transportFailures))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.consecutiveFailures))
	m.ResetFailures()
	assert.Equal(t, 0.0, testutil.ToFloat64(m.consecutiveFailures))

	m.DecoderFailure("alarms", "no_data")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.decoderFailures.WithLabelValues("alarms", "no_data")))

	m.SnapshotSize(42)
	assert.Equal(t, 42.0, testutil.ToFloat64(m.snapshotFields))

	m.HTTPRequest("/current", 200)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/current", "200")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.SnapshotSize(7)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "brother_adapter_snapshot_fields 7")
}
