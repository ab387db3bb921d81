package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordDroppedCountsByReason(t *testing.T) {
	m := New()
	m.RecordDropped("no_coordinates")
	m.RecordDropped("no_coordinates")
	m.RecordDropped("out_of_range")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.droppedRecords.WithLabelValues("no_coordinates")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.droppedRecords.WithLabelValues("out_of_range")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.RecordDropped("x")
	m.GeocodeLookup(GeocodeHit)
	m.ObserveHTTP(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	assert.Nil(t, m.Registry())
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.GeocodeLookup(GeocodeMiss)
	m.ObserveHTTP(http.MethodGet, "/api/v1/stakeholders", http.StatusOK, 20*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `geocode_lookups_total{outcome="miss"} 1`))
	assert.True(t, strings.Contains(body, `http_requests_total{method="GET",route="/api/v1/stakeholders",status="200"} 1`))
}
