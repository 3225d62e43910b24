package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsManager_CountersAreIndependentPerInstance(t *testing.T) {
	a := NewMetricsManager("advert_catalog")
	b := NewMetricsManager("advert_catalog")

	a.AdvertsCreatedTotal.Inc()
	a.StatusChangesTotal.WithLabelValues("sold").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.AdvertsCreatedTotal))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.AdvertsCreatedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(a.StatusChangesTotal.WithLabelValues("sold")))
}

func TestMetricsManager_Handler(t *testing.T) {
	m := NewMetricsManager("advert_catalog")
	m.ImageReleaseFailuresTotal.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "advert_catalog_image_release_failures_total 1")
}
