package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/advert-service/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsManager_NilReceiverIsNoop(t *testing.T) {
	var m *MetricsManager
	assert.NotPanics(t, func() {
		m.ObserveSearch("simple", time.Millisecond)
		m.IncSearchError("upstream")
		m.ObserveCategoryExpansion(3)
		m.IncCategoryCache("hit")
	})
}

func TestMetricsManager_Records(t *testing.T) {
	m := NewMetricsManager("advert_test")

	m.ObserveSearch("joined", 20*time.Millisecond)
	m.ObserveSearch("joined", 10*time.Millisecond)
	m.IncSearchError("invalid_parameter")
	m.IncCategoryCache("miss")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SearchesTotal.WithLabelValues("joined")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.SearchesTotal.WithLabelValues("simple")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchErrorsTotal.WithLabelValues("invalid_parameter")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CategoryCacheTotal.WithLabelValues("miss")))
}

func TestNewMetricsServer(t *testing.T) {
	log := logger.NewNop()
	m := NewMetricsManager("advert_test")
	m.ObserveSearch("simple", time.Millisecond)

	assert.Nil(t, NewMetricsServer("", log, m.Registry))

	srv := NewMetricsServer("9096", log, m.Registry)
	require.NotNil(t, srv)
	assert.Equal(t, ":9096", srv.Addr)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "advert_test_searches_total"))
}
