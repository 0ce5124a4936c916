package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/news-reader/internal/models"
)

func TestMetrics_Counters(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveFetch(models.OriginNetwork)
	m.ObserveFetch(models.OriginCache)
	m.ObserveFetch(models.OriginCache)
	m.ObserveFallback("timeout")
	m.StoreError("upsert")
	m.ObserveHTTP("GET", "/articles", 200)
	m.ObserveUpsert(15 * time.Millisecond)

	require.Equal(t, 1.0, testutil.ToFloat64(m.fetchTotal.WithLabelValues("network")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.fetchTotal.WithLabelValues("cache")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.fallbackTotal.WithLabelValues("timeout")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.storeErrors.WithLabelValues("upsert")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/articles", "200")))
	require.Equal(t, 1, testutil.CollectAndCount(m.upsertDuration))
}

func TestMetrics_SetStats(t *testing.T) {
	t.Parallel()

	m := New(prometheus.NewRegistry())
	m.SetStats(models.CacheStats{Cached: 7, Bookmarked: 2})

	require.Equal(t, 7.0, testutil.ToFloat64(m.cached))
	require.Equal(t, 2.0, testutil.ToFloat64(m.bookmarked))
}

// TestMetrics_NilSafe — методы nil-получателя ничего не делают и не паникуют.
func TestMetrics_NilSafe(t *testing.T) {
	t.Parallel()

	var m *Metrics
	require.NotPanics(t, func() {
		m.ObserveFetch(models.OriginNetwork)
		m.ObserveFallback("unknown")
		m.ObserveUpsert(time.Second)
		m.StoreError("cached")
		m.ObserveHTTP("GET", "/", 500)
		m.SetStats(models.CacheStats{})
	})
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	New(reg)
	require.Panics(t, func() { New(reg) })
}
