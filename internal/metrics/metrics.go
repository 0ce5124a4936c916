// metrics содержит Prometheus-метрики news-reader.
//
// Все методы безопасны для nil-получателя: сервис и транспорт работают
// и без подключённых метрик (например, в CLI и тестах).
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pribylovaa/news-reader/internal/models"
)

const namespace = "news_reader"

// Metrics — набор метрик приложения.
type Metrics struct {
	fetchTotal     *prometheus.CounterVec
	fallbackTotal  *prometheus.CounterVec
	upsertDuration prometheus.Histogram
	storeErrors    *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	cached         prometheus.Gauge
	bookmarked     prometheus.Gauge
}

// New регистрирует метрики в reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		fetchTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_total",
			Help:      "Article fetches by data origin (network or cache).",
		}, []string{"origin"}),
		fallbackTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_total",
			Help:      "Fetches served from cache, by failure reason.",
		}, []string{"reason"}),
		upsertDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upsert_duration_seconds",
			Help:      "Duration of background batch upserts.",
			Buckets:   prometheus.DefBuckets,
		}),
		storeErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Local store errors by operation.",
		}, []string{"op"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP API requests.",
		}, []string{"method", "route", "status"}),
		cached: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cached_articles",
			Help:      "Number of cached article records.",
		}),
		bookmarked: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bookmarked_articles",
			Help:      "Number of bookmarked article records.",
		}),
	}
}

// ObserveFetch учитывает отданный результат загрузки.
func (m *Metrics) ObserveFetch(origin models.Origin) {
	if m == nil {
		return
	}
	m.fetchTotal.WithLabelValues(string(origin)).Inc()
}

// ObserveFallback учитывает откат на кэш с причиной reason.
func (m *Metrics) ObserveFallback(reason string) {
	if m == nil {
		return
	}
	m.fallbackTotal.WithLabelValues(reason).Inc()
}

// ObserveUpsert записывает длительность фоновой записи пачки.
func (m *Metrics) ObserveUpsert(d time.Duration) {
	if m == nil {
		return
	}
	m.upsertDuration.Observe(d.Seconds())
}

// StoreError учитывает ошибку хранилища в операции op.
func (m *Metrics) StoreError(op string) {
	if m == nil {
		return
	}
	m.storeErrors.WithLabelValues(op).Inc()
}

// ObserveHTTP учитывает обработанный HTTP-запрос.
// route — шаблон маршрута chi, а не сырой путь.
func (m *Metrics) ObserveHTTP(method, route string, status int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// SetStats обновляет gauge'и по счётчикам хранилища.
func (m *Metrics) SetStats(st models.CacheStats) {
	if m == nil {
		return
	}
	m.cached.Set(float64(st.Cached))
	m.bookmarked.Set(float64(st.Bookmarked))
}
