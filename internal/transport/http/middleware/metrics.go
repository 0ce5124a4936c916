package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/news-reader/internal/metrics"
)

// Metrics считает запросы по методу, шаблону маршрута chi и статусу.
// Неизвестные маршруты попадают под метку "unmatched", чтобы не раздувать кардинальность.
func Metrics(m *metrics.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}

			m.ObserveHTTP(r.Method, route, sw.code())
		})
	}
}
