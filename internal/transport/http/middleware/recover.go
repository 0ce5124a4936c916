package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	apierrors "github.com/pribylovaa/news-reader/internal/errors"
	logctx "github.com/pribylovaa/news-reader/pkg/log"
)

// Recover перехватывает panic, конвертирует в 500/internal и пишет унифицированный ответ.
// Детали паники не утекают на клиент.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}

					logctx.From(r.Context()).
						LogAttrs(r.Context(), slog.LevelError, "panic_recovered",
							slog.String("path", r.URL.Path),
							slog.Any("panic", rec),
							slog.String("stack", string(debug.Stack())),
						)
					apierrors.WriteError(w, r, errors.New("internal"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
