package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/news-reader/internal/metrics"
	"github.com/pribylovaa/news-reader/internal/transport/http/handlers"
	"github.com/pribylovaa/news-reader/internal/transport/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	Metrics  *metrics.Metrics
	BasePath string // например, "/api"; если пустой — роуты регистрируются на корне.
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc handlers.ArticleService, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
		middleware.Timeout(opts.Timeout),
		middleware.Metrics(opts.Metrics),
	)

	h := handlers.New(svc)

	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	// articles
	r.Get("/articles", h.FetchArticles)
	r.Get("/articles/cached", h.CachedArticles)
	r.Post("/articles/search", h.SearchArticles)

	// bookmarks
	r.Get("/bookmarks", h.BookmarkedArticles)
	r.Put("/bookmarks", h.BookmarkArticle)
	r.Delete("/bookmarks", h.RemoveBookmark)
	r.Post("/bookmarks/toggle", h.ToggleBookmark)
	r.Get("/bookmarks/status", h.BookmarkStatus)

	r.Get("/stats", h.Stats)
}
