package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/pribylovaa/news-reader/internal/models"
	"github.com/pribylovaa/news-reader/internal/service"
)

// ArticleService — операции координатора, доступные HTTP API.
type ArticleService interface {
	FetchArticlesResult(ctx context.Context, page, pageSize int) models.FetchResult
	CachedArticles(ctx context.Context) []models.Article
	SearchArticles(query string, articles []models.Article) []models.Article
	BookmarkArticle(ctx context.Context, article models.Article) error
	RemoveBookmark(ctx context.Context, article models.Article) error
	ToggleBookmark(ctx context.Context, article models.Article) (bool, error)
	BookmarkedArticles(ctx context.Context) []models.Article
	IsArticleBookmarked(ctx context.Context, article models.Article) bool
	Stats(ctx context.Context) (models.CacheStats, error)
}

// Handlers агрегирует зависимости хендлеров.
type Handlers struct {
	svc ArticleService
}

func New(svc ArticleService) *Handlers {
	return &Handlers{svc: svc}
}

// articlesResponse — список статей.
type articlesResponse struct {
	Articles []models.Article `json:"articles"`
}

// bookmarkedResponse — состояние закладки.
type bookmarkedResponse struct {
	Bookmarked bool `json:"bookmarked"`
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(value); err != nil {
		return fmt.Errorf("decode body: %w: %w", service.ErrInvalidArgument, err)
	}
	return nil
}

// queryInt разбирает необязательный целочисленный query-параметр; пусто — 0.
func queryInt(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("query %s: %w", name, service.ErrInvalidArgument)
	}

	return n, nil
}

// queryURL возвращает обязательный параметр url.
func queryURL(r *http.Request) (string, error) {
	u := r.URL.Query().Get("url")
	if u == "" {
		return "", fmt.Errorf("query url: %w", service.ErrInvalidArgument)
	}

	return u, nil
}
