// storage определяет контракты локального хранилища статей.
package storage

import (
	"context"
	"errors"
	"strings"

	"github.com/pribylovaa/news-reader/internal/models"
)

var (
	// ErrInvalidArticle — у статьи нет url или заголовка; такая запись не сохраняется.
	ErrInvalidArticle = errors.New("invalid article")
)

// ArticleStorage описывает операции над CachedArticleRecord с ключом url.
//
// Реализации обеспечивают single-writer семантику: чтения могут идти
// параллельно друг с другом, но не с незавершённой записью.
type ArticleStorage interface {
	// UpsertArticles сохраняет пачку одной транзакцией.
	// Существующая запись: обновляются title/author/description/cached_at, закладка не трогается.
	// Новая запись: все поля, bookmarked=false, cached_at=now.
	// Ошибка по отдельной статье логируется и не прерывает пачку.
	UpsertArticles(ctx context.Context, items []models.Article) error
	// CachedArticles возвращает все записи, cached_at DESC.
	CachedArticles(ctx context.Context) ([]models.Article, error)
	// SetBookmark ставит/снимает закладку по article.URL.
	// value=true и записи нет — запись создаётся из article; value=false и записи нет — no-op.
	SetBookmark(ctx context.Context, article models.Article, value bool) error
	// BookmarkedArticles возвращает записи с закладкой, cached_at DESC.
	BookmarkedArticles(ctx context.Context) ([]models.Article, error)
	// IsBookmarked сообщает, стоит ли закладка на url.
	IsBookmarked(ctx context.Context, url string) (bool, error)
	// Stats возвращает счётчики записей.
	Stats(ctx context.Context) (models.CacheStats, error)
}

// Storage задаёт контракт локального хранилища.
type Storage interface {
	ArticleStorage
	Close()
}

// Validate проверяет, что статью можно сохранить.
func Validate(a models.Article) error {
	if strings.TrimSpace(a.URL) == "" || strings.TrimSpace(a.Title) == "" {
		return ErrInvalidArticle
	}

	return nil
}
