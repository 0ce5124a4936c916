package service

import (
	"context"

	"github.com/pribylovaa/news-reader/internal/models"
)

// Source — удалённый источник статей.
//
// Реализации: remote/newsapi.Client и remote/rss.Source.
type Source interface {
	// Fetch запрашивает страницу статей (page >= 1, pageSize >= 1).
	Fetch(ctx context.Context, page, pageSize int) (*models.FeedPage, error)
	// IsAvailable сообщает, есть ли сейчас сеть до источника.
	IsAvailable(ctx context.Context) bool
}
