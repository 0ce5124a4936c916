package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pribylovaa/news-reader/internal/models"
	"github.com/pribylovaa/news-reader/pkg/log"
)

// CachedArticles возвращает весь кэш, новые сверху, не обращаясь к сети.
// Сбой хранилища логируется и даёт пустой список.
func (s *Service) CachedArticles(ctx context.Context) []models.Article {
	const op = "service.queries.CachedArticles"

	items, err := s.storage.CachedArticles(ctx)
	if err != nil {
		s.metrics.StoreError("cached")
		log.From(ctx).Error("cached_articles_storage_error",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)

		return []models.Article{}
	}

	return items
}

// BookmarkedArticles возвращает статьи с закладкой, новые сверху.
// Сбой хранилища логируется и даёт пустой список.
func (s *Service) BookmarkedArticles(ctx context.Context) []models.Article {
	const op = "service.queries.BookmarkedArticles"

	items, err := s.storage.BookmarkedArticles(ctx)
	if err != nil {
		s.metrics.StoreError("bookmarked")
		log.From(ctx).Error("bookmarked_articles_storage_error",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)

		return []models.Article{}
	}

	return items
}

// IsArticleBookmarked сообщает, стоит ли закладка на статью.
// Сбой хранилища логируется и даёт false.
func (s *Service) IsArticleBookmarked(ctx context.Context, article models.Article) bool {
	const op = "service.queries.IsArticleBookmarked"

	ok, err := s.storage.IsBookmarked(ctx, article.URL)
	if err != nil {
		s.metrics.StoreError("is_bookmarked")
		log.From(ctx).Error("is_bookmarked_storage_error",
			slog.String("op", op),
			slog.String("url", article.URL),
			slog.String("err", err.Error()),
		)

		return false
	}

	return ok
}

// Stats возвращает счётчики хранилища и обновляет gauge'и.
func (s *Service) Stats(ctx context.Context) (models.CacheStats, error) {
	const op = "service.queries.Stats"

	st, err := s.storage.Stats(ctx)
	if err != nil {
		s.metrics.StoreError("stats")
		return models.CacheStats{}, fmt.Errorf("%s: %w", op, err)
	}

	s.metrics.SetStats(st)

	return st, nil
}

// observeStats обновляет gauge'и, ошибки только логируются.
func (s *Service) observeStats(ctx context.Context) {
	if _, err := s.Stats(ctx); err != nil {
		log.From(ctx).Warn("observe_stats_failed", slog.String("err", err.Error()))
	}
}
