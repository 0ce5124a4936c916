package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pribylovaa/news-reader/internal/models"
	"github.com/pribylovaa/news-reader/internal/storage"
	"github.com/pribylovaa/news-reader/pkg/log"
)

// BookmarkArticle ставит закладку. Если статьи нет в кэше, запись
// создаётся из переданной статьи.
//
// Ошибки:
// - ErrInvalidArgument — пустой url или нет заголовка у некэшированной статьи;
// - прочие ошибки стораджа — обёрнутые и прокинуты наверх.
func (s *Service) BookmarkArticle(ctx context.Context, article models.Article) error {
	const op = "service.bookmarks.BookmarkArticle"

	return s.setBookmark(ctx, op, article, true)
}

// RemoveBookmark снимает закладку; запись в кэше остаётся.
// Для отсутствующей статьи — no-op.
func (s *Service) RemoveBookmark(ctx context.Context, article models.Article) error {
	const op = "service.bookmarks.RemoveBookmark"

	return s.setBookmark(ctx, op, article, false)
}

// ToggleBookmark переключает закладку и возвращает новое состояние.
// Переключения внутри процесса выполняются по одному.
func (s *Service) ToggleBookmark(ctx context.Context, article models.Article) (bool, error) {
	const op = "service.bookmarks.ToggleBookmark"

	if strings.TrimSpace(article.URL) == "" {
		return false, fmt.Errorf("%s: empty url: %w", op, ErrInvalidArgument)
	}

	s.toggleMu.Lock()
	defer s.toggleMu.Unlock()

	current, err := s.storage.IsBookmarked(ctx, article.URL)
	if err != nil {
		s.metrics.StoreError("is_bookmarked")
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.setBookmark(ctx, op, article, !current); err != nil {
		return current, err
	}

	return !current, nil
}

func (s *Service) setBookmark(ctx context.Context, op string, article models.Article, value bool) error {
	lg := log.From(ctx)

	if strings.TrimSpace(article.URL) == "" {
		return fmt.Errorf("%s: empty url: %w", op, ErrInvalidArgument)
	}

	if err := s.storage.SetBookmark(ctx, article, value); err != nil {
		if errors.Is(err, storage.ErrInvalidArticle) {
			lg.Warn("set_bookmark_invalid_article",
				slog.String("op", op),
				slog.String("url", article.URL),
			)

			return fmt.Errorf("%s: %w: %w", op, ErrInvalidArgument, err)
		}

		s.metrics.StoreError("set_bookmark")
		lg.Error("set_bookmark_storage_error",
			slog.String("op", op),
			slog.String("url", article.URL),
			slog.Bool("value", value),
			slog.String("err", err.Error()),
		)

		return fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("set_bookmark_ok",
		slog.String("op", op),
		slog.String("url", article.URL),
		slog.Bool("value", value),
	)

	return nil
}
