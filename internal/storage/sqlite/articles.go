package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pribylovaa/news-reader/internal/models"
	"github.com/pribylovaa/news-reader/internal/storage"
	"github.com/pribylovaa/news-reader/pkg/log"
)

const selectColumns = `url, title, author, description, image_url, published_at, content, source_id, source_name`

// UpsertArticles сохраняет пачку одной транзакцией с upsert по url.
//
// Политика обновления существующей записи:
//   - title/author/description — перезаписываются;
//   - cached_at — текущее время;
//   - bookmarked и прочие поля — не меняются.
func (s *Storage) UpsertArticles(ctx context.Context, items []models.Article) error {
	const op = "storage.sqlite.UpsertArticles"

	if len(items) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lg := log.From(ctx)
	cachedAt := s.now().UnixNano()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO articles (url, title, author, description, image_url, published_at, content, source_id, source_name, bookmarked, cached_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?)
	ON CONFLICT(url) DO UPDATE SET
		title = excluded.title,
		author = excluded.author,
		description = excluded.description,
		cached_at = excluded.cached_at
	`)
	if err != nil {
		return fmt.Errorf("%s: prepare: %w", op, err)
	}
	defer stmt.Close()

	saved := 0
	for i, a := range items {
		if err := storage.Validate(a); err != nil {
			lg.Warn("upsert_article_skipped",
				slog.String("op", op),
				slog.Int("index", i),
				slog.String("url", a.URL),
				slog.String("err", err.Error()),
			)
			continue
		}

		if _, err := stmt.ExecContext(ctx,
			a.URL, a.Title, a.Author, a.Description, a.ImageURL, a.PublishedAt, a.Content,
			a.Source.ID, a.Source.Name, cachedAt,
		); err != nil {
			lg.Warn("upsert_article_failed",
				slog.String("op", op),
				slog.String("url", a.URL),
				slog.String("err", err.Error()),
			)
			continue
		}
		saved++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	lg.Debug("upsert_articles_ok",
		slog.String("op", op),
		slog.Int("items", len(items)),
		slog.Int("saved", saved),
	)

	return nil
}

// CachedArticles возвращает все записи, новые сверху.
func (s *Storage) CachedArticles(ctx context.Context) ([]models.Article, error) {
	const op = "storage.sqlite.CachedArticles"

	items, err := s.query(ctx, `SELECT `+selectColumns+` FROM articles ORDER BY cached_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// BookmarkedArticles возвращает записи с закладкой, новые сверху.
func (s *Storage) BookmarkedArticles(ctx context.Context) ([]models.Article, error) {
	const op = "storage.sqlite.BookmarkedArticles"

	items, err := s.query(ctx, `SELECT `+selectColumns+` FROM articles WHERE bookmarked = 1 ORDER BY cached_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// SetBookmark ставит или снимает закладку одним оператором.
func (s *Storage) SetBookmark(ctx context.Context, a models.Article, value bool) error {
	const op = "storage.sqlite.SetBookmark"

	s.mu.Lock()
	defer s.mu.Unlock()

	if !value {
		if _, err := s.db.ExecContext(ctx, `UPDATE articles SET bookmarked = 0 WHERE url = ?`, a.URL); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	}

	if err := storage.Validate(a); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.db.ExecContext(ctx, `
	INSERT INTO articles (url, title, author, description, image_url, published_at, content, source_id, source_name, bookmarked, cached_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?)
	ON CONFLICT(url) DO UPDATE SET bookmarked = 1
	`, a.URL, a.Title, a.Author, a.Description, a.ImageURL, a.PublishedAt, a.Content,
		a.Source.ID, a.Source.Name, s.now().UnixNano(),
	); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// IsBookmarked сообщает, стоит ли закладка на url.
func (s *Storage) IsBookmarked(ctx context.Context, url string) (bool, error) {
	const op = "storage.sqlite.IsBookmarked"

	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM articles WHERE url = ? AND bookmarked = 1`, url,
	).Scan(&n); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return n > 0, nil
}

// Stats возвращает число записей и закладок.
func (s *Storage) Stats(ctx context.Context) (models.CacheStats, error) {
	const op = "storage.sqlite.Stats"

	s.mu.RLock()
	defer s.mu.RUnlock()

	var st models.CacheStats
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(bookmarked), 0) FROM articles`,
	).Scan(&st.Cached, &st.Bookmarked); err != nil {
		return models.CacheStats{}, fmt.Errorf("%s: %w", op, err)
	}

	return st, nil
}

func (s *Storage) query(ctx context.Context, q string, args ...any) ([]models.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanArticles(rows)
}

func scanArticles(rows *sql.Rows) ([]models.Article, error) {
	items := make([]models.Article, 0)
	for rows.Next() {
		var a models.Article
		if err := rows.Scan(
			&a.URL, &a.Title, &a.Author, &a.Description, &a.ImageURL,
			&a.PublishedAt, &a.Content, &a.Source.ID, &a.Source.Name,
		); err != nil {
			return nil, err
		}
		items = append(items, a)
	}

	return items, rows.Err()
}
