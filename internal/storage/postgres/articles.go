package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pribylovaa/news-reader/internal/models"
	"github.com/pribylovaa/news-reader/internal/storage"
	"github.com/pribylovaa/news-reader/pkg/log"
)

const selectColumns = `url, title, author, description, image_url, published_at, content, source_id, source_name`

// UpsertArticles сохраняет пачку одной транзакцией с upsert по url.
//
// Каждая строка выполняется внутри savepoint (вложенная pgx.Tx): ошибка
// одной статьи откатывает только её, остальные фиксируются общим COMMIT.
//
// Политика обновления существующей записи:
//   - title/author/description — перезаписываются;
//   - cached_at — текущее время;
//   - bookmarked и прочие поля — не меняются.
func (s *Storage) UpsertArticles(ctx context.Context, items []models.Article) error {
	const op = "storage.postgres.UpsertArticles"

	if len(items) == 0 {
		return nil
	}

	lg := log.From(ctx)
	cachedAt := s.now().UTC()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	defer tx.Rollback(ctx)

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

		if err := upsertRow(ctx, tx, a, cachedAt); err != nil {
			lg.Warn("upsert_article_failed",
				slog.String("op", op),
				slog.String("url", a.URL),
				slog.String("err", err.Error()),
			)
			continue
		}
		saved++
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	lg.Debug("upsert_articles_ok",
		slog.String("op", op),
		slog.Int("items", len(items)),
		slog.Int("saved", saved),
	)

	return nil
}

// upsertRow выполняет upsert одной статьи внутри savepoint.
func upsertRow(ctx context.Context, tx pgx.Tx, a models.Article, cachedAt time.Time) error {
	sp, err := tx.Begin(ctx)
	if err != nil {
		return err
	}

	if _, err := sp.Exec(ctx, `
	INSERT INTO articles (url, title, author, description, image_url, published_at, content, source_id, source_name, bookmarked, cached_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, FALSE, $10)
	ON CONFLICT (url) DO UPDATE
	SET
	title = EXCLUDED.title,
	author = EXCLUDED.author,
	description = EXCLUDED.description,
	cached_at = EXCLUDED.cached_at
	`, a.URL, a.Title, a.Author, a.Description, a.ImageURL, a.PublishedAt, a.Content,
		a.Source.ID, a.Source.Name, cachedAt,
	); err != nil {
		_ = sp.Rollback(ctx)
		return err
	}

	return sp.Commit(ctx)
}

// CachedArticles возвращает все записи, новые сверху.
func (s *Storage) CachedArticles(ctx context.Context) ([]models.Article, error) {
	const op = "storage.postgres.CachedArticles"

	items, err := s.query(ctx, `SELECT `+selectColumns+` FROM articles ORDER BY cached_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// BookmarkedArticles возвращает записи с закладкой, новые сверху.
func (s *Storage) BookmarkedArticles(ctx context.Context) ([]models.Article, error) {
	const op = "storage.postgres.BookmarkedArticles"

	items, err := s.query(ctx, `SELECT `+selectColumns+` FROM articles WHERE bookmarked ORDER BY cached_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// SetBookmark ставит или снимает закладку одним оператором (атомарно по url).
func (s *Storage) SetBookmark(ctx context.Context, a models.Article, value bool) error {
	const op = "storage.postgres.SetBookmark"

	if !value {
		if _, err := s.db.Exec(ctx, `UPDATE articles SET bookmarked = FALSE WHERE url = $1`, a.URL); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	}

	if err := storage.Validate(a); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.db.Exec(ctx, `
	INSERT INTO articles (url, title, author, description, image_url, published_at, content, source_id, source_name, bookmarked, cached_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE, $10)
	ON CONFLICT (url) DO UPDATE SET bookmarked = TRUE
	`, a.URL, a.Title, a.Author, a.Description, a.ImageURL, a.PublishedAt, a.Content,
		a.Source.ID, a.Source.Name, s.now().UTC(),
	); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// IsBookmarked сообщает, стоит ли закладка на url.
func (s *Storage) IsBookmarked(ctx context.Context, url string) (bool, error) {
	const op = "storage.postgres.IsBookmarked"

	var ok bool
	if err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM articles WHERE url = $1 AND bookmarked)`, url,
	).Scan(&ok); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return ok, nil
}

// Stats возвращает число записей и закладок.
func (s *Storage) Stats(ctx context.Context) (models.CacheStats, error) {
	const op = "storage.postgres.Stats"

	var st models.CacheStats
	if err := s.db.QueryRow(ctx,
		`SELECT count(*), count(*) FILTER (WHERE bookmarked) FROM articles`,
	).Scan(&st.Cached, &st.Bookmarked); err != nil {
		return models.CacheStats{}, fmt.Errorf("%s: %w", op, err)
	}

	return st, nil
}

func (s *Storage) query(ctx context.Context, q string, args ...any) ([]models.Article, error) {
	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

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
