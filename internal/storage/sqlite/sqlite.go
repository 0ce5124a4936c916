// sqlite — встраиваемое файловое хранилище статей (modernc.org/sqlite, без cgo).
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pribylovaa/news-reader/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS articles (
	url          TEXT PRIMARY KEY,
	title        TEXT NOT NULL,
	author       TEXT NOT NULL DEFAULT '',
	description  TEXT NOT NULL DEFAULT '',
	image_url    TEXT NOT NULL DEFAULT '',
	published_at TEXT NOT NULL DEFAULT '',
	content      TEXT NOT NULL DEFAULT '',
	source_id    TEXT NOT NULL DEFAULT '',
	source_name  TEXT NOT NULL DEFAULT '',
	bookmarked   INTEGER NOT NULL DEFAULT 0,
	cached_at    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_articles_cached_at ON articles(cached_at DESC);
CREATE INDEX IF NOT EXISTS idx_articles_bookmarked ON articles(bookmarked, cached_at DESC);
`

// Storage — реализация storage.Storage поверх SQLite.
//
// Запись сериализуется mu (single-writer), чтения берут RLock и не
// пересекаются с незавершённой транзакцией записи.
type Storage struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// Option настраивает Storage.
type Option func(*Storage)

// WithClock подменяет источник времени для cached_at.
func WithClock(now func() time.Time) Option {
	return func(s *Storage) {
		if now != nil {
			s.now = now
		}
	}
}

// New открывает (или создаёт) базу по пути path и применяет схему.
func New(ctx context.Context, path string, opts ...Option) (*Storage, error) {
	const op = "storage.sqlite.New"

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: open: %w", op, err)
	}
	// Один писатель на файл: остальные ждут соединение в пуле, а не SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: schema: %w", op, err)
	}

	s := &Storage{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Close закрывает базу.
func (s *Storage) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Close(); err != nil {
		slog.Default().Warn("sqlite_close_failed", slog.String("err", err.Error()))
	}
}

// Проверка на соответствие интерфейсу Storage.
var _ storage.Storage = (*Storage)(nil)
