// redis — хранилище статей поверх Redis.
//
// Раскладка ключей (prefix по умолчанию "news:"):
//   - <prefix>article:<url> — Hash: data (JSON статьи), bookmarked (0/1), cached_at (unix µs);
//   - <prefix>cached — ZSET url со score = cached_at;
//   - <prefix>bookmarked — ZSET url с закладкой, score = cached_at.
//
// Запись идёт оптимистичными транзакциями WATCH/MULTI/EXEC.
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pribylovaa/news-reader/internal/storage"
)

// maxTxRetries — число повторов при конфликте WATCH.
const maxTxRetries = 8

// Storage — реализация storage.Storage поверх Redis.
type Storage struct {
	rdb    *redis.Client
	prefix string
	now    func() time.Time
	// mu — single-writer внутри процесса: чтения не пересекаются с записью.
	mu sync.RWMutex
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

// New создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
// Если prefix пустой — используется "news:".
func New(ctx context.Context, redisURL, prefix string, opts ...Option) (*Storage, error) {
	const op = "storage.redis.New"

	if prefix == "" {
		prefix = "news:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s := &Storage{rdb: rdb, prefix: prefix, now: time.Now}
	for _, o := range opts {
		o(s)
	}

	return s, nil
}

// Close закрывает клиент Redis.
func (s *Storage) Close() {
	if err := s.rdb.Close(); err != nil {
		slog.Default().Warn("redis_close_failed", slog.String("err", err.Error()))
	}
}

func (s *Storage) articleKey(url string) string { return s.prefix + "article:" + url }
func (s *Storage) cachedKey() string            { return s.prefix + "cached" }
func (s *Storage) bookmarkedKey() string        { return s.prefix + "bookmarked" }

// Проверка на соответствие интерфейсу Storage.
var _ storage.Storage = (*Storage)(nil)
