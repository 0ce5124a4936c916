package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/pribylovaa/news-reader/internal/models"
	"github.com/pribylovaa/news-reader/internal/storage"
	"github.com/pribylovaa/news-reader/pkg/log"
)

// Поля Hash статьи.
const (
	fieldData       = "data"
	fieldBookmarked = "bookmarked"
	fieldCachedAt   = "cached_at"
)

// pendingWrite — подготовленная запись одной статьи.
type pendingWrite struct {
	url        string
	data       []byte
	bookmarked bool
}

// UpsertArticles сохраняет пачку одной транзакцией MULTI/EXEC с upsert по url.
//
// Существующая запись: из новой статьи берутся title/author/description,
// остальное и флаг закладки сохраняются; cached_at обновляется.
// Повторы url внутри пачки схлопываются (побеждает последний).
func (s *Storage) UpsertArticles(ctx context.Context, items []models.Article) error {
	const op = "storage.redis.UpsertArticles"

	lg := log.From(ctx)

	batch := make([]models.Article, 0, len(items))
	index := make(map[string]int, len(items))
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
		if j, ok := index[a.URL]; ok {
			batch[j] = a
			continue
		}
		index[a.URL] = len(batch)
		batch = append(batch, a)
	}

	if len(batch) == 0 {
		return nil
	}

	keys := make([]string, len(batch))
	for i, a := range batch {
		keys[i] = s.articleKey(a.URL)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cachedAt := s.now().UnixMicro()

	txf := func(tx *redis.Tx) error {
		reads, err := tx.Pipelined(ctx, func(p redis.Pipeliner) error {
			for _, k := range keys {
				p.HMGet(ctx, k, fieldData, fieldBookmarked)
			}
			return nil
		})
		if err != nil {
			return err
		}

		writes := make([]pendingWrite, 0, len(batch))
		for i, a := range batch {
			w, err := merge(a, reads[i].(*redis.SliceCmd).Val())
			if err != nil {
				lg.Warn("upsert_article_failed",
					slog.String("op", op),
					slog.String("url", a.URL),
					slog.String("err", err.Error()),
				)
				continue
			}
			writes = append(writes, w)
		}

		cmds, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, w := range writes {
				s.queueWrite(ctx, pipe, w, cachedAt)
			}
			return nil
		})
		return commandErrors(ctx, op, cmds, err)
	}

	if err := s.watch(ctx, txf, keys...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	lg.Debug("upsert_articles_ok",
		slog.String("op", op),
		slog.Int("items", len(items)),
		slog.Int("saved", len(batch)),
	)

	return nil
}

// merge сливает новую статью с сохранённым состоянием (data, bookmarked).
func merge(a models.Article, stored []any) (pendingWrite, error) {
	w := pendingWrite{url: a.URL}
	merged := a

	if raw, ok := stored[0].(string); ok {
		var cur models.Article
		if err := json.Unmarshal([]byte(raw), &cur); err != nil {
			return pendingWrite{}, fmt.Errorf("decode stored article: %w", err)
		}
		cur.Title = a.Title
		cur.Author = a.Author
		cur.Description = a.Description
		merged = cur

		flag, _ := stored[1].(string)
		w.bookmarked = flag == "1"
	}

	data, err := json.Marshal(merged)
	if err != nil {
		return pendingWrite{}, err
	}
	w.data = data

	return w, nil
}

// queueWrite ставит в MULTI запись Hash и обновление индексов.
func (s *Storage) queueWrite(ctx context.Context, pipe redis.Pipeliner, w pendingWrite, cachedAt int64) {
	score := float64(cachedAt)

	pipe.HSet(ctx, s.articleKey(w.url),
		fieldData, w.data,
		fieldBookmarked, boolTo01(w.bookmarked),
		fieldCachedAt, strconv.FormatInt(cachedAt, 10),
	)
	pipe.ZAdd(ctx, s.cachedKey(), redis.Z{Score: score, Member: w.url})
	if w.bookmarked {
		pipe.ZAdd(ctx, s.bookmarkedKey(), redis.Z{Score: score, Member: w.url})
	}
}

// CachedArticles возвращает все записи, новые сверху.
func (s *Storage) CachedArticles(ctx context.Context) ([]models.Article, error) {
	const op = "storage.redis.CachedArticles"

	items, err := s.list(ctx, s.cachedKey())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// BookmarkedArticles возвращает записи с закладкой, новые сверху.
func (s *Storage) BookmarkedArticles(ctx context.Context) ([]models.Article, error) {
	const op = "storage.redis.BookmarkedArticles"

	items, err := s.list(ctx, s.bookmarkedKey())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

// SetBookmark ставит или снимает закладку в транзакции под WATCH ключа статьи.
func (s *Storage) SetBookmark(ctx context.Context, a models.Article, value bool) error {
	const op = "storage.redis.SetBookmark"

	if value {
		if err := storage.Validate(a); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	key := s.articleKey(a.URL)

	s.mu.Lock()
	defer s.mu.Unlock()

	txf := func(tx *redis.Tx) error {
		cachedRaw, err := tx.HGet(ctx, key, fieldCachedAt).Result()
		exists := err == nil
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}

		switch {
		case !value && !exists:
			return nil
		case !value:
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.HSet(ctx, key, fieldBookmarked, "0")
				pipe.ZRem(ctx, s.bookmarkedKey(), a.URL)
				return nil
			})
			return err
		case exists:
			cachedAt, err := strconv.ParseInt(cachedRaw, 10, 64)
			if err != nil {
				return fmt.Errorf("decode cached_at: %w", err)
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.HSet(ctx, key, fieldBookmarked, "1")
				pipe.ZAdd(ctx, s.bookmarkedKey(), redis.Z{Score: float64(cachedAt), Member: a.URL})
				return nil
			})
			return err
		default:
			data, err := json.Marshal(a)
			if err != nil {
				return err
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				s.queueWrite(ctx, pipe, pendingWrite{url: a.URL, data: data, bookmarked: true}, s.now().UnixMicro())
				return nil
			})
			return err
		}
	}

	if err := s.watch(ctx, txf, key); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// IsBookmarked сообщает, стоит ли закладка на url.
func (s *Storage) IsBookmarked(ctx context.Context, url string) (bool, error) {
	const op = "storage.redis.IsBookmarked"

	s.mu.RLock()
	defer s.mu.RUnlock()

	v, err := s.rdb.HGet(ctx, s.articleKey(url), fieldBookmarked).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return v == "1", nil
}

// Stats возвращает число записей и закладок.
func (s *Storage) Stats(ctx context.Context) (models.CacheStats, error) {
	const op = "storage.redis.Stats"

	s.mu.RLock()
	defer s.mu.RUnlock()

	var cached, bookmarked *redis.IntCmd
	if _, err := s.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		cached = p.ZCard(ctx, s.cachedKey())
		bookmarked = p.ZCard(ctx, s.bookmarkedKey())
		return nil
	}); err != nil {
		return models.CacheStats{}, fmt.Errorf("%s: %w", op, err)
	}

	return models.CacheStats{
		Cached:     int(cached.Val()),
		Bookmarked: int(bookmarked.Val()),
	}, nil
}

// list читает статьи по индексу zkey в порядке убывания score.
func (s *Storage) list(ctx context.Context, zkey string) ([]models.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	urls, err := s.rdb.ZRevRange(ctx, zkey, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	items := make([]models.Article, 0, len(urls))
	if len(urls) == 0 {
		return items, nil
	}

	cmds, err := s.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		for _, u := range urls {
			p.HGet(ctx, s.articleKey(u), fieldData)
		}
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	for i, c := range cmds {
		raw, err := c.(*redis.StringCmd).Result()
		if err != nil {
			// Висячий член индекса без Hash — пропускаем.
			continue
		}

		var a models.Article
		if err := json.Unmarshal([]byte(raw), &a); err != nil {
			log.From(ctx).Warn("stored_article_corrupted",
				slog.String("url", urls[i]),
				slog.String("err", err.Error()),
			)
			continue
		}
		items = append(items, a)
	}

	return items, nil
}

// watch выполняет fn под WATCH keys с повтором при конфликте.
func (s *Storage) watch(ctx context.Context, fn func(*redis.Tx) error, keys ...string) error {
	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err := s.rdb.Watch(ctx, fn, keys...)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}

	return redis.TxFailedErr
}

// commandErrors логирует ошибки отдельных команд EXEC.
// Ошибка возвращается, только если упали все команды (соединение, конфликт WATCH).
func commandErrors(ctx context.Context, op string, cmds []redis.Cmder, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, redis.TxFailedErr) || len(cmds) == 0 {
		return err
	}

	failed := 0
	for _, c := range cmds {
		if c.Err() != nil {
			failed++
			log.From(ctx).Warn("redis_command_failed",
				slog.String("op", op),
				slog.String("cmd", c.Name()),
				slog.String("err", c.Err().Error()),
			)
		}
	}

	if failed == len(cmds) {
		return err
	}

	return nil
}

func boolTo01(b bool) string {
	if b {
		return "1"
	}

	return "0"
}
