package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/pribylovaa/news-reader/internal/models"
	"github.com/pribylovaa/news-reader/internal/remote"
	"github.com/pribylovaa/news-reader/pkg/log"
)

// FetchArticles загружает страницу статей из источника.
// Ошибку не возвращает: при любом сбое отдаётся CachedArticles.
func (s *Service) FetchArticles(ctx context.Context, page, pageSize int) []models.Article {
	return s.FetchArticlesResult(ctx, page, pageSize).Articles
}

// FetchArticlesResult — размеченная форма FetchArticles: Origin и Reason
// показывают, свежие это данные или откат на кэш.
//
// Правила нормализации:
// - page < 1 -> 1;
// - pageSize <= 0 -> cfg.Limits.DefaultPageSize;
// - pageSize > max -> cfg.Limits.MaxPageSize.
//
// Одинаковые параллельные запросы схлопываются в один поход в сеть.
// Общий поход не зависит от отмены отдельного вызывающего: тот, чей ctx
// отменён, получает кэш, остальные дожидаются ответа источника.
func (s *Service) FetchArticlesResult(ctx context.Context, page, pageSize int) models.FetchResult {
	const op = "service.fetch.FetchArticles"

	page, pageSize = s.normalizePage(page, pageSize)

	if err := ctx.Err(); err != nil {
		res := s.fallback(ctx, fmt.Errorf("%s: %w", op, err))
		s.metrics.ObserveFetch(res.Origin)
		return res
	}

	key := strconv.Itoa(page) + ":" + strconv.Itoa(pageSize)
	ch := s.group.DoChan(key, func() (any, error) {
		if !s.acquire() {
			return models.FetchResult{
				Articles: []models.Article{},
				Origin:   models.OriginCache,
				Reason:   fmt.Errorf("%s: %w", op, ErrClosed),
			}, nil
		}
		defer s.wg.Done()

		fctx, cancel := s.flightContext(ctx)
		defer cancel()

		return s.fetch(fctx, page, pageSize), nil
	})

	var res models.FetchResult
	select {
	case r := <-ch:
		res = r.Val.(models.FetchResult)
		if r.Shared {
			res.Articles = slices.Clone(res.Articles)
		}
	case <-ctx.Done():
		res = s.fallback(ctx, fmt.Errorf("%s: %w", op, ctx.Err()))
	}

	s.metrics.ObserveFetch(res.Origin)

	return res
}

func (s *Service) fetch(ctx context.Context, page, pageSize int) models.FetchResult {
	const op = "service.fetch.FetchArticles"

	lg := log.From(ctx)

	if !s.source.IsAvailable(ctx) {
		return s.fallback(ctx, fmt.Errorf("%s: source is offline: %w", op, remote.ErrUnavailable))
	}

	feed, err := s.source.Fetch(ctx, page, pageSize)
	if err != nil {
		return s.fallback(ctx, fmt.Errorf("%s: %w", op, err))
	}
	if feed == nil {
		return s.fallback(ctx, fmt.Errorf("%s: empty response: %w", op, remote.ErrDecode))
	}

	articles := feed.Articles
	if articles == nil {
		articles = []models.Article{}
	}

	s.persist(ctx, articles)

	lg.Info("fetch_articles_ok",
		slog.String("op", op),
		slog.Int("page", page),
		slog.Int("page_size", pageSize),
		slog.Int("items", len(articles)),
		slog.Int("total_results", feed.TotalResults),
	)

	return models.FetchResult{
		Articles:     articles,
		Origin:       models.OriginNetwork,
		TotalResults: feed.TotalResults,
	}
}

// fallback отдаёт содержимое кэша вместо сетевого ответа.
// Чтение идёт в отвязанном от отмены контексте: дедлайн запроса
// мог уже истечь, а кэш отдать всё равно нужно.
func (s *Service) fallback(ctx context.Context, reason error) models.FetchResult {
	const op = "service.fetch.fallback"

	label := remote.Reason(reason)
	log.From(ctx).Warn("fetch_fallback_to_cache",
		slog.String("op", op),
		slog.String("reason", label),
		slog.String("err", reason.Error()),
	)
	s.metrics.ObserveFallback(label)

	rctx, cancel := s.detached(ctx)
	defer cancel()

	items := s.CachedArticles(rctx)

	return models.FetchResult{
		Articles:     items,
		Origin:       models.OriginCache,
		TotalResults: len(items),
		Reason:       reason,
	}
}

// persist записывает пачку в хранилище в фоне.
// Вызывающий получает статьи, не дожидаясь записи.
func (s *Service) persist(ctx context.Context, articles []models.Article) {
	const op = "service.fetch.persist"

	if len(articles) == 0 {
		return
	}

	batch := slices.Clone(articles)
	lg := log.From(ctx)

	if !s.acquire() {
		lg.Warn("persist_skipped_closed",
			slog.String("op", op),
			slog.Int("items", len(batch)),
		)
		return
	}

	go func() {
		defer s.wg.Done()

		pctx, cancel := s.detached(ctx)
		defer cancel()

		start := time.Now()
		err := s.storage.UpsertArticles(pctx, batch)
		s.metrics.ObserveUpsert(time.Since(start))

		if err != nil {
			s.metrics.StoreError("upsert")
			lg.Error("persist_articles_failed",
				slog.String("op", op),
				slog.Int("items", len(batch)),
				slog.String("err", err.Error()),
			)
			return
		}

		lg.Debug("persist_articles_ok",
			slog.String("op", op),
			slog.Int("items", len(batch)),
		)

		if s.metrics != nil {
			s.observeStats(pctx)
		}
	}()
}

// detached возвращает контекст без отмены родителя с дедлайном timeouts.persist.
// Значения (логгер запроса) сохраняются.
func (s *Service) detached(ctx context.Context) (context.Context, context.CancelFunc) {
	dctx := context.WithoutCancel(ctx)
	if d := s.cfg.Timeouts.Persist; d > 0 {
		return context.WithTimeout(dctx, d)
	}

	return context.WithCancel(dctx)
}

// flightContext — контекст общего похода в источник: без отмены вызывающего,
// с дедлайном timeouts.request.
func (s *Service) flightContext(ctx context.Context) (context.Context, context.CancelFunc) {
	fctx := context.WithoutCancel(ctx)
	if d := s.cfg.Timeouts.Request; d > 0 {
		return context.WithTimeout(fctx, d)
	}

	return context.WithCancel(fctx)
}

func (s *Service) normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}

	if pageSize <= 0 {
		pageSize = s.cfg.Limits.DefaultPageSize
	}

	if s.cfg.Limits.MaxPageSize > 0 && pageSize > s.cfg.Limits.MaxPageSize {
		pageSize = s.cfg.Limits.MaxPageSize
	}

	return page, pageSize
}
