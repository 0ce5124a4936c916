package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/pribylovaa/news-reader/pkg/log"
)

// StartRefresh периодически прогревает кэш первой страницей ленты.
//
// Особенности:
//   - первый проход выполняется сразу, далее — раз в cfg.Refresh.Interval;
//   - interval <= 0 — прогрев выключен, функция сразу возвращается;
//   - останавливается по ctx.
func (s *Service) StartRefresh(ctx context.Context) {
	const op = "service.refresh.StartRefresh"

	lg := log.From(ctx)
	interval := s.cfg.Refresh.Interval

	if interval <= 0 {
		lg.Info("refresh_disabled", slog.String("op", op))
		return
	}

	lg.Info("refresh_start",
		slog.String("op", op),
		slog.Duration("interval", interval),
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.refreshOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			lg.Info("refresh_stop", slog.String("op", op))
			return
		case <-ticker.C:
			s.refreshOnce(ctx)
		}
	}
}

// refreshOnce — один проход прогрева.
func (s *Service) refreshOnce(ctx context.Context) {
	const op = "service.refresh.refreshOnce"

	res := s.FetchArticlesResult(ctx, 1, s.cfg.Limits.DefaultPageSize)

	attrs := []any{
		slog.String("op", op),
		slog.String("origin", string(res.Origin)),
		slog.Int("items", len(res.Articles)),
	}
	if res.Stale() {
		log.From(ctx).Warn("refresh_tick_stale", attrs...)
		return
	}

	log.From(ctx).Info("refresh_tick_ok", attrs...)
}
