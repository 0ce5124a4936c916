package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/pribylovaa/news-reader/internal/config"
	"github.com/pribylovaa/news-reader/internal/metrics"
	"github.com/pribylovaa/news-reader/internal/remote/newsapi"
	"github.com/pribylovaa/news-reader/internal/remote/reachability"
	"github.com/pribylovaa/news-reader/internal/remote/rss"
	"github.com/pribylovaa/news-reader/internal/service"
	"github.com/pribylovaa/news-reader/internal/storage"
	"github.com/pribylovaa/news-reader/internal/storage/postgres"
	"github.com/pribylovaa/news-reader/internal/storage/redis"
	"github.com/pribylovaa/news-reader/internal/storage/sqlite"
)

const storeOpenTimeout = 10 * time.Second

// app — собранные зависимости процесса.
type app struct {
	cfg     *config.Config
	log     *slog.Logger
	store   storage.Storage
	checker *reachability.Checker // nil, если probe-адрес не вычислен
	svc     *service.Service
}

// newApp открывает хранилище, собирает удалённый источник и координатор.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) (*app, error) {
	const op = "main.newApp"

	store, err := openStorage(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logger.Info("storage_opened", slog.String("driver", cfg.Store.Driver))

	checker := newChecker(cfg, logger)

	source, err := newSource(cfg, checker)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	svc := service.New(store, source, *cfg, service.WithMetrics(m))

	return &app{cfg: cfg, log: logger, store: store, checker: checker, svc: svc}, nil
}

// Close дожидается фоновых записей и закрывает хранилище.
func (a *app) Close() {
	a.svc.Close()
	a.store.Close()
}

// openStorage выбирает бэкенд по store.driver.
func openStorage(ctx context.Context, cfg config.StoreConfig) (storage.Storage, error) {
	const op = "main.openStorage"

	ctx, cancel := context.WithTimeout(ctx, storeOpenTimeout)
	defer cancel()

	switch cfg.Driver {
	case config.DriverPostgres:
		st, err := postgres.New(ctx, cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return st, nil
	case config.DriverRedis:
		st, err := redis.New(ctx, cfg.RedisURL, cfg.RedisPrefix)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return st, nil
	default:
		path, err := cfg.StorePath()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		st, err := sqlite.New(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return st, nil
	}
}

// newChecker строит проверку связности. Адрес берётся из reachability.probe_addr,
// иначе из base_url (newsapi) или первой ленты (rss).
func newChecker(cfg *config.Config, logger *slog.Logger) *reachability.Checker {
	addr := cfg.Reachability.ProbeAddr
	if addr == "" {
		target := cfg.Remote.BaseURL
		if cfg.Remote.Kind == config.RemoteRSS && len(cfg.Remote.Feeds) > 0 {
			target = cfg.Remote.Feeds[0]
		}

		var err error
		addr, err = reachability.ProbeAddrFromURL(target)
		if err != nil {
			logger.Warn("reachability_disabled",
				slog.String("target", target),
				slog.String("err", err.Error()),
			)
			return nil
		}
	}

	return reachability.New(addr, cfg.Reachability.TTL, cfg.Reachability.DialTimeout)
}

// newSource собирает удалённый источник по remote.kind.
func newSource(cfg *config.Config, checker *reachability.Checker) (service.Source, error) {
	hc := &http.Client{Timeout: cfg.Timeouts.Request}

	switch cfg.Remote.Kind {
	case config.RemoteRSS:
		opts := []rss.Option{rss.WithHTTPClient(hc)}
		if checker != nil {
			opts = append(opts, rss.WithAvailability(checker))
		}
		return rss.New(cfg.Remote.Feeds, opts...), nil
	case config.RemoteNewsAPI:
		opts := []newsapi.Option{
			newsapi.WithHTTPClient(hc),
			newsapi.WithCountry(cfg.Remote.Country),
			newsapi.WithRetries(cfg.Remote.Retries),
		}
		if checker != nil {
			opts = append(opts, newsapi.WithAvailability(checker))
		}
		return newsapi.New(cfg.Remote.BaseURL, cfg.Remote.APIKey, opts...), nil
	default:
		return nil, fmt.Errorf("main.newSource: unknown remote kind %q", cfg.Remote.Kind)
	}
}
