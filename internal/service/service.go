// service содержит бизнес-логику news-reader: координатор между
// удалённым источником и локальным хранилищем статей.
package service

import (
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pribylovaa/news-reader/internal/config"
	"github.com/pribylovaa/news-reader/internal/metrics"
	"github.com/pribylovaa/news-reader/internal/storage"
)

var (
	// ErrInvalidArgument — некорректные входные аргументы (например, пустой url).
	// Транспорт: 400.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrClosed — сервис закрыт, фоновая работа не запускается.
	ErrClosed = errors.New("service closed")
)

// Service — координатор кэша статей.
//
// Чтения из сети всегда завершаются успешно: при любой ошибке источника
// отдаётся содержимое кэша. Запись полученной пачки идёт в фоне.
type Service struct {
	storage storage.Storage
	source  Source
	cfg     config.Config
	metrics *metrics.Metrics
	now     func() time.Time

	group    singleflight.Group
	toggleMu sync.Mutex
	// wg отслеживает фоновые записи и общие походы в источник; Close дожидается их.
	wg      sync.WaitGroup
	closeMu sync.Mutex
	closed  bool
}

// Option настраивает Service.
type Option func(*Service)

// WithMetrics подключает метрики Prometheus.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock подменяет источник времени.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New создает новый экземпляр Service.
func New(storage storage.Storage, source Source, cfg config.Config, opts ...Option) *Service {
	s := &Service{
		storage: storage,
		source:  source,
		cfg:     cfg,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Close дожидается завершения фоновых записей.
// Хранилище закрывает владелец.
func (s *Service) Close() {
	s.closeMu.Lock()
	s.closed = true
	s.closeMu.Unlock()

	s.wg.Wait()
}

// acquire занимает слот фоновой работы в wg; после Close возвращает false.
// Вызывающий освобождает слот через s.wg.Done.
func (s *Service) acquire() bool {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()

	if s.closed {
		return false
	}

	s.wg.Add(1)
	return true
}
