// newsapi — удалённый источник статей поверх NewsAPI (/v2/top-headlines).
package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/pribylovaa/news-reader/internal/models"
	"github.com/pribylovaa/news-reader/internal/remote"
	"github.com/pribylovaa/news-reader/pkg/log"
	"github.com/pribylovaa/news-reader/pkg/redact"
)

const (
	// maxBodyBytes — верхняя граница размера ответа.
	maxBodyBytes = 8 << 20
	statusOK     = "ok"
	userAgent    = "news-reader/1.0"
)

// Availability — явная проверка связности (см. reachability.Checker).
type Availability interface {
	IsAvailable(ctx context.Context) bool
}

// Client реализует service.Source для NewsAPI.
type Client struct {
	http         *http.Client
	baseURL      string
	apiKey       string
	country      string
	retries      int
	availability Availability
	newBackOff   func() backoff.BackOff
}

// Option настраивает Client.
type Option func(*Client)

// WithHTTPClient задаёт HTTP-клиент (таймауты, транспорт).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithCountry задаёт параметр country.
func WithCountry(country string) Option {
	return func(c *Client) { c.country = country }
}

// WithRetries задаёт число повторов при временных ошибках.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.retries = n
		}
	}
}

// WithAvailability подключает проверку связности для IsAvailable.
func WithAvailability(a Availability) Option {
	return func(c *Client) { c.availability = a }
}

// WithBackOff подменяет стратегию пауз между повторами.
func WithBackOff(f func() backoff.BackOff) Option {
	return func(c *Client) {
		if f != nil {
			c.newBackOff = f
		}
	}
}

// New создаёт клиента NewsAPI.
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
		apiKey:  apiKey,
		country: "us",
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 300 * time.Millisecond
			b.MaxElapsedTime = 10 * time.Second
			return b
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// IsAvailable делегирует проверку связности; без проверки считается, что сеть есть.
func (c *Client) IsAvailable(ctx context.Context) bool {
	if c.availability == nil {
		return true
	}

	return c.availability.IsAvailable(ctx)
}

// Fetch загружает страницу заголовков.
//
// Ошибки:
//   - remote.ErrInvalidRequest — page/pageSize < 1 или некорректный base URL;
//   - remote.ErrUnavailable — транспортная ошибка;
//   - *remote.ServerError — статус ответа не 200 (5xx и 429 повторяются);
//   - remote.ErrDecode — битый JSON или status != "ok".
func (c *Client) Fetch(ctx context.Context, page, pageSize int) (*models.FeedPage, error) {
	const op = "newsapi.Fetch"

	if page < 1 || pageSize < 1 {
		return nil, fmt.Errorf("%s: page=%d page_size=%d: %w", op, page, pageSize, remote.ErrInvalidRequest)
	}

	endpoint, err := c.endpoint(page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lg := log.From(ctx)

	var result *models.FeedPage
	attempt := 0

	operation := func() error {
		attempt++

		p, err := c.fetchOnce(ctx, endpoint)
		if err == nil {
			result = p
			return nil
		}

		if !retryable(ctx, err) {
			return backoff.Permanent(err)
		}

		lg.Warn("newsapi_retry",
			slog.String("op", op),
			slog.Int("attempt", attempt),
			slog.String("err", err.Error()),
		)
		return err
	}

	b := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), uint64(c.retries)), ctx)
	if err := backoff.Retry(operation, b); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lg.Debug("newsapi_fetch_ok",
		slog.String("op", op),
		slog.Int("page", page),
		slog.Int("page_size", pageSize),
		slog.Int("articles", len(result.Articles)),
		slog.Int("total_results", result.TotalResults),
	)

	return result, nil
}

// endpoint собирает URL запроса.
func (c *Client) endpoint(page, pageSize int) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("base url %q: %w", c.baseURL, remote.ErrInvalidRequest)
	}

	u = u.JoinPath("top-headlines")

	q := u.Query()
	if c.country != "" {
		q.Set("country", c.country)
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(pageSize))
	if c.apiKey != "" {
		q.Set("apiKey", c.apiKey)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// fetchOnce выполняет один HTTP-запрос и разбирает ответ.
func (c *Client) fetchOnce(ctx context.Context, endpoint string) (*models.FeedPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("new_request: %w: %w", remote.ErrInvalidRequest, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		// url.Error несёт полный URL вместе с apiKey.
		return nil, fmt.Errorf("do: %w: %w", remote.ErrUnavailable, redact.Error(err))
	}
	defer resp.Body.Close()

	body := io.LimitReader(resp.Body, maxBodyBytes)

	if resp.StatusCode != http.StatusOK {
		var apiErr response
		if json.NewDecoder(body).Decode(&apiErr) == nil && apiErr.Message != "" {
			log.From(ctx).Warn("newsapi_error_response",
				slog.Int("status", resp.StatusCode),
				slog.String("code", apiErr.Code),
				slog.String("message", apiErr.Message),
			)
		}
		_, _ = io.Copy(io.Discard, body)
		return nil, &remote.ServerError{Code: resp.StatusCode}
	}

	var payload response
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode: %w: %w", remote.ErrDecode, err)
	}

	if payload.Status != statusOK {
		return nil, fmt.Errorf("status=%q code=%q: %w", payload.Status, payload.Code, remote.ErrDecode)
	}

	return payload.toFeedPage(), nil
}

// retryable — повторяем временные ошибки сервера и транспорта, пока жив ctx.
func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}

	var se *remote.ServerError
	if errors.As(err, &se) {
		return se.Temporary()
	}

	return errors.Is(err, remote.ErrUnavailable)
}
