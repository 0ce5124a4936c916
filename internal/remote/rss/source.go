// rss — удалённый источник статей поверх набора RSS/Atom-лент.
//
// Ленты разбираются конкурентно (ограничение — семафор maxConc), элементы
// сливаются, дедуплицируются по канонической ссылке, сортируются по дате
// публикации (новые сверху) и нарезаются на страницы локально.
package rss

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/pribylovaa/news-reader/internal/models"
	"github.com/pribylovaa/news-reader/internal/remote"
	"github.com/pribylovaa/news-reader/pkg/log"
)

// Availability — явная проверка связности (см. reachability.Checker).
type Availability interface {
	IsAvailable(ctx context.Context) bool
}

// Source реализует service.Source для списка лент.
type Source struct {
	feeds        []string
	client       *http.Client
	maxConc      int
	availability Availability
}

// Option настраивает Source.
type Option func(*Source)

// WithHTTPClient задаёт HTTP-клиент.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Source) {
		if hc != nil {
			s.client = hc
		}
	}
}

// WithMaxConcurrent ограничивает число одновременно загружаемых лент.
func WithMaxConcurrent(n int) Option {
	return func(s *Source) {
		if n > 0 {
			s.maxConc = n
		}
	}
}

// WithAvailability подключает проверку связности.
func WithAvailability(a Availability) Option {
	return func(s *Source) { s.availability = a }
}

// New создаёт источник по списку лент.
func New(feeds []string, opts ...Option) *Source {
	s := &Source{
		feeds:   append([]string(nil), feeds...),
		client:  &http.Client{Timeout: 15 * time.Second},
		maxConc: 6,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// feedResult — результат разбора одной ленты.
type feedResult struct {
	url   string
	items []models.Article
	err   error
}

// IsAvailable делегирует проверку связности; без проверки считается, что сеть есть.
func (s *Source) IsAvailable(ctx context.Context) bool {
	if s.availability == nil {
		return true
	}

	return s.availability.IsAvailable(ctx)
}

// Fetch разбирает все ленты и возвращает страницу page размером pageSize.
// Ошибка возвращается, только если не удалось разобрать ни одной ленты.
func (s *Source) Fetch(ctx context.Context, page, pageSize int) (*models.FeedPage, error) {
	const op = "rss.Fetch"

	if page < 1 || pageSize < 1 {
		return nil, fmt.Errorf("%s: page=%d page_size=%d: %w", op, page, pageSize, remote.ErrInvalidRequest)
	}
	if len(s.feeds) == 0 {
		return nil, fmt.Errorf("%s: no feeds configured: %w", op, remote.ErrInvalidRequest)
	}

	lg := log.From(ctx)

	var (
		all      []models.Article
		firstErr error
		feedsOK  int
	)

	results := make(map[string]feedResult, len(s.feeds))
	for res := range s.parseMany(ctx) {
		results[res.url] = res
	}

	// Обход в порядке конфигурации: при дубликатах побеждает более ранняя лента.
	seen := make(map[string]struct{})
	for _, u := range s.feeds {
		res, ok := results[u]
		if !ok {
			continue
		}
		delete(results, u)

		if res.err != nil {
			lg.Warn("feed_parse_error",
				slog.String("op", op),
				slog.String("url", res.url),
				slog.String("err", res.err.Error()),
			)
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}

		feedsOK++
		for _, a := range res.items {
			if _, dup := seen[a.URL]; dup {
				continue
			}
			seen[a.URL] = struct{}{}
			all = append(all, a)
		}
	}

	if feedsOK == 0 {
		if firstErr == nil {
			firstErr = ctx.Err()
		}
		return nil, fmt.Errorf("%s: all feeds failed: %w", op, firstErr)
	}

	sortNewestFirst(all)

	start := (page - 1) * pageSize
	var items []models.Article
	if start < len(all) {
		end := min(start+pageSize, len(all))
		items = all[start:end]
	}

	lg.Debug("rss_fetch_ok",
		slog.String("op", op),
		slog.Int("feeds_ok", feedsOK),
		slog.Int("total", len(all)),
		slog.Int("page_items", len(items)),
	)

	return &models.FeedPage{
		Status:       "ok",
		TotalResults: len(all),
		Articles:     items,
	}, nil
}

// parseMany разбирает ленты конкурентно и отдаёт результаты в канал.
// Канал закрывается после обработки всех URL.
func (s *Source) parseMany(ctx context.Context) <-chan feedResult {
	output := make(chan feedResult, len(s.feeds))

	go func() {
		defer close(output)

		sem := make(chan struct{}, s.maxConc)

		for _, u := range s.feeds {
			select {
			case <-ctx.Done():
				output <- feedResult{url: u, err: fmt.Errorf("%w: %w", remote.ErrUnavailable, ctx.Err())}
				continue
			case sem <- struct{}{}:
			}

			go func(feedURL string) {
				defer func() { <-sem }()

				items, err := s.fetchOne(ctx, feedURL)
				output <- feedResult{url: feedURL, items: items, err: err}
			}(u)
		}

		for i := 0; i < cap(sem); i++ {
			sem <- struct{}{}
		}
	}()

	return output
}

// fetchOne загружает и разбирает одну ленту.
func (s *Source) fetchOne(ctx context.Context, src string) ([]models.Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("new_request: %w: %w", remote.ErrInvalidRequest, err)
	}
	req.Header.Set("User-Agent", "news-reader/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do: %w: %w", remote.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &remote.ServerError{Code: resp.StatusCode}
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse: %w: %w", remote.ErrDecode, err)
	}

	return convertFeed(feed), nil
}

// convertFeed переводит элементы ленты в доменные статьи.
// Элементы без заголовка или ссылки отбрасываются.
func convertFeed(feed *gofeed.Feed) []models.Article {
	source := models.Source{Name: strings.TrimSpace(feed.Title)}

	out := make([]models.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}

		title := strings.TrimSpace(item.Title)
		link := canonicalLink(item.Link, item.GUID)
		if title == "" || link == "" {
			continue
		}

		out = append(out, models.Article{
			URL:         link,
			Title:       title,
			Author:      authorOf(item),
			Description: strings.TrimSpace(item.Description),
			ImageURL:    pickImageURL(item),
			PublishedAt: publishedAt(item),
			Content:     strings.TrimSpace(item.Content),
			Source:      source,
		})
	}

	return out
}

func authorOf(item *gofeed.Item) string {
	for _, p := range item.Authors {
		if p != nil && strings.TrimSpace(p.Name) != "" {
			return strings.TrimSpace(p.Name)
		}
	}

	return ""
}

// publishedAt возвращает дату публикации в RFC 3339 (UTC),
// иначе — дату обновления, иначе — исходную строку.
func publishedAt(item *gofeed.Item) string {
	switch {
	case item.PublishedParsed != nil:
		return item.PublishedParsed.UTC().Format(time.RFC3339)
	case item.UpdatedParsed != nil:
		return item.UpdatedParsed.UTC().Format(time.RFC3339)
	default:
		return strings.TrimSpace(item.Published)
	}
}

// pickImageURL выбирает обложку в порядке приоритетов:
// 1) image элемента; 2) enclosure image/*; 3) первая <img src> из content, затем description.
func pickImageURL(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}

	for _, e := range item.Enclosures {
		if e == nil || e.URL == "" {
			continue
		}
		if t := strings.ToLower(e.Type); t == "" || strings.HasPrefix(t, "image/") {
			return e.URL
		}
	}

	if u := firstImgSrc(item.Content); u != "" {
		return u
	}

	return firstImgSrc(item.Description)
}

var reImg = regexp.MustCompile(`(?is)<img[^>]+src=["']([^"']+)["']`)

func firstImgSrc(html string) string {
	if m := reImg.FindStringSubmatch(html); len(m) >= 2 {
		return strings.TrimSpace(m[1])
	}

	return ""
}

// sortNewestFirst сортирует по дате публикации, статьи без даты — в конце.
// Сортировка стабильная: порядок внутри ленты сохраняется при равных датах.
func sortNewestFirst(items []models.Article) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, okI := items[i].PublishedTime()
		tj, okJ := items[j].PublishedTime()

		switch {
		case okI && okJ:
			return ti.After(tj)
		case okI != okJ:
			return okI
		default:
			return false
		}
	})
}
