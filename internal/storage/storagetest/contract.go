// storagetest — общий набор проверок контракта storage.Storage.
// Используется тестами всех реализаций (sqlite, postgres, redis).
package storagetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/news-reader/internal/models"
	"github.com/pribylovaa/news-reader/internal/storage"
)

// Clock — управляемые часы для детерминированного cached_at.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock создаёт часы, начиная с start.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now возвращает текущее значение.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance сдвигает часы вперёд.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Factory создаёт пустое хранилище с заданными часами.
type Factory func(t *testing.T, now func() time.Time) storage.Storage

// Article — фабрика тестовой статьи.
func Article(url, title string) models.Article {
	return models.Article{
		URL:         url,
		Title:       title,
		Author:      "J. Doe",
		Description: "history",
		ImageURL:    url + "/cover.jpg",
		PublishedAt: "1969-07-20T20:17:00Z",
		Content:     "The Eagle has landed",
		Source:      models.Source{ID: "nasa", Name: "NASA"},
	}
}

func urls(items []models.Article) []string {
	out := make([]string, 0, len(items))
	for _, a := range items {
		out = append(out, a.URL)
	}
	return out
}

// RunContract прогоняет проверки контракта на свежем хранилище в каждом подтесте.
func RunContract(t *testing.T, newStore Factory) {
	t.Helper()

	setup := func(t *testing.T) (storage.Storage, *Clock) {
		clock := NewClock(time.Date(2024, 7, 20, 12, 0, 0, 0, time.UTC))
		st := newStore(t, clock.Now)
		t.Cleanup(st.Close)
		return st, clock
	}

	t.Run("EmptyStore", func(t *testing.T) {
		st, _ := setup(t)
		ctx := context.Background()

		cached, err := st.CachedArticles(ctx)
		require.NoError(t, err)
		require.Empty(t, cached)

		bm, err := st.BookmarkedArticles(ctx)
		require.NoError(t, err)
		require.Empty(t, bm)

		ok, err := st.IsBookmarked(ctx, "https://example.org/none")
		require.NoError(t, err)
		require.False(t, ok)

		stats, err := st.Stats(ctx)
		require.NoError(t, err)
		require.Equal(t, models.CacheStats{}, stats)

		require.NoError(t, st.UpsertArticles(ctx, nil))
	})

	t.Run("InsertKeepsAllFields", func(t *testing.T) {
		st, _ := setup(t)
		ctx := context.Background()

		a := Article("https://example.org/a", "Apollo Landing")
		require.NoError(t, st.UpsertArticles(ctx, []models.Article{a}))

		cached, err := st.CachedArticles(ctx)
		require.NoError(t, err)
		require.Equal(t, []models.Article{a}, cached)

		ok, err := st.IsBookmarked(ctx, a.URL)
		require.NoError(t, err)
		require.False(t, ok, "new record must not be bookmarked")
	})

	t.Run("UpsertIsIdempotentAndRefreshesCachedAt", func(t *testing.T) {
		st, clock := setup(t)
		ctx := context.Background()

		a := Article("https://example.org/a", "A")
		b := Article("https://example.org/b", "B")

		require.NoError(t, st.UpsertArticles(ctx, []models.Article{a}))
		clock.Advance(time.Second)
		require.NoError(t, st.UpsertArticles(ctx, []models.Article{b}))
		clock.Advance(time.Second)
		require.NoError(t, st.UpsertArticles(ctx, []models.Article{a}))

		cached, err := st.CachedArticles(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{a.URL, b.URL}, urls(cached), "second upsert of A must bump its cached_at")

		stats, err := st.Stats(ctx)
		require.NoError(t, err)
		require.Equal(t, 2, stats.Cached)
	})

	t.Run("MergeOverwritesTextFieldsOnly", func(t *testing.T) {
		st, clock := setup(t)
		ctx := context.Background()

		a := Article("https://example.org/a", "Title v1")
		require.NoError(t, st.UpsertArticles(ctx, []models.Article{a}))
		clock.Advance(time.Second)

		updated := models.Article{
			URL:         a.URL,
			Title:       "Title v2",
			Description: "new description",
			ImageURL:    "https://example.org/other.jpg",
			PublishedAt: "2030-01-01T00:00:00Z",
			Content:     "other content",
			Source:      models.Source{Name: "Other"},
		}
		require.NoError(t, st.UpsertArticles(ctx, []models.Article{updated}))

		cached, err := st.CachedArticles(ctx)
		require.NoError(t, err)
		require.Len(t, cached, 1)

		got := cached[0]
		require.Equal(t, "Title v2", got.Title)
		require.Equal(t, "", got.Author, "absent author overwrites the stored one")
		require.Equal(t, "new description", got.Description)
		require.Equal(t, a.ImageURL, got.ImageURL)
		require.Equal(t, a.PublishedAt, got.PublishedAt)
		require.Equal(t, a.Content, got.Content)
		require.Equal(t, a.Source, got.Source)
	})

	t.Run("MergePreservesBookmark", func(t *testing.T) {
		st, clock := setup(t)
		ctx := context.Background()

		a := Article("https://example.org/a", "Original")
		require.NoError(t, st.SetBookmark(ctx, a, true))
		clock.Advance(time.Second)

		changed := a
		changed.Title = "Changed"
		require.NoError(t, st.UpsertArticles(ctx, []models.Article{changed}))

		ok, err := st.IsBookmarked(ctx, a.URL)
		require.NoError(t, err)
		require.True(t, ok)

		bm, err := st.BookmarkedArticles(ctx)
		require.NoError(t, err)
		require.Len(t, bm, 1)
		require.Equal(t, "Changed", bm[0].Title)
	})

	t.Run("OrderingNewestFirst", func(t *testing.T) {
		st, clock := setup(t)
		ctx := context.Background()

		for _, u := range []string{"t1", "t2", "t3"} {
			require.NoError(t, st.UpsertArticles(ctx, []models.Article{Article("https://example.org/"+u, u)}))
			clock.Advance(time.Minute)
		}

		cached, err := st.CachedArticles(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{"https://example.org/t3", "https://example.org/t2", "https://example.org/t1"}, urls(cached))
	})

	t.Run("InvalidArticlesSkippedBatchCommits", func(t *testing.T) {
		st, _ := setup(t)
		ctx := context.Background()

		batch := []models.Article{
			Article("https://example.org/ok1", "ok1"),
			{URL: "", Title: "no url"},
			{URL: "https://example.org/no-title", Title: "  "},
			Article("https://example.org/ok2", "ok2"),
		}
		require.NoError(t, st.UpsertArticles(ctx, batch))

		cached, err := st.CachedArticles(ctx)
		require.NoError(t, err)
		require.ElementsMatch(t, []string{"https://example.org/ok1", "https://example.org/ok2"}, urls(cached))
	})

	t.Run("BookmarkCreatesMissingRecord", func(t *testing.T) {
		st, _ := setup(t)
		ctx := context.Background()

		a := Article("https://example.org/uncached", "Uncached")
		require.NoError(t, st.SetBookmark(ctx, a, true))

		cached, err := st.CachedArticles(ctx)
		require.NoError(t, err)
		require.Equal(t, []models.Article{a}, cached)

		ok, err := st.IsBookmarked(ctx, a.URL)
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("BookmarkIsIdempotent", func(t *testing.T) {
		st, _ := setup(t)
		ctx := context.Background()

		a := Article("https://example.org/a", "A")
		require.NoError(t, st.SetBookmark(ctx, a, true))
		require.NoError(t, st.SetBookmark(ctx, a, true))

		bm, err := st.BookmarkedArticles(ctx)
		require.NoError(t, err)
		require.Len(t, bm, 1)

		stats, err := st.Stats(ctx)
		require.NoError(t, err)
		require.Equal(t, models.CacheStats{Cached: 1, Bookmarked: 1}, stats)

		require.NoError(t, st.SetBookmark(ctx, a, false))
		ok, err := st.IsBookmarked(ctx, a.URL)
		require.NoError(t, err)
		require.False(t, ok, "IsBookmarked reflects the last write")
	})

	t.Run("UnbookmarkRetainsRecord", func(t *testing.T) {
		st, _ := setup(t)
		ctx := context.Background()

		a := Article("https://example.org/a", "A")
		require.NoError(t, st.UpsertArticles(ctx, []models.Article{a}))
		require.NoError(t, st.SetBookmark(ctx, a, true))
		require.NoError(t, st.SetBookmark(ctx, a, false))

		cached, err := st.CachedArticles(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{a.URL}, urls(cached))

		bm, err := st.BookmarkedArticles(ctx)
		require.NoError(t, err)
		require.Empty(t, bm)
	})

	t.Run("UnbookmarkMissingIsNoop", func(t *testing.T) {
		st, _ := setup(t)
		ctx := context.Background()

		require.NoError(t, st.SetBookmark(ctx, models.Article{URL: "https://example.org/ghost"}, false))

		cached, err := st.CachedArticles(ctx)
		require.NoError(t, err)
		require.Empty(t, cached)
	})

	t.Run("BookmarkInvalidArticle", func(t *testing.T) {
		st, _ := setup(t)

		err := st.SetBookmark(context.Background(), models.Article{URL: "https://example.org/x"}, true)
		require.ErrorIs(t, err, storage.ErrInvalidArticle)
	})

	t.Run("BookmarkedKeepsCachedOrder", func(t *testing.T) {
		st, clock := setup(t)
		ctx := context.Background()

		for i := 1; i <= 4; i++ {
			require.NoError(t, st.UpsertArticles(ctx, []models.Article{
				Article(fmt.Sprintf("https://example.org/%d", i), fmt.Sprintf("n%d", i)),
			}))
			clock.Advance(time.Minute)
		}

		require.NoError(t, st.SetBookmark(ctx, models.Article{URL: "https://example.org/1", Title: "n1"}, true))
		require.NoError(t, st.SetBookmark(ctx, models.Article{URL: "https://example.org/3", Title: "n3"}, true))

		bm, err := st.BookmarkedArticles(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{"https://example.org/3", "https://example.org/1"}, urls(bm),
			"bookmarking must not touch cached_at")
	})

	t.Run("ConcurrentBookmarksSerialize", func(t *testing.T) {
		st, _ := setup(t)
		ctx := context.Background()

		a := Article("https://example.org/hot", "Hot")

		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				require.NoError(t, st.SetBookmark(ctx, a, true))
			}()
		}
		wg.Wait()

		stats, err := st.Stats(ctx)
		require.NoError(t, err)
		require.Equal(t, models.CacheStats{Cached: 1, Bookmarked: 1}, stats)
	})
}
