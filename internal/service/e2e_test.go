package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/news-reader/internal/models"
	"github.com/pribylovaa/news-reader/internal/remote"
	"github.com/pribylovaa/news-reader/internal/storage/sqlite"
	"github.com/pribylovaa/news-reader/mocks"
)

// newSQLiteService — сервис поверх настоящего SQLite во временном каталоге.
func newSQLiteService(t *testing.T) (*Service, *mocks.MockSource) {
	t.Helper()

	st, err := sqlite.New(context.Background(), filepath.Join(t.TempDir(), "articles.db"))
	require.NoError(t, err)

	src := mocks.NewMockSource(gomock.NewController(t))
	svc := New(st, src, testConfig())

	t.Cleanup(func() {
		svc.Close()
		st.Close()
	})

	return svc, src
}

// TestEndToEnd_FetchCachesAndBookmarks — источник отдаёт u1 и u2: после загрузки
// обе статьи в кэше, закладки на u1 нет; офлайн-чтение отдаёт тот же кэш.
func TestEndToEnd_FetchCachesAndBookmarks(t *testing.T) {
	t.Parallel()

	svc, src := newSQLiteService(t)
	ctx := context.Background()

	u1 := models.Article{URL: "u1", Title: "First", Source: models.Source{Name: "Wire"}}
	u2 := models.Article{URL: "u2", Title: "Second", Source: models.Source{Name: "Wire"}}

	src.EXPECT().IsAvailable(gomock.Any()).Return(true)
	src.EXPECT().Fetch(gomock.Any(), 1, 20).Return(&models.FeedPage{
		Status:       "ok",
		TotalResults: 2,
		Articles:     []models.Article{u1, u2},
	}, nil)

	got := svc.FetchArticles(ctx, 1, 20)
	require.Equal(t, []models.Article{u1, u2}, got)

	// Дожидаемся фоновой записи.
	svc.Close()

	cached := svc.CachedArticles(ctx)
	require.ElementsMatch(t, []models.Article{u1, u2}, cached)
	require.False(t, svc.IsArticleBookmarked(ctx, u1))

	// Источник недоступен: FetchArticles отдаёт ровно CachedArticles.
	src.EXPECT().IsAvailable(gomock.Any()).Return(false)
	res := svc.FetchArticlesResult(ctx, 1, 20)
	require.True(t, res.Stale())
	require.ErrorIs(t, res.Reason, remote.ErrUnavailable)
	require.ElementsMatch(t, cached, res.Articles)

	// Закладка поверх кэша, затем снятие: запись остаётся.
	require.NoError(t, svc.BookmarkArticle(ctx, u1))
	require.True(t, svc.IsArticleBookmarked(ctx, u1))
	require.Equal(t, []models.Article{u1}, svc.BookmarkedArticles(ctx))

	require.NoError(t, svc.RemoveBookmark(ctx, u1))
	require.Empty(t, svc.BookmarkedArticles(ctx))
	require.Len(t, svc.CachedArticles(ctx), 2)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, models.CacheStats{Cached: 2, Bookmarked: 0}, stats)
}

// TestEndToEnd_SearchOverCached — поиск работает по переданному списку.
func TestEndToEnd_SearchOverCached(t *testing.T) {
	t.Parallel()

	svc, _ := newSQLiteService(t)
	ctx := context.Background()

	apollo := models.Article{URL: "https://e.org/apollo", Title: "Apollo Landing", Author: "J. Doe", Description: "history"}
	require.NoError(t, svc.BookmarkArticle(ctx, apollo))

	require.Equal(t, []models.Article{apollo}, svc.SearchArticles("doe", svc.BookmarkedArticles(ctx)))
	require.Empty(t, svc.SearchArticles("mars", svc.BookmarkedArticles(ctx)))
}
