package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/news-reader/internal/models"
	"github.com/pribylovaa/news-reader/internal/storage"
	"github.com/pribylovaa/news-reader/internal/storage/storagetest"
)

func newTestStorage(t *testing.T, now func() time.Time) storage.Storage {
	t.Helper()

	st, err := New(context.Background(), filepath.Join(t.TempDir(), "articles.db"), WithClock(now))
	require.NoError(t, err)
	return st
}

func TestStorage_Contract(t *testing.T) {
	storagetest.RunContract(t, newTestStorage)
}

func TestStorage_SurvivesReopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "articles.db")

	st, err := New(ctx, path)
	require.NoError(t, err)

	a := storagetest.Article("https://example.org/persist", "Persisted")
	require.NoError(t, st.UpsertArticles(ctx, []models.Article{a}))
	require.NoError(t, st.SetBookmark(ctx, a, true))
	st.Close()

	reopened, err := New(ctx, path)
	require.NoError(t, err)
	t.Cleanup(reopened.Close)

	bm, err := reopened.BookmarkedArticles(ctx)
	require.NoError(t, err)
	require.Equal(t, []models.Article{a}, bm)
}

func TestNew_BadPath(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), filepath.Join(t.TempDir(), "missing-dir", "nested", "articles.db"))
	require.Error(t, err)
}

func TestNew_SingleConnection(t *testing.T) {
	t.Parallel()

	st, err := New(context.Background(), filepath.Join(t.TempDir(), "articles.db"))
	require.NoError(t, err)
	t.Cleanup(st.Close)

	require.Equal(t, 1, st.db.Stats().MaxOpenConnections)
}
