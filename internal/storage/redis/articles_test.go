package redis

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pribylovaa/news-reader/internal/models"
	"github.com/pribylovaa/news-reader/internal/storage"
	"github.com/pribylovaa/news-reader/internal/storage/storagetest"
)

// Интеграционные тесты: поднимают Redis через testcontainers-go (redis:7-alpine).
//
// Запуск локально:
//   GO_TEST_INTEGRATION=1 go test ./internal/storage/redis -v -race -count=1

// startRedis — поднимает Redis и возвращает URL подключения.
// Без GO_TEST_INTEGRATION тест пропускается.
func startRedis(t *testing.T) string {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	return fmt.Sprintf("redis://%s:%s/0", host, port.Port())
}

func TestIntegration_Contract(t *testing.T) {
	url := startRedis(t)

	storagetest.RunContract(t, func(t *testing.T, now func() time.Time) storage.Storage {
		ctx := context.Background()

		st, err := New(ctx, url, "test:", WithClock(now))
		require.NoError(t, err)
		require.NoError(t, st.rdb.FlushDB(ctx).Err())

		return st
	})
}

// TestIntegration_CorruptRecordSkipped — битый JSON не валит чтение и перезаписывается upsert'ом.
func TestIntegration_CorruptRecordSkipped(t *testing.T) {
	url := startRedis(t)
	ctx := context.Background()

	st, err := New(ctx, url, "")
	require.NoError(t, err)
	t.Cleanup(st.Close)
	require.NoError(t, st.rdb.FlushDB(ctx).Err())

	bad := storagetest.Article("https://example.org/bad", "bad")
	good := storagetest.Article("https://example.org/good", "good")
	require.NoError(t, st.UpsertArticles(ctx, []models.Article{bad, good}))

	require.NoError(t, st.rdb.HSet(ctx, st.articleKey(bad.URL), fieldData, "{not json").Err())

	cached, err := st.CachedArticles(ctx)
	require.NoError(t, err)
	require.Len(t, cached, 1)
	require.Equal(t, good.URL, cached[0].URL)

	// Запись с битым JSON пропускается, остальная пачка применяется.
	good.Title = "good v2"
	require.NoError(t, st.UpsertArticles(ctx, []models.Article{bad, good}))

	cached, err = st.CachedArticles(ctx)
	require.NoError(t, err)
	require.Len(t, cached, 1)
	require.Equal(t, "good v2", cached[0].Title)
}

func TestIntegration_DefaultPrefix(t *testing.T) {
	url := startRedis(t)
	ctx := context.Background()

	st, err := New(ctx, url, "")
	require.NoError(t, err)
	t.Cleanup(st.Close)
	require.NoError(t, st.rdb.FlushDB(ctx).Err())

	a := storagetest.Article("https://example.org/a", "A")
	require.NoError(t, st.SetBookmark(ctx, a, true))

	n, err := st.rdb.Exists(ctx, "news:article:"+a.URL, "news:cached", "news:bookmarked").Result()
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
}

func TestNew_BadURL(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), "::not-a-url::", "")
	require.Error(t, err)
}

func TestMerge(t *testing.T) {
	t.Parallel()

	stored := storagetest.Article("https://example.org/a", "old")
	raw := `{"url":"https://example.org/a","title":"old","author":"J. Doe","description":"history",` +
		`"urlToImage":"https://example.org/a/cover.jpg","publishedAt":"1969-07-20T20:17:00Z",` +
		`"content":"The Eagle has landed","source":{"id":"nasa","name":"NASA"}}`

	fresh := models.Article{URL: stored.URL, Title: "new", Description: "d2"}

	w, err := merge(fresh, []any{raw, "1"})
	require.NoError(t, err)
	require.True(t, w.bookmarked)
	require.Contains(t, string(w.data), `"title":"new"`)
	require.Contains(t, string(w.data), `"content":"The Eagle has landed"`)

	w, err = merge(fresh, []any{nil, nil})
	require.NoError(t, err)
	require.False(t, w.bookmarked)

	_, err = merge(fresh, []any{"{broken", "0"})
	require.Error(t, err)
}

func TestCommandErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	boom := fmt.Errorf("boom")

	require.NoError(t, commandErrors(ctx, "op", nil, nil))
	require.ErrorIs(t, commandErrors(ctx, "op", nil, redis.TxFailedErr), redis.TxFailedErr)

	ok := redis.NewStatusCmd(ctx, "hset")
	failed := redis.NewStatusCmd(ctx, "zadd")
	failed.SetErr(boom)

	require.NoError(t, commandErrors(ctx, "op", []redis.Cmder{ok, failed}, boom))
	require.ErrorIs(t, commandErrors(ctx, "op", []redis.Cmder{failed}, boom), boom)
}
