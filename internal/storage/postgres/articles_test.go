package postgres

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pribylovaa/news-reader/internal/models"
	"github.com/pribylovaa/news-reader/internal/storage"
	"github.com/pribylovaa/news-reader/internal/storage/storagetest"
)

// Интеграционные тесты: поднимают PostgreSQL через testcontainers-go
// (postgres:16-alpine), применяют migrations/1_init_articles.up.sql и
// прогоняют общий контракт storage.Storage.
//
// Запуск локально:
//   GO_TEST_INTEGRATION=1 go test ./internal/storage/postgres -v -race -count=1

// repoRootFromThisFile — корень репозитория относительно текущего файла.
func repoRootFromThisFile() string {
	_, thisFile, _, _ := runtime.Caller(0)
	return filepath.Clean(filepath.Join(filepath.Dir(thisFile), "..", "..", ".."))
}

// readMigration — читает SQL-миграцию из ./migrations.
func readMigration(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(repoRootFromThisFile(), "migrations", name)
	b, err := os.ReadFile(path)
	require.NoError(t, err, "read migration %s", path)
	return string(b)
}

// startPostgres — поднимает PostgreSQL, применяет миграции и возвращает DSN.
// Без GO_TEST_INTEGRATION тест пропускается.
func startPostgres(t *testing.T) string {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		Env:          map[string]string{"POSTGRES_USER": "user", "POSTGRES_PASSWORD": "pass", "POSTGRES_DB": "db"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)
	dsn := fmt.Sprintf("postgres://user:pass@%s:%s/db?sslmode=disable", host, port.Port())

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	_, err = pool.Exec(ctx, readMigration(t, "1_init_articles.up.sql"))
	require.NoError(t, err)

	return dsn
}

func TestIntegration_Contract(t *testing.T) {
	dsn := startPostgres(t)

	storagetest.RunContract(t, func(t *testing.T, now func() time.Time) storage.Storage {
		ctx := context.Background()

		st, err := New(ctx, dsn, WithClock(now))
		require.NoError(t, err)

		_, err = st.db.Exec(ctx, `TRUNCATE articles`)
		require.NoError(t, err)

		return st
	})
}

// TestIntegration_FailedRowDoesNotAbortBatch — ошибка строки откатывает только её savepoint.
func TestIntegration_FailedRowDoesNotAbortBatch(t *testing.T) {
	dsn := startPostgres(t)
	ctx := context.Background()

	st, err := New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(st.Close)

	// NUL-байт PostgreSQL в TEXT не принимает — строка падает на уровне БД.
	bad := storagetest.Article("https://example.org/bad", "bad\x00title")
	good := storagetest.Article("https://example.org/good", "good")

	require.NoError(t, st.UpsertArticles(ctx, []models.Article{bad, good}))

	cached, err := st.CachedArticles(ctx)
	require.NoError(t, err)
	require.Len(t, cached, 1)
	require.Equal(t, good.URL, cached[0].URL)
}

func TestNew_BadDSN(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), "::not-a-dsn::")
	require.Error(t, err)
}
