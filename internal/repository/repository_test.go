package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_RoundTrip(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	_, err := repo.Load(ctx)
	require.ErrorIs(t, err, ErrSnapshotNotFound)

	require.NoError(t, repo.Save(ctx, []byte(`{"currentView":"home"}`)))

	data, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"currentView":"home"}`, string(data))
	assert.Equal(t, 1, repo.Saves())
}

func TestFileRepository_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFileRepository(filepath.Join(dir, "nested"), "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "nested", DefaultKey+".json"), repo.Path())

	ctx := context.Background()

	_, err = repo.Load(ctx)
	require.ErrorIs(t, err, ErrSnapshotNotFound)

	require.NoError(t, repo.Save(ctx, []byte(`{"a":1}`)))
	require.NoError(t, repo.Save(ctx, []byte(`{"a":2}`)))

	data, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2}`, string(data))

	entries, err := os.ReadDir(filepath.Join(dir, "nested"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileRepository_CanceledContext(t *testing.T) {
	repo, err := NewFileRepository(t.TempDir(), "k")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, repo.Save(ctx, []byte(`{}`)), context.Canceled)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "serialization failure",
			err:  &pgconn.PgError{Code: pgerrcode.SerializationFailure},
			want: true,
		},
		{
			name: "deadlock",
			err:  fmt.Errorf("exec: %w", &pgconn.PgError{Code: pgerrcode.DeadlockDetected}),
			want: true,
		},
		{
			name: "unique violation",
			err:  &pgconn.PgError{Code: pgerrcode.UniqueViolation},
			want: false,
		},
		{
			name: "connection refused",
			err:  errors.New("dial tcp: connection refused"),
			want: true,
		},
		{
			name: "other",
			err:  errors.New("syntax error"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryable(tt.err))
		})
	}
}

func TestWithRetry_StopsOnPermanentError(t *testing.T) {
	calls := 0
	permanent := errors.New("permanent")

	err := withRetry(context.Background(), func() error {
		calls++
		return permanent
	})

	require.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := withRetry(ctx, func() error {
		calls++
		return errors.New("connection refused")
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestRedisRepository_UnreachableServer(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	repo := NewRedisRepositoryFromClient(rdb, "")
	t.Cleanup(func() { _ = repo.Close() })

	ctx := context.Background()

	_, err := repo.Load(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSnapshotNotFound)

	err = repo.Save(ctx, []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "set snapshot")
	assert.Equal(t, DefaultKey, repo.key)
}
