//go:build integration

package redisstore_test

import (
	"context"
	"os"
	"testing"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lokali/adapters/storage/redisstore"
	"lokali/domain"
)

const testRedisURL = "redis://localhost:6379/0"

func newTestStore(t *testing.T) *redisstore.Store {
	t.Helper()

	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = testRedisURL
	}
	opts, err := goredis.ParseURL(url)
	require.NoError(t, err)
	client := goredis.NewClient(opts)

	ctx := context.Background()
	require.NoError(t, client.Ping(ctx).Err(), "failed to connect to Redis")

	t.Cleanup(func() {
		_ = client.FlushDB(ctx).Err()
		_ = client.Close()
	})

	return redisstore.New(client, "lokali-test")
}

func TestContract(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	t.Run("empty store loads an empty snapshot", func(t *testing.T) {
		records, err := s.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	var id string

	t.Run("create assigns id and persists the blob", func(t *testing.T) {
		created, err := s.Create(ctx, &domain.Record{Key: "home.title", Translations: map[string]string{"en": "Home"}})
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)
		id = created.ID

		records, err := s.Load(ctx)
		require.NoError(t, err)
		require.Len(t, records, 1)
	})

	t.Run("update merges locale entries", func(t *testing.T) {
		updated, err := s.Update(ctx, id, domain.Patch{Translations: map[string]string{"ar": "الرئيسية"}})
		require.NoError(t, err)
		assert.Equal(t, "Home", updated.Translations["en"])
		assert.Equal(t, "الرئيسية", updated.Translations["ar"])
	})

	t.Run("update of an unknown id returns not found", func(t *testing.T) {
		_, err := s.Update(ctx, "missing", domain.Patch{})
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, id))
		require.NoError(t, s.Delete(ctx, id))

		records, err := s.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("save replaces the whole collection", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, []*domain.Record{{ID: "1", Key: "a"}, {ID: "2", Key: "b"}}))
		records, err := s.Load(ctx)
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})
}
