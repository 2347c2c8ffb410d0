package library

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarcGrol/marketplace/services/catalog"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redisCache) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() {
		client.Close()
	})
	return server, NewRedisCache(client, time.Hour)
}

func TestCaches(t *testing.T) {
	c := context.TODO()
	examplePage := catalog.NewPage([]LibraryProduct{{Product: catalog.Product{ID: "prod_accounting_basics"}, ReviewCount: 1, ReviewRating: 5}}, 1, 1, 10)

	caches := map[string]func(t *testing.T) Cache{
		"in memory": func(t *testing.T) Cache { return NewInMemoryCache() },
		"redis": func(t *testing.T) Cache {
			_, cache := setupRedis(t)
			return cache
		},
	}

	for name, newCache := range caches {
		t.Run(name, func(t *testing.T) {
			// given
			cache := newCache(t)

			// when
			_, foundBefore, err := cache.Get(c, "user_1", 1, 10)
			require.NoError(t, err)
			require.NoError(t, cache.Put(c, "user_1", 0, 1, 10, examplePage))
			got, foundAfter, err := cache.Get(c, "user_1", 1, 10)
			require.NoError(t, err)
			_, otherPage, err := cache.Get(c, "user_1", 2, 10)
			require.NoError(t, err)

			// then
			assert.False(t, foundBefore)
			assert.True(t, foundAfter)
			assert.False(t, otherPage)
			assert.Equal(t, "prod_accounting_basics", got.Docs[0].ID)
			assert.Equal(t, 1, got.Docs[0].ReviewCount)

			// when
			require.NoError(t, cache.Invalidate(c, "user_1"))
			_, foundInvalidated, err := cache.Get(c, "user_1", 1, 10)

			// then
			require.NoError(t, err)
			assert.False(t, foundInvalidated)
		})

		t.Run(name+" drops pages loaded before an invalidation", func(t *testing.T) {
			// given
			cache := newCache(t)
			before, err := cache.Generation(c, "user_1")
			require.NoError(t, err)
			require.NoError(t, cache.Invalidate(c, "user_1"))

			// when
			err = cache.Put(c, "user_1", before, 1, 10, examplePage)
			require.NoError(t, err)
			_, found, err := cache.Get(c, "user_1", 1, 10)
			require.NoError(t, err)
			after, err := cache.Generation(c, "user_1")
			require.NoError(t, err)

			// then
			assert.False(t, found)
			assert.Equal(t, before+1, after)

			// when
			require.NoError(t, cache.Put(c, "user_1", after, 1, 10, examplePage))
			_, found, err = cache.Get(c, "user_1", 1, 10)

			// then
			require.NoError(t, err)
			assert.True(t, found)
		})
	}
}

func TestRedisCacheLayout(t *testing.T) {
	c := context.TODO()

	// given
	server, cache := setupRedis(t)

	// when
	err := cache.Put(c, "user_1", 0, 2, 5, catalog.NewPage([]LibraryProduct{}, 0, 2, 5))

	// then
	assert.NoError(t, err)
	assert.True(t, server.Exists("marketplace-library:user_1"))
	assert.Contains(t, server.HGet("marketplace-library:user_1", "2:5"), `"totalDocs":0`)
	assert.Equal(t, time.Hour, server.TTL("marketplace-library:user_1"))

	// when
	err = cache.Invalidate(c, "user_1")

	// then
	assert.NoError(t, err)
	assert.False(t, server.Exists("marketplace-library:user_1"))
	generation, err := server.Get("marketplace-library-generation:user_1")
	assert.NoError(t, err)
	assert.Equal(t, "1", generation)
}
