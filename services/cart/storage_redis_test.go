package cart

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redisStorage) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() {
		client.Close()
	})
	return server, NewRedisStorage(client)
}

func TestRedisStorage(t *testing.T) {
	c := context.TODO()

	t.Run("One hash field per tenant", func(t *testing.T) {
		// given
		server, storage := setupRedis(t)
		store := openStore(t, storage, "owner1")

		// when
		assert.NoError(t, store.AddProduct(c, "antonio", "p1"))
		assert.NoError(t, store.AddProduct(c, "bhushan", "p2"))

		// then
		assert.Equal(t, `["p1"]`, server.HGet("marketplace-cart:owner1", "antonio"))
		assert.Equal(t, `["p2"]`, server.HGet("marketplace-cart:owner1", "bhushan"))
	})

	t.Run("Concurrent writers on other tenants do not clobber", func(t *testing.T) {
		// given
		_, storage := setupRedis(t)
		tab1 := openStore(t, storage, "owner1")
		tab2 := openStore(t, storage, "owner1")

		// when
		assert.NoError(t, tab1.AddProduct(c, "antonio", "p1"))
		assert.NoError(t, tab2.AddProduct(c, "bhushan", "p2"))

		// then
		reloaded := openStore(t, storage, "owner1")
		assert.Equal(t, []string{"p1"}, reloaded.GetCartByTenant("antonio"))
		assert.Equal(t, []string{"p2"}, reloaded.GetCartByTenant("bhushan"))
	})

	t.Run("Clear all removes the key", func(t *testing.T) {
		// given
		server, storage := setupRedis(t)
		store := openStore(t, storage, "owner1")
		assert.NoError(t, store.AddProduct(c, "antonio", "p1"))

		// when
		assert.NoError(t, store.ClearAllCart(c))

		// then
		assert.False(t, server.Exists("marketplace-cart:owner1"))
	})

	t.Run("Unavailable redis is reported", func(t *testing.T) {
		// given
		server, storage := setupRedis(t)
		store := openStore(t, storage, "owner1")
		server.Close()

		// when
		err := store.AddProduct(c, "antonio", "p1")

		// then
		require.Error(t, err)
		assert.Equal(t, []string{"p1"}, store.GetCartByTenant("antonio"))
	})
}
