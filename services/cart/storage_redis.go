package cart

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// redisStorage keeps one hash per owner with a field per tenant, so concurrent writers only
// race on the same tenant.
type redisStorage struct {
	client redis.UniversalClient
}

func NewRedisStorage(client redis.UniversalClient) *redisStorage {
	return &redisStorage{
		client: client,
	}
}

func (s *redisStorage) Get(c context.Context, key string) (map[string][]byte, error) {
	fields, err := s.client.HGetAll(c, key).Result()
	if err != nil {
		return nil, fmt.Errorf("error reading cart %s: %s", key, err)
	}
	result := make(map[string][]byte, len(fields))
	for slug, blob := range fields {
		result[slug] = []byte(blob)
	}
	return result, nil
}

func (s *redisStorage) Patch(c context.Context, key string, tenantSlug string, blob []byte) error {
	err := s.client.HSet(c, key, tenantSlug, blob).Err()
	if err != nil {
		return fmt.Errorf("error writing cart %s of tenant %s: %s", key, tenantSlug, err)
	}
	return nil
}

func (s *redisStorage) Remove(c context.Context, key string) error {
	err := s.client.Del(c, key).Err()
	if err != nil {
		return fmt.Errorf("error removing cart %s: %s", key, err)
	}
	return nil
}
