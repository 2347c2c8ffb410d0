package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// generations outlive any page they guard
const generationTTL = 24 * time.Hour

// redisCache keeps one hash per user with a field per page, expiring as a whole. A counter next
// to it holds the user's generation.
type redisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisCache(client redis.UniversalClient, ttl time.Duration) *redisCache {
	return &redisCache{
		client: client,
		ttl:    ttl,
	}
}

func (s *redisCache) Generation(c context.Context, userID string) (int64, error) {
	return s.generation(c, s.client, userID)
}

func (s *redisCache) generation(c context.Context, cmd redis.Cmdable, userID string) (int64, error) {
	generation, err := cmd.Get(c, generationKey(userID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("error reading library generation of %s: %s", userID, err)
	}
	return generation, nil
}

func (s *redisCache) Get(c context.Context, userID string, page int, limit int) (LibraryPage, bool, error) {
	blob, err := s.client.HGet(c, cacheKey(userID), pageField(page, limit)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return LibraryPage{}, false, nil
		}
		return LibraryPage{}, false, fmt.Errorf("error reading library of %s: %s", userID, err)
	}

	value := LibraryPage{}
	err = json.Unmarshal(blob, &value)
	if err != nil {
		return LibraryPage{}, false, fmt.Errorf("error decoding library of %s: %s", userID, err)
	}
	return value, true, nil
}

// Put writes the page only while the generation is unchanged. WATCH aborts the write when an
// invalidation lands between the check and the write.
func (s *redisCache) Put(c context.Context, userID string, generation int64, page int, limit int, value LibraryPage) error {
	blob, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("error encoding library of %s: %s", userID, err)
	}

	key := cacheKey(userID)
	err = s.client.Watch(c, func(tx *redis.Tx) error {
		current, err := s.generation(c, tx, userID)
		if err != nil {
			return err
		}
		if current != generation {
			return nil
		}

		_, err = tx.TxPipelined(c, func(pipe redis.Pipeliner) error {
			pipe.HSet(c, key, pageField(page, limit), blob)
			pipe.Expire(c, key, s.ttl)
			return nil
		})
		return err
	}, generationKey(userID))
	if err != nil {
		if errors.Is(err, redis.TxFailedErr) {
			return nil
		}
		return fmt.Errorf("error writing library of %s: %s", userID, err)
	}
	return nil
}

func (s *redisCache) Invalidate(c context.Context, userID string) error {
	_, err := s.client.TxPipelined(c, func(pipe redis.Pipeliner) error {
		pipe.Del(c, cacheKey(userID))
		pipe.Incr(c, generationKey(userID))
		pipe.Expire(c, generationKey(userID), generationTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("error invalidating library of %s: %s", userID, err)
	}
	return nil
}
