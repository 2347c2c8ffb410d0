package cart

import (
	"context"
	"slices"
	"sync"
)

type inMemoryStorage struct {
	sync.Mutex
	carts map[string]map[string][]byte
}

func NewInMemoryStorage() *inMemoryStorage {
	return &inMemoryStorage{
		carts: map[string]map[string][]byte{},
	}
}

func (s *inMemoryStorage) Get(c context.Context, key string) (map[string][]byte, error) {
	s.Lock()
	defer s.Unlock()

	result := map[string][]byte{}
	for slug, blob := range s.carts[key] {
		result[slug] = slices.Clone(blob)
	}
	return result, nil
}

func (s *inMemoryStorage) Patch(c context.Context, key string, tenantSlug string, blob []byte) error {
	s.Lock()
	defer s.Unlock()

	tenants, exists := s.carts[key]
	if !exists {
		tenants = map[string][]byte{}
		s.carts[key] = tenants
	}
	tenants[tenantSlug] = slices.Clone(blob)
	return nil
}

func (s *inMemoryStorage) Remove(c context.Context, key string) error {
	s.Lock()
	defer s.Unlock()

	delete(s.carts, key)
	return nil
}
