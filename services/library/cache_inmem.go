package library

import (
	"context"
	"sync"
)

type inMemoryCache struct {
	sync.Mutex
	pages       map[string]map[string]LibraryPage
	generations map[string]int64
}

func NewInMemoryCache() *inMemoryCache {
	return &inMemoryCache{
		pages:       map[string]map[string]LibraryPage{},
		generations: map[string]int64{},
	}
}

func (s *inMemoryCache) Generation(c context.Context, userID string) (int64, error) {
	s.Lock()
	defer s.Unlock()

	return s.generations[userID], nil
}

func (s *inMemoryCache) Get(c context.Context, userID string, page int, limit int) (LibraryPage, bool, error) {
	s.Lock()
	defer s.Unlock()

	value, found := s.pages[userID][pageField(page, limit)]
	return value, found, nil
}

func (s *inMemoryCache) Put(c context.Context, userID string, generation int64, page int, limit int, value LibraryPage) error {
	s.Lock()
	defer s.Unlock()

	if s.generations[userID] != generation {
		return nil
	}

	userPages, found := s.pages[userID]
	if !found {
		userPages = map[string]LibraryPage{}
		s.pages[userID] = userPages
	}
	userPages[pageField(page, limit)] = value
	return nil
}

func (s *inMemoryCache) Invalidate(c context.Context, userID string) error {
	s.Lock()
	defer s.Unlock()

	delete(s.pages, userID)
	s.generations[userID]++
	return nil
}
