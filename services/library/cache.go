package library

import (
	"context"
	"fmt"
)

const (
	cacheKeyName      = "marketplace-library"
	generationKeyName = "marketplace-library-generation"
)

// Cache holds rendered library pages per user. Invalidation drops every page of the user at once
// and bumps the user's generation. A page loaded under an older generation is never stored, so a
// purchase recorded while a page was loading cannot be hidden by that page.
type Cache interface {
	Generation(c context.Context, userID string) (int64, error)
	Get(c context.Context, userID string, page int, limit int) (LibraryPage, bool, error)
	Put(c context.Context, userID string, generation int64, page int, limit int, value LibraryPage) error
	Invalidate(c context.Context, userID string) error
}

func cacheKey(userID string) string {
	return cacheKeyName + ":" + userID
}

func generationKey(userID string) string {
	return generationKeyName + ":" + userID
}

func pageField(page int, limit int) string {
	return fmt.Sprintf("%d:%d", page, limit)
}
