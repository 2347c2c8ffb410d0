// Package mystore persists the marketplace aggregates (orders, reviews, checkout contexts and the
// event outbox) as one kind per Go type. Datastore is used on Google Cloud, process memory
// everywhere else.
package mystore

import (
	"context"
	"os"
)

// shared by every store, so one transaction can span an order and its outbox envelope
type ctxTransactionKey struct{}

const compareEqual = "="

// Filter follows datastore semantics; the in-memory store supports Compare "=" only.
type Filter struct {
	Field   string
	Compare string
	Value   any
}

// Equals is the filter every marketplace query is built from, e.g. Equals("UserID", "user_1")
func Equals(field string, value any) Filter {
	return Filter{
		Field:   field,
		Compare: compareEqual,
		Value:   value,
	}
}

//go:generate mockgen -source=api.go -package mystore -destination store_mock.go Store
type Store[T any] interface {
	// RunInTransaction retries on contention; f must be idempotent
	RunInTransaction(c context.Context, f func(c context.Context) error) error
	Put(c context.Context, uid string, value T) error
	Get(c context.Context, uid string) (T, bool, error)
	List(c context.Context) ([]T, error)
	// Query orders ascending by orderByField, descending when prefixed with "-"
	Query(c context.Context, filters []Filter, orderByField string) ([]T, error)
}

func New[T any](c context.Context) (Store[T], func(), error) {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") != "" {
		return newGcloudStore[T](c)
	}

	return NewInMemoryStore[T](c)
}
