package mystore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/datastore"

	"github.com/MarcGrol/marketplace/lib/mylog"
)

const (
	maxTransactionAttempts = 3
	maxListSize            = 100
)

// gcloudStore keeps every T as an entity of kind T (e.g. Order, Review, CheckoutContext).
// All stores share one transaction per context, so an outbox envelope commits together with
// the entity that caused it.
type gcloudStore[T any] struct {
	logger mylog.Logger
	client *datastore.Client
	kind   string
}

func newGcloudStore[T any](c context.Context) (*gcloudStore[T], func(), error) {
	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	client, err := datastore.NewClient(c, projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating datastore-client: %s", err)
	}

	return &gcloudStore[T]{
			logger: mylog.New("store"),
			client: client,
			kind:   kindOf[T](),
		}, func() {
			client.Close()
		}, nil
}

func kindOf[T any]() string {
	kind := fmt.Sprintf("%T", *new(T))
	if idx := strings.LastIndex(kind, "."); idx >= 0 {
		kind = kind[idx+1:]
	}
	return kind
}

func transactionFrom(c context.Context) *datastore.Transaction {
	t, _ := c.Value(ctxTransactionKey{}).(*datastore.Transaction)
	return t
}

func (s *gcloudStore[T]) key(uid string) *datastore.Key {
	return datastore.NameKey(s.kind, uid, nil)
}

// RunInTransaction retries on contention, so f must be idempotent
func (s *gcloudStore[T]) RunInTransaction(c context.Context, f func(c context.Context) error) error {
	var err error
	for attempt := 1; attempt <= maxTransactionAttempts; attempt++ {
		err = s.runInTransaction(c, f)
		if !errors.Is(err, datastore.ErrConcurrentTransaction) {
			return err
		}
		s.logger.Log(c, s.kind, mylog.SeverityWarn, "Concurrent transaction on %s, retrying (%d of %d)", s.kind, attempt, maxTransactionAttempts)
	}
	return err
}

func (s *gcloudStore[T]) runInTransaction(c context.Context, f func(c context.Context) error) error {
	t, err := s.client.NewTransaction(c)
	if err != nil {
		return fmt.Errorf("error creating transaction on %s: %s", s.kind, err)
	}

	err = f(context.WithValue(c, ctxTransactionKey{}, t))
	if err != nil {
		rollbackErr := t.Rollback()
		if rollbackErr != nil {
			s.logger.Log(c, s.kind, mylog.SeverityError, "Error rolling back transaction on %s: %s", s.kind, rollbackErr)
		}
		return err
	}

	_, err = t.Commit()
	if err != nil {
		if errors.Is(err, datastore.ErrConcurrentTransaction) {
			return err
		}
		return fmt.Errorf("error committing transaction on %s: %w", s.kind, err)
	}

	return nil
}

func (s *gcloudStore[T]) Put(c context.Context, uid string, value T) error {
	var err error
	if t := transactionFrom(c); t != nil {
		_, err = t.Put(s.key(uid), &value)
	} else {
		_, err = s.client.Put(c, s.key(uid), &value)
	}
	if err != nil {
		return fmt.Errorf("error storing entity %s with uid %s: %s", s.kind, uid, err)
	}
	return nil
}

func (s *gcloudStore[T]) Get(c context.Context, uid string) (T, bool, error) {
	value := new(T)

	var err error
	if t := transactionFrom(c); t != nil {
		err = t.Get(s.key(uid), value)
	} else {
		err = s.client.Get(c, s.key(uid), value)
	}
	if err != nil {
		if errors.Is(err, datastore.ErrNoSuchEntity) {
			return *value, false, nil
		}
		return *value, false, fmt.Errorf("error fetching entity %s with uid %s: %s", s.kind, uid, err)
	}

	return *value, true, nil
}

func (s *gcloudStore[T]) List(c context.Context) ([]T, error) {
	return s.getAll(c, datastore.NewQuery(s.kind).Limit(maxListSize))
}

func (s *gcloudStore[T]) Query(c context.Context, filters []Filter, orderByField string) ([]T, error) {
	q := datastore.NewQuery(s.kind)
	for _, f := range filters {
		q = q.FilterField(f.Field, f.Compare, f.Value)
	}
	if orderByField != "" {
		q = q.Order(orderByField)
	}
	return s.getAll(c, q)
}

func (s *gcloudStore[T]) getAll(c context.Context, q *datastore.Query) ([]T, error) {
	if t := transactionFrom(c); t != nil {
		q = q.Transaction(t)
	}

	objectsToFetch := []T{}
	_, err := s.client.GetAll(c, q, &objectsToFetch)
	if err != nil {
		return nil, fmt.Errorf("error fetching entities %s: %s", s.kind, err)
	}
	return objectsToFetch, nil
}
