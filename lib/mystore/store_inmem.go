package mystore

import (
	"context"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"
)

type InMemoryStore[T any] struct {
	sync.Mutex
	Items map[string]T
}

func NewInMemoryStore[T any](c context.Context) (*InMemoryStore[T], func(), error) {
	return &InMemoryStore[T]{
		Items: make(map[string]T),
	}, func() {}, nil
}

// inmemTransactionKey marks a context as holding the lock of one particular store
type inmemTransactionKey struct {
	store any
}

func (s *InMemoryStore[T]) transactionKey() inmemTransactionKey {
	return inmemTransactionKey{store: s}
}

func (s *InMemoryStore[T]) RunInTransaction(c context.Context, f func(c context.Context) error) error {
	// Start transaction
	s.Lock()
	defer s.Unlock()

	snapshot := maps.Clone(s.Items)

	// Within this block everything is transactional
	err := f(context.WithValue(c, s.transactionKey(), true))
	if err != nil {
		// Rollback
		s.Items = snapshot
		return err
	}

	// Commit
	return nil
}

func (s *InMemoryStore[T]) Put(c context.Context, uid string, value T) error {
	nonTransactional := c.Value(s.transactionKey()) == nil

	if nonTransactional {
		s.Lock()
		defer s.Unlock()
	}

	s.Items[uid] = value

	return nil
}

func (s *InMemoryStore[T]) Get(c context.Context, uid string) (T, bool, error) {
	nonTransactional := c.Value(s.transactionKey()) == nil

	if nonTransactional {
		s.Lock()
		defer s.Unlock()
	}

	result, exists := s.Items[uid]

	return result, exists, nil
}

// List returns items ordered by uid
func (s *InMemoryStore[T]) List(c context.Context) ([]T, error) {
	nonTransactional := c.Value(s.transactionKey()) == nil

	if nonTransactional {
		s.Lock()
		defer s.Unlock()
	}

	result := make([]T, 0, len(s.Items))
	for _, uid := range slices.Sorted(maps.Keys(s.Items)) {
		result = append(result, s.Items[uid])
	}

	return result, nil
}

func (s *InMemoryStore[T]) Query(c context.Context, filters []Filter, orderByField string) ([]T, error) {
	all, err := s.List(c)
	if err != nil {
		return nil, err
	}

	result := []T{}
	for _, item := range all {
		match, err := matches(item, filters)
		if err != nil {
			return nil, err
		}
		if match {
			result = append(result, item)
		}
	}

	if orderByField != "" {
		descending := strings.HasPrefix(orderByField, "-")
		fieldName := strings.TrimPrefix(orderByField, "-")
		sort.SliceStable(result, func(i, j int) bool {
			left := fieldOf(result[i], fieldName)
			right := fieldOf(result[j], fieldName)
			if descending {
				return less(right, left)
			}
			return less(left, right)
		})
	}

	return result, nil
}

func matches(item any, filters []Filter) (bool, error) {
	for _, f := range filters {
		if f.Compare != compareEqual {
			return false, fmt.Errorf("compare %q on field %s not supported in memory", f.Compare, f.Field)
		}
		field := fieldOf(item, f.Field)
		if !field.IsValid() {
			return false, fmt.Errorf("unknown field %s", f.Field)
		}
		if !reflect.DeepEqual(field.Interface(), f.Value) {
			return false, nil
		}
	}
	return true, nil
}

func fieldOf(item any, name string) reflect.Value {
	v := reflect.ValueOf(item)
	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return reflect.Value{}
	}
	return v.FieldByName(name)
}

func less(left, right reflect.Value) bool {
	if !left.IsValid() || !right.IsValid() {
		return false
	}
	if t, ok := left.Interface().(time.Time); ok {
		return t.Before(right.Interface().(time.Time))
	}
	switch left.Kind() {
	case reflect.String:
		return left.String() < right.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return left.Int() < right.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return left.Uint() < right.Uint()
	case reflect.Float32, reflect.Float64:
		return left.Float() < right.Float()
	case reflect.Bool:
		return !left.Bool() && right.Bool()
	default:
		return false
	}
}
