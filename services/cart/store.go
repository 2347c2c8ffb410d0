package cart

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/MarcGrol/marketplace/lib/mylog"
	"github.com/MarcGrol/marketplace/lib/mymetrics"
)

// Store holds the carts of a single owner. Mutations apply to memory first and are then
// written through to storage one tenant at a time.
type Store struct {
	sync.Mutex
	logger    mylog.Logger
	storage   Storage
	key       string
	state     State
	observers map[int]func(State)
	nextID    int
}

// Open loads the persisted carts of the owner
func Open(c context.Context, storage Storage, ownerKey string) (*Store, error) {
	key := storageKey(ownerKey)
	blobs, err := storage.Get(c, key)
	if err != nil {
		return nil, fmt.Errorf("error loading cart: %s", err)
	}
	state, err := decodeState(blobs)
	if err != nil {
		return nil, err
	}
	return &Store{
		logger:    mylog.New("cart"),
		storage:   storage,
		key:       key,
		state:     state,
		observers: map[int]func(State){},
	}, nil
}

func (s *Store) AddProduct(c context.Context, tenantSlug string, productID string) error {
	return s.mutate(c, "add", tenantSlug, func(tc TenantCart) TenantCart {
		if !tc.contains(productID) {
			tc.ProductIDs = append(tc.ProductIDs, productID)
		}
		return tc
	})
}

func (s *Store) RemoveProduct(c context.Context, tenantSlug string, productID string) error {
	return s.mutate(c, "remove", tenantSlug, func(tc TenantCart) TenantCart {
		tc.ProductIDs = slices.DeleteFunc(tc.ProductIDs, func(id string) bool {
			return id == productID
		})
		return tc
	})
}

func (s *Store) ClearCart(c context.Context, tenantSlug string) error {
	return s.mutate(c, "clear", tenantSlug, func(tc TenantCart) TenantCart {
		tc.ProductIDs = []string{}
		return tc
	})
}

func (s *Store) ClearAllCart(c context.Context) error {
	s.Lock()
	s.state = State{}
	snapshot := s.state.clone()
	s.Unlock()

	mymetrics.CartMutations.WithLabelValues("clear_all").Inc()
	s.notify(snapshot)

	err := s.storage.Remove(c, s.key)
	if err != nil {
		s.logger.Log(c, s.key, mylog.SeverityWarn, "Error persisting cleared carts: %s", err)
		return err
	}
	return nil
}

// GetCartByTenant returns a copy of the product ids, empty when the tenant has no cart
func (s *Store) GetCartByTenant(tenantSlug string) []string {
	s.Lock()
	defer s.Unlock()

	tc, exists := s.state[tenantSlug]
	if !exists {
		return []string{}
	}
	return slices.Clone(tc.ProductIDs)
}

func (s *Store) HasCart(tenantSlug string) bool {
	s.Lock()
	defer s.Unlock()

	_, exists := s.state[tenantSlug]
	return exists
}

func (s *Store) Snapshot() State {
	s.Lock()
	defer s.Unlock()

	return s.state.clone()
}

// Subscribe registers an observer that is called synchronously after every mutation
func (s *Store) Subscribe(observer func(State)) func() {
	s.Lock()
	defer s.Unlock()

	id := s.nextID
	s.nextID++
	s.observers[id] = observer

	return func() {
		s.Lock()
		defer s.Unlock()
		delete(s.observers, id)
	}
}

func (s *Store) ForTenant(tenantSlug string) *TenantView {
	return &TenantView{
		store:      s,
		tenantSlug: tenantSlug,
	}
}

func (s *Store) mutate(c context.Context, operation string, tenantSlug string, change func(tc TenantCart) TenantCart) error {
	s.Lock()
	tc, exists := s.state[tenantSlug]
	if !exists {
		tc = TenantCart{TenantSlug: tenantSlug, ProductIDs: []string{}}
	}
	tc = change(tc)
	s.state[tenantSlug] = tc
	snapshot := s.state.clone()
	s.Unlock()

	mymetrics.CartMutations.WithLabelValues(operation).Inc()
	s.notify(snapshot)

	blob, err := encodeTenantCart(tc)
	if err != nil {
		return err
	}
	err = s.storage.Patch(c, s.key, tenantSlug, blob)
	if err != nil {
		s.logger.Log(c, s.key, mylog.SeverityWarn, "Error persisting cart of tenant %s: %s", tenantSlug, err)
		return err
	}
	return nil
}

func (s *Store) notify(snapshot State) {
	s.Lock()
	observers := make([]func(State), 0, len(s.observers))
	for _, id := range slices.Sorted(maps.Keys(s.observers)) {
		observers = append(observers, s.observers[id])
	}
	s.Unlock()

	for _, observer := range observers {
		observer(snapshot)
	}
}
