package cart

import (
	"context"
	"encoding/json"
	"fmt"
)

// KeyName is the fixed key under which every owner's cart is persisted
const KeyName = "marketplace-cart"

//go:generate mockgen -source=storage.go -package cart -destination storage_mock.go Storage
type Storage interface {
	// Get returns the serialized cart of every tenant stored under key
	Get(c context.Context, key string) (map[string][]byte, error)
	// Patch writes the cart of a single tenant and leaves the other tenants untouched
	Patch(c context.Context, key string, tenantSlug string, blob []byte) error
	Remove(c context.Context, key string) error
}

func storageKey(ownerKey string) string {
	return KeyName + ":" + ownerKey
}

func encodeTenantCart(tc TenantCart) ([]byte, error) {
	if tc.ProductIDs == nil {
		tc.ProductIDs = []string{}
	}
	blob, err := json.Marshal(tc.ProductIDs)
	if err != nil {
		return nil, fmt.Errorf("error encoding cart of tenant %s: %s", tc.TenantSlug, err)
	}
	return blob, nil
}

func decodeState(blobs map[string][]byte) (State, error) {
	state := State{}
	for slug, blob := range blobs {
		ids := []string{}
		err := json.Unmarshal(blob, &ids)
		if err != nil {
			return nil, fmt.Errorf("error decoding cart of tenant %s: %s", slug, err)
		}
		state[slug] = TenantCart{
			TenantSlug: slug,
			ProductIDs: dedup(ids),
		}
	}
	return state, nil
}

func dedup(ids []string) []string {
	seen := map[string]bool{}
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}
	return unique
}
