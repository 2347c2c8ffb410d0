package cart

import "slices"

// TenantCart is an ordered set of product ids selected in one tenant's storefront
type TenantCart struct {
	TenantSlug string   `json:"tenantSlug"`
	ProductIDs []string `json:"productIds"`
}

// State maps a tenant slug to its cart. A present but empty cart differs from an absent one.
type State map[string]TenantCart

func (s State) clone() State {
	copied := make(State, len(s))
	for slug, tc := range s {
		copied[slug] = TenantCart{
			TenantSlug: tc.TenantSlug,
			ProductIDs: slices.Clone(tc.ProductIDs),
		}
	}
	return copied
}

func (tc TenantCart) contains(productID string) bool {
	return slices.Contains(tc.ProductIDs, productID)
}
