package cart

import "context"

// TenantView binds the store to one storefront. It has no state of its own.
type TenantView struct {
	store      *Store
	tenantSlug string
}

func (v *TenantView) TenantSlug() string {
	return v.tenantSlug
}

// ToggleProduct adds the product when absent and removes it when present
func (v *TenantView) ToggleProduct(c context.Context, productID string) error {
	if v.IsProductInCart(productID) {
		return v.store.RemoveProduct(c, v.tenantSlug, productID)
	}
	return v.store.AddProduct(c, v.tenantSlug, productID)
}

func (v *TenantView) IsProductInCart(productID string) bool {
	for _, id := range v.store.GetCartByTenant(v.tenantSlug) {
		if id == productID {
			return true
		}
	}
	return false
}

func (v *TenantView) TotalItems() int {
	return len(v.store.GetCartByTenant(v.tenantSlug))
}

func (v *TenantView) ProductIDs() []string {
	return v.store.GetCartByTenant(v.tenantSlug)
}

func (v *TenantView) AddProduct(c context.Context, productID string) error {
	return v.store.AddProduct(c, v.tenantSlug, productID)
}

func (v *TenantView) RemoveProduct(c context.Context, productID string) error {
	return v.store.RemoveProduct(c, v.tenantSlug, productID)
}

func (v *TenantView) ClearCart(c context.Context) error {
	return v.store.ClearCart(c, v.tenantSlug)
}

func (v *TenantView) ClearAllCart(c context.Context) error {
	return v.store.ClearAllCart(c)
}
