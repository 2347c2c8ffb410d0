package checkout

import (
	"github.com/MarcGrol/marketplace/lib/myrpc"
)

const (
	ProcedureGetProducts = "checkout.getProducts"
	ProcedurePurchase    = "checkout.purchase"
	ProcedureVerify      = "checkout.verify"
)

type GetProductsInput struct {
	IDs []string `form:"ids" json:"ids"`
}

func (i GetProductsInput) Validate() error {
	v := myrpc.Violations{}
	for _, id := range i.IDs {
		v.Check(id != "", "ids must not contain empty values")
	}
	return v.Err()
}

type PurchaseInput struct {
	ProductIDs []string `json:"productIds"`
	TenantSlug string   `json:"tenantSlug"`
}

func (i PurchaseInput) Validate() error {
	v := myrpc.Violations{}
	v.Check(len(i.ProductIDs) > 0, "productIds must contain at least one id")
	for _, id := range i.ProductIDs {
		v.Check(id != "", "productIds must not contain empty values")
	}
	v.Check(i.TenantSlug != "", "tenantSlug is required")
	return v.Err()
}

type VerifyInput struct {
	SessionID string `json:"sessionId"`
}

func (i VerifyInput) Validate() error {
	v := myrpc.Violations{}
	v.Check(i.SessionID != "", "sessionId is required")
	return v.Err()
}
