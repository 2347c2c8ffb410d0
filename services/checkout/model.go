package checkout

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusOpen      = "open"
	StatusCompleted = "completed"
)

// CheckoutContext remembers a purchase attempt so a later confirmation can be matched to the buyer
type CheckoutContext struct {
	SessionID          string
	ProviderName       string
	UserID             string
	TenantSlug         string
	ConnectedAccountID string
	ProductIDs         []string
	AmountInCents      int64
	FeeInCents         int64
	Currency           string
	Status             string
	CreatedAt          time.Time
	LastModified       *time.Time
}

func (cc CheckoutContext) IsCompleted() bool {
	return cc.Status == StatusCompleted
}

type TenantSummary struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	ImageURL string `json:"imageUrl,omitempty"`
}

type ProductDoc struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	ImageURL     string          `json:"imageUrl,omitempty"`
	RefundPolicy string          `json:"refundPolicy"`
	Tenant       TenantSummary   `json:"tenant"`
}

type ProductsResult struct {
	Docs       []ProductDoc    `json:"docs"`
	TotalDocs  int             `json:"totalDocs"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

type PurchaseResult struct {
	URL string `json:"url"`
}

type VerifyResult struct {
	Status   string `json:"status"`
	Verified bool   `json:"verified"`
}
