package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

const DefaultLimit = 10

type SortOrder string

const (
	SortCurated   SortOrder = "curated"
	SortTrending  SortOrder = "trending"
	SortHotAndNew SortOrder = "hot_and_new"
)

type Tenant struct {
	ID                     string `json:"id"`
	Name                   string `json:"name"`
	Slug                   string `json:"slug"`
	ImageURL               string `json:"imageUrl,omitempty"`
	StripeAccountID        string `json:"-"`
	StripeDetailsSubmitted bool   `json:"stripeDetailsSubmitted"`
}

type Product struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
	ImageURL     string          `json:"imageUrl,omitempty"`
	RefundPolicy string          `json:"refundPolicy"`
	Content      string          `json:"-"`
	IsArchived   bool            `json:"isArchived"`
	IsPrivate    bool            `json:"isPrivate"`
	CreatedAt    time.Time       `json:"createdAt"`
	Category     string          `json:"category,omitempty"`
	Tags         []string        `json:"tags"`
	Tenant       Tenant          `json:"tenant"`
}

type Category struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Slug          string     `json:"slug"`
	Color         string     `json:"color,omitempty"`
	ParentID      string     `json:"parent,omitempty"`
	Subcategories []Category `json:"subcategories"`
}

type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ProductFilter struct {
	Category   string
	TenantSlug string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Tags       []string
	Sort       SortOrder
	Page       int
	Limit      int
}

// Page mirrors the paginated document lists of the cms
type Page[T any] struct {
	Docs        []T  `json:"docs"`
	TotalDocs   int  `json:"totalDocs"`
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	HasNextPage bool `json:"hasNextPage"`
	NextPage    *int `json:"nextPage"`
}

func NewPage[T any](docs []T, totalDocs int, page int, limit int) Page[T] {
	if docs == nil {
		docs = []T{}
	}
	p := Page[T]{
		Docs:      docs,
		TotalDocs: totalDocs,
		Page:      page,
		Limit:     limit,
	}
	if page*limit < totalDocs {
		next := page + 1
		p.HasNextPage = true
		p.NextPage = &next
	}
	return p
}

// NormalizePaging applies the defaults for a 1-based page and a positive limit
func NormalizePaging(page int, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	return page, limit
}
