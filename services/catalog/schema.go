package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MarcGrol/marketplace/lib/myrpc"
)

const (
	ProcedureProductsGetMany   = "products.getMany"
	ProcedureProductsGetOne    = "products.getOne"
	ProcedureTenantsGetOne     = "tenants.getOne"
	ProcedureCategoriesGetMany = "categories.getMany"
	ProcedureTagsGetMany       = "tags.getMany"
)

type ProductsGetManyInput struct {
	Category   string   `form:"category"`
	TenantSlug string   `form:"tenantSlug"`
	MinPrice   string   `form:"minPrice"`
	MaxPrice   string   `form:"maxPrice"`
	Tags       []string `form:"tags"`
	Sort       string   `form:"sort"`
	Cursor     int      `form:"cursor"`
	Limit      int      `form:"limit"`
}

func (i ProductsGetManyInput) Validate() error {
	v := myrpc.Violations{}
	_, err := parseOptionalPrice(i.MinPrice)
	v.Check(err == nil, "minPrice must be a number")
	_, err = parseOptionalPrice(i.MaxPrice)
	v.Check(err == nil, "maxPrice must be a number")
	switch SortOrder(i.Sort) {
	case "", SortCurated, SortTrending, SortHotAndNew:
	default:
		v.Check(false, "sort must be one of curated, trending, hot_and_new")
	}
	v.Check(i.Cursor >= 0, "cursor must not be negative")
	v.Check(i.Limit >= 0, "limit must not be negative")
	return v.Err()
}

func (i ProductsGetManyInput) toFilter() ProductFilter {
	minPrice, _ := parseOptionalPrice(i.MinPrice)
	maxPrice, _ := parseOptionalPrice(i.MaxPrice)
	sort := SortOrder(i.Sort)
	if sort == "" {
		sort = SortCurated
	}
	return ProductFilter{
		Category:   i.Category,
		TenantSlug: i.TenantSlug,
		MinPrice:   minPrice,
		MaxPrice:   maxPrice,
		Tags:       i.Tags,
		Sort:       sort,
		Page:       i.Cursor,
		Limit:      i.Limit,
	}
}

func parseOptionalPrice(value string) (*decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	price, err := decimal.NewFromString(value)
	if err != nil {
		return nil, err
	}
	return &price, nil
}

type ProductsGetOneInput struct {
	ID string `form:"id"`
}

func (i ProductsGetOneInput) Validate() error {
	v := myrpc.Violations{}
	v.Check(i.ID != "", "id is required")
	return v.Err()
}

type TenantsGetOneInput struct {
	Slug string `form:"slug"`
}

func (i TenantsGetOneInput) Validate() error {
	v := myrpc.Violations{}
	v.Check(i.Slug != "", "slug is required")
	return v.Err()
}

type CategoriesGetManyInput struct{}

func (i CategoriesGetManyInput) Validate() error {
	return nil
}

type TagsGetManyInput struct {
	Cursor int `form:"cursor"`
	Limit  int `form:"limit"`
}

func (i TagsGetManyInput) Validate() error {
	v := myrpc.Violations{}
	v.Check(i.Cursor >= 0, "cursor must not be negative")
	v.Check(i.Limit >= 0, "limit must not be negative")
	return v.Err()
}
