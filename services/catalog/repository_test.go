package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepository(t *testing.T) (context.Context, *sqlRepository) {
	c := context.TODO()
	repo, cleanup, err := NewSQLRepository(c, ":memory:")
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return c, repo
}

func productIDs(products []Product) []string {
	ids := []string{}
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestRepository(t *testing.T) {
	c, repo := setupRepository(t)

	t.Run("Find products by ids with tenant and tags", func(t *testing.T) {
		products, err := repo.FindProductsByIDs(c, []string{"prod_accounting_basics", "prod_go_web_services"}, true)

		assert.NoError(t, err)
		assert.Equal(t, []string{"prod_go_web_services", "prod_accounting_basics"}, productIDs(products))
		assert.True(t, decimal.RequireFromString("25.99").Equal(products[0].Price))
		assert.Equal(t, "bhushan", products[0].Tenant.Slug)
		assert.Equal(t, "acct_bhushan", products[0].Tenant.StripeAccountID)
		assert.Equal(t, []string{"course", "ebook"}, products[0].Tags)
		assert.Equal(t, "https://cdn.example.com/tenants/antonio.png", products[1].Tenant.ImageURL)
	})

	t.Run("Archived products excluded on request", func(t *testing.T) {
		products, err := repo.FindProductsByIDs(c, []string{"prod_archived_template"}, true)
		assert.NoError(t, err)
		assert.Empty(t, products)

		products, err = repo.FindProductsByIDs(c, []string{"prod_archived_template"}, false)
		assert.NoError(t, err)
		assert.Len(t, products, 1)
		assert.True(t, products[0].IsArchived)
	})

	t.Run("No ids", func(t *testing.T) {
		products, err := repo.FindProductsByIDs(c, nil, true)
		assert.NoError(t, err)
		assert.Empty(t, products)
	})

	t.Run("Get product", func(t *testing.T) {
		product, found, err := repo.GetProduct(c, "prod_bookkeeping_course")
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "Bookkeeping course", product.Name)
		assert.Equal(t, "accounting", product.Category)
		assert.Equal(t, "14-day", product.RefundPolicy)

		_, found, err = repo.GetProduct(c, "prod_unknown")
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Tenant by slug", func(t *testing.T) {
		tenant, found, err := repo.GetTenantBySlug(c, "closed")
		assert.NoError(t, err)
		assert.True(t, found)
		assert.False(t, tenant.StripeDetailsSubmitted)

		_, found, err = repo.GetTenantBySlug(c, "nobody")
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Categories are top-level with subcategories", func(t *testing.T) {
		categories, err := repo.ListCategories(c)
		assert.NoError(t, err)
		assert.Len(t, categories, 3)
		assert.Equal(t, "business-money", categories[0].Slug)
		assert.Equal(t, "accounting", categories[0].Subcategories[0].Slug)
		assert.Equal(t, "design", categories[1].Slug)
		assert.Empty(t, categories[1].Subcategories)
	})

	t.Run("Tags paginated", func(t *testing.T) {
		page, err := repo.ListTags(c, 1, 2)
		assert.NoError(t, err)
		assert.Equal(t, 3, page.TotalDocs)
		assert.Equal(t, []Tag{{ID: "tag_course", Name: "course"}, {ID: "tag_ebook", Name: "ebook"}}, page.Docs)
		assert.True(t, page.HasNextPage)
		assert.Equal(t, 2, *page.NextPage)

		page, err = repo.ListTags(c, 2, 2)
		assert.NoError(t, err)
		assert.Len(t, page.Docs, 1)
		assert.False(t, page.HasNextPage)
	})
}

func TestSearchProducts(t *testing.T) {
	c, repo := setupRepository(t)
	ten := decimal.NewFromInt(10)
	twenty := decimal.NewFromInt(20)

	testCases := []struct {
		name     string
		filter   ProductFilter
		expected []string
	}{
		{
			name:     "Marketplace hides archived and private, newest first",
			filter:   ProductFilter{},
			expected: []string{"prod_logo_pack", "prod_go_web_services", "prod_bookkeeping_course", "prod_accounting_basics"},
		},
		{
			name:     "Storefront shows private products of its tenant",
			filter:   ProductFilter{TenantSlug: "antonio"},
			expected: []string{"prod_private_notes", "prod_bookkeeping_course", "prod_accounting_basics"},
		},
		{
			name:     "Parent category includes subcategories",
			filter:   ProductFilter{Category: "business-money"},
			expected: []string{"prod_bookkeeping_course", "prod_accounting_basics"},
		},
		{
			name:     "Price range",
			filter:   ProductFilter{MinPrice: &ten, MaxPrice: &twenty},
			expected: []string{"prod_logo_pack", "prod_bookkeeping_course", "prod_accounting_basics"},
		},
		{
			name:     "Any of the tags",
			filter:   ProductFilter{Tags: []string{"ebook", "template"}},
			expected: []string{"prod_logo_pack", "prod_go_web_services", "prod_accounting_basics"},
		},
		{
			name:     "Hot and new is oldest first",
			filter:   ProductFilter{Sort: SortHotAndNew, Limit: 2},
			expected: []string{"prod_accounting_basics", "prod_bookkeeping_course"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			page, err := repo.SearchProducts(c, tc.filter)
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, productIDs(page.Docs))
		})
	}

	t.Run("Second page", func(t *testing.T) {
		page, err := repo.SearchProducts(c, ProductFilter{Page: 2, Limit: 3})
		assert.NoError(t, err)
		assert.Equal(t, 4, page.TotalDocs)
		assert.Equal(t, []string{"prod_accounting_basics"}, productIDs(page.Docs))
		assert.False(t, page.HasNextPage)
	})
}

func TestParsePrice(t *testing.T) {
	assert.True(t, decimal.RequireFromString("12.50").Equal(parsePrice(" 12.50 ")))
	assert.True(t, decimal.Zero.Equal(parsePrice("NaN")))
	assert.True(t, decimal.Zero.Equal(parsePrice("")))
}
