package checkout

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/MarcGrol/marketplace/lib/myerrors"
	"github.com/MarcGrol/marketplace/services/catalog"
)

// ErrProductsNotFound is reported when a cart refers to products that can no longer be bought
var ErrProductsNotFound = fmt.Errorf("Products not found")

// resolveProducts fetches the purchasable products. Archived, deleted or unknown ids make the
// whole set unresolvable.
func resolveProducts(c context.Context, repo catalog.Repository, ids []string) ([]catalog.Product, error) {
	distinct := distinctIDs(ids)
	if len(distinct) == 0 {
		return []catalog.Product{}, nil
	}

	products, err := repo.FindProductsByIDs(c, distinct, true)
	if err != nil {
		return nil, myerrors.NewInternalError(fmt.Errorf("error fetching products: %s", err))
	}
	if len(products) != len(distinct) {
		return nil, myerrors.NewNotFoundError(ErrProductsNotFound)
	}

	return products, nil
}

func toProductsResult(products []catalog.Product) ProductsResult {
	result := ProductsResult{
		Docs:       []ProductDoc{},
		TotalDocs:  len(products),
		TotalPrice: decimal.Zero,
	}
	for _, p := range products {
		result.TotalPrice = result.TotalPrice.Add(p.Price)
		result.Docs = append(result.Docs, ProductDoc{
			ID:           p.ID,
			Name:         p.Name,
			Price:        p.Price,
			ImageURL:     p.ImageURL,
			RefundPolicy: p.RefundPolicy,
			Tenant: TenantSummary{
				Name:     p.Tenant.Name,
				Slug:     p.Tenant.Slug,
				ImageURL: p.Tenant.ImageURL,
			},
		})
	}
	return result
}

func distinctIDs(ids []string) []string {
	seen := map[string]bool{}
	distinct := []string{}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		distinct = append(distinct, id)
	}
	return distinct
}
