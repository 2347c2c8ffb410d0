package catalog

import (
	"context"
	"fmt"

	"github.com/MarcGrol/marketplace/lib/myerrors"
	"github.com/MarcGrol/marketplace/lib/mylog"
)

type service struct {
	logger mylog.Logger
	repo   Repository
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(logger mylog.Logger, repo Repository) *service {
	return &service{
		logger: logger,
		repo:   repo,
	}
}

func (s *service) getProducts(c context.Context, filter ProductFilter) (Page[Product], error) {
	page, err := s.repo.SearchProducts(c, filter)
	if err != nil {
		return Page[Product]{}, myerrors.NewInternalError(err)
	}
	return page, nil
}

func (s *service) getProduct(c context.Context, id string) (Product, error) {
	product, found, err := s.repo.GetProduct(c, id)
	if err != nil {
		return Product{}, myerrors.NewInternalError(err)
	}
	if !found || product.IsArchived {
		return Product{}, myerrors.NewNotFoundError(fmt.Errorf("Product not found"))
	}
	return product, nil
}

func (s *service) getTenant(c context.Context, slug string) (Tenant, error) {
	tenant, found, err := s.repo.GetTenantBySlug(c, slug)
	if err != nil {
		return Tenant{}, myerrors.NewInternalError(err)
	}
	if !found {
		return Tenant{}, myerrors.NewNotFoundError(fmt.Errorf("Tenant not found"))
	}
	return tenant, nil
}

func (s *service) getCategories(c context.Context) ([]Category, error) {
	categories, err := s.repo.ListCategories(c)
	if err != nil {
		return nil, myerrors.NewInternalError(err)
	}
	return categories, nil
}

func (s *service) getTags(c context.Context, page int, limit int) (Page[Tag], error) {
	tags, err := s.repo.ListTags(c, page, limit)
	if err != nil {
		return Page[Tag]{}, myerrors.NewInternalError(err)
	}
	return tags, nil
}
