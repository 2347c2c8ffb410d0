package library

import (
	"context"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/MarcGrol/marketplace/lib/myauth"
	"github.com/MarcGrol/marketplace/lib/myerrors"
	"github.com/MarcGrol/marketplace/lib/mylog"
	"github.com/MarcGrol/marketplace/lib/mymetrics"
	"github.com/MarcGrol/marketplace/lib/mypubsub"
	"github.com/MarcGrol/marketplace/lib/mystore"
	"github.com/MarcGrol/marketplace/services/catalog"
	"github.com/MarcGrol/marketplace/services/reviews"
)

//go:generate mockgen -source=service.go -package library -destination service_mock.go ReviewSummarizer
type ReviewSummarizer interface {
	Summary(c context.Context, productID string) (reviews.Summary, error)
}

type service struct {
	logger     mylog.Logger
	appURL     string
	repo       catalog.Repository
	orderStore mystore.Store[Order]
	reviews    ReviewSummarizer
	cache      Cache
	subscriber mypubsub.PubSub
	group      singleflight.Group
}

func newService(logger mylog.Logger, appURL string, repo catalog.Repository, orderStore mystore.Store[Order], reviews ReviewSummarizer, cache Cache, subscriber mypubsub.PubSub) *service {
	return &service{
		logger:     logger,
		appURL:     appURL,
		repo:       repo,
		orderStore: orderStore,
		reviews:    reviews,
		cache:      cache,
		subscriber: subscriber,
	}
}

func (s *service) recordPurchase(c context.Context, sessionID string, userID string, tenantSlug string, productIDs []string, purchasedAt time.Time) error {
	err := s.orderStore.RunInTransaction(c, func(c context.Context) error {
		for _, productID := range productIDs {
			uid := orderUID(sessionID, productID)

			// must be idempotent
			_, found, err := s.orderStore.Get(c, uid)
			if err != nil {
				return myerrors.NewInternalError(fmt.Errorf("error fetching order %s: %s", uid, err))
			}
			if found {
				continue
			}

			err = s.orderStore.Put(c, uid, Order{
				UID:         uid,
				SessionID:   sessionID,
				UserID:      userID,
				TenantSlug:  tenantSlug,
				ProductID:   productID,
				PurchasedAt: purchasedAt,
			})
			if err != nil {
				return myerrors.NewInternalError(fmt.Errorf("error storing order %s: %s", uid, err))
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Log(c, sessionID, mylog.SeverityInfo, "Recorded %d products for user %s", len(productIDs), userID)

	return s.invalidateCache(c, userID)
}

func (s *service) invalidateCache(c context.Context, userID string) error {
	err := s.cache.Invalidate(c, userID)
	if err != nil {
		return myerrors.NewInternalError(err)
	}
	return nil
}

func (s *service) getMany(c context.Context, user myauth.Session, input GetManyInput) (LibraryPage, error) {
	page, limit := catalog.NormalizePaging(input.Cursor, input.Limit)

	cached, found, err := s.cache.Get(c, user.UserID, page, limit)
	if err != nil {
		// the cache is an optimization only
		s.logger.Log(c, user.UserID, mylog.SeverityWarn, "Error reading library cache: %s", err)
	}
	if found {
		mymetrics.LibraryCacheLookups.WithLabelValues("hit").Inc()
		return cached, nil
	}
	mymetrics.LibraryCacheLookups.WithLabelValues("miss").Inc()

	// read before loading: a purchase recorded during the load bumps it and the page is not kept
	generation, err := s.cache.Generation(c, user.UserID)
	if err != nil {
		s.logger.Log(c, user.UserID, mylog.SeverityWarn, "Error reading library generation: %s", err)
		generation = -1
	}

	// concurrent misses for the same page and generation share one load
	flightKey := fmt.Sprintf("%s:%d:%s", user.UserID, generation, pageField(page, limit))
	value, err, _ := s.group.Do(flightKey, func() (any, error) {
		// outlives the caller that started it
		c := context.WithoutCancel(c)

		loaded, err := s.loadPage(c, user.UserID, page, limit)
		if err != nil {
			return nil, err
		}

		if generation >= 0 {
			err = s.cache.Put(c, user.UserID, generation, page, limit, loaded)
			if err != nil {
				s.logger.Log(c, user.UserID, mylog.SeverityWarn, "Error writing library cache: %s", err)
			}
		}
		return loaded, nil
	})
	if err != nil {
		return LibraryPage{}, err
	}

	return value.(LibraryPage), nil
}

func (s *service) loadPage(c context.Context, userID string, page int, limit int) (LibraryPage, error) {
	orders, err := s.orderStore.Query(c, []mystore.Filter{
		mystore.Equals("UserID", userID),
	}, "-PurchasedAt")
	if err != nil {
		return LibraryPage{}, myerrors.NewInternalError(fmt.Errorf("error fetching orders of %s: %s", userID, err))
	}

	// newest purchase first, a product bought twice is listed once
	productIDs := []string{}
	for _, o := range orders {
		if !slices.Contains(productIDs, o.ProductID) {
			productIDs = append(productIDs, o.ProductID)
		}
	}

	start := min((page-1)*limit, len(productIDs))
	end := min(start+limit, len(productIDs))
	pageIDs := productIDs[start:end]

	products, err := s.repo.FindProductsByIDs(c, pageIDs, false)
	if err != nil {
		return LibraryPage{}, myerrors.NewInternalError(fmt.Errorf("error fetching products: %s", err))
	}

	docs := make([]LibraryProduct, 0, len(products))
	for _, id := range pageIDs {
		idx := slices.IndexFunc(products, func(p catalog.Product) bool { return p.ID == id })
		if idx < 0 {
			s.logger.Log(c, userID, mylog.SeverityWarn, "Ordered product %s no longer exists", id)
			continue
		}

		summary, err := s.reviews.Summary(c, id)
		if err != nil {
			return LibraryPage{}, err
		}

		docs = append(docs, LibraryProduct{
			Product:      products[idx],
			ReviewCount:  summary.Count,
			ReviewRating: summary.Rating,
		})
	}

	return catalog.NewPage(docs, len(productIDs), page, limit), nil
}

func (s *service) getOne(c context.Context, user myauth.Session, productID string) (OwnedProduct, error) {
	orders, err := s.orderStore.Query(c, []mystore.Filter{
		mystore.Equals("UserID", user.UserID),
		mystore.Equals("ProductID", productID),
	}, "")
	if err != nil {
		return OwnedProduct{}, myerrors.NewInternalError(fmt.Errorf("error fetching orders of %s: %s", user.UserID, err))
	}
	if len(orders) == 0 {
		return OwnedProduct{}, myerrors.NewNotFoundError(fmt.Errorf("Order not found"))
	}

	product, found, err := s.repo.GetProduct(c, productID)
	if err != nil {
		return OwnedProduct{}, myerrors.NewInternalError(fmt.Errorf("error fetching product %s: %s", productID, err))
	}
	if !found {
		return OwnedProduct{}, myerrors.NewNotFoundError(fmt.Errorf("Product not found"))
	}

	return OwnedProduct{
		Product: product,
		Content: product.Content,
	}, nil
}
