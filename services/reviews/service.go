package reviews

import (
	"context"
	"fmt"

	"github.com/MarcGrol/marketplace/lib/myauth"
	"github.com/MarcGrol/marketplace/lib/myerrors"
	"github.com/MarcGrol/marketplace/lib/mylog"
	"github.com/MarcGrol/marketplace/lib/mystore"
	"github.com/MarcGrol/marketplace/lib/mytime"
	"github.com/MarcGrol/marketplace/lib/myuuid"
	"github.com/MarcGrol/marketplace/services/catalog"
)

type service struct {
	logger      mylog.Logger
	nower       mytime.Nower
	uuider      myuuid.UUIDer
	repo        catalog.Repository
	reviewStore mystore.Store[Review]
}

func newService(logger mylog.Logger, nower mytime.Nower, uuider myuuid.UUIDer, repo catalog.Repository, reviewStore mystore.Store[Review]) *service {
	return &service{
		logger:      logger,
		nower:       nower,
		uuider:      uuider,
		repo:        repo,
		reviewStore: reviewStore,
	}
}

func (s *service) getOne(c context.Context, user myauth.Session, productID string) (*Review, error) {
	err := s.assertProductExists(c, productID)
	if err != nil {
		return nil, err
	}

	review, found, err := s.findReview(c, user.UserID, productID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	return &review, nil
}

func (s *service) create(c context.Context, user myauth.Session, input CreateInput) (Review, error) {
	err := s.assertProductExists(c, input.ProductID)
	if err != nil {
		return Review{}, err
	}

	now := s.nower.Now()
	review := Review{
		UID:         s.uuider.Create(),
		ProductID:   input.ProductID,
		UserID:      user.UserID,
		Rating:      input.Rating,
		Description: input.Description,
		CreatedAt:   now,
	}

	err = s.reviewStore.RunInTransaction(c, func(c context.Context) error {
		_, found, err := s.findReview(c, user.UserID, input.ProductID)
		if err != nil {
			return err
		}
		if found {
			return myerrors.NewInvalidInputError(fmt.Errorf("You have already reviewed this product"))
		}

		err = s.reviewStore.Put(c, review.UID, review)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error storing review: %s", err))
		}
		return nil
	})
	if err != nil {
		return Review{}, err
	}

	s.logger.Log(c, review.UID, mylog.SeverityInfo, "User %s reviewed product %s with %d", user.UserID, input.ProductID, input.Rating)

	return review, nil
}

func (s *service) update(c context.Context, user myauth.Session, input UpdateInput) (Review, error) {
	now := s.nower.Now()

	var review Review
	err := s.reviewStore.RunInTransaction(c, func(c context.Context) error {
		existing, found, err := s.reviewStore.Get(c, input.ReviewID)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error fetching review %s: %s", input.ReviewID, err))
		}
		if !found {
			return myerrors.NewNotFoundError(fmt.Errorf("Review not found"))
		}
		if existing.UserID != user.UserID {
			return myerrors.NewForbiddenError(fmt.Errorf("You are not allowed to update this review"))
		}

		existing.Rating = input.Rating
		existing.Description = input.Description
		existing.LastModified = &now

		err = s.reviewStore.Put(c, existing.UID, existing)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error storing review %s: %s", existing.UID, err))
		}
		review = existing
		return nil
	})
	if err != nil {
		return Review{}, err
	}

	return review, nil
}

func (s *service) summary(c context.Context, productID string) (Summary, error) {
	reviews, err := s.reviewStore.Query(c, []mystore.Filter{
		mystore.Equals("ProductID", productID),
	}, "")
	if err != nil {
		return Summary{}, myerrors.NewInternalError(fmt.Errorf("error fetching reviews of product %s: %s", productID, err))
	}

	if len(reviews) == 0 {
		return Summary{}, nil
	}

	total := 0
	for _, r := range reviews {
		total += r.Rating
	}

	return Summary{
		Count:  len(reviews),
		Rating: float64(total) / float64(len(reviews)),
	}, nil
}

func (s *service) findReview(c context.Context, userID string, productID string) (Review, bool, error) {
	reviews, err := s.reviewStore.Query(c, []mystore.Filter{
		mystore.Equals("ProductID", productID),
		mystore.Equals("UserID", userID),
	}, "")
	if err != nil {
		return Review{}, false, myerrors.NewInternalError(fmt.Errorf("error fetching review of product %s: %s", productID, err))
	}
	if len(reviews) == 0 {
		return Review{}, false, nil
	}
	return reviews[0], true, nil
}

func (s *service) assertProductExists(c context.Context, productID string) error {
	_, found, err := s.repo.GetProduct(c, productID)
	if err != nil {
		return myerrors.NewInternalError(fmt.Errorf("error fetching product %s: %s", productID, err))
	}
	if !found {
		return myerrors.NewNotFoundError(fmt.Errorf("Product not found"))
	}
	return nil
}
