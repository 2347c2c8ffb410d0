package checkout

import (
	"context"
	"fmt"
	"net/url"
	"slices"

	"github.com/MarcGrol/marketplace/lib/myauth"
	"github.com/MarcGrol/marketplace/lib/myerrors"
	"github.com/MarcGrol/marketplace/lib/mylog"
	"github.com/MarcGrol/marketplace/lib/mymetrics"
	"github.com/MarcGrol/marketplace/lib/mypublisher"
	"github.com/MarcGrol/marketplace/lib/mystore"
	"github.com/MarcGrol/marketplace/lib/mytime"
	"github.com/MarcGrol/marketplace/services/catalog"
	"github.com/MarcGrol/marketplace/services/checkoutevents"
)

type Config struct {
	AppURL              string
	FeePercentage       int64
	Currency            string
	StripeWebhookSecret string
}

type service struct {
	cfg           Config
	logger        mylog.Logger
	nower         mytime.Nower
	repo          catalog.Repository
	processor     Processor
	checkoutStore mystore.Store[CheckoutContext]
	publisher     mypublisher.Publisher
	orders        OrderRecorder
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(cfg Config, logger mylog.Logger, nower mytime.Nower, repo catalog.Repository, processor Processor,
	checkoutStore mystore.Store[CheckoutContext], publisher mypublisher.Publisher, orders OrderRecorder) *service {
	return &service{
		cfg:           cfg,
		logger:        logger,
		nower:         nower,
		repo:          repo,
		processor:     processor,
		checkoutStore: checkoutStore,
		publisher:     publisher,
		orders:        orders,
	}
}

func (s *service) getProducts(c context.Context, ids []string) (ProductsResult, error) {
	products, err := resolveProducts(c, s.repo, ids)
	if err != nil {
		return ProductsResult{}, err
	}
	return toProductsResult(products), nil
}

// purchase starts a hosted checkout on the connected account of the tenant
func (s *service) purchase(c context.Context, buyer myauth.Session, baseURL string, input PurchaseInput) (PurchaseResult, error) {
	products, err := resolveProducts(c, s.repo, input.ProductIDs)
	if err != nil {
		return PurchaseResult{}, err
	}
	for _, p := range products {
		if p.Tenant.Slug != input.TenantSlug {
			return PurchaseResult{}, myerrors.NewNotFoundError(ErrProductsNotFound)
		}
	}

	tenant, found, err := s.repo.GetTenantBySlug(c, input.TenantSlug)
	if err != nil {
		return PurchaseResult{}, myerrors.NewInternalError(fmt.Errorf("error fetching tenant %s: %s", input.TenantSlug, err))
	}
	if !found {
		return PurchaseResult{}, myerrors.NewNotFoundError(fmt.Errorf("Tenant not found"))
	}
	if !tenant.StripeDetailsSubmitted {
		return PurchaseResult{}, myerrors.NewInvalidInputError(fmt.Errorf("Tenant not allowed to sell products"))
	}

	request := s.newSessionRequest(buyer, tenant, products, baseURL)

	s.logger.Log(c, buyer.UserID, mylog.SeverityInfo, "Start checkout of %d products at tenant %s", len(products), tenant.Slug)

	session, err := s.processor.CreateCheckoutSession(c, request)
	if err != nil {
		mymetrics.CheckoutSessions.WithLabelValues(s.processor.Name(), "error").Inc()
		return PurchaseResult{}, err
	}
	if session.URL == "" {
		mymetrics.CheckoutSessions.WithLabelValues(s.processor.Name(), "error").Inc()
		return PurchaseResult{}, myerrors.NewInternalError(fmt.Errorf("Failed to create checkout session"))
	}
	mymetrics.CheckoutSessions.WithLabelValues(s.processor.Name(), "created").Inc()

	productIDs := []string{}
	for _, p := range products {
		productIDs = append(productIDs, p.ID)
	}

	err = s.checkoutStore.RunInTransaction(c, func(c context.Context) error {
		// must be idempotent

		// Store checkout context because the confirmation only carries the session id
		err := s.checkoutStore.Put(c, session.ID, CheckoutContext{
			SessionID:          session.ID,
			ProviderName:       s.processor.Name(),
			UserID:             buyer.UserID,
			TenantSlug:         tenant.Slug,
			ConnectedAccountID: tenant.StripeAccountID,
			ProductIDs:         productIDs,
			AmountInCents:      request.TotalInCents(),
			FeeInCents:         request.ApplicationFeeInCents,
			Currency:           request.Currency,
			Status:             StatusOpen,
			CreatedAt:          s.nower.Now(),
		})
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error storing checkout: %s", err))
		}

		err = s.publisher.Publish(c, checkoutevents.TopicName, checkoutevents.CheckoutStarted{
			SessionID:     session.ID,
			ProviderName:  s.processor.Name(),
			UserID:        buyer.UserID,
			TenantSlug:    tenant.Slug,
			ProductIDs:    productIDs,
			AmountInCents: request.TotalInCents(),
			FeeInCents:    request.ApplicationFeeInCents,
			Currency:      request.Currency,
		})
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error publishing event: %s", err))
		}

		return nil
	})
	if err != nil {
		return PurchaseResult{}, err
	}

	return PurchaseResult{URL: session.URL}, nil
}

func (s *service) newSessionRequest(buyer myauth.Session, tenant catalog.Tenant, products []catalog.Product, baseURL string) SessionRequest {
	lineItems := []LineItem{}
	for _, p := range products {
		lineItems = append(lineItems, LineItem{
			ProductID:       p.ID,
			Name:            p.Name,
			UnitAmountCents: toCents(p.Price),
			Metadata: map[string]string{
				"stripeAccountId": tenant.StripeAccountID,
				"id":              p.ID,
				"name":            p.Name,
				"price":           p.Price.String(),
			},
		})
	}

	checkoutURL := fmt.Sprintf("%s/tenants/%s/checkout", baseURL, url.PathEscape(tenant.Slug))
	request := SessionRequest{
		UserID:             buyer.UserID,
		CustomerEmail:      buyer.Email,
		TenantSlug:         tenant.Slug,
		ConnectedAccountID: tenant.StripeAccountID,
		Currency:           s.cfg.Currency,
		LineItems:          lineItems,
		SuccessURL:         checkoutURL + "?success=true",
		CancelURL:          checkoutURL + "?cancel=true",
		ReturnURL:          checkoutURL + "?returned=true",
		WebhookURL:         baseURL + "/api/checkout/webhook/mollie",
	}
	request.ApplicationFeeInCents = platformFee(request.TotalInCents(), s.cfg.FeePercentage)
	return request
}

// verify is the explicit round trip a buyer makes after returning from the hosted checkout
func (s *service) verify(c context.Context, buyer myauth.Session, sessionID string) (VerifyResult, error) {
	checkoutContext, err := s.getCheckoutContext(c, sessionID)
	if err != nil {
		return VerifyResult{}, err
	}
	if checkoutContext.UserID != buyer.UserID {
		return VerifyResult{}, myerrors.NewForbiddenError(fmt.Errorf("checkout %s belongs to another user", sessionID))
	}

	return s.confirm(c, checkoutContext)
}

// confirmPayment is triggered by a processor webhook that only carries the session id
func (s *service) confirmPayment(c context.Context, sessionID string) (VerifyResult, error) {
	checkoutContext, err := s.getCheckoutContext(c, sessionID)
	if err != nil {
		return VerifyResult{}, err
	}

	return s.confirm(c, checkoutContext)
}

func (s *service) confirm(c context.Context, checkoutContext CheckoutContext) (VerifyResult, error) {
	if checkoutContext.IsCompleted() {
		return VerifyResult{Status: StatusCompleted, Verified: true}, nil
	}

	session, err := s.processor.GetCheckoutSession(c, checkoutContext.ConnectedAccountID, checkoutContext.SessionID)
	if err != nil {
		return VerifyResult{}, err
	}
	if !session.Paid {
		return VerifyResult{Status: session.Status, Verified: false}, nil
	}

	err = s.finalizeCheckout(c, checkoutContext.SessionID, session.Status)
	if err != nil {
		return VerifyResult{}, err
	}

	return VerifyResult{Status: session.Status, Verified: true}, nil
}

// finalizeCheckout records the orders of a paid checkout. Confirmations may arrive more than
// once, from the webhook and from the buyer, so every step is idempotent.
func (s *service) finalizeCheckout(c context.Context, sessionID string, paymentStatus string) error {
	now := s.nower.Now()

	checkoutContext, err := s.getCheckoutContext(c, sessionID)
	if err != nil {
		return err
	}
	if checkoutContext.IsCompleted() {
		s.logger.Log(c, sessionID, mylog.SeverityInfo, "Checkout %s already completed", sessionID)
		return nil
	}

	err = s.orders.RecordPurchase(c, sessionID, checkoutContext.UserID, checkoutContext.TenantSlug, checkoutContext.ProductIDs, now)
	if err != nil {
		return myerrors.NewInternalError(fmt.Errorf("error recording orders of checkout %s: %s", sessionID, err))
	}

	err = s.checkoutStore.RunInTransaction(c, func(c context.Context) error {
		// must be idempotent

		checkoutContext, found, err := s.checkoutStore.Get(c, sessionID)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error fetching checkout %s: %s", sessionID, err))
		}
		if !found {
			return myerrors.NewNotFoundError(fmt.Errorf("checkout %s not found", sessionID))
		}
		if checkoutContext.IsCompleted() {
			return nil
		}

		checkoutContext.Status = StatusCompleted
		checkoutContext.LastModified = &now

		err = s.checkoutStore.Put(c, sessionID, checkoutContext)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error storing checkout %s: %s", sessionID, err))
		}

		err = s.publisher.Publish(c, checkoutevents.TopicName, checkoutevents.CheckoutCompleted{
			SessionID:    sessionID,
			ProviderName: checkoutContext.ProviderName,
			UserID:       checkoutContext.UserID,
			TenantSlug:   checkoutContext.TenantSlug,
			ProductIDs:   slices.Clone(checkoutContext.ProductIDs),
			Status:       paymentStatus,
			Success:      true,
		})
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error publishing event: %s", err))
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Log(c, sessionID, mylog.SeverityInfo, "Checkout %s completed for user %s", sessionID, checkoutContext.UserID)

	return nil
}

func (s *service) getCheckoutContext(c context.Context, sessionID string) (CheckoutContext, error) {
	checkoutContext, found, err := s.checkoutStore.Get(c, sessionID)
	if err != nil {
		return CheckoutContext{}, myerrors.NewInternalError(fmt.Errorf("error fetching checkout %s: %s", sessionID, err))
	}
	if !found {
		return CheckoutContext{}, myerrors.NewNotFoundError(fmt.Errorf("checkout %s not found", sessionID))
	}
	return checkoutContext, nil
}
