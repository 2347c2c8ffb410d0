package checkout

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/checkout/session"

	"github.com/MarcGrol/marketplace/lib/myconfig"
	"github.com/MarcGrol/marketplace/lib/myhttpclient"
	"github.com/MarcGrol/marketplace/lib/mylog"
)

// sessionIDPlaceholder is replaced by stripe with the id of the completed session
const sessionIDPlaceholder = "{CHECKOUT_SESSION_ID}"

type stripeProcessor struct {
	client session.Client
}

func NewStripeProcessor(apiKey string, timeout time.Duration) *stripeProcessor {
	return newStripeProcessorWithURL(apiKey, timeout, "")
}

func newStripeProcessorWithURL(apiKey string, timeout time.Duration, url string) *stripeProcessor {
	config := &stripe.BackendConfig{
		HTTPClient:        myhttpclient.New(timeout, mylog.New("stripe")),
		MaxNetworkRetries: stripe.Int64(0),
	}
	if url != "" {
		config.URL = stripe.String(url)
	}
	return &stripeProcessor{
		client: session.Client{
			B:   stripe.GetBackendWithConfig(stripe.APIBackend, config),
			Key: apiKey,
		},
	}
}

func (p *stripeProcessor) Name() string {
	return myconfig.ProviderStripe
}

func (p *stripeProcessor) CreateCheckoutSession(c context.Context, request SessionRequest) (Session, error) {
	params := newStripeSessionParams(request)
	params.Context = c

	s, err := p.client.New(params)
	if err != nil {
		return Session{}, wrapStripeError(err)
	}

	return fromStripeSession(s), nil
}

func (p *stripeProcessor) GetCheckoutSession(c context.Context, connectedAccountID string, sessionID string) (Session, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = c
	if connectedAccountID != "" {
		params.SetStripeAccount(connectedAccountID)
	}

	s, err := p.client.Get(sessionID, params)
	if err != nil {
		return Session{}, wrapStripeError(err)
	}

	return fromStripeSession(s), nil
}

func newStripeSessionParams(request SessionRequest) *stripe.CheckoutSessionParams {
	lineItems := []*stripe.CheckoutSessionLineItemParams{}
	for _, item := range request.LineItems {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(1),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(strings.ToLower(request.Currency)),
				UnitAmount: stripe.Int64(item.UnitAmountCents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:     stripe.String(item.Name),
					Metadata: item.Metadata,
				},
			},
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:     lineItems,
		CustomerEmail: stripe.String(request.CustomerEmail),
		SuccessURL:    stripe.String(request.SuccessURL + "&session_id=" + sessionIDPlaceholder),
		CancelURL:     stripe.String(request.CancelURL),
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			ApplicationFeeAmount: stripe.Int64(request.ApplicationFeeInCents),
		},
	}
	params.AddMetadata("userId", request.UserID)
	params.SetStripeAccount(request.ConnectedAccountID)

	return params
}

func fromStripeSession(s *stripe.CheckoutSession) Session {
	return Session{
		ID:          s.ID,
		URL:         s.URL,
		Status:      string(s.PaymentStatus),
		Paid:        s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		AmountTotal: s.AmountTotal,
	}
}

func wrapStripeError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return processorError{httpStatus: stripeErr.HTTPStatusCode, err: err}
	}
	return processorError{httpStatus: http.StatusBadGateway, err: err}
}
