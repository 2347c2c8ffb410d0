package checkout

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/VictorAvelar/mollie-api-go/v3/mollie"
	"github.com/shopspring/decimal"

	"github.com/MarcGrol/marketplace/lib/myconfig"
	"github.com/MarcGrol/marketplace/lib/myhttpclient"
	"github.com/MarcGrol/marketplace/lib/mylog"
)

const molliePaid = "paid"

// mollieProcessor creates payments on behalf of the tenant profile. Mollie sends the buyer back
// to the same url whatever the outcome, so the buyer returns to a neutral url carrying the
// payment id and the outcome is verified server side.
type mollieProcessor struct {
	client *mollie.Client
}

func NewMollieProcessor(apiKey string, testMode bool, timeout time.Duration) (*mollieProcessor, error) {
	return newMollieProcessorWithURL(apiKey, testMode, timeout, "")
}

func newMollieProcessorWithURL(apiKey string, testMode bool, timeout time.Duration, baseURL string) (*mollieProcessor, error) {
	config := mollie.NewAPIConfig(true)
	if testMode {
		config = mollie.NewAPITestingConfig(true)
	}

	client, err := mollie.NewClient(myhttpclient.New(timeout, mylog.New("mollie")), config)
	if err != nil {
		return nil, fmt.Errorf("error creating mollie client: %s", err)
	}
	client.WithAuthenticationValue(apiKey)
	if baseURL != "" {
		client.BaseURL, err = url.Parse(baseURL + "/")
		if err != nil {
			return nil, fmt.Errorf("error parsing mollie url %s: %s", baseURL, err)
		}
	}

	return &mollieProcessor{
		client: client,
	}, nil
}

func (p *mollieProcessor) Name() string {
	return myconfig.ProviderMollie
}

func (p *mollieProcessor) CreateCheckoutSession(c context.Context, request SessionRequest) (Session, error) {
	res, payment, err := p.client.Payments.Create(c, newMolliePayment(request), nil)
	if err != nil {
		return Session{}, wrapMollieError(res, err)
	}

	// the payment id is only known now
	res, _, err = p.client.Payments.Update(c, payment.ID, mollie.Payment{
		RedirectURL: mollieReturnURL(request.ReturnURL, payment.ID),
	})
	if err != nil {
		return Session{}, wrapMollieError(res, err)
	}

	return fromMolliePayment(payment), nil
}

func mollieReturnURL(returnURL string, paymentID string) string {
	return returnURL + "&session_id=" + url.QueryEscape(paymentID)
}

func (p *mollieProcessor) GetCheckoutSession(c context.Context, connectedAccountID string, sessionID string) (Session, error) {
	res, payment, err := p.client.Payments.Get(c, sessionID, &mollie.PaymentOptions{})
	if err != nil {
		return Session{}, wrapMollieError(res, err)
	}

	return fromMolliePayment(payment), nil
}

func newMolliePayment(request SessionRequest) mollie.Payment {
	return mollie.Payment{
		Amount:      mollieAmount(request.Currency, request.TotalInCents()),
		Description: fmt.Sprintf("%d products from %s", len(request.LineItems), request.TenantSlug),
		RedirectURL: request.ReturnURL,
		CancelURL:   request.CancelURL,
		WebhookURL:  request.WebhookURL,
		ProfileID:   request.ConnectedAccountID,
		Metadata: map[string]string{
			"userId": request.UserID,
		},
		ApplicationFee: &mollie.ApplicationFee{
			Amount:      mollieAmount(request.Currency, request.ApplicationFeeInCents),
			Description: "Marketplace fee",
		},
	}
}

func mollieAmount(currency string, cents int64) *mollie.Amount {
	return &mollie.Amount{
		Currency: strings.ToUpper(currency),
		Value:    decimal.New(cents, -2).StringFixed(2),
	}
}

func fromMolliePayment(payment *mollie.Payment) Session {
	session := Session{
		ID:     payment.ID,
		Status: payment.Status,
		Paid:   payment.Status == molliePaid,
	}
	if payment.Links.Checkout != nil {
		session.URL = payment.Links.Checkout.Href
	}
	if payment.Amount != nil {
		value, err := decimal.NewFromString(payment.Amount.Value)
		if err == nil {
			session.AmountTotal = toCents(value)
		}
	}
	return session
}

func wrapMollieError(res *mollie.Response, err error) error {
	if res != nil && res.Response != nil {
		return processorError{httpStatus: res.StatusCode, err: err}
	}
	return processorError{httpStatus: http.StatusBadGateway, err: err}
}
