package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/VictorAvelar/mollie-api-go/v3/mollie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sessionRequest = SessionRequest{
	UserID:             "user_1",
	CustomerEmail:      "buyer@example.com",
	TenantSlug:         "bhushan",
	ConnectedAccountID: "acct_bhushan",
	Currency:           "usd",
	LineItems: []LineItem{
		{ProductID: "prod_go_web_services", Name: "Go web services", UnitAmountCents: 2599, Metadata: map[string]string{"id": "prod_go_web_services"}},
	},
	ApplicationFeeInCents: 260,
	SuccessURL:            "https://market.example.com/tenants/bhushan/checkout?success=true",
	CancelURL:             "https://market.example.com/tenants/bhushan/checkout?cancel=true",
	ReturnURL:             "https://market.example.com/tenants/bhushan/checkout?returned=true",
	WebhookURL:            "https://market.example.com/api/checkout/webhook/mollie",
}

func TestStripeProcessor(t *testing.T) {

	t.Run("Create session on connected account", func(t *testing.T) {
		// given
		var form url.Values
		var header http.Header
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
			assert.NoError(t, r.ParseForm())
			form = r.PostForm
			header = r.Header
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"cs_123","object":"checkout.session","url":"https://checkout.stripe.com/c/cs_123","amount_total":2599,"payment_status":"unpaid"}`))
		}))
		defer server.Close()
		processor := newStripeProcessorWithURL("sk_test_123", 5*time.Second, server.URL)

		// when
		session, err := processor.CreateCheckoutSession(context.TODO(), sessionRequest)

		// then
		require.NoError(t, err)
		assert.Equal(t, "cs_123", session.ID)
		assert.Equal(t, "https://checkout.stripe.com/c/cs_123", session.URL)
		assert.Equal(t, int64(2599), session.AmountTotal)
		assert.False(t, session.Paid)

		assert.Equal(t, "acct_bhushan", header.Get("Stripe-Account"))
		assert.Equal(t, "payment", form.Get("mode"))
		assert.Equal(t, "260", form.Get("payment_intent_data[application_fee_amount]"))
		assert.Equal(t, "buyer@example.com", form.Get("customer_email"))
		assert.Equal(t, "user_1", form.Get("metadata[userId]"))
		assert.Equal(t, "2599", form.Get("line_items[0][price_data][unit_amount]"))
		assert.Equal(t, "usd", form.Get("line_items[0][price_data][currency]"))
		assert.Equal(t, "Go web services", form.Get("line_items[0][price_data][product_data][name]"))
		assert.Equal(t, "1", form.Get("line_items[0][quantity]"))
		assert.Equal(t, "https://market.example.com/tenants/bhushan/checkout?success=true&session_id={CHECKOUT_SESSION_ID}", form.Get("success_url"))
		assert.Equal(t, "https://market.example.com/tenants/bhushan/checkout?cancel=true", form.Get("cancel_url"))
	})

	t.Run("Retrieve paid session", func(t *testing.T) {
		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/checkout/sessions/cs_123", r.URL.Path)
			assert.Equal(t, "acct_bhushan", r.Header.Get("Stripe-Account"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"cs_123","object":"checkout.session","payment_status":"paid","amount_total":2599}`))
		}))
		defer server.Close()
		processor := newStripeProcessorWithURL("sk_test_123", 5*time.Second, server.URL)

		// when
		session, err := processor.GetCheckoutSession(context.TODO(), "acct_bhushan", "cs_123")

		// then
		require.NoError(t, err)
		assert.True(t, session.Paid)
		assert.Equal(t, "paid", session.Status)
	})

	t.Run("Processor outage keeps status", func(t *testing.T) {
		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":{"type":"api_error","message":"unavailable"}}`))
		}))
		defer server.Close()
		processor := newStripeProcessorWithURL("sk_test_123", 5*time.Second, server.URL)

		// when
		_, err := processor.CreateCheckoutSession(context.TODO(), sessionRequest)

		// then
		assert.Error(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, processorStatus(err))
	})
}

func TestMolliePayment(t *testing.T) {

	t.Run("Payment request with application fee", func(t *testing.T) {
		// when
		payment := newMolliePayment(sessionRequest)

		// then
		assert.Equal(t, "USD", payment.Amount.Currency)
		assert.Equal(t, "25.99", payment.Amount.Value)
		assert.Equal(t, "2.60", payment.ApplicationFee.Amount.Value)
		assert.Equal(t, "acct_bhushan", payment.ProfileID)
		assert.Equal(t, sessionRequest.ReturnURL, payment.RedirectURL)
		assert.Equal(t, sessionRequest.WebhookURL, payment.WebhookURL)
		assert.Equal(t, map[string]string{"userId": "user_1"}, payment.Metadata)
	})

	t.Run("Buyer returns to a neutral url carrying the payment id", func(t *testing.T) {
		// given
		var created mollie.Payment
		var updated mollie.Payment
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/hal+json")
			switch {
			case r.Method == http.MethodPost && r.URL.Path == "/v2/payments":
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&created))
				w.WriteHeader(http.StatusCreated)
				w.Write([]byte(`{"id":"tr_123","status":"open","amount":{"currency":"USD","value":"25.99"},"_links":{"checkout":{"href":"https://www.mollie.com/checkout/tr_123"}}}`))
			case r.Method == http.MethodPatch && r.URL.Path == "/v2/payments/tr_123":
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&updated))
				w.Write([]byte(`{"id":"tr_123","status":"open"}`))
			default:
				t.Errorf("unexpected call %s %s", r.Method, r.URL.Path)
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer server.Close()
		processor, err := newMollieProcessorWithURL("test_123", false, 5*time.Second, server.URL)
		require.NoError(t, err)

		// when
		session, err := processor.CreateCheckoutSession(context.TODO(), sessionRequest)

		// then
		require.NoError(t, err)
		assert.Equal(t, "tr_123", session.ID)
		assert.Equal(t, "https://www.mollie.com/checkout/tr_123", session.URL)
		assert.Equal(t, "https://market.example.com/tenants/bhushan/checkout?returned=true", created.RedirectURL)
		assert.NotContains(t, created.RedirectURL, "success")
		assert.Equal(t, "https://market.example.com/tenants/bhushan/checkout?returned=true&session_id=tr_123", updated.RedirectURL)
	})

	t.Run("Paid payment", func(t *testing.T) {
		// when
		session := fromMolliePayment(&mollie.Payment{
			ID:     "tr_123",
			Status: "paid",
			Amount: &mollie.Amount{Currency: "USD", Value: "25.99"},
			Links: mollie.PaymentLinks{
				Checkout: &mollie.URL{Href: "https://www.mollie.com/checkout/tr_123"},
			},
		})

		// then
		assert.True(t, session.Paid)
		assert.Equal(t, int64(2599), session.AmountTotal)
		assert.Equal(t, "https://www.mollie.com/checkout/tr_123", session.URL)
	})
}
