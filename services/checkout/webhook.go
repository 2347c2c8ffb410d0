package checkout

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/webhook"

	"github.com/MarcGrol/marketplace/lib/myerrors"
	"github.com/MarcGrol/marketplace/lib/mylog"
)

const (
	stripeSignatureHeader         = "Stripe-Signature"
	stripeCheckoutSessionComplete = "checkout.session.completed"
)

// handleStripeWebhook trusts nothing in the payload before its signature has been checked
func (s *service) handleStripeWebhook(c context.Context, payload []byte, signature string) error {
	if s.cfg.StripeWebhookSecret == "" {
		return myerrors.NewInternalError(fmt.Errorf("stripe webhook secret not configured"))
	}

	event, err := webhook.ConstructEvent(payload, signature, s.cfg.StripeWebhookSecret)
	if err != nil {
		return myerrors.NewInvalidInputError(fmt.Errorf("error verifying webhook signature: %s", err))
	}

	if string(event.Type) != stripeCheckoutSessionComplete {
		s.logger.Log(c, event.ID, mylog.SeverityInfo, "Webhook: ignore event %s of type %s", event.ID, event.Type)
		return nil
	}

	session := stripe.CheckoutSession{}
	err = json.Unmarshal(event.Data.Raw, &session)
	if err != nil {
		return myerrors.NewInvalidInputError(fmt.Errorf("error parsing checkout session of event %s: %s", event.ID, err))
	}

	if session.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		s.logger.Log(c, session.ID, mylog.SeverityInfo, "Webhook: session %s completed with payment status %s", session.ID, session.PaymentStatus)
		return nil
	}

	return s.finalizeCheckout(c, session.ID, string(session.PaymentStatus))
}
