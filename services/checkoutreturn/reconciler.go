package checkoutreturn

import (
	"context"
	"fmt"
	"slices"

	"github.com/MarcGrol/marketplace/lib/myauth"
	"github.com/MarcGrol/marketplace/lib/myerrors"
	"github.com/MarcGrol/marketplace/lib/mylog"
	"github.com/MarcGrol/marketplace/lib/mymetrics"
	"github.com/MarcGrol/marketplace/services/cart"
	"github.com/MarcGrol/marketplace/services/checkout"
)

type State string

const (
	StateIdle       State = "idle"
	StateReconciled State = "reconciled"
	StateFailed     State = "failed"
	StatePending    State = "pending"

	LibraryPath = "/library"

	checkoutFailedMessage  = "checkout failed"
	paymentPendingMessage  = "payment not confirmed yet"
	invalidProductsWarning = "Invalid products found, cart cleared"
)

// ReturnFlags are set by the payment processor when it sends the buyer back. Returned is used
// by processors that send the buyer back to one url whatever the outcome.
type ReturnFlags struct {
	Success   bool   `form:"success"`
	Cancel    bool   `form:"cancel"`
	Returned  bool   `form:"returned"`
	SessionID string `form:"session_id"`
}

var failedPaymentStatuses = []string{"failed", "expired", "canceled"}

type Outcome struct {
	State        State  `json:"state"`
	Navigate     string `json:"navigate,omitempty"`
	Message      string `json:"message,omitempty"`
	FlagsCleared bool   `json:"flagsCleared"`
	Verified     bool   `json:"verified"`
	VerifyError  string `json:"verifyError,omitempty"`
}

type CheckoutView struct {
	TenantSlug string                  `json:"tenantSlug"`
	Products   checkout.ProductsResult `json:"products"`
	Warning    string                  `json:"warning,omitempty"`
	Outcome    Outcome                 `json:"outcome"`
}

//go:generate mockgen -source=reconciler.go -package checkoutreturn -destination reconciler_mock.go ProductResolver Verifier LibraryCache
type ProductResolver interface {
	GetProducts(c context.Context, ids []string) (checkout.ProductsResult, error)
}

type Verifier interface {
	Verify(c context.Context, buyer myauth.Session, sessionID string) (checkout.VerifyResult, error)
}

type LibraryCache interface {
	InvalidateCache(c context.Context, userID string) error
}

type Reconciler struct {
	logger   mylog.Logger
	resolver ProductResolver
	verifier Verifier
	library  LibraryCache
}

func NewReconciler(resolver ProductResolver, verifier Verifier, library LibraryCache) *Reconciler {
	return &Reconciler{
		logger:   mylog.New("checkoutreturn"),
		resolver: resolver,
		verifier: verifier,
		library:  library,
	}
}

// Reconcile reacts to the buyer returning from the hosted checkout. The flags are only a hint:
// orders become final through the server side confirmation, which is triggered here when a
// session id is present.
func (r *Reconciler) Reconcile(c context.Context, store *cart.Store, buyer *myauth.Session, tenantSlug string, flags ReturnFlags) (Outcome, error) {
	switch {
	case flags.Success:
		outcome, err := r.reconcileSuccess(c, store, buyer, tenantSlug, flags.SessionID)
		if err != nil {
			mymetrics.Reconciliations.WithLabelValues("error").Inc()
			return Outcome{}, err
		}
		mymetrics.Reconciliations.WithLabelValues(string(outcome.State)).Inc()
		return outcome, nil

	case flags.Cancel:
		mymetrics.Reconciliations.WithLabelValues(string(StateFailed)).Inc()
		return Outcome{
			State:   StateFailed,
			Message: checkoutFailedMessage,
		}, nil

	case flags.Returned:
		outcome, err := r.reconcileReturned(c, store, buyer, tenantSlug, flags.SessionID)
		if err != nil {
			mymetrics.Reconciliations.WithLabelValues("error").Inc()
			return Outcome{}, err
		}
		mymetrics.Reconciliations.WithLabelValues(string(outcome.State)).Inc()
		return outcome, nil

	default:
		return Outcome{State: StateIdle}, nil
	}
}

func (r *Reconciler) reconcileSuccess(c context.Context, store *cart.Store, buyer *myauth.Session, tenantSlug string, sessionID string) (Outcome, error) {
	outcome := Outcome{
		State:        StateReconciled,
		Navigate:     LibraryPath,
		FlagsCleared: true,
	}

	err := store.ClearCart(c, tenantSlug)
	if err != nil {
		return Outcome{}, myerrors.NewInternalError(fmt.Errorf("error clearing cart of tenant %s: %s", tenantSlug, err))
	}

	if buyer == nil {
		r.logger.Log(c, tenantSlug, mylog.SeverityInfo, "Anonymous return from checkout at tenant %s", tenantSlug)
		return outcome, nil
	}

	err = r.library.InvalidateCache(c, buyer.UserID)
	if err != nil {
		r.logger.Log(c, buyer.UserID, mylog.SeverityWarn, "Error invalidating library of user %s: %s", buyer.UserID, err)
	}

	if sessionID != "" {
		result, err := r.verifier.Verify(c, *buyer, sessionID)
		if err != nil {
			r.logger.Log(c, sessionID, mylog.SeverityWarn, "Error verifying checkout %s: %s", sessionID, err)
			outcome.VerifyError = myerrors.GetMessage(err)
		} else {
			outcome.Verified = result.Verified
		}
	}

	return outcome, nil
}

// reconcileReturned carries no outcome, so the cart is only cleared once the payment is verified
func (r *Reconciler) reconcileReturned(c context.Context, store *cart.Store, buyer *myauth.Session, tenantSlug string, sessionID string) (Outcome, error) {
	pending := Outcome{
		State:        StatePending,
		Message:      paymentPendingMessage,
		FlagsCleared: true,
	}

	if buyer == nil || sessionID == "" {
		r.logger.Log(c, tenantSlug, mylog.SeverityInfo, "Return from checkout at tenant %s cannot be verified", tenantSlug)
		return pending, nil
	}

	result, err := r.verifier.Verify(c, *buyer, sessionID)
	if err != nil {
		r.logger.Log(c, sessionID, mylog.SeverityWarn, "Error verifying checkout %s: %s", sessionID, err)
		pending.VerifyError = myerrors.GetMessage(err)
		return pending, nil
	}

	if !result.Verified {
		if slices.Contains(failedPaymentStatuses, result.Status) {
			return Outcome{
				State:        StateFailed,
				Message:      checkoutFailedMessage,
				FlagsCleared: true,
			}, nil
		}
		return pending, nil
	}

	err = store.ClearCart(c, tenantSlug)
	if err != nil {
		return Outcome{}, myerrors.NewInternalError(fmt.Errorf("error clearing cart of tenant %s: %s", tenantSlug, err))
	}

	return Outcome{
		State:        StateReconciled,
		Navigate:     LibraryPath,
		FlagsCleared: true,
		Verified:     true,
	}, nil
}

// LoadCheckoutView resolves the cart of a tenant. A cart pointing at products that can no longer
// be bought is cleared instead of failing the page.
func (r *Reconciler) LoadCheckoutView(c context.Context, store *cart.Store, tenantSlug string) (CheckoutView, error) {
	view := CheckoutView{
		TenantSlug: tenantSlug,
	}

	products, err := r.resolver.GetProducts(c, store.GetCartByTenant(tenantSlug))
	if err != nil {
		if !myerrors.IsNotFound(err) {
			return CheckoutView{}, err
		}

		r.logger.Log(c, tenantSlug, mylog.SeverityInfo, "Cart of tenant %s refers to unavailable products", tenantSlug)

		err = store.ClearCart(c, tenantSlug)
		if err != nil {
			return CheckoutView{}, myerrors.NewInternalError(fmt.Errorf("error clearing cart of tenant %s: %s", tenantSlug, err))
		}
		products, err = r.resolver.GetProducts(c, []string{})
		if err != nil {
			return CheckoutView{}, err
		}
		view.Warning = invalidProductsWarning
	}
	view.Products = products

	return view, nil
}
