package checkoutreturn

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/marketplace/lib/myauth"
	"github.com/MarcGrol/marketplace/lib/mycontext"
	"github.com/MarcGrol/marketplace/lib/myerrors"
	"github.com/MarcGrol/marketplace/lib/myhttp"
	"github.com/MarcGrol/marketplace/lib/mylog"
	"github.com/MarcGrol/marketplace/lib/myrpc"
	"github.com/MarcGrol/marketplace/lib/myuuid"
	"github.com/MarcGrol/marketplace/services/cart"
)

type webService struct {
	logger        mylog.Logger
	authenticator myauth.Authenticator
	cartStorage   cart.Storage
	uuider        myuuid.UUIDer
	reconciler    *Reconciler
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(authenticator myauth.Authenticator, cartStorage cart.Storage, uuider myuuid.UUIDer, reconciler *Reconciler) *webService {
	return &webService{
		logger:        mylog.New("checkoutreturn"),
		authenticator: authenticator,
		cartStorage:   cartStorage,
		uuider:        uuider,
		reconciler:    reconciler,
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/tenants/{tenantSlug}/checkout", s.checkoutPage()).Methods("GET")
}

func (s *webService) checkoutPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		tenantSlug := mux.Vars(r)["tenantSlug"]

		flags := ReturnFlags{}
		err := myrpc.DecodeValues(r.URL.Query(), &flags)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		// the page is also shown to anonymous visitors
		var buyer *myauth.Session
		session, err := s.authenticator.Authenticate(r)
		if err == nil {
			buyer = &session
		}

		store, err := cart.Open(c, s.cartStorage, cart.ResolveOwner(w, r, s.uuider))
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInternalError(err))
			return
		}

		outcome, err := s.reconciler.Reconcile(c, store, buyer, tenantSlug, flags)
		if err != nil {
			errorWriter.WriteError(c, w, 3, err)
			return
		}
		if outcome.State == StateReconciled {
			http.Redirect(w, r, outcome.Navigate, http.StatusSeeOther)
			return
		}

		view, err := s.reconciler.LoadCheckoutView(c, store, tenantSlug)
		if err != nil {
			errorWriter.WriteError(c, w, 4, err)
			return
		}
		view.Outcome = outcome

		errorWriter.Write(c, w, http.StatusOK, view)
	}
}
