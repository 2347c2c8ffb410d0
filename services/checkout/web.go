package checkout

import (
	"context"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/marketplace/lib/myauth"
	"github.com/MarcGrol/marketplace/lib/mycontext"
	"github.com/MarcGrol/marketplace/lib/myerrors"
	"github.com/MarcGrol/marketplace/lib/myhttp"
	"github.com/MarcGrol/marketplace/lib/mylog"
	"github.com/MarcGrol/marketplace/lib/mypublisher"
	"github.com/MarcGrol/marketplace/lib/myrpc"
	"github.com/MarcGrol/marketplace/lib/mystore"
	"github.com/MarcGrol/marketplace/lib/mytime"
	"github.com/MarcGrol/marketplace/services/catalog"
)

const maxWebhookPayload = 65536

type webService struct {
	logger        mylog.Logger
	authenticator myauth.Authenticator
	service       *service
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(cfg Config, authenticator myauth.Authenticator, nower mytime.Nower, repo catalog.Repository, processor Processor,
	checkoutStore mystore.Store[CheckoutContext], publisher mypublisher.Publisher, orders OrderRecorder) *webService {
	logger := mylog.New("checkout")
	return &webService{
		logger:        logger,
		authenticator: authenticator,
		service:       newService(cfg, logger, nower, repo, processor, checkoutStore, publisher, orders),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc(myrpc.Path(ProcedureGetProducts), s.getProductsPage()).Methods("GET")
	router.HandleFunc(myrpc.Path(ProcedurePurchase), s.purchasePage()).Methods("POST")
	router.HandleFunc(myrpc.Path(ProcedureVerify), s.verifyPage()).Methods("POST")

	router.HandleFunc("/api/checkout/webhook/stripe", s.stripeWebhookPage()).Methods("POST")
	router.HandleFunc("/api/checkout/webhook/mollie", s.mollieWebhookPage()).Methods("POST")
}

// GetProducts is used by the checkout page to resolve the cart
func (s *webService) GetProducts(c context.Context, ids []string) (ProductsResult, error) {
	return s.service.getProducts(c, ids)
}

// Verify lets the return page confirm a session on behalf of the buyer
func (s *webService) Verify(c context.Context, buyer myauth.Session, sessionID string) (VerifyResult, error) {
	return s.service.verify(c, buyer, sessionID)
}

func (s *webService) getProductsPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		input := GetProductsInput{}
		err := myrpc.Decode(r, &input)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		result, err := s.service.getProducts(c, input.IDs)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		myrpc.Write(c, w, errorWriter, result)
	}
}

func (s *webService) purchasePage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		buyer, err := s.authenticator.Authenticate(r)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		input := PurchaseInput{}
		err = myrpc.Decode(r, &input)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		result, err := s.service.purchase(c, buyer, myhttp.BaseURL(s.service.cfg.AppURL, r), input)
		if err != nil {
			errorWriter.WriteError(c, w, 3, err)
			return
		}

		myrpc.Write(c, w, errorWriter, result)
	}
}

func (s *webService) verifyPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		buyer, err := s.authenticator.Authenticate(r)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		input := VerifyInput{}
		err = myrpc.Decode(r, &input)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		result, err := s.service.verify(c, buyer, input.SessionID)
		if err != nil {
			errorWriter.WriteError(c, w, 3, err)
			return
		}

		myrpc.Write(c, w, errorWriter, result)
	}
}

func (s *webService) stripeWebhookPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookPayload))
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(err))
			return
		}

		err = s.service.handleStripeWebhook(c, payload, r.Header.Get(stripeSignatureHeader))
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: "Webhook processed",
		})
	}
}

func (s *webService) mollieWebhookPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		err := r.ParseForm()
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(err))
			return
		}
		paymentID := r.PostForm.Get("id")
		if paymentID == "" {
			errorWriter.WriteError(c, w, 2, myerrors.NewInvalidInputErrorf("missing payment id"))
			return
		}

		_, err = s.service.confirmPayment(c, paymentID)
		if err != nil {
			errorWriter.WriteError(c, w, 3, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: "Webhook processed",
		})
	}
}
