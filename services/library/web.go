package library

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/marketplace/lib/myauth"
	"github.com/MarcGrol/marketplace/lib/mycontext"
	"github.com/MarcGrol/marketplace/lib/myhttp"
	"github.com/MarcGrol/marketplace/lib/mylog"
	"github.com/MarcGrol/marketplace/lib/mypubsub"
	"github.com/MarcGrol/marketplace/lib/myrpc"
	"github.com/MarcGrol/marketplace/lib/mystore"
	"github.com/MarcGrol/marketplace/services/catalog"
	"github.com/MarcGrol/marketplace/services/checkoutevents"
)

type webService struct {
	logger        mylog.Logger
	authenticator myauth.Authenticator
	service       *service
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(appURL string, authenticator myauth.Authenticator, repo catalog.Repository, orderStore mystore.Store[Order],
	reviews ReviewSummarizer, cache Cache, subscriber mypubsub.PubSub) *webService {
	logger := mylog.New("library")
	return &webService{
		logger:        logger,
		authenticator: authenticator,
		service:       newService(logger, strings.TrimSuffix(appURL, "/"), repo, orderStore, reviews, cache, subscriber),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc(myrpc.Path(ProcedureGetMany), s.getManyPage()).Methods("GET")
	router.HandleFunc(myrpc.Path(ProcedureGetOne), s.getOnePage()).Methods("GET")

	router.HandleFunc(eventPath, s.handleEventEnvelope()).Methods("POST")

	return s.service.Subscribe(c)
}

// RecordPurchase is called by checkout once a payment is confirmed
func (s *webService) RecordPurchase(c context.Context, sessionID string, userID string, tenantSlug string, productIDs []string, purchasedAt time.Time) error {
	return s.service.recordPurchase(c, sessionID, userID, tenantSlug, productIDs, purchasedAt)
}

// InvalidateCache is called when the buyer returns from a successful checkout
func (s *webService) InvalidateCache(c context.Context, userID string) error {
	return s.service.invalidateCache(c, userID)
}

func (s *webService) getManyPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		user, err := s.authenticator.Authenticate(r)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		input := GetManyInput{}
		err = myrpc.Decode(r, &input)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		result, err := s.service.getMany(c, user, input)
		if err != nil {
			errorWriter.WriteError(c, w, 3, err)
			return
		}

		myrpc.Write(c, w, errorWriter, result)
	}
}

func (s *webService) getOnePage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		user, err := s.authenticator.Authenticate(r)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		input := GetOneInput{}
		err = myrpc.Decode(r, &input)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		result, err := s.service.getOne(c, user, input.ProductID)
		if err != nil {
			errorWriter.WriteError(c, w, 3, err)
			return
		}

		myrpc.Write(c, w, errorWriter, result)
	}
}

func (s *webService) handleEventEnvelope() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		err := checkoutevents.DispatchEvent(c, r.Body, s.service)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: "Successfully processed event",
		})
	}
}
