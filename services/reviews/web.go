package reviews

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/marketplace/lib/myauth"
	"github.com/MarcGrol/marketplace/lib/mycontext"
	"github.com/MarcGrol/marketplace/lib/myhttp"
	"github.com/MarcGrol/marketplace/lib/mylog"
	"github.com/MarcGrol/marketplace/lib/myrpc"
	"github.com/MarcGrol/marketplace/lib/mystore"
	"github.com/MarcGrol/marketplace/lib/mytime"
	"github.com/MarcGrol/marketplace/lib/myuuid"
	"github.com/MarcGrol/marketplace/services/catalog"
)

type webService struct {
	logger        mylog.Logger
	authenticator myauth.Authenticator
	service       *service
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(authenticator myauth.Authenticator, nower mytime.Nower, uuider myuuid.UUIDer, repo catalog.Repository, reviewStore mystore.Store[Review]) *webService {
	logger := mylog.New("reviews")
	return &webService{
		logger:        logger,
		authenticator: authenticator,
		service:       newService(logger, nower, uuider, repo, reviewStore),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc(myrpc.Path(ProcedureGetOne), s.getOnePage()).Methods("GET")
	router.HandleFunc(myrpc.Path(ProcedureCreate), s.createPage()).Methods("POST")
	router.HandleFunc(myrpc.Path(ProcedureUpdate), s.updatePage()).Methods("POST")
}

// Summary is used by the library to decorate purchased products
func (s *webService) Summary(c context.Context, productID string) (Summary, error) {
	return s.service.summary(c, productID)
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

		review, err := s.service.getOne(c, user, input.ProductID)
		if err != nil {
			errorWriter.WriteError(c, w, 3, err)
			return
		}

		myrpc.Write(c, w, errorWriter, review)
	}
}

func (s *webService) createPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		user, err := s.authenticator.Authenticate(r)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		input := CreateInput{}
		err = myrpc.Decode(r, &input)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		review, err := s.service.create(c, user, input)
		if err != nil {
			errorWriter.WriteError(c, w, 3, err)
			return
		}

		myrpc.Write(c, w, errorWriter, review)
	}
}

func (s *webService) updatePage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		user, err := s.authenticator.Authenticate(r)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		input := UpdateInput{}
		err = myrpc.Decode(r, &input)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		review, err := s.service.update(c, user, input)
		if err != nil {
			errorWriter.WriteError(c, w, 3, err)
			return
		}

		myrpc.Write(c, w, errorWriter, review)
	}
}
