package catalog

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/marketplace/lib/mycontext"
	"github.com/MarcGrol/marketplace/lib/myhttp"
	"github.com/MarcGrol/marketplace/lib/mylog"
	"github.com/MarcGrol/marketplace/lib/myrpc"
)

type webService struct {
	logger  mylog.Logger
	service *service
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(repo Repository) *webService {
	logger := mylog.New("catalog")
	return &webService{
		logger:  logger,
		service: newService(logger, repo),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc(myrpc.Path(ProcedureProductsGetMany), s.getProductsPage()).Methods("GET")
	router.HandleFunc(myrpc.Path(ProcedureProductsGetOne), s.getProductPage()).Methods("GET")
	router.HandleFunc(myrpc.Path(ProcedureTenantsGetOne), s.getTenantPage()).Methods("GET")
	router.HandleFunc(myrpc.Path(ProcedureCategoriesGetMany), s.getCategoriesPage()).Methods("GET")
	router.HandleFunc(myrpc.Path(ProcedureTagsGetMany), s.getTagsPage()).Methods("GET")
}

func (s *webService) getProductsPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		input := ProductsGetManyInput{}
		err := myrpc.Decode(r, &input)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		products, err := s.service.getProducts(c, input.toFilter())
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		myrpc.Write(c, w, errorWriter, products)
	}
}

func (s *webService) getProductPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		input := ProductsGetOneInput{}
		err := myrpc.Decode(r, &input)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		product, err := s.service.getProduct(c, input.ID)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		myrpc.Write(c, w, errorWriter, product)
	}
}

func (s *webService) getTenantPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		input := TenantsGetOneInput{}
		err := myrpc.Decode(r, &input)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		tenant, err := s.service.getTenant(c, input.Slug)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		myrpc.Write(c, w, errorWriter, tenant)
	}
}

func (s *webService) getCategoriesPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		categories, err := s.service.getCategories(c)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		myrpc.Write(c, w, errorWriter, categories)
	}
}

func (s *webService) getTagsPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		input := TagsGetManyInput{}
		err := myrpc.Decode(r, &input)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		tags, err := s.service.getTags(c, input.Cursor, input.Limit)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		myrpc.Write(c, w, errorWriter, tags)
	}
}
