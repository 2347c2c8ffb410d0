package cart

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/marketplace/lib/mycontext"
	"github.com/MarcGrol/marketplace/lib/myerrors"
	"github.com/MarcGrol/marketplace/lib/myhttp"
	"github.com/MarcGrol/marketplace/lib/mylog"
	"github.com/MarcGrol/marketplace/lib/myuuid"
)

type CartResponse struct {
	TenantSlug string   `json:"tenantSlug"`
	ProductIDs []string `json:"productIds"`
	TotalItems int      `json:"totalItems"`
	InCart     *bool    `json:"inCart,omitempty"`
}

type webService struct {
	logger  mylog.Logger
	storage Storage
	uuider  myuuid.UUIDer
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(storage Storage, uuider myuuid.UUIDer) *webService {
	return &webService{
		logger:  mylog.New("cart"),
		storage: storage,
		uuider:  uuider,
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/api/cart", s.getAllCarts()).Methods("GET")
	router.HandleFunc("/api/cart", s.clearAllCarts()).Methods("DELETE")
	router.HandleFunc("/api/cart/{tenantSlug}", s.getCart()).Methods("GET")
	router.HandleFunc("/api/cart/{tenantSlug}", s.clearCart()).Methods("DELETE")
	router.HandleFunc("/api/cart/{tenantSlug}/products/{productId}", s.addProduct()).Methods("PUT")
	router.HandleFunc("/api/cart/{tenantSlug}/products/{productId}", s.removeProduct()).Methods("DELETE")
	router.HandleFunc("/api/cart/{tenantSlug}/products/{productId}/toggle", s.toggleProduct()).Methods("POST")
}

func (s *webService) open(w http.ResponseWriter, r *http.Request) (context.Context, *Store, error) {
	c := mycontext.ContextFromHTTPRequest(r)
	owner := ResolveOwner(w, r, s.uuider)
	store, err := Open(c, s.storage, owner)
	if err != nil {
		return c, nil, myerrors.NewInternalError(err)
	}
	return c, store, nil
}

func (s *webService) getAllCarts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		errorWriter := myhttp.NewWriter(s.logger)

		c, store, err := s.open(w, r)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, store.Snapshot())
	}
}

func (s *webService) getCart() http.HandlerFunc {
	return s.tenantHandler(func(c context.Context, view *TenantView, productID string) error {
		return nil
	})
}

func (s *webService) addProduct() http.HandlerFunc {
	return s.tenantHandler(func(c context.Context, view *TenantView, productID string) error {
		return view.AddProduct(c, productID)
	})
}

func (s *webService) removeProduct() http.HandlerFunc {
	return s.tenantHandler(func(c context.Context, view *TenantView, productID string) error {
		return view.RemoveProduct(c, productID)
	})
}

func (s *webService) toggleProduct() http.HandlerFunc {
	return s.tenantHandler(func(c context.Context, view *TenantView, productID string) error {
		return view.ToggleProduct(c, productID)
	})
}

func (s *webService) clearCart() http.HandlerFunc {
	return s.tenantHandler(func(c context.Context, view *TenantView, productID string) error {
		return view.ClearCart(c)
	})
}

func (s *webService) clearAllCarts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		errorWriter := myhttp.NewWriter(s.logger)

		c, store, err := s.open(w, r)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		err = store.ClearAllCart(c)
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInternalError(err))
			return
		}

		errorWriter.Write(c, w, http.StatusOK, store.Snapshot())
	}
}

func (s *webService) tenantHandler(action func(c context.Context, view *TenantView, productID string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		errorWriter := myhttp.NewWriter(s.logger)

		c, store, err := s.open(w, r)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		view := store.ForTenant(mux.Vars(r)["tenantSlug"])
		productID := mux.Vars(r)["productId"]

		err = action(c, view, productID)
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInternalError(err))
			return
		}

		resp := CartResponse{
			TenantSlug: view.TenantSlug(),
			ProductIDs: view.ProductIDs(),
			TotalItems: view.TotalItems(),
		}
		if productID != "" {
			inCart := view.IsProductInCart(productID)
			resp.InCart = &inCart
		}
		errorWriter.Write(c, w, http.StatusOK, resp)
	}
}
