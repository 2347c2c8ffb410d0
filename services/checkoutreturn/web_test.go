package checkoutreturn

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/marketplace/lib/myauth"
	"github.com/MarcGrol/marketplace/lib/myerrors"
	"github.com/MarcGrol/marketplace/lib/myuuid"
	"github.com/MarcGrol/marketplace/services/cart"
	"github.com/MarcGrol/marketplace/services/checkout"
)

const (
	jwtSecret = "test-secret"
	jwtIssuer = "marketplace"
)

func setupWeb(t *testing.T, ctrl *gomock.Controller) (*mux.Router, reconcilerMocks, cart.Storage) {
	mocks := reconcilerMocks{
		resolver: NewMockProductResolver(ctrl),
		verifier: NewMockVerifier(ctrl),
		library:  NewMockLibraryCache(ctrl),
	}
	storage := cart.NewInMemoryStorage()

	c := context.TODO()
	store, err := cart.Open(c, storage, "owner1")
	require.NoError(t, err)
	require.NoError(t, store.AddProduct(c, "antonio", "prod_accounting_basics"))

	router := mux.NewRouter()
	reconciler := NewReconciler(mocks.resolver, mocks.verifier, mocks.library)
	NewWebService(myauth.New(jwtSecret, jwtIssuer), storage, myuuid.NewMockUUIDer(ctrl), reconciler).RegisterEndpoints(c, router)

	return router, mocks, storage
}

func getCheckoutPage(t *testing.T, router *mux.Router, url string, withToken bool) *httptest.ResponseRecorder {
	request, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	request.AddCookie(&http.Cookie{Name: cart.OwnerCookieName, Value: "owner1"})
	if withToken {
		token, err := myauth.New(jwtSecret, jwtIssuer).IssueToken(buyer, time.Now(), time.Hour)
		require.NoError(t, err)
		request.Header.Set("Authorization", "Bearer "+token)
	}
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)
	return response
}

func TestCheckoutPage(t *testing.T) {

	t.Run("Success redirects to library", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		router, mocks, storage := setupWeb(t, ctrl)

		// given
		mocks.library.EXPECT().InvalidateCache(gomock.Any(), "user_1").Return(nil)
		mocks.verifier.EXPECT().Verify(gomock.Any(), buyer, "cs_123").Return(checkout.VerifyResult{Status: "paid", Verified: true}, nil)

		// when
		response := getCheckoutPage(t, router, "/tenants/antonio/checkout?success=true&session_id=cs_123", true)

		// then
		assert.Equal(t, http.StatusSeeOther, response.Code)
		assert.Equal(t, "/library", response.Header().Get("Location"))
		store, err := cart.Open(context.TODO(), storage, "owner1")
		assert.NoError(t, err)
		assert.Empty(t, store.GetCartByTenant("antonio"))
	})

	t.Run("Cancel shows failed checkout", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		router, mocks, _ := setupWeb(t, ctrl)

		// given
		mocks.resolver.EXPECT().GetProducts(gomock.Any(), []string{"prod_accounting_basics"}).Return(checkout.ProductsResult{
			Docs:      []checkout.ProductDoc{{ID: "prod_accounting_basics"}},
			TotalDocs: 1,
		}, nil)

		// when
		response := getCheckoutPage(t, router, "/tenants/antonio/checkout?cancel=true", false)

		// then
		assert.Equal(t, http.StatusOK, response.Code)
		view := CheckoutView{}
		err := json.Unmarshal(response.Body.Bytes(), &view)
		assert.NoError(t, err)
		assert.Equal(t, StateFailed, view.Outcome.State)
		assert.Equal(t, "checkout failed", view.Outcome.Message)
		assert.Equal(t, 1, view.Products.TotalDocs)
	})

	t.Run("Return of failed payment keeps the cart", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		router, mocks, storage := setupWeb(t, ctrl)

		// given
		mocks.verifier.EXPECT().Verify(gomock.Any(), buyer, "tr_123").Return(checkout.VerifyResult{Status: "expired", Verified: false}, nil)
		mocks.resolver.EXPECT().GetProducts(gomock.Any(), []string{"prod_accounting_basics"}).Return(checkout.ProductsResult{
			Docs:      []checkout.ProductDoc{{ID: "prod_accounting_basics"}},
			TotalDocs: 1,
		}, nil)

		// when
		response := getCheckoutPage(t, router, "/tenants/antonio/checkout?returned=true&session_id=tr_123", true)

		// then
		assert.Equal(t, http.StatusOK, response.Code)
		view := CheckoutView{}
		err := json.Unmarshal(response.Body.Bytes(), &view)
		assert.NoError(t, err)
		assert.Equal(t, StateFailed, view.Outcome.State)
		store, err := cart.Open(context.TODO(), storage, "owner1")
		assert.NoError(t, err)
		assert.Equal(t, []string{"prod_accounting_basics"}, store.GetCartByTenant("antonio"))
	})

	t.Run("Stale cart is cleared with warning", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		router, mocks, _ := setupWeb(t, ctrl)

		// given
		mocks.resolver.EXPECT().GetProducts(gomock.Any(), []string{"prod_accounting_basics"}).Return(checkout.ProductsResult{}, myerrors.NewNotFoundError(checkout.ErrProductsNotFound))
		mocks.resolver.EXPECT().GetProducts(gomock.Any(), []string{}).Return(checkout.ProductsResult{Docs: []checkout.ProductDoc{}}, nil)

		// when
		response := getCheckoutPage(t, router, "/tenants/antonio/checkout", false)

		// then
		assert.Equal(t, http.StatusOK, response.Code)
		view := CheckoutView{}
		err := json.Unmarshal(response.Body.Bytes(), &view)
		assert.NoError(t, err)
		assert.Equal(t, StateIdle, view.Outcome.State)
		assert.Equal(t, "Invalid products found, cart cleared", view.Warning)
	})

	t.Run("Malformed flags", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		router, _, _ := setupWeb(t, ctrl)

		// when
		response := getCheckoutPage(t, router, "/tenants/antonio/checkout?success=maybe", false)

		// then
		assert.Equal(t, http.StatusBadRequest, response.Code)
	})
}
