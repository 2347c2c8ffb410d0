package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarcGrol/marketplace/lib/myhttp"
)

type productsResult struct {
	Result Page[Product] `json:"result"`
}

func setupWeb(t *testing.T) *mux.Router {
	c := context.TODO()
	repo, cleanup, err := NewSQLRepository(c, ":memory:")
	require.NoError(t, err)
	t.Cleanup(cleanup)

	router := mux.NewRouter()
	NewWebService(repo).RegisterEndpoints(c, router)
	return router
}

func get(router *mux.Router, url string) *httptest.ResponseRecorder {
	request, _ := http.NewRequest(http.MethodGet, url, nil)
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)
	return response
}

func TestCatalogWeb(t *testing.T) {
	router := setupWeb(t)

	t.Run("Products filtered by tenant", func(t *testing.T) {
		// when
		response := get(router, "/api/rpc/products.getMany?tenantSlug=bhushan")

		// then
		assert.Equal(t, http.StatusOK, response.Code)
		result := productsResult{}
		err := json.Unmarshal(response.Body.Bytes(), &result)
		assert.NoError(t, err)
		assert.Equal(t, 1, result.Result.TotalDocs)
		assert.Equal(t, "prod_go_web_services", result.Result.Docs[0].ID)
		assert.Equal(t, "Bhushan's Store", result.Result.Docs[0].Tenant.Name)
		assert.NotContains(t, response.Body.String(), "acct_bhushan")
	})

	t.Run("Products with repeated tags and paging", func(t *testing.T) {
		// when
		response := get(router, "/api/rpc/products.getMany?tags=ebook&tags=template&limit=2&cursor=1")

		// then
		assert.Equal(t, http.StatusOK, response.Code)
		result := productsResult{}
		err := json.Unmarshal(response.Body.Bytes(), &result)
		assert.NoError(t, err)
		assert.Equal(t, 3, result.Result.TotalDocs)
		assert.Len(t, result.Result.Docs, 2)
		assert.True(t, result.Result.HasNextPage)
	})

	t.Run("Products with invalid price", func(t *testing.T) {
		// when
		response := get(router, "/api/rpc/products.getMany?minPrice=cheap&sort=random")

		// then
		assert.Equal(t, http.StatusBadRequest, response.Code)
		errorResp := myhttp.ErrorResponse{}
		err := json.Unmarshal(response.Body.Bytes(), &errorResp)
		assert.NoError(t, err)
		assert.Equal(t, "BAD_REQUEST", errorResp.Code)
		assert.Contains(t, errorResp.Message, "minPrice must be a number")
		assert.Contains(t, errorResp.Message, "sort must be one of")
	})

	t.Run("Archived product not found", func(t *testing.T) {
		// when
		response := get(router, "/api/rpc/products.getOne?id=prod_archived_template")

		// then
		assert.Equal(t, http.StatusNotFound, response.Code)
	})

	t.Run("Product by id", func(t *testing.T) {
		// when
		response := get(router, "/api/rpc/products.getOne?id=prod_accounting_basics")

		// then
		assert.Equal(t, http.StatusOK, response.Code)
		assert.Contains(t, response.Body.String(), `"name": "Accounting basics"`)
	})

	t.Run("Product without id", func(t *testing.T) {
		// when
		response := get(router, "/api/rpc/products.getOne")

		// then
		assert.Equal(t, http.StatusBadRequest, response.Code)
	})

	t.Run("Tenant by slug", func(t *testing.T) {
		// when
		response := get(router, "/api/rpc/tenants.getOne?slug=antonio")

		// then
		assert.Equal(t, http.StatusOK, response.Code)
		assert.Contains(t, response.Body.String(), `"slug": "antonio"`)

		response = get(router, "/api/rpc/tenants.getOne?slug=nobody")
		assert.Equal(t, http.StatusNotFound, response.Code)
	})

	t.Run("Categories as tree", func(t *testing.T) {
		// when
		response := get(router, "/api/rpc/categories.getMany")

		// then
		assert.Equal(t, http.StatusOK, response.Code)
		result := struct {
			Result []Category `json:"result"`
		}{}
		err := json.Unmarshal(response.Body.Bytes(), &result)
		assert.NoError(t, err)
		assert.Len(t, result.Result, 3)
		assert.Equal(t, "accounting", result.Result[0].Subcategories[0].Slug)
	})

	t.Run("Tags paged", func(t *testing.T) {
		// when
		response := get(router, "/api/rpc/tags.getMany?limit=2")

		// then
		assert.Equal(t, http.StatusOK, response.Code)
		result := struct {
			Result Page[Tag] `json:"result"`
		}{}
		err := json.Unmarshal(response.Body.Bytes(), &result)
		assert.NoError(t, err)
		assert.Equal(t, 3, result.Result.TotalDocs)
		assert.Len(t, result.Result.Docs, 2)
	})
}
