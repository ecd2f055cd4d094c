package catalog_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tcm-pricing/internal/catalog"
	"github.com/noah-isme/tcm-pricing/internal/common"
)

func TestCatalogHandlers(t *testing.T) {
	handler := catalog.NewHandler(catalog.HandlerConfig{Catalog: catalog.NewStatic(catalog.DefaultEntries...)})
	r := chi.NewRouter()
	r.Get("/api/v1/medicines", handler.List)
	r.Get("/api/v1/medicines/{id}", handler.Get)

	t.Run("list", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/medicines", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Data []catalog.Entry `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Data, len(catalog.DefaultEntries))
		require.Equal(t, "med_001", resp.Data[0].ID)
	})

	t.Run("paginated list", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/medicines?page=2&limit=5", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Data       []catalog.Entry   `json:"data"`
			Pagination common.Pagination `json:"pagination"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 5)
		require.Equal(t, "med_006", resp.Data[0].ID)
		require.Equal(t, common.Pagination{Page: 2, PerPage: 5, TotalItems: 12, TotalPages: 3}, resp.Pagination)
	})

	t.Run("get", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/medicines/med_002", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Data catalog.Entry `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "当归", resp.Data.ChineseName)
		require.Equal(t, 3.5, resp.Data.PricePerGram)
	})

	t.Run("not found", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/medicines/nope", nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.JSONEq(t, `{"error":{"code":"NOT_FOUND","message":"medicine not found","details":{"id":"nope"}}}`, rec.Body.String())
	})

	t.Run("unconfigured", func(t *testing.T) {
		h := catalog.NewHandler(catalog.HandlerConfig{})
		rec := httptest.NewRecorder()
		h.List(rec, httptest.NewRequest(http.MethodGet, "/api/v1/medicines", nil))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
