package invoice_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tcm-pricing/internal/cache"
	"github.com/noah-isme/tcm-pricing/internal/catalog"
	"github.com/noah-isme/tcm-pricing/internal/invoice"
	"github.com/noah-isme/tcm-pricing/internal/pricing"
)

type invoiceResponse struct {
	Data pricing.Invoice `json:"data"`
}

func newRouter(t *testing.T) (http.Handler, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	calc := pricing.NewCalculator(catalog.NewStatic(catalog.DefaultEntries...), zerolog.Nop())
	calc.Now = func() time.Time { return time.Date(2024, 3, 7, 9, 0, 0, 0, time.UTC) }
	h := &invoice.Handler{
		Pricing: calc,
		Archive: invoice.Archive{Store: cache.NewJSON(client, time.Hour)},
		Logger:  zerolog.Nop(),
	}
	r := chi.NewRouter()
	r.Post("/api/v1/invoices", h.Create)
	r.Get("/api/v1/invoices/{id}", h.Get)
	r.Get("/api/v1/invoices/{id}/pdf", h.PDFDownload)
	return r, mr
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreateInvoice(t *testing.T) {
	r, mr := newRouter(t)

	rec := do(r, http.MethodPost, "/api/v1/invoices", `{
		"items":[{"id":"med_001","name":"人参","quantity":10},{"id":"med_002","name":"当归","quantity":5}],
		"prescriptionFee":15,
		"prescriptionId":"RX-1",
		"pharmacyName":"同仁堂"
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp invoiceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	inv := resp.Data
	require.Regexp(t, `^INV-\d+-[0-9A-Z]{4}$`, inv.ID)
	require.Equal(t, "/api/v1/invoices/"+inv.ID, rec.Header().Get("Location"))
	require.Equal(t, "2024/3/7", inv.Date)
	require.Equal(t, "RX-1", inv.PrescriptionID)
	require.Equal(t, "同仁堂", inv.PharmacyName)
	require.Len(t, inv.Items, 2)
	require.InDelta(t, 90.0, inv.Items[0].SubtotalCost, 1e-9)
	require.InDelta(t, 10.5, inv.Items[1].SubtotalCost, 1e-9)
	require.InDelta(t, 115.5, inv.TotalCost, 1e-9)
	require.Equal(t, "115.50", inv.Display.TotalCost)
	require.Equal(t, "15.00", inv.Display.PrescriptionFee)
	require.Len(t, inv.Display.Items, 2)
	require.Equal(t, "90.00", inv.Display.Items[0].SubtotalCost)
	require.Equal(t, "2.63", inv.Display.Items[1].WholesalePricePerGram)
	require.True(t, mr.Exists("invoice:"+inv.ID))

	got := do(r, http.MethodGet, "/api/v1/invoices/"+inv.ID, "")
	require.Equal(t, http.StatusOK, got.Code)
	var fetched invoiceResponse
	require.NoError(t, json.Unmarshal(got.Body.Bytes(), &fetched))
	require.Equal(t, inv, fetched.Data)

	pdf := do(r, http.MethodGet, "/api/v1/invoices/"+inv.ID+"/pdf", "")
	require.Equal(t, http.StatusOK, pdf.Code)
	require.Equal(t, "application/pdf", pdf.Header().Get("Content-Type"))
	require.Contains(t, pdf.Header().Get("Content-Disposition"), inv.ID+".pdf")
	require.True(t, strings.HasPrefix(pdf.Body.String(), "%PDF-"))
}

func TestCreateInvoiceDefaultsAndSkips(t *testing.T) {
	r, _ := newRouter(t)

	rec := do(r, http.MethodPost, "/api/v1/invoices", `{"items":[{"id":"med_404","quantity":3}],"prescriptionFee":10}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var resp invoiceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Empty(t, resp.Data.Items)
	require.Equal(t, []string{"med_404"}, resp.Data.Skipped)
	require.Equal(t, 10.0, resp.Data.TotalCost)
	require.Equal(t, pricing.UnknownPharmacyName, resp.Data.PharmacyName)
	require.Equal(t, "", resp.Data.PrescriptionID)

	rec = do(r, http.MethodPost, "/api/v1/invoices", `{"items":[],"prescriptionFee":0}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Empty(t, resp.Data.Items)
	require.Equal(t, 0.0, resp.Data.TotalCost)
}

func TestCreateInvoiceValidation(t *testing.T) {
	r, _ := newRouter(t)

	cases := map[string]struct {
		body  string
		field string
	}{
		"zero quantity": {`{"items":[{"id":"med_001","quantity":0}],"prescriptionFee":1}`, "items[0].quantity"},
		"missing id":    {`{"items":[{"quantity":2}],"prescriptionFee":1}`, "items[0].id"},
		"negative fee":  {`{"items":[],"prescriptionFee":-1}`, "prescriptionFee"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(r, http.MethodPost, "/api/v1/invoices", tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			var resp struct {
				Error struct {
					Code    string            `json:"code"`
					Details map[string]string `json:"details"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.Equal(t, "INVALID_REQUEST", resp.Error.Code)
			require.Contains(t, resp.Error.Details, tc.field)
		})
	}

	rec := do(r, http.MethodPost, "/api/v1/invoices", `{"items":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(r, http.MethodPost, "/api/v1/invoices", `{"items":[],"prescriptionFee":1,"discount":5}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetInvoiceNotFound(t *testing.T) {
	r, _ := newRouter(t)
	rec := do(r, http.MethodGet, "/api/v1/invoices/INV-0-0000", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t, `{"error":{"code":"NOT_FOUND","message":"invoice not found","details":{"id":"INV-0-0000"}}}`, rec.Body.String())

	rec = do(r, http.MethodGet, "/api/v1/invoices/INV-0-0000/pdf", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

type failingGenerator struct{}

func (failingGenerator) Generate(context.Context, []pricing.Item, float64, string, string) (pricing.Invoice, error) {
	return pricing.Invoice{}, errors.New("catalog unavailable")
}

func TestCreateInvoiceBackendError(t *testing.T) {
	h := &invoice.Handler{Pricing: failingGenerator{}, Logger: zerolog.Nop()}
	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/api/v1/invoices", strings.NewReader(`{"items":[],"prescriptionFee":0}`)))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"error":{"code":"INTERNAL","message":"internal error"}}`, rec.Body.String())
}

func TestCreateInvoiceSurvivesArchiveOutage(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	t.Cleanup(func() { _ = client.Close() })
	h := &invoice.Handler{
		Pricing: pricing.NewCalculator(catalog.NewStatic(catalog.DefaultEntries...), zerolog.Nop()),
		Archive: invoice.Archive{Store: cache.NewJSON(client, time.Minute)},
		Logger:  zerolog.Nop(),
	}
	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/api/v1/invoices", strings.NewReader(`{"items":[{"id":"med_003","quantity":2}],"prescriptionFee":5}`)))
	require.Equal(t, http.StatusCreated, rec.Code)
}

type unavailableGenerator struct{}

func (unavailableGenerator) Generate(context.Context, []pricing.Item, float64, string, string) (pricing.Invoice, error) {
	return pricing.Invoice{}, fmt.Errorf("price item %q: %w", "med_001", catalog.ErrUnavailable)
}

func TestCreateInvoiceCatalogUnavailable(t *testing.T) {
	h := &invoice.Handler{Pricing: unavailableGenerator{}, Logger: zerolog.Nop()}
	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/api/v1/invoices", strings.NewReader(`{"items":[{"id":"med_001","quantity":1}],"prescriptionFee":0}`)))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Contains(t, rec.Body.String(), "CATALOG_UNAVAILABLE")
	require.Equal(t, "30", rec.Header().Get("Retry-After"))
}
