package invoice

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/noah-isme/tcm-pricing/internal/catalog"
	"github.com/noah-isme/tcm-pricing/internal/common"
	"github.com/noah-isme/tcm-pricing/internal/pricing"
)

// Generator prices a prescription.
type Generator interface {
	Generate(ctx context.Context, items []pricing.Item, prescriptionFee float64, prescriptionID, pharmacyName string) (pricing.Invoice, error)
}

// Handler serves the invoice endpoints.
type Handler struct {
	Pricing Generator
	Archive Archive
	PDF     PDFRenderer
	Logger  zerolog.Logger
}

// CreateRequest is the body of POST /api/v1/invoices.
type CreateRequest struct {
	Items           []pricing.Item `json:"items" validate:"dive"`
	PrescriptionFee float64        `json:"prescriptionFee" validate:"gte=0"`
	PrescriptionID  string         `json:"prescriptionId" validate:"max=128"`
	PharmacyName    string         `json:"pharmacyName" validate:"max=256"`
}

// Create handles POST /api/v1/invoices.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Pricing == nil {
		common.JSONError(w, common.CodeInternal, "pricing not configured", nil)
		return
	}
	var req CreateRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	inv, err := h.Pricing.Generate(r.Context(), req.Items, req.PrescriptionFee, req.PrescriptionID, req.PharmacyName)
	if err != nil {
		h.Logger.Error().Err(err).Str("prescription_id", req.PrescriptionID).Msg("generate invoice")
		catalog.WriteError(w, err)
		return
	}
	if err := h.Archive.Save(r.Context(), inv); err != nil {
		h.Logger.Warn().Err(err).Str("invoice_id", inv.ID).Msg("archive invoice")
	}
	w.Header().Set("Location", "/api/v1/invoices/"+inv.ID)
	common.Data(w, http.StatusCreated, inv)
}

// Get handles GET /api/v1/invoices/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.load(w, r)
	if !ok {
		return
	}
	common.Data(w, http.StatusOK, inv)
}

// PDFDownload handles GET /api/v1/invoices/{id}/pdf.
func (h *Handler) PDFDownload(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.load(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.PDF.Render(&buf, inv); err != nil {
		h.Logger.Error().Err(err).Str("invoice_id", inv.ID).Msg("render invoice pdf")
		common.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+inv.ID+`.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (pricing.Invoice, bool) {
	id := chi.URLParam(r, "id")
	inv, err := h.Archive.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			common.JSONError(w, common.CodeNotFound, "invoice not found", map[string]string{"id": id})
			return pricing.Invoice{}, false
		}
		h.Logger.Error().Err(err).Str("invoice_id", id).Msg("load invoice")
		common.WriteError(w, err)
		return pricing.Invoice{}, false
	}
	return inv, true
}
