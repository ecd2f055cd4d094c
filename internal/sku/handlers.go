package sku

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/tcm-pricing/internal/common"
)

// Handler exposes code generation over HTTP.
type Handler struct{}

type generateRequest struct {
	ChineseName string `json:"chineseName" validate:"required"`
	PinyinName  string `json:"pinyinName"`
}

type batchRequest struct {
	Entries []Entry `json:"entries" validate:"required,dive"`
}

type convertRequest struct {
	OldSKU      string `json:"oldSku"`
	ChineseName string `json:"chineseName"`
	PinyinName  string `json:"pinyinName"`
}

// Routes mounts the SKU endpoints on r.
func (h Handler) Routes(r chi.Router) {
	r.Post("/generate", h.Generate)
	r.Post("/batch", h.Batch)
	r.Post("/convert", h.Convert)
	r.Get("/{sku}/valid", h.Valid)
}

// Generate handles POST /api/v1/skus/generate.
func (h Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	code := Generate(req.ChineseName, req.PinyinName)
	common.Data(w, http.StatusOK, Entry{
		ChineseName: req.ChineseName,
		PinyinName:  req.PinyinName,
		SKU:         code,
	})
}

// Batch handles POST /api/v1/skus/batch.
func (h Handler) Batch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	entries, err := Batch(req.Entries)
	if err != nil {
		if errors.Is(err, ErrConflictExhausted) {
			common.WriteError(w, common.NewAppError(common.CodeSKUExhausted, err.Error(), err))
			return
		}
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, entries)
}

// Convert handles POST /api/v1/skus/convert.
func (h Handler) Convert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, map[string]string{
		"sku": ConvertLegacy(req.OldSKU, req.ChineseName, req.PinyinName),
	})
}

// Valid handles GET /api/v1/skus/{sku}/valid.
func (h Handler) Valid(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "sku")
	common.Data(w, http.StatusOK, map[string]any{
		"sku":   code,
		"valid": Validate(code),
	})
}
