package catalog

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/tcm-pricing/internal/common"
)

const (
	defaultPerPage = 50
	maxPerPage     = 200
)

// Handler exposes read-only medicine endpoints.
type Handler struct {
	catalog Reader
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Catalog Reader
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{catalog: cfg.Catalog}
}

// List handles GET /api/v1/medicines?page=&limit=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		common.JSONError(w, common.CodeInternal, "catalog not configured", nil)
		return
	}
	entries, err := h.catalog.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	page, meta := common.Paginate(entries, common.ParsePagination(r, defaultPerPage, maxPerPage))
	common.JSON(w, http.StatusOK, map[string]any{"data": page, "pagination": meta})
}

// Get handles GET /api/v1/medicines/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		common.JSONError(w, common.CodeInternal, "catalog not configured", nil)
		return
	}
	id := chi.URLParam(r, "id")
	entry, err := h.catalog.Lookup(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			common.JSONError(w, common.CodeNotFound, "medicine not found", map[string]string{"id": id})
			return
		}
		WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, entry)
}

// WriteError renders catalog failures, answering 503 while the backend is
// unavailable.
func WriteError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrUnavailable) {
		w.Header().Set("Retry-After", "30")
		common.JSONError(w, common.CodeCatalogUnavailable, "catalog temporarily unavailable", nil)
		return
	}
	common.WriteError(w, err)
}
