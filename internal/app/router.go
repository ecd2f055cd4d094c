package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/tcm-pricing/internal/cache"
	"github.com/noah-isme/tcm-pricing/internal/catalog"
	"github.com/noah-isme/tcm-pricing/internal/common"
	"github.com/noah-isme/tcm-pricing/internal/health"
	"github.com/noah-isme/tcm-pricing/internal/invoice"
	"github.com/noah-isme/tcm-pricing/internal/obs"
	"github.com/noah-isme/tcm-pricing/internal/ratelimit"
	"github.com/noah-isme/tcm-pricing/internal/security"
	"github.com/noah-isme/tcm-pricing/internal/sku"
)

// Router builds the HTTP handler tree.
func (a *App) Router() http.Handler {
	cfg := a.Config

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if cfg.TracingEnabled {
		r.Use(obs.TracingMiddleware)
	}
	if a.Metrics != nil {
		r.Use(obs.HTTPObs{Metrics: a.Metrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: a.Logger}.Middleware)
	r.Use(security.Headers{
		Enable:     true,
		EnableHSTS: cfg.AppEnv == "production",
		NoStore:    true,
	}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins(cfg.CORSAllowedOrigins),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Idempotency-Key", "X-Request-ID"},
		ExposedHeaders: []string{"Location", "Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:         300,
	}))
	r.Use(security.BodyLimit{Max: cfg.BodyLimitBytes}.Middleware)

	if a.Metrics != nil {
		r.Handle("/metrics", promhttp.Handler())
	}

	healthHandler := health.Handler{Checker: readinessChecker{db: a.DB, redis: a.Redis}}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	catalogHandler := catalog.NewHandler(catalog.HandlerConfig{Catalog: a.Catalog})
	invoiceHandler := &invoice.Handler{
		Pricing: a.Calculator,
		Archive: invoice.Archive{Store: cache.NewJSON(a.Redis, cfg.InvoiceArchiveTTL)},
		PDF:     invoice.PDFRenderer{FontPath: cfg.InvoicePDFFont},
		Logger:  a.Logger,
	}
	limiter := ratelimit.Handler{
		Limiter: ratelimit.Limiter{Client: a.Redis, Prefix: "ratelimit:"},
		Config: ratelimit.Config{
			Key:    ratelimit.ByClientIP("invoices"),
			Window: cfg.InvoiceRateWindow,
			Max:    cfg.InvoiceRateLimitMax,
		},
		OnError: func(err error) {
			a.Logger.Warn().Err(err).Msg("rate limiter unavailable")
		},
	}
	idem := common.Idem{R: a.Redis, TTL: cfg.IdempotencyTTL}

	r.Route("/api/v1", func(v chi.Router) {
		v.Get("/medicines", catalogHandler.List)
		v.Get("/medicines/{id}", catalogHandler.Get)

		v.Route("/invoices", func(iv chi.Router) {
			iv.With(limiter.Middleware, idem.Middleware).Post("/", invoiceHandler.Create)
			iv.Get("/{id}", invoiceHandler.Get)
			iv.Get("/{id}/pdf", invoiceHandler.PDFDownload)
		})

		v.Route("/skus", sku.Handler{}.Routes)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		common.JSONError(w, common.CodeNotFound, "route not found", nil)
	})
	return r
}

func allowedOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
