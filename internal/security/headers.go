package security

import (
	"net/http"
	"strconv"
)

const defaultHSTSMaxAge = 365 * 24 * 60 * 60

// apiCSP forbids every fetch directive. Responses are JSON or PDF downloads
// and never load sub-resources.
const apiCSP = "default-src 'none'; frame-ancestors 'none'"

// Headers sets response hardening headers for the pricing API.
type Headers struct {
	Enable                bool
	EnableHSTS            bool
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool
	// NoStore marks responses as uncacheable. Quotes carry per-prescription pricing.
	NoStore bool
}

func (h Headers) fixed() http.Header {
	set := http.Header{}
	set.Set("X-Content-Type-Options", "nosniff")
	set.Set("X-Frame-Options", "DENY")
	set.Set("Referrer-Policy", "no-referrer")
	set.Set("Content-Security-Policy", apiCSP)
	if h.NoStore {
		set.Set("Cache-Control", "no-store")
	}
	return set
}

func (h Headers) hsts() string {
	maxAge := h.HSTSMaxAge
	if maxAge <= 0 {
		maxAge = defaultHSTSMaxAge
	}
	value := "max-age=" + strconv.Itoa(maxAge)
	if h.HSTSIncludeSubdomains {
		value += "; includeSubDomains"
	}
	return value
}

// Middleware copies the header set onto every response. HSTS is only sent
// over TLS.
func (h Headers) Middleware(next http.Handler) http.Handler {
	if !h.Enable {
		return next
	}
	fixed := h.fixed()
	hsts := h.hsts()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		out := w.Header()
		for name := range fixed {
			out.Set(name, fixed.Get(name))
		}
		if h.EnableHSTS && r.TLS != nil {
			out.Set("Strict-Transport-Security", hsts)
		}
		next.ServeHTTP(w, r)
	})
}
