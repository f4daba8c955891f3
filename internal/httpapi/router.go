// Package httpapi exposes validation and schema diffing over HTTP.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/format"
)

// RouterOption customizes NewRouter.
type RouterOption func(r chi.Router)

// WithAdmission mounts an admission webhook at POST /v1/admission.
func WithAdmission(h http.Handler) RouterOption {
	return func(r chi.Router) { r.Method(http.MethodPost, "/v1/admission", h) }
}

// NewRouter creates a chi router with all routes mounted.
func NewRouter(v *skema.Validator, logger *slog.Logger, opts ...RouterOption) chi.Router {
	h := NewHandler(v, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/validate", h.Validate)
		r.Post("/diff", h.Diff)
		r.Get("/formats", h.Formats)
	})
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func formatNames() []string { return format.Names() }
