// Package middleware validates JSON request bodies against a schema before
// they reach a handler.
package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/schema"
)

// ctxKeyDecoded is the context key for the decoded body.
type ctxKeyDecoded struct{}

// ContextWithDecoded attaches a decoded body to the context.
func ContextWithDecoded(ctx context.Context, v any) context.Context {
	return context.WithValue(ctx, ctxKeyDecoded{}, v)
}

// DecodedFromContext retrieves the body decoded by Validate.
func DecodedFromContext(ctx context.Context) (any, bool) {
	v := ctx.Value(ctxKeyDecoded{})
	return v, v != nil
}

// Options tunes Validate.
type Options struct {
	// FullScan disables sampling for request bodies.
	FullScan bool
	// MaxBytes bounds the body size. Zero means 1 MiB.
	MaxBytes int64
}

// Validate returns middleware that decodes the request body as JSON, checks
// it against node and rejects it with 422 on the first violation. Accepted
// bodies are stored in the request context and also restored as r.Body.
func Validate(v *skema.Validator, node *schema.Node, opts Options) func(http.Handler) http.Handler {
	limit := opts.MaxBytes
	if limit <= 0 {
		limit = 1 << 20
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
			if err != nil {
				writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": err.Error()})
				return
			}
			var body any
			dec := json.NewDecoder(bytes.NewReader(raw))
			dec.UseNumber()
			if err := dec.Decode(&body); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
				return
			}
			if err := v.Check(body, node, opts.FullScan); err != nil {
				if ve, ok := skema.AsValidationError(err); ok {
					writeJSON(w, http.StatusUnprocessableEntity, ErrorPayload(ve))
					return
				}
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(raw))
			next.ServeHTTP(w, r.WithContext(ContextWithDecoded(r.Context(), body)))
		})
	}
}

// ErrorPayload shapes a violation for JSON responses.
func ErrorPayload(ve *skema.ValidationError) map[string]any {
	return map[string]any{"error": map[string]string{
		"path":    ve.Path,
		"pointer": ve.Pointer,
		"code":    ve.Code,
		"message": ve.Message,
	}}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
