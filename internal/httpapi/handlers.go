package httpapi

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/schema"
	"github.com/reoring/skema/source"
)

// maxBody bounds request bodies.
const maxBody = 32 << 20

// Handler serves the validation and diff endpoints.
type Handler struct {
	v      *skema.Validator
	logger *slog.Logger
}

// NewHandler returns a Handler using v for every request.
func NewHandler(v *skema.Validator, logger *slog.Logger) *Handler {
	return &Handler{v: v, logger: logger}
}

func decodeBody(r *http.Request, w http.ResponseWriter, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func parseSchema(field string, raw json.RawMessage) (*schema.Node, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s: required", field)
	}
	n, err := schema.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return n, nil
}

// Validate handles POST /v1/validate.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := decodeBody(r, w, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	node, err := parseSchema("schema", req.Schema)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	var value any
	if len(req.Value) > 0 {
		if value, err = source.JSON().Decode(bytes.NewReader(req.Value)); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("value: "+err.Error()))
			return
		}
	}

	resp := validateResponse{Valid: true}
	if err := h.v.Check(value, node, req.FullScan); err != nil {
		ve, _ := skema.AsValidationError(err)
		resp = validateResponse{Path: ve.Path, Pointer: ve.Pointer, Code: ve.Code, Message: ve.Message}
		h.logger.Debug("validate: invalid", slog.String("path", ve.Path), slog.String("code", ve.Code))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Diff handles POST /v1/diff.
func (h *Handler) Diff(w http.ResponseWriter, r *http.Request) {
	var req diffRequest
	if err := decodeBody(r, w, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	a, err := parseSchema("a", req.A)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	b, err := parseSchema("b", req.B)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, diffResponse{Changes: skema.Diff(a, b).ToValue()})
}

// Formats handles GET /v1/formats.
func (h *Handler) Formats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"formats": formatNames()})
}
