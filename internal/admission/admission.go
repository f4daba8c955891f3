// Package admission implements a Kubernetes validating admission webhook
// that checks custom resources against the openAPIV3Schema of their CRD.
package admission

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/kubeopenapi"
	"github.com/reoring/skema/schema"
)

// maxReview bounds AdmissionReview bodies.
const maxReview = 10 << 20

// Minimal AdmissionReview (v1) wire types.
type GroupVersionKind struct {
	Group   string `json:"group"`
	Version string `json:"version"`
	Kind    string `json:"kind"`
}

type GroupVersionResource struct {
	Group    string `json:"group"`
	Version  string `json:"version"`
	Resource string `json:"resource"`
}

type Request struct {
	UID       string               `json:"uid"`
	Kind      GroupVersionKind     `json:"kind"`
	Resource  GroupVersionResource `json:"resource"`
	Namespace string               `json:"namespace,omitempty"`
	Operation string               `json:"operation,omitempty"`
	Object    json.RawMessage      `json:"object"`
}

type Status struct {
	Code    int32  `json:"code,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

type Response struct {
	UID              string            `json:"uid"`
	Allowed          bool              `json:"allowed"`
	Status           *Status           `json:"status,omitempty"`
	AuditAnnotations map[string]string `json:"auditAnnotations,omitempty"`
}

type Review struct {
	APIVersion string    `json:"apiVersion"`
	Kind       string    `json:"kind"`
	Request    *Request  `json:"request,omitempty"`
	Response   *Response `json:"response,omitempty"`
}

// Webhook validates admitted objects of one CRD kind.
type Webhook struct {
	v        *skema.Validator
	node     *schema.Node
	kind     string
	gvr      GroupVersionResource
	fullScan bool
	logger   *slog.Logger
}

// Options configures a Webhook.
type Options struct {
	Kind     string
	FullScan bool
}

// FromBundle imports the CRD for opts.Kind from a YAML bundle and derives the
// expected group/version/resource from it.
func FromBundle(data []byte, v *skema.Validator, opts Options, logger *slog.Logger) (*Webhook, error) {
	node, diag, err := kubeopenapi.ImportYAMLForCRDKind(data, opts.Kind)
	if err != nil {
		return nil, err
	}
	for _, w := range diag.Warnings() {
		logger.Warn("CRD import warning", slog.String("kind", opts.Kind), slog.String("warning", w))
	}
	wh := &Webhook{v: v, node: node, kind: opts.Kind, fullScan: opts.FullScan, logger: logger}
	if gvr, ok := expectedGVR(data, opts.Kind); ok {
		wh.gvr = gvr
	} else {
		logger.Warn("could not derive group/version/resource from CRD; resource check disabled",
			slog.String("kind", opts.Kind))
	}
	return wh, nil
}

// Review decides an admission request.
func (wh *Webhook) Review(req *Request) *Response {
	resp := &Response{UID: req.UID}
	if req.Kind.Kind != wh.kind {
		return deny(resp, fmt.Sprintf("kind mismatch: expected %s, got %s", wh.kind, req.Kind.Kind))
	}
	if wh.gvr.Resource != "" && req.Resource != wh.gvr {
		return deny(resp, fmt.Sprintf("resource mismatch: expected %s/%s %s, got %s/%s %s",
			wh.gvr.Group, wh.gvr.Version, wh.gvr.Resource,
			req.Resource.Group, req.Resource.Version, req.Resource.Resource))
	}

	var obj any
	dec := json.NewDecoder(bytes.NewReader(req.Object))
	dec.UseNumber()
	if err := dec.Decode(&obj); err != nil {
		return deny(resp, "invalid object: "+err.Error())
	}
	if err := wh.v.Check(obj, wh.node, wh.fullScan); err != nil {
		if ve, ok := skema.AsValidationError(err); ok {
			wh.logger.Info("admission denied",
				slog.String("uid", req.UID),
				slog.String("code", ve.Code),
				slog.String("path", ve.Pointer))
			resp = deny(resp, ve.Code+" at "+ve.Pointer+": "+ve.Message)
			resp.AuditAnnotations = map[string]string{"skema/code": ve.Code, "skema/path": ve.Pointer}
			return resp
		}
		return deny(resp, err.Error())
	}
	resp.Allowed = true
	return resp
}

func deny(resp *Response, msg string) *Response {
	resp.Allowed = false
	resp.Status = &Status{Code: http.StatusUnprocessableEntity, Reason: "Invalid", Message: msg}
	return resp
}

// ServeHTTP decodes an AdmissionReview, reviews its request and writes the
// review back with the response filled in.
func (wh *Webhook) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		writeJSON(w, http.StatusUnsupportedMediaType, map[string]string{"error": "unsupported Content-Type"})
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxReview)
	var in Review
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid AdmissionReview: " + err.Error()})
		return
	}
	if in.Request == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing request"})
		return
	}
	writeJSON(w, http.StatusOK, Review{
		APIVersion: "admission.k8s.io/v1",
		Kind:       "AdmissionReview",
		Response:   wh.Review(in.Request),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// expectedGVR extracts group, storage version and plural resource for kind
// from a CRD YAML bundle.
func expectedGVR(data []byte, kind string) (GroupVersionResource, bool) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var doc any
		if err := dec.Decode(&doc); err != nil {
			if !errors.Is(err, io.EOF) {
				return GroupVersionResource{}, false
			}
			break
		}
		m, _ := schema.NormalizeYAML(doc).(map[string]any)
		if m == nil || m["kind"] != "CustomResourceDefinition" {
			continue
		}
		spec, _ := m["spec"].(map[string]any)
		names, _ := spec["names"].(map[string]any)
		if k, _ := names["kind"].(string); k != kind {
			continue
		}
		group, _ := spec["group"].(string)
		plural, _ := names["plural"].(string)
		version := storageVersion(spec)
		if group != "" && plural != "" && version != "" {
			return GroupVersionResource{Group: group, Version: version, Resource: plural}, true
		}
	}
	return GroupVersionResource{}, false
}

// storageVersion returns the storage=true version, falling back to the first.
func storageVersion(spec map[string]any) string {
	vers, _ := spec["versions"].([]any)
	var first string
	for i, it := range vers {
		m, _ := it.(map[string]any)
		name, _ := m["name"].(string)
		if i == 0 {
			first = name
		}
		if b, _ := m["storage"].(bool); b && name != "" {
			return name
		}
	}
	return first
}
