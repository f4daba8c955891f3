package admission

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	skema "github.com/reoring/skema"
)

const crdBundle = `apiVersion: apiextensions.k8s.io/v1
kind: CustomResourceDefinition
metadata:
  name: widgets.demo.example.com
spec:
  group: demo.example.com
  names:
    kind: Widget
    plural: widgets
  versions:
    - name: v1
      served: true
      storage: true
      schema:
        openAPIV3Schema:
          type: object
          properties:
            spec:
              type: object
              required: [name]
              properties:
                name:
                  type: string
                  minLength: 1
                note:
                  type: string
                  nullable: true
                replicas:
                  type: integer
                  maximum: 5
`

func newWebhook(t *testing.T) *Webhook {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	wh, err := FromBundle([]byte(crdBundle), skema.New(skema.Config{}), Options{Kind: "Widget"}, logger)
	if err != nil {
		t.Fatalf("FromBundle: %v", err)
	}
	return wh
}

func wrapReview(kind, resource, obj string) string {
	return `{"apiVersion":"admission.k8s.io/v1","kind":"AdmissionReview","request":{"uid":"u-1",` +
		`"kind":{"group":"demo.example.com","version":"v1","kind":"` + kind + `"},` +
		`"resource":{"group":"demo.example.com","version":"v1","resource":"` + resource + `"},` +
		`"object":` + obj + `}}`
}

func post(t *testing.T, wh *Webhook, body string) (*httptest.ResponseRecorder, Review) {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/v1/admission", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	wh.ServeHTTP(w, r)
	var out Review
	if w.Code == http.StatusOK {
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return w, out
}

func TestFromBundle_DerivesResource(t *testing.T) {
	wh := newWebhook(t)
	want := GroupVersionResource{Group: "demo.example.com", Version: "v1", Resource: "widgets"}
	if wh.gvr != want {
		t.Fatalf("gvr = %+v, want %+v", wh.gvr, want)
	}
}

func TestServeHTTP(t *testing.T) {
	wh := newWebhook(t)

	tests := []struct {
		name     string
		body     string
		allowed  bool
		contains string
	}{
		{
			name:    "valid",
			body:    wrapReview("Widget", "widgets", `{"spec":{"name":"w","replicas":3}}`),
			allowed: true,
		},
		{
			name:    "nullable note",
			body:    wrapReview("Widget", "widgets", `{"spec":{"name":"w","note":null}}`),
			allowed: true,
		},
		{
			name:     "missing name",
			body:     wrapReview("Widget", "widgets", `{"spec":{}}`),
			contains: "required at /spec",
		},
		{
			name:     "too many replicas",
			body:     wrapReview("Widget", "widgets", `{"spec":{"name":"w","replicas":6}}`),
			contains: "out_of_range at /spec/replicas",
		},
		{
			name:     "kind mismatch",
			body:     wrapReview("Gadget", "widgets", `{}`),
			contains: "kind mismatch",
		},
		{
			name:     "resource mismatch",
			body:     wrapReview("Widget", "gadgets", `{}`),
			contains: "resource mismatch",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, out := post(t, wh, tt.body)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
			}
			resp := out.Response
			if resp == nil || resp.UID != "u-1" {
				t.Fatalf("response = %+v", resp)
			}
			if resp.Allowed != tt.allowed {
				t.Fatalf("allowed = %v, want %v (%+v)", resp.Allowed, tt.allowed, resp.Status)
			}
			if tt.contains != "" && (resp.Status == nil || !strings.Contains(resp.Status.Message, tt.contains)) {
				t.Fatalf("status = %+v, want message containing %q", resp.Status, tt.contains)
			}
		})
	}
}

func TestServeHTTP_BadRequests(t *testing.T) {
	wh := newWebhook(t)

	w, _ := post(t, wh, `{"apiVersion":"admission.k8s.io/v1","kind":"AdmissionReview"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing request: status = %d", w.Code)
	}
	w, _ = post(t, wh, `not json`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad json: status = %d", w.Code)
	}

	r := httptest.NewRequest(http.MethodPost, "/v1/admission", strings.NewReader(`{}`))
	r.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	wh.ServeHTTP(rec, r)
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("content type: status = %d", rec.Code)
	}
}

func TestFromBundle_UnknownKind(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if _, err := FromBundle([]byte(crdBundle), skema.New(skema.Config{}), Options{Kind: "Gadget"}, logger); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}
