package httpapi

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	skema "github.com/reoring/skema"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewRouter(skema.New(skema.Config{}), logger)
}

func do(t *testing.T, h http.Handler, method, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec.Code, out
}

const userSchema = `{"type":"object","properties":{"id":{"type":"number"},"email":{"type":"string"}},"required":["id","email"]}`

func TestValidate_Valid(t *testing.T) {
	code, out := do(t, testRouter(t), http.MethodPost, "/v1/validate",
		`{"schema":`+userSchema+`,"value":{"id":1,"email":"x"}}`)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if diff := cmp.Diff(map[string]any{"valid": true}, out); diff != "" {
		t.Fatalf("body (-want +got):\n%s", diff)
	}
}

func TestValidate_Invalid(t *testing.T) {
	code, out := do(t, testRouter(t), http.MethodPost, "/v1/validate",
		`{"schema":`+userSchema+`,"value":{"id":"1","email":"x"}}`)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if out["valid"] != false || out["path"] != "id" || out["code"] != skema.CodeInvalidType || out["pointer"] != "/id" {
		t.Fatalf("body = %v", out)
	}
}

func TestValidate_FullScan(t *testing.T) {
	items := make([]string, 1000)
	for i := range items {
		items[i] = "1"
	}
	items[995] = `"x"`
	value := "[" + strings.Join(items, ",") + "]"
	s := `{"type":"array","items":{"type":"number"}}`

	_, sampled := do(t, testRouter(t), http.MethodPost, "/v1/validate", `{"schema":`+s+`,"value":`+value+`}`)
	if sampled["valid"] != true {
		t.Fatalf("sampled run should miss index 995: %v", sampled)
	}
	_, full := do(t, testRouter(t), http.MethodPost, "/v1/validate", `{"schema":`+s+`,"value":`+value+`,"fullScan":true}`)
	if full["valid"] != false || full["path"] != "995" {
		t.Fatalf("full scan should report index 995: %v", full)
	}
}

func TestValidate_BadRequests(t *testing.T) {
	h := testRouter(t)
	for name, body := range map[string]string{
		"not json":       `{`,
		"missing schema": `{"value":1}`,
		"bad schema":     `{"schema":{"type":3},"value":1}`,
	} {
		t.Run(name, func(t *testing.T) {
			code, out := do(t, h, http.MethodPost, "/v1/validate", body)
			if code != http.StatusBadRequest || out["error"] == nil {
				t.Fatalf("status=%d body=%v", code, out)
			}
		})
	}
}

func TestDiff(t *testing.T) {
	a := `{"type":"object","properties":{"score":{"type":"number","minimum":10}}}`
	b := `{"type":"object","properties":{"score":{"type":"number","minimum":20}}}`
	code, out := do(t, testRouter(t), http.MethodPost, "/v1/diff", `{"a":`+a+`,"b":`+b+`}`)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	want := map[string]any{"changes": map[string]any{
		"score": map[string]any{"minimum": map[string]any{"from": 10.0, "to": 20.0}},
	}}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("body (-want +got):\n%s", diff)
	}

	_, same := do(t, testRouter(t), http.MethodPost, "/v1/diff", `{"a":`+a+`,"b":`+a+`}`)
	if diff := cmp.Diff(map[string]any{"changes": nil}, same); diff != "" {
		t.Fatalf("identical schemas (-want +got):\n%s", diff)
	}
}

func TestHealthAndFormats(t *testing.T) {
	h := testRouter(t)
	code, out := do(t, h, http.MethodGet, "/health/live", "")
	if code != http.StatusOK || out["status"] != "ok" {
		t.Fatalf("health: %d %v", code, out)
	}
	_, out = do(t, h, http.MethodGet, "/v1/formats", "")
	if list, ok := out["formats"].([]any); !ok || len(list) != 6 {
		t.Fatalf("formats: %v", out)
	}
}

func TestRouter_WithAdmission(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	called := false
	stub := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		writeJSON(w, http.StatusOK, map[string]bool{"allowed": true})
	})
	h := NewRouter(skema.New(skema.Config{}), logger, WithAdmission(stub))

	code, out := do(t, h, http.MethodPost, "/v1/admission", `{}`)
	if code != http.StatusOK || !called || out["allowed"] != true {
		t.Fatalf("admission route: code=%d called=%v body=%v", code, called, out)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/admission", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("admission should not be mounted by default, got %d", rec.Code)
	}
}
