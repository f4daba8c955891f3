package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	skema "github.com/reoring/skema"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	return New(skema.New(skema.Config{}), "test")
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error

	switch name {
	case "validate_value":
		result, err = srv.validateValue(ctx, req)
	case "diff_schemas":
		result, err = srv.diffSchemas(ctx, req)
	case "list_formats":
		result, err = srv.listFormats(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

const userSchema = `{"type":"object","properties":{"id":{"type":"number"}},"required":["id"]}`

func TestValidateValue(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "validate_value", map[string]interface{}{"schema": userSchema, "value": `{"id": 1}`})
	if text := resultText(r); text != "valid" {
		t.Errorf("valid result = %q", text)
	}

	r = callTool(t, srv, "validate_value", map[string]interface{}{"schema": userSchema, "value": `{"id": "1"}`})
	text := resultText(r)
	if r.IsError || !strings.Contains(text, `"invalid_type"`) || !strings.Contains(text, `"id"`) {
		t.Errorf("invalid result = %q", text)
	}
}

func TestValidateValue_FullScan(t *testing.T) {
	srv := testServer(t)
	items := make([]string, 500)
	for i := range items {
		items[i] = "1"
	}
	items[250+3] = `"x"`
	value := "[" + strings.Join(items, ",") + "]"
	s := `{"type":"array","items":{"type":"number"}}`

	r := callTool(t, srv, "validate_value", map[string]interface{}{"schema": s, "value": value})
	if resultText(r) != "valid" {
		t.Errorf("sampled run should miss index 253: %q", resultText(r))
	}
	r = callTool(t, srv, "validate_value", map[string]interface{}{"schema": s, "value": value, "fullScan": true})
	if !strings.Contains(resultText(r), `"253"`) {
		t.Errorf("full scan should report index 253: %q", resultText(r))
	}
}

func TestValidateValue_BadInput(t *testing.T) {
	srv := testServer(t)
	for _, args := range []map[string]interface{}{
		{"value": "1"},
		{"schema": `{"type":3}`, "value": "1"},
		{"schema": userSchema, "value": "{"},
	} {
		if r := callTool(t, srv, "validate_value", args); !r.IsError {
			t.Errorf("expected error for %v", args)
		}
	}
}

func TestDiffSchemas(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "diff_schemas", map[string]interface{}{"a": `{"type":"string"}`, "b": `{"type":"number"}`})
	if text := resultText(r); !strings.Contains(text, "Type mismatch: string vs number") {
		t.Errorf("diff = %q", text)
	}
	r = callTool(t, srv, "diff_schemas", map[string]interface{}{"a": userSchema, "b": userSchema})
	if text := resultText(r); text != "no differences" {
		t.Errorf("diff = %q", text)
	}
}

func TestListFormats(t *testing.T) {
	r := callTool(t, testServer(t), "list_formats", map[string]interface{}{})
	if text := resultText(r); !strings.Contains(text, "date-time") {
		t.Errorf("formats = %q", text)
	}
}
