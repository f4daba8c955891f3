// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes validation and schema diffing via stdio transport.
package mcpserver

import (
	"context"
	"strings"

	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/format"
	"github.com/reoring/skema/schema"
	"github.com/reoring/skema/source"
)

// Server wraps the MCP server with skema tools.
type Server struct {
	mcp *server.MCPServer
	v   *skema.Validator
}

// New creates a new MCP server with all tools registered.
func New(v *skema.Validator, version string) *Server {
	s := &Server{v: v}

	s.mcp = server.NewMCPServer(
		"skema",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("validate_value",
		mcp.WithDescription("Validate a JSON value against a JSON schema document. "+
			"Large arrays and dictionaries are sampled unless fullScan is true. "+
			"Reports at most one violation."),
		mcp.WithString("schema", mcp.Required(), mcp.Description("Schema document as JSON text")),
		mcp.WithString("value", mcp.Required(), mcp.Description("Value as JSON text")),
		mcp.WithBoolean("fullScan", mcp.Description("Check every element instead of sampling")),
	), s.validateValue)

	s.mcp.AddTool(mcp.NewTool("diff_schemas",
		mcp.WithDescription("Report structural differences between two schema documents, phrased from a to b."),
		mcp.WithString("a", mcp.Required(), mcp.Description("First schema as JSON text")),
		mcp.WithString("b", mcp.Required(), mcp.Description("Second schema as JSON text")),
	), s.diffSchemas)

	s.mcp.AddTool(mcp.NewTool("list_formats",
		mcp.WithDescription("List the string formats the validator understands."),
	), s.listFormats)

	s.mcp.AddResource(
		mcp.NewResource("skema://error-codes", "Violation Codes",
			mcp.WithResourceDescription("Codes reported by validate_value."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readErrorCodes,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) validateValue(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rawSchema, err := req.RequireString("schema")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rawValue, err := req.RequireString("value")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	node, err := schema.Parse([]byte(rawSchema))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	value, err := source.Decode("value.json", []byte(rawValue))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.v.Check(value, node, req.GetBool("fullScan", false)); err != nil {
		ve, _ := skema.AsValidationError(err)
		out, _ := json.MarshalIndent(ve, "", "  ")
		return mcp.NewToolResultText(string(out)), nil
	}
	return mcp.NewToolResultText("valid"), nil
}

func (s *Server) diffSchemas(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	nodes := make([]*schema.Node, 2)
	for i, key := range []string{"a", "b"} {
		raw, err := req.RequireString(key)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if nodes[i], err = schema.Parse([]byte(raw)); err != nil {
			return mcp.NewToolResultError(key + ": " + err.Error()), nil
		}
	}
	c := skema.Diff(nodes[0], nodes[1])
	if c == nil {
		return mcp.NewToolResultText("no differences"), nil
	}
	out, _ := json.MarshalIndent(c, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listFormats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(strings.Join(format.Names(), "\n")), nil
}

func (s *Server) readErrorCodes(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "skema://error-codes",
			MIMEType: "text/markdown",
			Text:     ErrorCodes,
		},
	}, nil
}
