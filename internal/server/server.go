// Package server exposes the operations as MCP tools
package server

import (
	"context"
	"log/slog"
	"strings"

	"github.com/matthewmueller/webfetch"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	Name    = "webfetch"
	Version = "1.0.0"
)

// Runner runs a single operation
type Runner interface {
	Run(ctx context.Context, kind webfetch.Kind, prompt string) (string, error)
}

type SummarizeInput struct {
	Prompt string `json:"prompt" jsonschema:"Natural language prompt containing URLs (up to 20) and summarization instructions"`
}

type CompareInput struct {
	Prompt string `json:"prompt" jsonschema:"Natural language prompt containing URLs (up to 20) and comparison instructions"`
}

type ExtractInput struct {
	Prompt string `json:"prompt" jsonschema:"Natural language prompt containing URLs (up to 20) and extraction instructions"`
}

// New creates the MCP server with every tool registered
func New(log *slog.Logger, runner Runner) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    Name,
		Version: Version,
	}, nil)
	h := &handler{log, runner}
	mcp.AddTool(server, &mcp.Tool{
		Name:        "summarize_web",
		Description: "Summarize content from one or more URLs",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in SummarizeInput) (*mcp.CallToolResult, any, error) {
		return h.run(ctx, webfetch.KindSummarize, in.Prompt), nil, nil
	})
	mcp.AddTool(server, &mcp.Tool{
		Name:        "compare_web",
		Description: "Compare content from multiple URLs",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in CompareInput) (*mcp.CallToolResult, any, error) {
		return h.run(ctx, webfetch.KindCompare, in.Prompt), nil, nil
	})
	mcp.AddTool(server, &mcp.Tool{
		Name:        "extract_web",
		Description: "Extract specific information from web content based on natural language prompts",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in ExtractInput) (*mcp.CallToolResult, any, error) {
		return h.run(ctx, webfetch.KindExtract, in.Prompt), nil, nil
	})
	return server
}

// Serve over stdin and stdout until the client disconnects
func Serve(ctx context.Context, log *slog.Logger, runner Runner) error {
	log.Info("server: running on stdio", "name", Name, "version", Version)
	return New(log, runner).Run(ctx, &mcp.StdioTransport{})
}

type handler struct {
	log    *slog.Logger
	runner Runner
}

// run the operation, turning failures into tool errors the client can show
func (h *handler) run(ctx context.Context, kind webfetch.Kind, prompt string) *mcp.CallToolResult {
	if strings.TrimSpace(prompt) == "" {
		return toolError("Prompt cannot be empty")
	}
	result, err := h.runner.Run(ctx, kind, prompt)
	if err != nil {
		if webfetch.IsValidation(err) {
			return toolError(err.Error())
		}
		h.log.Error("server: tool execution failed", "op", kind, "error", err)
		return toolError("Tool execution failed: " + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: result}},
	}
}

func toolError(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: message}},
	}
}
