package server_test

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/matthewmueller/logs"
	"github.com/matthewmueller/webfetch"
	"github.com/matthewmueller/webfetch/internal/mock"
	"github.com/matthewmueller/webfetch/internal/server"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func connect(t *testing.T, runner server.Runner) *mcp.ClientSession {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	ss, err := server.New(logs.Default(), runner).Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server: connecting server: %v", err)
	}
	t.Cleanup(func() { ss.Close() })
	client := mcp.NewClient(&mcp.Implementation{Name: "test", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("server: connecting client: %v", err)
	}
	t.Cleanup(func() { cs.Close() })
	return cs
}

func call(t *testing.T, cs *mcp.ClientSession, name, prompt string) (*mcp.CallToolResult, string) {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: map[string]any{"prompt": prompt},
	})
	if err != nil {
		t.Fatalf("server: calling %s: %v", name, err)
	}
	if len(res.Content) != 1 {
		t.Fatalf("server: expected a single content, got %d", len(res.Content))
	}
	text, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("server: expected text content, got %T", res.Content[0])
	}
	return res, text.Text
}

func TestListTools(t *testing.T) {
	is := is.New(t)
	cs := connect(t, webfetch.New(logs.Default(), &mock.Generator{}, &mock.Fetcher{}))
	res, err := cs.ListTools(context.Background(), nil)
	is.NoErr(err)
	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
		is.True(tool.Description != "")
		is.True(tool.InputSchema != nil)
	}
	sort.Strings(names)
	is.Equal(names, []string{"compare_web", "extract_web", "summarize_web"})
}

func TestSummarizeTool(t *testing.T) {
	is := is.New(t)
	gen := &mock.Generator{Native: &webfetch.Generation{Text: "a summary"}}
	cs := connect(t, webfetch.New(logs.Default(), gen, &mock.Fetcher{}))
	res, text := call(t, cs, "summarize_web", "summarize https://example.com/a")
	is.True(!res.IsError)
	is.Equal(text, "[https://example.com/a]\na summary")
}

func TestCompareToolFallback(t *testing.T) {
	is := is.New(t)
	gen := &mock.Generator{NativeErr: errors.New("unavailable"), Grounded: "a comparison"}
	fetcher := &mock.Fetcher{Pages: map[string]string{
		"https://a.com": "page a",
		"https://b.com": "page b",
	}}
	cs := connect(t, webfetch.New(logs.Default(), gen, fetcher))
	res, text := call(t, cs, "compare_web", "compare https://a.com https://b.com")
	is.True(!res.IsError)
	is.Equal(text, "Web Content Comparison (Fallback):\n\na comparison")
}

func TestExtractTool(t *testing.T) {
	is := is.New(t)
	gen := &mock.Generator{Native: &webfetch.Generation{Text: "$5"}}
	cs := connect(t, webfetch.New(logs.Default(), gen, &mock.Fetcher{}))
	res, text := call(t, cs, "extract_web", "price on https://shop.com/item")
	is.True(!res.IsError)
	is.Equal(text, "[https://shop.com/item]\n$5")
}

func TestEmptyPrompt(t *testing.T) {
	is := is.New(t)
	gen := &mock.Generator{}
	cs := connect(t, webfetch.New(logs.Default(), gen, &mock.Fetcher{}))
	res, text := call(t, cs, "summarize_web", "  ")
	is.True(res.IsError)
	is.Equal(text, "Prompt cannot be empty")
	is.Equal(len(gen.NativeCalls()), 0)
}

func TestValidationError(t *testing.T) {
	is := is.New(t)
	cs := connect(t, webfetch.New(logs.Default(), &mock.Generator{}, &mock.Fetcher{}))
	res, text := call(t, cs, "compare_web", "compare https://a.com")
	is.True(res.IsError)
	is.Equal(text, "At least 2 URLs required for comparison")
}

func TestExecutionError(t *testing.T) {
	is := is.New(t)
	gen := &mock.Generator{
		NativeErr:   errors.New("unavailable"),
		GroundedErr: &webfetch.BackendError{Op: "gemini: compare generation", Err: errors.New("quota")},
	}
	fetcher := &mock.Fetcher{Pages: map[string]string{
		"https://a.com": "page a",
		"https://b.com": "page b",
	}}
	cs := connect(t, webfetch.New(logs.Default(), gen, fetcher))
	res, text := call(t, cs, "compare_web", "compare https://a.com https://b.com")
	is.True(res.IsError)
	is.Equal(text, "Tool execution failed: webfetch: comparing in fallback: gemini: compare generation failed: quota")
}
