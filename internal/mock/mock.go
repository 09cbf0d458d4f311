// Package mock provides scripted collaborators for testing
package mock

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/matthewmueller/webfetch"
)

// Generator returns canned responses and records what it was asked
type Generator struct {
	Native      *webfetch.Generation
	NativeErr   error
	Grounded    string
	GroundedErr error

	mu       sync.Mutex
	natives  []string
	grounded []*webfetch.Grounded
}

var _ webfetch.Generator = (*Generator)(nil)

func (g *Generator) GenerateNative(ctx context.Context, prompt string) (*webfetch.Generation, error) {
	g.mu.Lock()
	g.natives = append(g.natives, prompt)
	g.mu.Unlock()
	if g.NativeErr != nil {
		return nil, g.NativeErr
	}
	if g.Native == nil {
		return &webfetch.Generation{}, nil
	}
	return g.Native, nil
}

func (g *Generator) GenerateGrounded(ctx context.Context, req *webfetch.Grounded) (string, error) {
	g.mu.Lock()
	g.grounded = append(g.grounded, req)
	g.mu.Unlock()
	if g.GroundedErr != nil {
		return "", g.GroundedErr
	}
	return g.Grounded, nil
}

// NativeCalls returns the prompts sent natively
func (g *Generator) NativeCalls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.natives)
}

// GroundedCalls returns the grounded requests
func (g *Generator) GroundedCalls() []*webfetch.Grounded {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.grounded)
}

// Fetcher serves pages from memory. URLs without a page or an error fail
// with a not found error.
type Fetcher struct {
	Pages  map[string]string
	Errors map[string]error

	mu    sync.Mutex
	calls []string
}

var _ webfetch.Fetcher = (*Fetcher)(nil)

func (f *Fetcher) Fetch(ctx context.Context, url string) (*webfetch.Content, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.mu.Unlock()
	if err, ok := f.Errors[url]; ok {
		return nil, &webfetch.FetchError{URL: url, Err: err}
	}
	page, ok := f.Pages[url]
	if !ok {
		return nil, &webfetch.FetchError{URL: url, Err: errors.New("not found")}
	}
	return &webfetch.Content{URL: url, Text: page, Length: len(page)}, nil
}

// Calls returns the fetched URLs in the order they were fetched
func (f *Fetcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}
