// Package webfetch summarizes, compares and extracts information from web
// pages. Each operation first lets the generative backend read the URLs
// itself and falls back to fetching the pages locally when that fails.
package webfetch

import (
	"context"
)

// Kind of operation
type Kind string

const (
	KindSummarize Kind = "summarize"
	KindCompare   Kind = "compare"
	KindExtract   Kind = "extract"
)

// Content is the plain text fetched from a single URL
type Content struct {
	URL    string // URL as requested, before any rewrite
	Text   string // Plain text, truncated to the fetcher's limit
	Length int    // Length of the text in bytes before truncation
}

// Status of a URL the backend tried to retrieve
type Status string

const (
	StatusUnknown Status = "unknown"
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Retrieval is a single entry in the backend's retrieval manifest
type Retrieval struct {
	URL    string
	Status Status
}

// Generation is the response to a native-context request. Retrievals is
// empty when the backend didn't report how retrieving the URLs went.
type Generation struct {
	Text       string
	Retrievals []*Retrieval
}

// Successes counts the URLs the backend retrieved successfully
func (g *Generation) Successes() (n int) {
	for _, r := range g.Retrievals {
		if r.Status == StatusSuccess {
			n++
		}
	}
	return n
}

// Grounded is a generation request over content that was already fetched
type Grounded struct {
	Kind     Kind
	Contents []*Content
	// Instruction is what to extract. Only used by KindExtract.
	Instruction string
}

// Generator is the generative backend
type Generator interface {
	// GenerateNative sends the prompt as-is and lets the backend resolve the
	// URLs within it.
	GenerateNative(ctx context.Context, prompt string) (*Generation, error)
	// GenerateGrounded generates text from pre-fetched content.
	GenerateGrounded(ctx context.Context, req *Grounded) (string, error)
}

// Fetcher acquires the text content of a URL
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Content, error)
}

// Truncate s to at most n characters
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
