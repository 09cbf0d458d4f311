package webfetch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/matthewmueller/webfetch/internal/batch"
)

// maxConcurrentFetches bounds the fetches a single comparison runs at once
const maxConcurrentFetches = 8

// New creates a new Service
func New(log *slog.Logger, gen Generator, fetcher Fetcher) *Service {
	return &Service{log, gen, fetcher}
}

// Service runs each operation natively first, then falls back to locally
// fetched content when the native result can't be trusted.
type Service struct {
	log     *slog.Logger
	gen     Generator
	fetcher Fetcher
}

// Run the operation of the given kind
func (s *Service) Run(ctx context.Context, kind Kind, prompt string) (string, error) {
	switch kind {
	case KindSummarize:
		return s.Summarize(ctx, prompt)
	case KindCompare:
		return s.Compare(ctx, prompt)
	case KindExtract:
		return s.Extract(ctx, prompt)
	default:
		return "", fmt.Errorf("webfetch: unknown operation %q", kind)
	}
}

// Summarize the first URL in the prompt
func (s *Service) Summarize(ctx context.Context, prompt string) (string, error) {
	urls, err := requireURLs(prompt, 1)
	if err != nil {
		return "", err
	}
	url := urls[0]
	if text, ok := s.native(ctx, KindSummarize, prompt); ok {
		return fmt.Sprintf("[%s]\n%s", url, text), nil
	}
	return s.fallback(ctx, &Grounded{Kind: KindSummarize}, url), nil
}

// Extract information from the first URL in the prompt. The rest of the
// prompt describes what to extract.
func (s *Service) Extract(ctx context.Context, prompt string) (string, error) {
	urls, err := requireURLs(prompt, 1)
	if err != nil {
		return "", err
	}
	url := urls[0]
	if text, ok := s.native(ctx, KindExtract, prompt); ok {
		return fmt.Sprintf("[%s]\n%s", url, text), nil
	}
	return s.fallback(ctx, &Grounded{
		Kind:        KindExtract,
		Instruction: strings.TrimSpace(strings.Replace(prompt, url, "", 1)),
	}, url), nil
}

// Compare every URL in the prompt
func (s *Service) Compare(ctx context.Context, prompt string) (string, error) {
	urls, err := requireURLs(prompt, 2)
	if err != nil {
		return "", err
	}
	if text, ok := s.native(ctx, KindCompare, prompt); ok {
		return "Web Content Comparison:\n\n" + text, nil
	}
	return s.compareFallback(ctx, urls)
}

func requireURLs(prompt string, need int) ([]string, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, &ValidationError{"Prompt cannot be empty"}
	}
	urls := ExtractURLs(prompt)
	switch {
	case len(urls) >= need:
		return urls, nil
	case need > 1:
		return nil, &ValidationError{fmt.Sprintf("At least %d URLs required for comparison", need)}
	default:
		return nil, &ValidationError{"No URLs found in prompt"}
	}
}

// native asks the backend to read the URLs itself and reports whether the
// result can be trusted. Comparisons need at least two sources, the other
// operations need one.
func (s *Service) native(ctx context.Context, kind Kind, prompt string) (string, bool) {
	gen, err := s.gen.GenerateNative(ctx, prompt)
	if err != nil {
		s.log.Warn("webfetch: native generation failed, switching to fallback", "op", kind, "error", err)
		return "", false
	}
	if len(gen.Retrievals) > 0 {
		need := 1
		if kind == KindCompare {
			need = 2
		}
		if successes := gen.Successes(); successes < need {
			s.log.Warn("webfetch: native retrieval failed, switching to fallback",
				"op", kind,
				"successes", successes,
				"need", need,
				"urls", len(gen.Retrievals),
			)
			return "", false
		}
		return gen.Text, true
	}
	if strings.TrimSpace(gen.Text) == "" {
		s.log.Warn("webfetch: native generation returned no content, switching to fallback", "op", kind)
		return "", false
	}
	return gen.Text, true
}

// fallback fetches a single URL and generates over its content. Failures are
// reported inline rather than returned.
func (s *Service) fallback(ctx context.Context, req *Grounded, url string) string {
	content, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		s.log.Warn("webfetch: fetch failed", "op", req.Kind, "url", url, "error", err)
		return fallbackError(req.Kind, url, err)
	}
	req.Contents = []*Content{content}
	text, err := s.gen.GenerateGrounded(ctx, req)
	if err != nil {
		s.log.Warn("webfetch: fallback generation failed", "op", req.Kind, "url", url, "error", err)
		return fallbackError(req.Kind, url, err)
	}
	return fmt.Sprintf("[%s] (Fallback)\n%s", url, text)
}

// fallbackError reports a failed fallback inline. Summaries also name the URL
// that couldn't be processed.
func fallbackError(kind Kind, url string, err error) string {
	if kind == KindSummarize {
		return fmt.Sprintf("[%s] - Error: Error processing %s in fallback: %s", url, url, err)
	}
	return fmt.Sprintf("[%s] - Error: %s", url, err)
}

// compareFallback fetches every URL independently and compares whatever came
// back, as long as there are at least two sources.
func (s *Service) compareFallback(ctx context.Context, urls []string) (string, error) {
	b := batch.New[*Content](maxConcurrentFetches)
	for _, url := range urls {
		b.Go(func() (*Content, error) {
			return s.fetcher.Fetch(ctx, url)
		})
	}
	var contents []*Content
	var failures []string
	for i, result := range b.Wait() {
		if result.Err != nil {
			s.log.Warn("webfetch: fetch failed", "op", KindCompare, "url", urls[i], "error", result.Err)
			failures = append(failures, fmt.Sprintf("Failed to fetch %s: %s", urls[i], reason(result.Err)))
			continue
		}
		contents = append(contents, result.Value)
	}
	if len(contents) < 2 {
		return "Could not fetch enough content for comparison in fallback. Errors:\n" + strings.Join(failures, "\n"), nil
	}
	comparison, err := s.gen.GenerateGrounded(ctx, &Grounded{
		Kind:     KindCompare,
		Contents: contents,
	})
	if err != nil {
		return "", fmt.Errorf("webfetch: comparing in fallback: %w", err)
	}
	out := new(strings.Builder)
	out.WriteString("Web Content Comparison (Fallback):\n\n")
	out.WriteString(comparison)
	if len(failures) > 0 {
		out.WriteString("\n\nErrors during fetch:\n")
		out.WriteString(strings.Join(failures, "\n"))
	}
	return out.String(), nil
}
