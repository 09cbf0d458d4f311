// Package fetch downloads web pages and turns them into bounded plain text
// that's safe to hand to a language model.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/matthewmueller/webfetch"
)

const (
	// DefaultTimeout bounds a single fetch, including reading the body
	DefaultTimeout = 10 * time.Second
	// DefaultMaxLength is the maximum number of characters kept per page
	DefaultMaxLength = 100_000
	// UserAgent identifies the fetcher to the servers it talks to
	UserAgent = "webfetch/1.0"
	// maxBodySize is the most we'll read off the wire (10MB)
	maxBodySize = 10 * 1024 * 1024
)

// Option configures the Fetcher
type Option func(*Fetcher)

// WithTimeout sets the per-URL timeout. Non-positive timeouts keep the
// default.
func WithTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) {
		if timeout > 0 {
			f.timeout = timeout
		}
	}
}

// WithMaxLength sets the maximum number of characters kept per page
func WithMaxLength(n int) Option {
	return func(f *Fetcher) {
		f.maxLength = n
	}
}

// WithDenyPrivate refuses to fetch loopback, private and link-local addresses
func WithDenyPrivate(deny bool) Option {
	return func(f *Fetcher) {
		f.denyPrivate = deny
	}
}

// New creates a new Fetcher. The HTTP client decides how requests leave the
// process, see NewClient.
func New(log *slog.Logger, hc *http.Client, options ...Option) *Fetcher {
	f := &Fetcher{
		log:       log,
		hc:        hc,
		timeout:   DefaultTimeout,
		maxLength: DefaultMaxLength,
		conv:      newConverter(),
	}
	for _, option := range options {
		option(f)
	}
	return f
}

// Fetcher acquires the plain text content of web pages
type Fetcher struct {
	log         *slog.Logger
	hc          *http.Client
	timeout     time.Duration
	maxLength   int
	denyPrivate bool
	conv        *converter.Converter
}

var _ webfetch.Fetcher = (*Fetcher)(nil)

// Fetch the URL and convert it to plain text. Every failure is returned as a
// *webfetch.FetchError naming the URL. Fetches are never retried.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*webfetch.Content, error) {
	text, err := f.fetch(ctx, url)
	if err != nil {
		return nil, &webfetch.FetchError{URL: url, Err: err}
	}
	return &webfetch.Content{
		URL:    url,
		Text:   webfetch.Truncate(text, f.maxLength),
		Length: len(text),
	}, nil
}

func (f *Fetcher) fetch(ctx context.Context, url string) (string, error) {
	target := Rewrite(url)
	if target != url {
		f.log.Debug("fetch: rewrote url", "from", url, "to", target)
	}
	if IsPrivateAddress(target) {
		if f.denyPrivate {
			return "", errors.New("refusing to fetch a private network address")
		}
		f.log.Debug("fetch: fetching private network address", "url", target)
	}

	parent := ctx
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("invalid request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	res, err := f.hc.Do(req)
	if err != nil {
		if err := parent.Err(); err != nil {
			return "", fmt.Errorf("request canceled: %w", err)
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("request timed out after %s", f.timeout)
		}
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", fmt.Errorf("request failed with status code %d %s", res.StatusCode, http.StatusText(res.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		if err := parent.Err(); err != nil {
			return "", fmt.Errorf("reading response canceled: %w", err)
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("reading response timed out after %s", f.timeout)
		}
		return "", fmt.Errorf("reading response: %w", err)
	}
	f.log.Debug("fetch: fetched url", "url", target, "status", res.StatusCode, "bytes", len(body))

	if !isHTML(res.Header.Get("Content-Type"), body) {
		return string(body), nil
	}
	text, err := f.conv.ConvertString(string(body))
	if err != nil {
		return "", fmt.Errorf("converting html to text: %w", err)
	}
	return text, nil
}

// isHTML reports whether the body should go through the markup converter.
// Other text, like raw source files, is kept verbatim.
func isHTML(contentType string, body []byte) bool {
	if contentType == "" {
		contentType = http.DetectContentType(body)
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return true
	}
	switch mediaType {
	case "text/html", "application/xhtml+xml":
		return true
	default:
		return false
	}
}
