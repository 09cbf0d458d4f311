package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/matthewmueller/webfetch"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured
const DefaultModel = "gemini-2.5-flash"

// Option configures the client
type Option func(*Client)

// WithModel sets the model used for every request
func WithModel(model string) Option {
	return func(c *Client) {
		c.model = model
	}
}

// WithHTTPClient sets the HTTP client used to talk to the Gemini API
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.hc = hc
	}
}

// WithBaseURL points the client at a different Gemini API endpoint
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// New creates a new Gemini client
func New(ctx context.Context, log *slog.Logger, apiKey string, options ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: missing api key")
	}
	c := &Client{
		log:   log,
		model: DefaultModel,
	}
	for _, option := range options {
		option(c)
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.hc,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: c.baseURL,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: unable to create client: %w", err)
	}
	c.gc = gc
	return c, nil
}

// Client implements webfetch.Generator for Gemini
type Client struct {
	log     *slog.Logger
	model   string
	hc      *http.Client
	baseURL string
	gc      *genai.Client
}

var _ webfetch.Generator = (*Client)(nil)

// Model returns the model used for every request
func (c *Client) Model() string {
	return c.model
}

// GenerateNative sends the prompt with the URL context tool enabled, so
// Gemini fetches the URLs itself and reports how each retrieval went.
func (c *Client) GenerateNative(ctx context.Context, prompt string) (*webfetch.Generation, error) {
	res, err := c.gc.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Tools: []*genai.Tool{
			{URLContext: &genai.URLContext{}},
		},
	})
	if err != nil {
		return nil, &webfetch.BackendError{Op: "gemini: url context generation", Err: err}
	}
	gen := &webfetch.Generation{
		Text:       res.Text(),
		Retrievals: toRetrievals(res),
	}
	c.log.Debug("gemini: generated with url context", "model", c.model, "retrievals", len(gen.Retrievals), "successes", gen.Successes())
	return gen, nil
}

// GenerateGrounded generates from content that was fetched beforehand
func (c *Client) GenerateGrounded(ctx context.Context, req *webfetch.Grounded) (string, error) {
	prompt, err := groundedPrompt(req)
	if err != nil {
		return "", err
	}
	res, err := c.gc.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", &webfetch.BackendError{Op: fmt.Sprintf("gemini: %s generation", req.Kind), Err: err}
	}
	return res.Text(), nil
}

// toRetrievals reads the retrieval manifest of the first candidate
func toRetrievals(res *genai.GenerateContentResponse) (retrievals []*webfetch.Retrieval) {
	if len(res.Candidates) == 0 || res.Candidates[0] == nil {
		return nil
	}
	meta := res.Candidates[0].URLContextMetadata
	if meta == nil {
		return nil
	}
	for _, m := range meta.URLMetadata {
		if m == nil {
			continue
		}
		retrievals = append(retrievals, &webfetch.Retrieval{
			URL:    m.RetrievedURL,
			Status: toStatus(m.URLRetrievalStatus),
		})
	}
	return retrievals
}

func toStatus(status genai.URLRetrievalStatus) webfetch.Status {
	switch status {
	case genai.URLRetrievalStatusSuccess:
		return webfetch.StatusSuccess
	case "", genai.URLRetrievalStatusUnspecified:
		return webfetch.StatusUnknown
	default:
		return webfetch.StatusFailure
	}
}
