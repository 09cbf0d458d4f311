package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/Bowery/prompt"
	"github.com/livebud/cli"
	"github.com/livebud/color"
	"github.com/matthewmueller/webfetch"
	"github.com/matthewmueller/webfetch/fetch"
	"github.com/matthewmueller/webfetch/internal/env"
	"github.com/matthewmueller/webfetch/internal/server"
	"github.com/matthewmueller/webfetch/providers/gemini"
)

func New(log *slog.Logger) *CLI {
	return &CLI{
		log:    log,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Env:    os.Environ(),
	}
}

type CLI struct {
	log    *slog.Logger
	Stdout io.Writer
	Stderr io.Writer
	Env    []string
}

func (c *CLI) Parse(ctx context.Context, args ...string) error {
	var model *string
	cli := cli.New("webfetch", "summarize, compare and extract information from web pages")
	cli.Flag("model", "gemini model to use").Short('m').Optional().String(&model)
	cli.Run(func(ctx context.Context) error {
		return c.Serve(ctx, &Serve{Model: model})
	})

	{ // $ webfetch summarize [prompt...]
		in := &Run{Kind: webfetch.KindSummarize}
		cli := cli.Command("summarize", "summarize the first url in the prompt")
		cli.Args("prompt", "prompt containing the url").Optional().Strings(&in.Prompt)
		cli.Run(func(ctx context.Context) error {
			in.Model = model
			return c.Run(ctx, in)
		})
	}

	{ // $ webfetch compare [prompt...]
		in := &Run{Kind: webfetch.KindCompare}
		cli := cli.Command("compare", "compare every url in the prompt")
		cli.Args("prompt", "prompt containing at least two urls").Optional().Strings(&in.Prompt)
		cli.Run(func(ctx context.Context) error {
			in.Model = model
			return c.Run(ctx, in)
		})
	}

	{ // $ webfetch extract [prompt...]
		in := &Run{Kind: webfetch.KindExtract}
		cli := cli.Command("extract", "extract information from the first url in the prompt")
		cli.Args("prompt", "prompt containing the url and what to extract").Optional().Strings(&in.Prompt)
		cli.Run(func(ctx context.Context) error {
			in.Model = model
			return c.Run(ctx, in)
		})
	}

	{ // $ webfetch models
		cli := cli.Command("models", "list available models")
		cli.Run(func(ctx context.Context) error {
			return c.Models(ctx)
		})
	}

	return cli.Parse(ctx, args...)
}

// service wires the operations up from the environment. The proxy is resolved
// once here and shared by every outbound request.
func (c *CLI) service(ctx context.Context, model *string) (*webfetch.Service, *gemini.Client, error) {
	env, err := env.Parse(c.Env)
	if err != nil {
		return nil, nil, fmt.Errorf("cli: unable to load env: %w", err)
	}
	hc, err := fetch.NewClient(env.Proxy())
	if err != nil {
		return nil, nil, fmt.Errorf("cli: unable to create http client: %w", err)
	}
	if proxy := env.Proxy(); proxy != "" {
		c.log.Info("cli: using proxy", "proxy", redact(proxy))
	}
	name := env.Model
	if model != nil && *model != "" {
		name = *model
	}
	gc, err := gemini.New(ctx, c.log, env.GeminiKey,
		gemini.WithModel(name),
		gemini.WithHTTPClient(hc),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("cli: unable to create gemini client: %w", err)
	}
	fetcher := fetch.New(c.log, hc,
		fetch.WithTimeout(env.FetchTimeout),
		fetch.WithDenyPrivate(env.DenyPrivate),
	)
	return webfetch.New(c.log, gc, fetcher), gc, nil
}

func redact(proxy string) string {
	u, err := url.Parse(proxy)
	if err != nil {
		return "<invalid>"
	}
	return u.Redacted()
}

type Serve struct {
	Model *string
}

// Serve the tools over stdio
func (c *CLI) Serve(ctx context.Context, in *Serve) error {
	svc, _, err := c.service(ctx, in.Model)
	if err != nil {
		return err
	}
	return server.Serve(ctx, c.log, svc)
}

type Run struct {
	Kind   webfetch.Kind
	Model  *string
	Prompt []string
}

// Run a single operation, or one per line when no prompt is given
func (c *CLI) Run(ctx context.Context, in *Run) error {
	svc, gc, err := c.service(ctx, in.Model)
	if err != nil {
		return err
	}

	// Log the model we're using
	fmt.Fprintln(c.Stderr, color.Dim(gc.Model()))

	if len(in.Prompt) > 0 {
		result, err := svc.Run(ctx, in.Kind, strings.Join(in.Prompt, " "))
		if err != nil {
			return err
		}
		fmt.Fprintln(c.Stdout, result)
		return nil
	}

	// Interactive mode
	for {
		input, err := prompt.Basic(">", true)
		if err != nil {
			if err == prompt.ErrEOF || err == prompt.ErrCTRLC {
				return nil
			}
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		result, err := svc.Run(ctx, in.Kind, input)
		if err != nil {
			if webfetch.IsValidation(err) {
				fmt.Fprintln(c.Stderr, err.Error())
				continue
			}
			return err
		}
		fmt.Fprintln(c.Stdout, result)
	}
}

// Models lists the models available to the API key
func (c *CLI) Models(ctx context.Context) error {
	_, gc, err := c.service(ctx, nil)
	if err != nil {
		return err
	}
	models, err := gc.Models(ctx)
	if err != nil {
		return fmt.Errorf("cli: listing models: %w", err)
	}
	for _, m := range models {
		fmt.Fprint(c.Stdout, m.ID)
		if m.Name != "" {
			fmt.Fprint(c.Stdout, color.Dim(" ("+m.Name+")"))
		}
		fmt.Fprintln(c.Stdout)
	}
	return nil
}
