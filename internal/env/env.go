package env

import (
	"errors"
	"os"
	"time"

	env11 "github.com/caarlos0/env/v11"
)

// Env holds the environment configuration
type Env struct {
	GeminiKey    string        `env:"GEMINI_API_KEY,required,notEmpty"`
	Model        string        `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	HTTPSProxy   string        `env:"HTTPS_PROXY"`
	HTTPProxy    string        `env:"HTTP_PROXY"`
	FetchTimeout time.Duration `env:"WEBFETCH_TIMEOUT" envDefault:"10s"`
	DenyPrivate  bool          `env:"WEBFETCH_DENY_PRIVATE"`
}

// Proxy returns the proxy outbound requests should go through, if any
func (e *Env) Proxy() string {
	if e.HTTPSProxy != "" {
		return e.HTTPSProxy
	}
	return e.HTTPProxy
}

// Load reads the process environment
func Load() (*Env, error) {
	return Parse(os.Environ())
}

// Parse reads a list of KEY=value pairs
func Parse(environ []string) (*Env, error) {
	env := new(Env)
	if err := env11.ParseWithOptions(env, env11.Options{
		Environment: env11.ToMap(environ),
	}); err != nil {
		return nil, err
	}
	if env.FetchTimeout <= 0 {
		return nil, errors.New("env: WEBFETCH_TIMEOUT must be greater than zero")
	}
	return env, nil
}
