package retrieval

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config locates the upstream knowledge service.
type Config struct {
	BaseURL string        `env:"RAG_SERVICE_URL" envDefault:"http://localhost:5000"`
	Timeout time.Duration `env:"LESSONSCRIPT_RAG_TIMEOUT" envDefault:"60s"`
}

// DefaultConfig returns the local development service address.
func DefaultConfig() Config {
	return Config{BaseURL: "http://localhost:5000", Timeout: 60 * time.Second}
}

// ConfigFromEnv reads RAG_SERVICE_URL and LESSONSCRIPT_RAG_TIMEOUT.
func ConfigFromEnv() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse retrieval config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the base URL is absolute http(s).
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid RAG_SERVICE_URL %q: %w", c.BaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid RAG_SERVICE_URL %q: want http(s)://host", c.BaseURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("negative timeout %s", c.Timeout)
	}
	return nil
}
