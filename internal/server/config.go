package server

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the HTTP server configuration, read from the environment.
type Config struct {
	HTTPAddr      string        `env:"HTTP_ADDR" envDefault:":8080"`
	LogMode       string        `env:"LOG_MODE" envDefault:"production"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	RAGServiceURL string        `env:"RAG_SERVICE_URL" envDefault:"http://localhost:5000"`
	LessonSource  string        `env:"LESSON_SOURCE" envDefault:"rag"`
	MaxBodyBytes  int64         `env:"HTTP_MAX_BODY_BYTES" envDefault:"1048576"`
	SessionIdle   time.Duration `env:"PLAY_SESSION_IDLE" envDefault:"10m"`
}

// LoadConfig parses the environment.
func LoadConfig() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
