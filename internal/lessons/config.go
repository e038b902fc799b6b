package lessons

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Lesson sources.
const (
	SourceRAG = "rag"
	SourceLLM = "llm"
)

// Config holds lesson service settings.
type Config struct {
	// Source selects where lesson text comes from: the RAG service or a
	// language model prompted directly.
	Source string `env:"LESSON_SOURCE" envDefault:"rag"`

	DefaultChapter string `env:"LESSONSCRIPT_DEFAULT_CHAPTER" envDefault:"General Knowledge"`
	DefaultSubject string `env:"LESSONSCRIPT_DEFAULT_SUBJECT" envDefault:"General"`

	// BatchConcurrency bounds CompileBatch workers.
	BatchConcurrency int `env:"LESSONSCRIPT_BATCH_CONCURRENCY" envDefault:"4"`
}

// DefaultConfig returns sensible defaults for the lesson service.
func DefaultConfig() Config {
	return Config{
		Source:           SourceRAG,
		DefaultChapter:   "General Knowledge",
		DefaultSubject:   "General",
		BatchConcurrency: 4,
	}
}

// ConfigFromEnv reads the lesson service settings from the environment.
func ConfigFromEnv() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse lessons config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the source name and batch size.
func (c Config) Validate() error {
	switch c.Source {
	case SourceRAG, SourceLLM:
	default:
		return fmt.Errorf("unknown lesson source %q (want %q or %q)", c.Source, SourceRAG, SourceLLM)
	}
	if c.BatchConcurrency < 1 {
		return fmt.Errorf("batch concurrency must be at least 1, got %d", c.BatchConcurrency)
	}
	return nil
}
