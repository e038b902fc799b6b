package playback

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/abhisek/lessonscript/internal/script"
)

// Config holds playback timing.
type Config struct {
	// SpeechDuration is how long a TEACH event plays when no synthesized
	// audio length is known. Default: 2s.
	SpeechDuration time.Duration `env:"LESSONSCRIPT_SPEECH_DURATION" envDefault:"2s"`
}

// DefaultConfig returns the default playback timing.
func DefaultConfig() Config {
	return Config{SpeechDuration: 2 * time.Second}
}

// ConfigFromEnv reads LESSONSCRIPT_SPEECH_DURATION (a Go duration string),
// falling back to defaults.
func ConfigFromEnv() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return DefaultConfig(), fmt.Errorf("parse playback config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the configured durations.
func (c Config) Validate() error {
	if c.SpeechDuration < 0 {
		return fmt.Errorf("speech duration must not be negative, got %s", c.SpeechDuration)
	}
	return nil
}

// Duration returns how long ev plays before completing on its own. WAIT
// events last waitTime milliseconds, TEACH events the configured speech
// duration. INTERACT and CHOICE events never complete on a timer.
func Duration(ev script.Event, cfg Config) time.Duration {
	switch ev := ev.(type) {
	case *script.Wait:
		return time.Duration(ev.WaitTime) * time.Millisecond
	case *script.Teach:
		return cfg.SpeechDuration
	default:
		return 0
	}
}
