// Package logging provides the structured logger shared by the CLI, the
// HTTP server and the upstream clients.
package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Modes accepted by New.
const (
	ModeDevelopment = "dev"
	ModeProduction  = "prod"
)

// Logger is a key/value logger that redacts credentials and hashes session
// identifiers before they reach the sink.
type Logger struct {
	sugar *zap.SugaredLogger
}

// New builds a Logger. Production mode emits JSON, anything else emits the
// human-readable development encoding. level is a zap level name; empty
// means info.
func New(mode, level string) (*Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case ModeProduction, "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}

	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", level, err)
		}
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	z, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return &Logger{sugar: z.Sugar()}, nil
}

// Nop returns a Logger that discards everything. The TUI uses it so log
// lines never corrupt the screen.
func Nop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

// FromCore wraps an existing zap core.
func FromCore(core zapcore.Core) *Logger {
	return &Logger{sugar: zap.New(core).Sugar()}
}

func (l *Logger) Debug(msg string, kv ...any) { l.sugar.Debugw(msg, sanitize(kv)...) }
func (l *Logger) Info(msg string, kv ...any)  { l.sugar.Infow(msg, sanitize(kv)...) }
func (l *Logger) Warn(msg string, kv ...any)  { l.sugar.Warnw(msg, sanitize(kv)...) }
func (l *Logger) Error(msg string, kv ...any) { l.sugar.Errorw(msg, sanitize(kv)...) }

// With returns a child logger carrying the given fields.
func (l *Logger) With(kv ...any) *Logger {
	return &Logger{sugar: l.sugar.With(sanitize(kv)...)}
}

// Sync flushes buffered entries.
func (l *Logger) Sync() {
	_ = l.sugar.Sync()
}

const redacted = "[REDACTED]"

func sanitize(kv []any) []any {
	if len(kv) == 0 {
		return kv
	}
	out := make([]any, 0, len(kv))
	for i := 0; i < len(kv); i += 2 {
		if i == len(kv)-1 {
			out = append(out, kv[i])
			break
		}
		key := fmt.Sprint(kv[i])
		out = append(out, key, sanitizeValue(strings.ToLower(key), kv[i+1]))
	}
	return out
}

func sanitizeValue(key string, val any) any {
	switch {
	case isSecretKey(key):
		return redacted
	case strings.HasSuffix(key, "session_id"):
		return hashValue(fmt.Sprint(val))
	}
	return val
}

func isSecretKey(key string) bool {
	for _, s := range []string{"api_key", "apikey", "token", "authorization", "password", "secret"} {
		if strings.Contains(key, s) {
			return true
		}
	}
	return false
}

func hashValue(raw string) string {
	if raw == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(raw))
	return "hash:" + hex.EncodeToString(sum[:])[:12]
}
