// Package logging configures the zerolog logger shared by the library client,
// the fan-out layer and the proxy.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Level is a minimum log level name.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// ParseLevel parses a level name, ignoring case. "warning" is accepted as an
// alias for warn.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return "", fmt.Errorf("unknown log level %q", s)
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Config holds logger configuration.
type Config struct {
	Level Level

	// Pretty switches from JSON lines to zerolog's console writer.
	Pretty bool

	// Output defaults to os.Stderr.
	Output io.Writer
}

// DefaultConfig returns JSON output at info level on stderr.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Output: os.Stderr,
	}
}

// Setup installs the global logger and level and returns the logger.
// Packages log through zerolog/log, so this must run before clients are built.
func Setup(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out}
	}

	zerolog.SetGlobalLevel(cfg.Level.zerolog())
	logger := zerolog.New(out).With().Timestamp().Logger()
	log.Logger = logger
	return logger
}

// NewLogger returns a child of the global logger tagged with component.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// Log level usage:
//
// Debug
//   - each backend request (endpoint, status_code, duration)
//   - fan-out dispatch and merge (resource, fanout_key, value, sub_requests,
//     duplicates)
//   - page walks of a single sub-query
//
// Info
//   - proxy startup and shutdown
//   - rate limit state changes while the budget is healthy
//
// Warn
//   - throttling in the warning band
//   - sub-queries truncated at the page limit
//   - rate limit store failures
//
// Error
//   - requests blocked in the critical band
//   - failed queries returned to proxy callers
//   - configuration errors
//
// Common fields:
//   - component: emitting component (client, library, ratelimit, proxy)
//   - endpoint: templated backend path, numeric ids replaced by {id}
//   - status_code, duration, error_class
//   - resource: exercises, muscles or movement-patterns
//   - fanout_key: body_part, muscle_id or movement_pattern
//   - remaining, reset_at: rate limit budget
