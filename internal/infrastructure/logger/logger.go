package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logger configuration.
type Config struct {
	Level    string // trace, debug, info, warn, error
	Format   string // json, console
	Timezone string // ledger timezone, stamped on every line when set
	Output   io.Writer
}

// New builds the process logger. Timestamps are always UTC; the ledger
// timezone travels as a field so day boundaries can be read off the logs.
func New(cfg Config) zerolog.Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}
	}

	ctx := zerolog.New(output).
		Level(parseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("service", "cajaledger")

	if cfg.Timezone != "" {
		ctx = ctx.Str("ledger_tz", cfg.Timezone)
	}

	return ctx.Logger()
}

// Component tags a logger with the background component writing to it.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}

func parseLevel(level string) zerolog.Level {
	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || parsed == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return parsed
}

func init() {
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
}
