// Package logger configures the process-wide zerolog logger.
package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is the global logger; Init replaces it
var Logger = log.Logger

// Config controls level and output format
type Config struct {
	Level        string `json:"level" yaml:"level"`   // debug, info, warn, error
	Format       string `json:"format" yaml:"format"` // json or pretty
	TimeFormat   string `json:"time_format" yaml:"time_format"`
	ReportCaller bool   `json:"report_caller" yaml:"report_caller"`
	// Out overrides stdout; used by tests
	Out io.Writer `json:"-" yaml:"-"`
}

// Init builds the global logger from config. Unknown levels fall back to info.
func Init(config Config) {
	level, err := zerolog.ParseLevel(config.Level)
	if err != nil || config.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	out := config.Out
	if out == nil {
		out = os.Stdout
	}
	var output io.Writer = out
	if config.Format == "pretty" {
		output = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: config.TimeFormat,
		}
	}

	if config.TimeFormat == "" {
		zerolog.TimeFieldFormat = time.RFC3339
	} else {
		zerolog.TimeFieldFormat = config.TimeFormat
	}

	ctxLogger := zerolog.New(output).
		Level(level).
		With().
		Timestamp()
	if config.ReportCaller {
		ctxLogger = ctxLogger.Caller()
	}

	Logger = ctxLogger.Logger()
	log.Logger = Logger
	// zerolog.Ctx falls back to this for contexts without a logger
	zerolog.DefaultContextLogger = &Logger
}

// Ctx returns the logger carried by ctx
func Ctx(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithContext returns ctx carrying the global logger
func WithContext(ctx context.Context) context.Context {
	return Logger.WithContext(ctx)
}
