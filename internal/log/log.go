package log

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"github.com/tuanvumaihuynh/shelflife/internal/config"
)

// NewSlogLogger builds the process logger writing to stdout and installs it
// as the slog default.
func NewSlogLogger(cfg config.Log) *slog.Logger {
	logger := New(cfg, os.Stdout)
	slog.SetDefault(logger)

	return logger
}

// New builds a logger writing to w. JSON output is meant for shipping, TEXT
// for a terminal.
func New(cfg config.Log, w io.Writer) *slog.Logger {
	var handler slog.Handler

	switch cfg.Format {
	case config.LogFormatText:
		handler = tint.NewHandler(w, &tint.Options{
			Level:      cfg.Level,
			AddSource:  cfg.AddSource,
			TimeFormat: time.DateTime,
			NoColor:    w != os.Stdout,
			ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
				// errors in red
				if _, ok := a.Value.Any().(error); ok {
					return tint.Attr(9, a)
				}
				return a
			},
		})
	default:
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     cfg.Level,
			AddSource: cfg.AddSource,
		})
	}

	return slog.New(newContextHandler(handler)).With(slog.String("app", "shelflife"))
}
