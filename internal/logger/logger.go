// Package logger builds the process-wide slog handler.
//
// Development: tint colored output at debug level.
// Production: JSON at the configured level.
// When a Sentry DSN is set, error records are also sent to Sentry.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/lmittmann/tint"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

// Options configures New.
type Options struct {
	Dev       bool
	Level     string
	SentryDSN string
}

// New builds a logger writing to w. Call Init to install it as the default.
func New(w io.Writer, opts Options) *slog.Logger {
	level := ParseLevel(opts.Level)

	var handlers []slog.Handler
	if opts.Dev {
		handlers = append(handlers, tint.NewHandler(w, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
		}))
	} else {
		handlers = append(handlers, slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}

	if opts.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              opts.SentryDSN,
			TracesSampleRate: 1.0,
		})
		if err != nil {
			slog.New(handlers[0]).Warn("Sentry disabled, client init failed", "error", err)
		} else {
			handlers = append(handlers, slogsentry.Option{Level: slog.LevelError}.NewSentryHandler())
		}
	}

	if len(handlers) == 1 {
		return slog.New(handlers[0])
	}
	return slog.New(slogmulti.Fanout(handlers...))
}

// Init installs a stdout logger as slog's default and returns it.
func Init(opts Options) *slog.Logger {
	log := New(os.Stdout, opts)
	slog.SetDefault(log)
	return log
}

// Flush waits for buffered Sentry events. Safe to call when Sentry is off.
func Flush() {
	sentry.Flush(2 * time.Second)
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
