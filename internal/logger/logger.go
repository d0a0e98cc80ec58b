package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ekisa-team/hfserve/internal/env"
)

// Options holds logger construction options.
type Options struct {
	LogToFile bool
	LogFile   string
	Level     slog.Leveler
}

// Option mutates the logger options.
type Option func(*Options)

// WithLogToFile mirrors log output into a rotating file.
func WithLogToFile(enabled bool) Option {
	return func(o *Options) { o.LogToFile = enabled }
}

// WithLogFile sets the rotating log file path.
func WithLogFile(path string) Option {
	return func(o *Options) { o.LogFile = path }
}

// WithLevel sets the minimum log level.
func WithLevel(level slog.Leveler) Option {
	return func(o *Options) { o.Level = level }
}

// New builds the process logger. Development environments get a colored
// text handler, production gets structured JSON. File output rotates via
// lumberjack.
func New(environment env.Environment, opts ...Option) *slog.Logger {
	o := Options{
		LogFile: "logs/hfserve.log",
		Level:   slog.LevelInfo,
	}
	for _, opt := range opts {
		opt(&o)
	}

	var out io.Writer = os.Stderr
	if o.LogToFile {
		out = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   o.LogFile,
			MaxSize:    50, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		})
	}

	if environment == env.Production {
		return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: o.Level}))
	}

	return slog.New(tint.NewHandler(out, &tint.Options{
		Level:      o.Level,
		TimeFormat: time.Kitchen,
	}))
}
