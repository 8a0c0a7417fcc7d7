package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/nerrad567/handlerhub/internal/infrastructure/config"
)

// ServiceName is attached to every log entry.
const ServiceName = "handlerhub"

// Logger is a slog.Logger carrying the service and version fields. It
// satisfies the small Logger interfaces the registry, factory, lifecycle,
// audit and bridge packages declare.
type Logger struct {
	*slog.Logger
}

// New builds a Logger for cfg, writing to stdout unless cfg.Output is "stderr".
func New(cfg config.LoggingConfig, version string) *Logger {
	var w io.Writer = os.Stdout
	if strings.EqualFold(cfg.Output, "stderr") {
		w = os.Stderr
	}
	return NewWithWriter(cfg, version, w)
}

// NewWithWriter is New with an explicit destination; cfg.Output is ignored.
// Format "text" selects slog's text handler, anything else JSON.
func NewWithWriter(cfg config.LoggingConfig, version string, w io.Writer) *Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var h slog.Handler = slog.NewJSONHandler(w, opts)
	if strings.EqualFold(cfg.Format, "text") {
		h = slog.NewTextHandler(w, opts)
	}
	return &Logger{slog.New(h).With("service", ServiceName, "version", version)}
}

// parseLevel accepts debug, info, warn(ing) and error in any case.
// Anything else is info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// With returns a child Logger with extra attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{l.Logger.With(args...)}
}

// Component tags the child logger of one subsystem:
//
//	log.Component("registry").Info("handler registered", "uid", uid)
func (l *Logger) Component(name string) *Logger {
	return l.With("component", name)
}

// Default is the pre-config logger: JSON, info, stdout.
func Default() *Logger {
	return New(config.LoggingConfig{}, "dev")
}
