package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// stdout is the fallback destination when no log file is given.
var stdout io.Writer = os.Stdout

// SlogManager manages slog-based logging with optional extra outputs.
type SlogManager struct {
	logger *slog.Logger

	// ContextProvider, when set before Setup, adds dynamic attributes to every record.
	ContextProvider ContextProvider
}

// NewSlogManager creates a new slog-based logging manager.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// HandlerOptions returns the shared handler options for level with RFC3339 UTC timestamps.
func HandlerOptions(level string) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: parseLevel(level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}
}

// Setup initializes the logging system.
// Records go to file when it is non-nil, otherwise to stdout; extra handlers
// (graylog) receive every record as well.
func (m *SlogManager) Setup(file io.Writer, level string, extra ...slog.Handler) {
	handlerOpts := HandlerOptions(level)

	var handlers []slog.Handler

	if file != nil {
		handlers = append(handlers, slog.NewTextHandler(file, handlerOpts))
	} else {
		handlers = append(handlers, slog.NewTextHandler(stdout, handlerOpts))
	}

	handlers = append(handlers, extra...)

	var handler slog.Handler = NewMultiHandler(handlers...)
	if m.ContextProvider != nil {
		handler = NewContextHandler(handler, m.ContextProvider)
	}

	m.logger = slog.New(handler)
	m.logger.Info("Logging initialized", "level", level)
}

// Logger returns the configured slog.Logger.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		// Return a default logger if Setup hasn't been called
		return slog.Default()
	}
	return m.logger
}
