package logging

import (
	"log/slog"
	"slices"
	"time"
)

// Attr aliases slog.Attr so callers only import this package.
type Attr = slog.Attr

func String(key, value string) Attr { return slog.String(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func Int64(key string, value int64) Attr { return slog.Int64(key, value) }

func Bool(key string, value bool) Attr { return slog.Bool(key, value) }

func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }

// Error renders err under the "error" key. A nil error is kept visible.
func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// Args converts attributes into the variadic form accepted by slog.Logger.
func Args(attrs ...Attr) []any {
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}
	return args
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// NewComponentLogger tags logger with a component name. A nil logger yields a
// component-tagged no-op logger.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

const (
	defaultErrorHint = "check logs for details"
	defaultImpact    = "run continues with remaining files"
)

// WarnWithContext logs a recoverable failure. Every warning carries
// event_type, error_hint, and impact; missing ones get defaults.
func WarnWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	attrs = withDefault(attrs, FieldEventType, eventType)
	attrs = withDefault(attrs, FieldErrorHint, defaultErrorHint)
	attrs = withDefault(attrs, FieldImpact, defaultImpact)
	logger.Warn(msg, Args(attrs...)...)
}

// ErrorWithContext logs a failure that ends the current stage. Every error
// carries event_type and error_hint.
func ErrorWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	attrs = withDefault(attrs, FieldEventType, eventType)
	attrs = withDefault(attrs, FieldErrorHint, defaultErrorHint)
	logger.Error(msg, Args(attrs...)...)
}

func withDefault(attrs []Attr, key, value string) []Attr {
	if slices.ContainsFunc(attrs, func(a Attr) bool { return a.Key == key }) {
		return attrs
	}
	return append(attrs, String(key, value))
}
