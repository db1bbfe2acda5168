package logging

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Local().Format(time.DateTime)
}

// attrString renders a value without quoting, for header fields.
func attrString(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindAny:
		return anyString(v.Any())
	default:
		return formatValue(v)
	}
}

// formatValue renders a value for the key=value tail. Only empty strings,
// quotes, and control characters force quoting.
func formatValue(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindBool:
		return strconv.FormatBool(v.Bool())
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindDuration:
		return v.Duration().Round(time.Millisecond).String()
	case slog.KindTime:
		return formatTimestamp(v.Time())
	case slog.KindAny:
		return quoteIfNeeded(anyString(v.Any()))
	default:
		return quoteIfNeeded(v.String())
	}
}

func anyString(v any) string {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(v)
}

func quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsFunc(s, func(r rune) bool { return r < ' ' || r == '"' }) {
		return strconv.Quote(s)
	}
	return s
}
