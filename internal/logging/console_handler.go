package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
)

// consoleHandler renders one header line per record followed by indented
// fields:
//
//	2024-03-01 12:00:00 INFO [organizer] T10pro-2rd (organize) – file organized
//	    - Category: components
//
// Info and above show a curated field list; debug shows every raw field.
type consoleHandler struct {
	mu        *sync.Mutex
	w         io.Writer
	level     *slog.LevelVar
	attrs     []slog.Attr
	groups    []string
	addSource bool
}

type kv struct {
	key   string
	value slog.Value
}

func newConsoleHandler(w io.Writer, level *slog.LevelVar, addSource bool) slog.Handler {
	return &consoleHandler{mu: &sync.Mutex{}, w: w, level: level, addSource: addSource}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(slices.Clone(h.attrs), attrs...)
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.groups = append(slices.Clone(h.groups), name)
	return &clone
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	if !h.Enabled(context.Background(), record.Level) {
		return nil
	}

	fields := make([]kv, 0, len(h.attrs)+record.NumAttrs())
	for _, attr := range h.attrs {
		fields = flatten(fields, h.groups, attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		fields = flatten(fields, h.groups, attr)
		return true
	})
	fields = lastValueWins(fields)

	var component, entity, stage string
	body := make([]kv, 0, len(fields))
	for _, f := range fields {
		switch f.key {
		case FieldComponent:
			component = attrString(f.value)
			continue
		case FieldEntity:
			entity = attrString(f.value)
		case FieldStage:
			stage = attrString(f.value)
		}
		body = append(body, f)
	}

	var buf bytes.Buffer
	h.writeHeader(&buf, record, component, FormatSubject(entity, stage))
	if record.Level < slog.LevelInfo {
		for _, f := range body {
			fmt.Fprintf(&buf, "    %s: %s\n", f.key, formatValue(f.value))
		}
	} else {
		for _, field := range selectInfoFields(body) {
			fmt.Fprintf(&buf, "    - %s: %s\n", field.label, field.value)
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

func (h *consoleHandler) writeHeader(buf *bytes.Buffer, record slog.Record, component, subject string) {
	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	buf.WriteString(formatTimestamp(ts))
	buf.WriteByte(' ')
	buf.WriteString(levelLabel(record.Level))
	if component != "" {
		fmt.Fprintf(buf, " [%s]", component)
	}
	if subject != "" {
		buf.WriteByte(' ')
		buf.WriteString(subject)
	}
	message := strings.TrimSpace(record.Message)
	if message == "" {
		message = "(no message)"
	}
	buf.WriteString(" – ")
	buf.WriteString(message)
	if h.addSource {
		if src := record.Source(); src != nil && src.File != "" {
			fmt.Fprintf(buf, " [%s:%d]", filepath.Base(src.File), src.Line)
		}
	}
	buf.WriteByte('\n')
}

// FormatSubject renders "entity (stage)", or whichever half is present.
func FormatSubject(entity, stage string) string {
	entity = strings.TrimSpace(entity)
	stage = strings.TrimSpace(stage)
	switch {
	case entity != "" && stage != "":
		return entity + " (" + stage + ")"
	case entity != "":
		return entity
	default:
		return stage
	}
}

// flatten appends attr to dst, expanding groups into dotted keys.
func flatten(dst []kv, prefix []string, attr slog.Attr) []kv {
	if attr.Equal(slog.Attr{}) {
		return dst
	}
	value := attr.Value.Resolve()
	if value.Kind() == slog.KindGroup {
		next := prefix
		if attr.Key != "" {
			next = append(slices.Clone(prefix), attr.Key)
		}
		for _, child := range value.Group() {
			dst = flatten(dst, next, child)
		}
		return dst
	}
	key := attr.Key
	if len(prefix) > 0 {
		key = strings.Join(prefix, ".") + "." + key
	}
	return append(dst, kv{key: key, value: value})
}

// lastValueWins keeps the first position of each key with its last value.
func lastValueWins(fields []kv) []kv {
	if len(fields) < 2 {
		return fields
	}
	index := make(map[string]int, len(fields))
	out := make([]kv, 0, len(fields))
	for _, f := range fields {
		if f.key == "" {
			continue
		}
		if i, ok := index[f.key]; ok {
			out[i].value = f.value
			continue
		}
		index[f.key] = len(out)
		out = append(out, f)
	}
	return out
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
