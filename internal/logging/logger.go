package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"mediasort/internal/config"
)

// LogFileName is the log file written inside the configured log directory.
const LogFileName = "mediasort.log"

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Format string
	// OutputPaths lists "stdout", "stderr", or file paths. Empty means stderr.
	OutputPaths []string
}

// New constructs a slog logger. Debug level adds file:line sources.
func New(opts Options) (*slog.Logger, error) {
	levelVar := new(slog.LevelVar)
	levelVar.Set(ParseLevel(opts.Level))

	w, err := openWriters(opts.OutputPaths)
	if err != nil {
		return nil, err
	}
	addSource := levelVar.Level() <= slog.LevelDebug

	switch format := strings.ToLower(strings.TrimSpace(opts.Format)); format {
	case "json":
		return slog.New(newJSONHandler(w, levelVar, addSource)), nil
	case "", "console":
		return slog.New(newConsoleHandler(w, levelVar, addSource)), nil
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}
}

// NewFromConfig creates the application logger. Output goes to stderr, since
// stdout carries command results, and to LogFileName inside the log
// directory when one is configured.
func NewFromConfig(cfg *config.Config) (*slog.Logger, error) {
	if cfg == nil {
		return New(Options{OutputPaths: []string{"stderr"}})
	}

	outputs := []string{"stderr"}
	if dir := strings.TrimSpace(cfg.Paths.LogDir); dir != "" {
		outputs = append(outputs, filepath.Join(dir, LogFileName))
	}
	return New(Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: outputs,
	})
}

// ParseLevel maps a configured level name to a slog level. Unknown names
// fall back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func openWriters(paths []string) (io.Writer, error) {
	var (
		writers []io.Writer
		seen    []string
	)
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" || slices.Contains(seen, path) {
			continue
		}
		seen = append(seen, path)

		switch path {
		case "stdout":
			writers = append(writers, os.Stdout)
		case "stderr":
			writers = append(writers, os.Stderr)
		default:
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, fmt.Errorf("ensure log directory: %w", err)
			}
			file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return nil, fmt.Errorf("open log file %s: %w", path, err)
			}
			writers = append(writers, file)
		}
	}

	switch len(writers) {
	case 0:
		return os.Stderr, nil
	case 1:
		return writers[0], nil
	default:
		return io.MultiWriter(writers...), nil
	}
}
