package testsupport

import (
	"path/filepath"
	"testing"

	"mediasort/internal/config"
)

// ConfigOption customizes the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig returns a config whose directories all live under one temp dir.
// History is disabled unless WithHistory is passed.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.SourceRoot = filepath.Join(base, "source")
	cfg.Paths.TargetRoot = filepath.Join(base, "target")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.History.Enabled = false
	cfg.History.Path = filepath.Join(base, "history.db")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithEntities replaces the entity table.
func WithEntities(entities ...config.Entity) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Entities = entities
		cfg.DiscoverEntities = false
	}
}

// WithDiscovery derives entities from the source root.
func WithDiscovery() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Entities = nil
		cfg.DiscoverEntities = true
	}
}

// WithThresholds sets the global review thresholds.
func WithThresholds(t config.Thresholds) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Review.MinWidth = t.MinWidth
		cfg.Review.MinHeight = t.MinHeight
		cfg.Review.MinFileBytes = t.MinFileBytes
		cfg.Review.MaxFileBytes = t.MaxFileBytes
	}
}

// WithInlineReview toggles reviewing during organize.
func WithInlineReview(enabled bool) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Review.Inline = enabled
	}
}

// WithHistory enables the run ledger at its temp path.
func WithHistory() ConfigOption {
	return func(cfg *config.Config) {
		cfg.History.Enabled = true
	}
}

// BaseDir returns the temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.SourceRoot)
}
