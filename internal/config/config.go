package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the source, target, report, and log locations.
type Paths struct {
	SourceRoot string `toml:"source_root"`
	TargetRoot string `toml:"target_root"`
	ReportDir  string `toml:"report_dir"`
	LogDir     string `toml:"log_dir"`
}

// Entity maps a raw archive folder alias to a clean entity name. Candidates
// lists extra source paths, relative to the source root, that are probed after
// the built-in layouts.
type Entity struct {
	Alias      string   `toml:"alias"`
	Name       string   `toml:"name"`
	Candidates []string `toml:"candidates"`
}

// Classifier contains tunables for the filename rule table.
type Classifier struct {
	VideoExtensions []string `toml:"video_extensions"`
	// ExtraKeywords adds keywords to the rule rows of the named category
	// without changing rule priority.
	ExtraKeywords map[string][]string `toml:"extra_keywords"`
}

// Scan contains configuration for source discovery.
type Scan struct {
	IgnoreHidden    bool     `toml:"ignore_hidden"`
	IgnoreNames     []string `toml:"ignore_names"`
	ProbeDimensions bool     `toml:"probe_dimensions"`
}

// Thresholds are the size and dimension limits used by the reviewer.
type Thresholds struct {
	MinWidth     int   `toml:"min_width"`
	MinHeight    int   `toml:"min_height"`
	MinFileBytes int64 `toml:"min_file_bytes"`
	MaxFileBytes int64 `toml:"max_file_bytes"`
}

// Review contains the advisory review heuristics.
type Review struct {
	MinWidth     int   `toml:"min_width"`
	MinHeight    int   `toml:"min_height"`
	MinFileBytes int64 `toml:"min_file_bytes"`
	MaxFileBytes int64 `toml:"max_file_bytes"`
	// Inline runs the reviewer while organizing instead of only as a separate pass.
	Inline          bool     `toml:"inline"`
	ImageExtensions []string `toml:"image_extensions"`
	// Categories limits review to these categories; empty reviews every category.
	Categories []string `toml:"categories"`
	// Overrides adjusts the global thresholds for specific categories.
	Overrides map[string]ThresholdOverride `toml:"overrides"`
}

// ThresholdOverride is a per-category review section. Fields left unset keep
// the global value; an explicit 0 disables that check for the category.
type ThresholdOverride struct {
	MinWidth     *int   `toml:"min_width"`
	MinHeight    *int   `toml:"min_height"`
	MinFileBytes *int64 `toml:"min_file_bytes"`
	MaxFileBytes *int64 `toml:"max_file_bytes"`
}

func (o ThresholdOverride) merge(base Thresholds) Thresholds {
	if o.MinWidth != nil {
		base.MinWidth = *o.MinWidth
	}
	if o.MinHeight != nil {
		base.MinHeight = *o.MinHeight
	}
	if o.MinFileBytes != nil {
		base.MinFileBytes = *o.MinFileBytes
	}
	if o.MaxFileBytes != nil {
		base.MaxFileBytes = *o.MaxFileBytes
	}
	return base
}

// Dedupe contains configuration for duplicate removal.
type Dedupe struct {
	// VerifyContent requires matching size and checksum before a suffixed copy is deleted.
	VerifyContent bool `toml:"verify_content"`
}

// History contains configuration for the run ledger.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for mediasort.
//
// Configuration sections by subsystem:
//   - Paths: source/target roots, report and log directories
//   - Entities: alias table mapping archive folders to entity names
//   - Classifier: video extensions and extra keywords for the rule table
//   - Scan: discovery filters and dimension probing
//   - Review: advisory thresholds and scope
//   - Dedupe: duplicate removal policy
//   - History: SQLite run ledger
//   - Logging: log format and level
type Config struct {
	Paths Paths `toml:"paths"`
	// DiscoverEntities derives entities from the source root's subdirectories
	// instead of using the alias table.
	DiscoverEntities bool       `toml:"discover_entities"`
	Entities         []Entity   `toml:"entities"`
	Classifier       Classifier `toml:"classifier"`
	Scan             Scan       `toml:"scan"`
	Review           Review     `toml:"review"`
	Dedupe           Dedupe     `toml:"dedupe"`
	History          History    `toml:"history"`
	Logging          Logging    `toml:"logging"`
}

// Overrides carries command-line values that take precedence over the
// environment and the configuration file.
type Overrides struct {
	SourceRoot string
	TargetRoot string
	LogLevel   string
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized. Environment overrides are applied after the file.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		// A file's [[entities]] replace the shipped table instead of extending it.
		cfg.Entities = nil
		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
		if cfg.Entities == nil && !cfg.DiscoverEntities {
			cfg.Entities = DefaultEntities()
		}
	}

	cfg.applyEnv()

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// Apply layers command-line overrides on top of the loaded configuration and
// re-validates the result.
func (c *Config) Apply(o Overrides) error {
	if v := strings.TrimSpace(o.SourceRoot); v != "" {
		c.Paths.SourceRoot = v
	}
	if v := strings.TrimSpace(o.TargetRoot); v != "" {
		c.Paths.TargetRoot = v
	}
	if v := strings.TrimSpace(o.LogLevel); v != "" {
		c.Logging.Level = v
	}
	if err := c.normalize(); err != nil {
		return err
	}
	return c.Validate()
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("mediasort.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a run writes into. The source
// root is never created; a missing source is reported by preflight.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.TargetRoot, c.ReportDir(), c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if c.History.Enabled && strings.TrimSpace(c.History.Path) != "" {
		if err := os.MkdirAll(filepath.Dir(c.History.Path), 0o755); err != nil {
			return fmt.Errorf("create history directory: %w", err)
		}
	}
	return nil
}

// ReportDir returns the directory that receives the summary documents. It
// defaults to the target root.
func (c *Config) ReportDir() string {
	if dir := strings.TrimSpace(c.Paths.ReportDir); dir != "" {
		return dir
	}
	return c.Paths.TargetRoot
}

// ThresholdsFor returns the review thresholds that apply to a category.
func (c *Config) ThresholdsFor(category string) Thresholds {
	global := Thresholds{
		MinWidth:     c.Review.MinWidth,
		MinHeight:    c.Review.MinHeight,
		MinFileBytes: c.Review.MinFileBytes,
		MaxFileBytes: c.Review.MaxFileBytes,
	}
	if override, ok := c.Review.Overrides[strings.ToLower(strings.TrimSpace(category))]; ok {
		return override.merge(global)
	}
	return global
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ErrSampleExists is returned by WriteSample when the destination exists and
// overwrite was not requested.
var ErrSampleExists = errors.New("config file already exists")

// WriteSample writes the annotated sample configuration to path, or to the
// default location when path is blank, and returns the resolved destination.
func WriteSample(path string, overwrite bool) (string, error) {
	var (
		target string
		err    error
	)
	if strings.TrimSpace(path) == "" {
		target, err = DefaultConfigPath()
	} else {
		target, err = expandPath(path)
	}
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}

	flag := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if overwrite {
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	f, err := os.OpenFile(target, flag, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return target, fmt.Errorf("%w at %s (use --overwrite to replace it)", ErrSampleExists, target)
	}
	if err != nil {
		return "", fmt.Errorf("open %s: %w", target, err)
	}
	if _, err := f.WriteString(sampleConfig); err != nil {
		f.Close()
		return "", fmt.Errorf("write sample config: %w", err)
	}
	return target, f.Close()
}
