package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) applyEnv() {
	if value, ok := os.LookupEnv(envSourceRoot); ok && strings.TrimSpace(value) != "" {
		c.Paths.SourceRoot = value
	}
	if value, ok := os.LookupEnv(envTargetRoot); ok && strings.TrimSpace(value) != "" {
		c.Paths.TargetRoot = value
	}
	if value, ok := os.LookupEnv(envReportDir); ok && strings.TrimSpace(value) != "" {
		c.Paths.ReportDir = value
	}
	if value, ok := os.LookupEnv(envLogLevel); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	if value, ok := os.LookupEnv(envHistoryPath); ok && strings.TrimSpace(value) != "" {
		c.History.Path = value
	}
}

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeEntities()
	c.normalizeClassifier()
	c.normalizeScan()
	c.normalizeReview()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.SourceRoot, err = expandPath(strings.TrimSpace(c.Paths.SourceRoot)); err != nil {
		return fmt.Errorf("paths.source_root: %w", err)
	}
	if c.Paths.TargetRoot, err = expandPath(strings.TrimSpace(c.Paths.TargetRoot)); err != nil {
		return fmt.Errorf("paths.target_root: %w", err)
	}
	if c.Paths.ReportDir, err = expandPath(strings.TrimSpace(c.Paths.ReportDir)); err != nil {
		return fmt.Errorf("paths.report_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = defaultHistoryPath
	}
	if c.History.Path, err = expandPath(strings.TrimSpace(c.History.Path)); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeEntities() {
	entities := make([]Entity, 0, len(c.Entities))
	seen := make(map[string]struct{}, len(c.Entities))
	for _, e := range c.Entities {
		e.Alias = strings.TrimSpace(e.Alias)
		e.Name = strings.TrimSpace(e.Name)
		if e.Alias == "" {
			continue
		}
		if _, dup := seen[e.Alias]; dup {
			continue
		}
		seen[e.Alias] = struct{}{}
		candidates := make([]string, 0, len(e.Candidates))
		for _, candidate := range e.Candidates {
			if candidate = strings.TrimSpace(candidate); candidate != "" {
				candidates = append(candidates, candidate)
			}
		}
		e.Candidates = candidates
		entities = append(entities, e)
	}
	c.Entities = entities
}

func (c *Config) normalizeClassifier() {
	c.Classifier.VideoExtensions = normalizeExtensions(c.Classifier.VideoExtensions, defaultVideoExtensions)
	if len(c.Classifier.ExtraKeywords) == 0 {
		return
	}
	extra := make(map[string][]string, len(c.Classifier.ExtraKeywords))
	for category, keywords := range c.Classifier.ExtraKeywords {
		key := strings.ToLower(strings.TrimSpace(category))
		for _, keyword := range keywords {
			if keyword = strings.TrimSpace(keyword); keyword != "" {
				extra[key] = append(extra[key], keyword)
			}
		}
	}
	c.Classifier.ExtraKeywords = extra
}

func (c *Config) normalizeScan() {
	names := make([]string, 0, len(c.Scan.IgnoreNames))
	for _, name := range c.Scan.IgnoreNames {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	c.Scan.IgnoreNames = names
}

func (c *Config) normalizeReview() {
	c.Review.ImageExtensions = normalizeExtensions(c.Review.ImageExtensions, defaultImageExtensions)
	categories := make([]string, 0, len(c.Review.Categories))
	for _, category := range c.Review.Categories {
		if category = strings.ToLower(strings.TrimSpace(category)); category != "" {
			categories = append(categories, category)
		}
	}
	c.Review.Categories = categories
	if len(c.Review.Overrides) > 0 {
		overrides := make(map[string]ThresholdOverride, len(c.Review.Overrides))
		for category, override := range c.Review.Overrides {
			overrides[strings.ToLower(strings.TrimSpace(category))] = override
		}
		c.Review.Overrides = overrides
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "console", "json":
	default:
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// normalizeExtensions lowercases extensions, ensures a leading dot, and drops
// duplicates. An empty result falls back to the provided defaults.
func normalizeExtensions(values []string, fallback []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		ext := strings.ToLower(strings.TrimSpace(value))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if _, dup := seen[ext]; dup {
			continue
		}
		seen[ext] = struct{}{}
		out = append(out, ext)
	}
	if len(out) == 0 {
		return append([]string(nil), fallback...)
	}
	return out
}
