package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"mediasort/internal/classify"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateEntities(); err != nil {
		return err
	}
	if err := c.validateClassifier(); err != nil {
		return err
	}
	if err := c.validateReview(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.SourceRoot == "" {
		return errors.New("paths.source_root must be set (or export MEDIASORT_SOURCE_ROOT)")
	}
	if c.Paths.TargetRoot == "" {
		return errors.New("paths.target_root must be set (or export MEDIASORT_TARGET_ROOT)")
	}
	if c.Paths.SourceRoot == c.Paths.TargetRoot {
		return errors.New("paths.target_root must differ from paths.source_root")
	}
	if within(c.Paths.TargetRoot, c.Paths.SourceRoot) {
		return fmt.Errorf("paths.target_root %q must not be inside paths.source_root %q", c.Paths.TargetRoot, c.Paths.SourceRoot)
	}
	return nil
}

func (c *Config) validateEntities() error {
	if !c.DiscoverEntities && len(c.Entities) == 0 {
		return errors.New("entities must list at least one alias when discover_entities is false")
	}
	for _, e := range c.Entities {
		if strings.ContainsAny(e.Name, `/\`) {
			return fmt.Errorf("entities: name %q must not contain path separators", e.Name)
		}
		for _, candidate := range e.Candidates {
			if filepath.IsAbs(candidate) {
				return fmt.Errorf("entities: candidate %q for %q must be relative to paths.source_root", candidate, e.Alias)
			}
		}
	}
	return nil
}

func (c *Config) validateClassifier() error {
	for category := range c.Classifier.ExtraKeywords {
		if _, err := classify.ParseCategory(category); err != nil {
			return fmt.Errorf("classifier.extra_keywords: %w", err)
		}
	}
	return nil
}

func (c *Config) validateReview() error {
	if err := validateThresholds("review", c.ThresholdsFor("")); err != nil {
		return err
	}
	for _, category := range c.Review.Categories {
		if _, err := classify.ParseCategory(category); err != nil {
			return fmt.Errorf("review.categories: %w", err)
		}
	}
	for category := range c.Review.Overrides {
		if _, err := classify.ParseCategory(category); err != nil {
			return fmt.Errorf("review.overrides: %w", err)
		}
		if err := validateThresholds("review.overrides."+category, c.ThresholdsFor(category)); err != nil {
			return err
		}
	}
	return nil
}

func validateThresholds(section string, t Thresholds) error {
	if t.MinWidth < 0 || t.MinHeight < 0 {
		return fmt.Errorf("%s.min_width and %s.min_height must be >= 0", section, section)
	}
	if t.MinFileBytes < 0 || t.MaxFileBytes < 0 {
		return fmt.Errorf("%s.min_file_bytes and %s.max_file_bytes must be >= 0", section, section)
	}
	if t.MaxFileBytes > 0 && t.MaxFileBytes <= t.MinFileBytes {
		return fmt.Errorf("%s.max_file_bytes must be greater than %s.min_file_bytes", section, section)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}

// within reports whether path is inside (or equal to) root.
func within(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
