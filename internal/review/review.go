// Package review flags organized files whose classification deserves a human
// look.
//
// Review is advisory. A flag never changes a file's category or blocks its
// materialization; it only lands on the manual review checklist. The checks
// are independent size and dimension heuristics: tiny images are often logos
// or UI crops, tiny files are often graphics, and very large files often carry
// composited overlays. Every check that applies is reported.
package review

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"

	"mediasort/internal/classify"
	"mediasort/internal/config"
	"mediasort/internal/logging"
	"mediasort/internal/organizer"
	"mediasort/internal/probe"
	"mediasort/internal/scan"
)

// Code identifies why a file was flagged.
type Code string

const (
	CodeSmallImage      Code = "small_image"
	CodeSmallFile       Code = "small_file"
	CodeLargeFile       Code = "large_file"
	CodeUnreadableImage Code = "unreadable_image"
)

// Flag is one review finding.
type Flag struct {
	Entity   string
	Path     string
	Rel      string
	Category classify.Category
	Code     Code
	Reason   string
}

// Thresholds are the limits for one category. Zero disables a check.
type Thresholds struct {
	MinWidth     int
	MinHeight    int
	MinFileBytes int64
	MaxFileBytes int64
}

// Options configures a Reviewer.
type Options struct {
	// Thresholds returns the limits for a category.
	Thresholds      func(classify.Category) Thresholds
	ImageExtensions []string
	// Categories limits review to these categories; empty reviews all.
	Categories []classify.Category
	Prober     func(path string) (probe.Dimensions, error)
}

// Reviewer applies the review heuristics.
type Reviewer struct {
	opts   Options
	logger *slog.Logger
}

// New constructs a reviewer.
func New(opts Options, logger *slog.Logger) *Reviewer {
	if opts.Thresholds == nil {
		opts.Thresholds = func(classify.Category) Thresholds { return Thresholds{} }
	}
	return &Reviewer{opts: opts, logger: logging.NewComponentLogger(logger, "reviewer")}
}

// NewFromConfig constructs a reviewer from the [review] section.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) *Reviewer {
	categories := make([]classify.Category, 0, len(cfg.Review.Categories))
	for _, name := range cfg.Review.Categories {
		if c, err := classify.ParseCategory(name); err == nil {
			categories = append(categories, c)
		}
	}
	return New(Options{
		Thresholds: func(c classify.Category) Thresholds {
			t := cfg.ThresholdsFor(string(c))
			return Thresholds{MinWidth: t.MinWidth, MinHeight: t.MinHeight, MinFileBytes: t.MinFileBytes, MaxFileBytes: t.MaxFileBytes}
		},
		ImageExtensions: cfg.Review.ImageExtensions,
		Categories:      categories,
	}, logger)
}

// WithProber returns a copy of the reviewer that probes dimensions with prober.
func (r *Reviewer) WithProber(prober func(path string) (probe.Dimensions, error)) *Reviewer {
	clone := *r
	clone.opts.Prober = prober
	return &clone
}

// InScope reports whether files of this category and extension are reviewed.
func (r *Reviewer) InScope(category classify.Category, ext string) bool {
	if !slices.Contains(r.opts.ImageExtensions, strings.ToLower(ext)) {
		return false
	}
	return len(r.opts.Categories) == 0 || slices.Contains(r.opts.Categories, category)
}

// Review evaluates one organized file. record.Path and record.Rel should
// describe the file's location in the target tree.
func (r *Reviewer) Review(entity string, category classify.Category, record scan.FileRecord) []Flag {
	if !r.InScope(category, record.Ext) {
		return nil
	}
	limits := r.opts.Thresholds(category)
	newFlag := func(code Code, reason string) Flag {
		return Flag{Entity: entity, Path: record.Path, Rel: record.Rel, Category: category, Code: code, Reason: reason}
	}

	var flags []Flag
	switch {
	case record.Dims != nil:
		d := *record.Dims
		if (limits.MinWidth > 0 && d.Width < limits.MinWidth) || (limits.MinHeight > 0 && d.Height < limits.MinHeight) {
			flags = append(flags, newFlag(CodeSmallImage, fmt.Sprintf("Very small (%s) - might be component/logo", d)))
		}
	case record.ProbeErr != nil:
		flags = append(flags, newFlag(CodeUnreadableImage, "Dimensions unreadable - file may be corrupt or an unsupported format"))
	}
	if limits.MinFileBytes > 0 && record.Size < limits.MinFileBytes {
		flags = append(flags, newFlag(CodeSmallFile, fmt.Sprintf("Small file size (%s) - might be graphic/logo", humanize.IBytes(uint64(record.Size)))))
	}
	if limits.MaxFileBytes > 0 && record.Size > limits.MaxFileBytes {
		flags = append(flags, newFlag(CodeLargeFile, fmt.Sprintf("Large file (%s) - might have overlays", humanize.IBytes(uint64(record.Size)))))
	}
	return flags
}

// ReviewTree reviews every entity directory under targetRoot. The category
// of each file is recovered from the directory it sits in.
func (r *Reviewer) ReviewTree(ctx context.Context, targetRoot string) ([]Flag, error) {
	logger := logging.WithContext(ctx, r.logger)
	entries, err := os.ReadDir(targetRoot)
	if err != nil {
		return nil, fmt.Errorf("read target root: %w", err)
	}

	var flags []Flag
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		tree := organizer.NewTargetTree(targetRoot, entry.Name())
		for _, category := range classify.Categories() {
			dir := tree.Dir(category)
			if info, err := os.Stat(dir); err != nil || !info.IsDir() {
				continue
			}
			records, _, err := scan.Walk(ctx, dir, scan.Options{
				IgnoreHidden:    true,
				ProbeExtensions: r.opts.ImageExtensions,
				Prober:          r.opts.Prober,
			})
			if err != nil {
				if ctx.Err() != nil {
					return flags, ctx.Err()
				}
				logging.WarnWithContext(logger, "category directory unreadable; skipping",
					"review_dir_unreadable",
					logging.String("dir", dir),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check permissions on the target tree"),
				)
				continue
			}
			for _, record := range records {
				if strings.Contains(record.Rel, "/") {
					continue
				}
				rel, err := filepath.Rel(targetRoot, record.Path)
				if err == nil {
					record.Rel = filepath.ToSlash(rel)
				}
				flags = append(flags, r.Review(entry.Name(), category, record)...)
			}
		}
	}
	logger.Info("review pass complete", logging.Int("flags", len(flags)))
	return flags, nil
}
