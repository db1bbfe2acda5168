// Package dedupe removes redundant suffixed copies from an organized tree.
//
// A file named <stem>_<N><ext> (N >= 1) is a duplicate candidate when
// <stem><ext> exists in the same directory. With content verification enabled
// the candidate is deleted only when its size and SHA256 match the original;
// otherwise it is kept and reported. Without verification the decision is
// made on the name alone.
package dedupe

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"mediasort/internal/fileutil"
	"mediasort/internal/logging"
	"mediasort/internal/services"
)

var suffixPattern = regexp.MustCompile(`^(.+)_([1-9][0-9]*)(\.[^.]*)?$`)

// Action is what happened to a duplicate candidate.
type Action string

const (
	ActionRemoved      Action = "removed"
	ActionWouldRemove  Action = "would_remove"
	ActionKeptDistinct Action = "kept_distinct"
	ActionFailed       Action = "failed"
)

// Candidate is a suffixed file with an unsuffixed sibling.
type Candidate struct {
	Path     string
	Original string
	Rel      string
	Size     int64
	Action   Action
	Err      error
}

// Summary aggregates one deduplication pass.
type Summary struct {
	DryRun       bool
	Verified     bool
	Scanned      int
	Removed      int
	WouldRemove  int
	KeptDistinct int
	Failed       int
	FreedBytes   int64
	Candidates   []Candidate
}

// Options controls verification and dry runs.
type Options struct {
	VerifyContent bool
	DryRun        bool
}

// Deduplicator runs the duplicate removal pass.
type Deduplicator struct {
	opts   Options
	logger *slog.Logger
	remove func(string) error
}

// New constructs a deduplicator.
func New(opts Options, logger *slog.Logger) *Deduplicator {
	return &Deduplicator{opts: opts, logger: logging.NewComponentLogger(logger, "deduplicator"), remove: os.Remove}
}

// OriginalName returns the unsuffixed name for a duplicate-suffixed filename.
func OriginalName(name string) (string, bool) {
	m := suffixPattern.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	return m[1] + m[3], true
}

// Run walks root and handles every duplicate candidate. Delete failures are
// logged, counted, and skipped; only a failure to read root is returned.
func (d *Deduplicator) Run(ctx context.Context, root string) (Summary, error) {
	logger := logging.WithContext(ctx, d.logger)
	summary := Summary{DryRun: d.opts.DryRun, Verified: d.opts.VerifyContent}

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			logging.WarnWithContext(logger, "unreadable path skipped during dedupe", "dedupe_walk_error",
				logging.String("path", path),
				logging.Error(walkErr),
			)
			return nil
		}
		if entry.IsDir() {
			if path != root && strings.HasPrefix(entry.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		summary.Scanned++

		originalName, ok := OriginalName(entry.Name())
		if !ok {
			return nil
		}
		original := filepath.Join(filepath.Dir(path), originalName)
		if info, err := os.Lstat(original); err != nil || !info.Mode().IsRegular() {
			return nil
		}

		candidate := Candidate{Path: path, Original: original}
		if rel, err := filepath.Rel(root, path); err == nil {
			candidate.Rel = filepath.ToSlash(rel)
		}
		if info, err := entry.Info(); err == nil {
			candidate.Size = info.Size()
		}
		d.handle(logger, &candidate)
		summary.add(candidate)
		return nil
	})
	if err != nil {
		return summary, err
	}

	logger.Info(
		"dedupe pass complete",
		logging.Int("scanned", summary.Scanned),
		logging.Int("removed", summary.Removed),
		logging.Int("would_remove", summary.WouldRemove),
		logging.Int("kept_distinct", summary.KeptDistinct),
		logging.Int("failed", summary.Failed),
		logging.Int64("freed_bytes", summary.FreedBytes),
		logging.Bool("dry_run", summary.DryRun),
	)
	return summary, nil
}

func (d *Deduplicator) handle(logger *slog.Logger, c *Candidate) {
	if d.opts.VerifyContent {
		same, err := fileutil.SameContent(c.Original, c.Path)
		if err != nil {
			c.Action = ActionFailed
			c.Err = services.Wrap(services.ErrDelete, "dedupe", "verify content", "Unable to compare duplicate with original", err)
			logging.WarnWithContext(logger, "duplicate verification failed; file kept", "dedupe_verify_failed",
				logging.String("path", c.Path),
				logging.Error(err),
			)
			return
		}
		if !same {
			c.Action = ActionKeptDistinct
			logger.Info("suffixed file differs from original; kept",
				logging.String("path", c.Rel),
				logging.String("original", filepath.Base(c.Original)),
			)
			return
		}
	}

	if d.opts.DryRun {
		c.Action = ActionWouldRemove
		logger.Info("duplicate would be removed", logging.String("path", c.Rel))
		return
	}

	if err := d.remove(c.Path); err != nil {
		c.Action = ActionFailed
		c.Err = services.Wrap(services.ErrDelete, "dedupe", "remove duplicate", "Unable to delete duplicate", err)
		logging.WarnWithContext(logger, "duplicate removal failed; skipping", "dedupe_delete_failed",
			logging.String("path", c.Path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check write permission on the category directory"),
		)
		return
	}
	c.Action = ActionRemoved
	logger.Debug("duplicate removed", logging.String("path", c.Rel), logging.Int64("size_bytes", c.Size))
}

func (s *Summary) add(c Candidate) {
	switch c.Action {
	case ActionRemoved:
		s.Removed++
		s.FreedBytes += c.Size
	case ActionWouldRemove:
		s.WouldRemove++
	case ActionKeptDistinct:
		s.KeptDistinct++
	case ActionFailed:
		s.Failed++
	}
	s.Candidates = append(s.Candidates, c)
}
