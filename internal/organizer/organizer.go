package organizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"mediasort/internal/classify"
	"mediasort/internal/fileutil"
	"mediasort/internal/logging"
	"mediasort/internal/scan"
	"mediasort/internal/services"
)

const maxCollisionAttempts = 10000

// Status is the outcome of materializing one file.
type Status string

const (
	StatusCopied    Status = "copied"
	StatusUnchanged Status = "unchanged"
	StatusFailed    Status = "failed"
)

// Result describes where a source file ended up.
type Result struct {
	Source   string
	Dest     string
	Category classify.Category
	Status   Status
	Err      error
}

// TargetTree is the directory layout for one entity.
type TargetTree struct {
	Root string
}

// NewTargetTree returns the tree for an entity under targetRoot.
func NewTargetTree(targetRoot, entityName string) TargetTree {
	return TargetTree{Root: filepath.Join(targetRoot, entityName)}
}

// Dir returns the directory for a category. It does not create it.
func (t TargetTree) Dir(c classify.Category) string {
	return filepath.Join(t.Root, filepath.FromSlash(c.Subdir()))
}

// Ensure creates the category directory and returns it.
func (t TargetTree) Ensure(c classify.Category) (string, error) {
	dir := t.Dir(c)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// Materializer copies classified files into target trees.
type Materializer struct {
	logger *slog.Logger
	copy   func(src, dst string) error
}

// New constructs a materializer using the metadata-preserving copier.
func New(logger *slog.Logger) *Materializer {
	return NewWithCopier(logger, fileutil.CopyExclusive)
}

// NewWithCopier allows injecting the copy function (used in tests). The
// copier must fail with os.ErrExist when dst already exists.
func NewWithCopier(logger *slog.Logger, copier func(src, dst string) error) *Materializer {
	return &Materializer{
		logger: logging.NewComponentLogger(logger, "materializer"),
		copy:   copier,
	}
}

// Materialize copies record into the category directory of tree. Failures are
// reported in the Result with an error tagged services.ErrCopy; they never
// panic or abort the caller.
func (m *Materializer) Materialize(ctx context.Context, tree TargetTree, record scan.FileRecord, category classify.Category) Result {
	logger := logging.WithContext(ctx, m.logger)
	result := Result{Source: record.Path, Category: category}

	dir, err := tree.Ensure(category)
	if err != nil {
		return failed(result, "ensure category dir", "Unable to create category directory; check target_root permissions", err)
	}

	stem, ext := splitName(record.Name)
	for attempt := 0; attempt < maxCollisionAttempts; attempt++ {
		candidate := filepath.Join(dir, suffixedName(stem, ext, attempt))
		if _, statErr := os.Lstat(candidate); statErr == nil {
			same, cmpErr := fileutil.SameContent(record.Path, candidate)
			if cmpErr != nil {
				return failed(result, "compare existing file", "Unable to compare with existing destination", cmpErr)
			}
			if same {
				result.Dest = candidate
				result.Status = StatusUnchanged
				logger.Debug("destination already holds identical content", logging.String("dest", candidate))
				return result
			}
			continue
		} else if !errors.Is(statErr, os.ErrNotExist) {
			return failed(result, "stat destination", "Unable to inspect destination", statErr)
		}

		if err := m.copy(record.Path, candidate); err != nil {
			if errors.Is(err, os.ErrExist) {
				continue
			}
			return failed(result, "copy file", "Copy failed; check disk space and permissions", err)
		}
		result.Dest = candidate
		result.Status = StatusCopied
		logger.Debug(
			"file materialized",
			logging.String("category", string(category)),
			logging.String("dest", candidate),
			logging.Int64("size_bytes", record.Size),
			logging.Bool("renamed", attempt > 0),
		)
		return result
	}
	return failed(result, "allocate filename", fmt.Sprintf("Exhausted %d collision suffixes", maxCollisionAttempts), nil)
}

func failed(result Result, operation, message string, err error) Result {
	result.Status = StatusFailed
	result.Err = services.Wrap(services.ErrCopy, "materialize", operation, message, err)
	return result
}

// splitName separates a filename into stem and extension. Dot-leading names
// without a further dot have no extension.
func splitName(name string) (string, string) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if stem == "" {
		return name, ""
	}
	return stem, ext
}

func suffixedName(stem, ext string, n int) string {
	if n == 0 {
		return stem + ext
	}
	return fmt.Sprintf("%s_%d%s", stem, n, ext)
}
