// Package scan discovers the files under an entity's source root.
//
// Walk produces one FileRecord per regular file, sorted by relative path so
// collision numbering is reproducible between runs. Hidden entries and
// archive junk (".DS_Store", "__MACOSX", ...) are reported as skipped rather
// than organized. Image dimensions are probed best effort.
package scan

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"mediasort/internal/probe"
)

// FileRecord is a discovered source file.
type FileRecord struct {
	Path    string
	Rel     string
	Name    string
	Ext     string
	Size    int64
	ModTime time.Time
	// Dims is nil when the file is not a probed image or probing failed.
	Dims     *probe.Dimensions
	ProbeErr error
}

// IsImage reports whether the record's extension is in the given set.
func (r FileRecord) IsImage(extensions []string) bool {
	return slices.Contains(extensions, r.Ext)
}

// Skipped is an entry Walk deliberately ignored.
type Skipped struct {
	Path   string
	Reason string
}

// Options controls discovery filters and probing.
type Options struct {
	IgnoreHidden bool
	IgnoreNames  []string
	// ProbeExtensions lists lowercase extensions whose dimensions are probed.
	// Empty disables probing.
	ProbeExtensions []string
	// Prober overrides probe.Image, mainly for tests.
	Prober func(path string) (probe.Dimensions, error)
}

// Walk returns the files beneath root. Per-entry read errors are returned as
// skipped entries; only a failure to read root itself is an error.
func Walk(ctx context.Context, root string, opts Options) ([]FileRecord, []Skipped, error) {
	prober := opts.Prober
	if prober == nil {
		prober = probe.Image
	}
	var (
		records []FileRecord
		skipped []Skipped
	)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			skipped = append(skipped, Skipped{Path: path, Reason: walkErr.Error()})
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}
		if reason, ignore := ignored(d.Name(), opts); ignore {
			skipped = append(skipped, Skipped{Path: path, Reason: reason})
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			skipped = append(skipped, Skipped{Path: path, Reason: "not a regular file"})
			return nil
		}
		info, err := d.Info()
		if err != nil {
			skipped = append(skipped, Skipped{Path: path, Reason: err.Error()})
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = d.Name()
		}
		record := FileRecord{
			Path:    path,
			Rel:     filepath.ToSlash(rel),
			Name:    d.Name(),
			Ext:     strings.ToLower(filepath.Ext(d.Name())),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}
		if record.IsImage(opts.ProbeExtensions) {
			dims, err := prober(path)
			if err != nil {
				record.ProbeErr = err
			} else {
				record.Dims = &dims
			}
		}
		records = append(records, record)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	slices.SortFunc(records, func(a, b FileRecord) int { return strings.Compare(a.Rel, b.Rel) })
	return records, skipped, nil
}

// HasFiles reports whether root is a directory containing at least one
// regular file at any depth that Walk would not ignore.
func HasFiles(root string, opts Options) bool {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return false
	}
	errFound := errors.New("found")
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || path == root {
			return nil
		}
		if _, ignore := ignored(d.Name(), opts); ignore {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			return errFound
		}
		return nil
	})
	return errors.Is(err, errFound)
}

func ignored(name string, opts Options) (string, bool) {
	if slices.Contains(opts.IgnoreNames, name) {
		return "ignored name", true
	}
	if opts.IgnoreHidden && strings.HasPrefix(name, ".") {
		return "hidden", true
	}
	return "", false
}
