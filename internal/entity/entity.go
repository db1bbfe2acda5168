// Package entity maps archive aliases to logical entities and resolves the
// directory that actually holds each entity's files.
//
// Archives were extracted with inconsistent nesting, so an alias may live at
// "<alias>/<alias>", "<alias>/<stripped alias>", "<alias>", or "<stripped
// alias>" under the source root. Resolve probes these layouts in that order,
// then any configured extras, and accepts the first directory that contains
// at least one file. Resolution is read-only.
package entity

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"mediasort/internal/config"
	"mediasort/internal/scan"
	"mediasort/internal/services"
	"mediasort/internal/textutil"
)

// Entity is one logical item whose raw files are reorganized.
type Entity struct {
	Alias string
	Name  string
	// Candidates are extra source paths relative to the source root.
	Candidates []string
}

// FromConfig converts configured entries, defaulting each name to the alias
// with parenthetical suffixes stripped.
func FromConfig(entries []config.Entity) []Entity {
	out := make([]Entity, 0, len(entries))
	for _, e := range entries {
		out = append(out, New(e.Alias, e.Name, e.Candidates...))
	}
	return out
}

// New builds an entity, deriving Name from alias when name is blank.
func New(alias, name string, candidates ...string) Entity {
	alias = strings.TrimSpace(alias)
	name = strings.TrimSpace(name)
	if name == "" {
		name = CleanName(alias)
	}
	return Entity{Alias: alias, Name: name, Candidates: slices.Clone(candidates)}
}

// CleanName strips parenthetical suffixes and filesystem-unsafe characters.
func CleanName(alias string) string {
	name := textutil.SanitizeFileName(textutil.StripParenthetical(alias))
	if name == "" {
		return textutil.SanitizeFileName(alias)
	}
	return name
}

// CandidatePaths lists the directories probed for e, in priority order,
// without duplicates.
func (e Entity) CandidatePaths(sourceRoot string) []string {
	stripped := textutil.StripParenthetical(e.Alias)
	paths := []string{
		filepath.Join(sourceRoot, e.Alias, e.Alias),
	}
	if stripped != "" {
		paths = append(paths, filepath.Join(sourceRoot, e.Alias, stripped))
	}
	paths = append(paths, filepath.Join(sourceRoot, e.Alias))
	if stripped != "" {
		paths = append(paths, filepath.Join(sourceRoot, stripped))
	}
	for _, candidate := range e.Candidates {
		paths = append(paths, filepath.Join(sourceRoot, candidate))
	}

	seen := make(map[string]struct{}, len(paths))
	out := paths[:0]
	for _, p := range paths {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Resolve returns the first candidate directory that contains files not
// ignored by opts. A missing entity yields an error tagged
// services.ErrResolution.
func Resolve(e Entity, sourceRoot string, opts scan.Options) (string, error) {
	candidates := e.CandidatePaths(sourceRoot)
	for _, candidate := range candidates {
		if scan.HasFiles(candidate, opts) {
			return candidate, nil
		}
	}
	return "", services.Wrap(
		services.ErrResolution,
		"resolve",
		"locate source root",
		fmt.Sprintf("No candidate directory with files for %q (tried %d layouts)", e.Alias, len(candidates)),
		nil,
	)
}

// Discover derives entities from the non-hidden subdirectories of sourceRoot,
// sorted by name.
func Discover(sourceRoot string) ([]Entity, error) {
	entries, err := os.ReadDir(sourceRoot)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "resolve", "discover entities", "Unable to list source root", err)
	}
	var out []Entity
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") || entry.Name() == "__MACOSX" {
			continue
		}
		out = append(out, New(entry.Name(), ""))
	}
	return out, nil
}
