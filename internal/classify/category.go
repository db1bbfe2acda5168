package classify

import (
	"fmt"
	"path"
	"strings"
)

// Category is the normalized bucket a file is organized into.
type Category string

const (
	Clean       Category = "clean"
	Details     Category = "details"
	Colors      Category = "colors"
	Geometry    Category = "geometry"
	Components  Category = "components"
	Overlays    Category = "overlays"
	Comparisons Category = "comparisons"
	Specs       Category = "specs"
	Videos      Category = "videos"
)

// Categories returns every category in target tree layout order.
func Categories() []Category {
	return []Category{Clean, Details, Colors, Geometry, Components, Overlays, Comparisons, Specs, Videos}
}

// Subdir returns the category's directory relative to an entity root.
func (c Category) Subdir() string {
	switch c {
	case Clean, Details, Colors, Geometry:
		return path.Join("images", string(c))
	default:
		return string(c)
	}
}

// Valid reports whether c is one of the closed category set.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory accepts a category name or its subdirectory ("images/clean").
func ParseCategory(value string) (Category, error) {
	normalized := strings.ToLower(strings.Trim(strings.TrimSpace(strings.ReplaceAll(value, "\\", "/")), "/"))
	for _, c := range Categories() {
		if normalized == string(c) || normalized == c.Subdir() {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", value)
}
