package classify

import (
	"slices"
	"strings"
)

// Rule is one row of the classification table. A rule matches when the
// filename contains any of its Keywords and none of its Unless keywords, or
// when the file extension is one of Extensions.
type Rule struct {
	Name       string
	Label      Category
	Keywords   []string
	Unless     []string
	Extensions []string
}

// Table is an ordered rule list; earlier rows take priority.
type Table []Rule

// DefaultTable returns the shipped rule rows, highest priority first.
func DefaultTable() Table {
	return Table{
		{
			Name:     "specs",
			Label:    Specs,
			Keywords: []string{"spec", "specs", "specification", "specifications", "parameter", "parameters", "参数", "配置"},
			Unless:   []string{"component", "components"},
		},
		{
			Name:     "geometry",
			Label:    Geometry,
			Keywords: []string{"geometry", "diagram", "sizing", "几何", "尺寸"},
		},
		{
			Name:     "component-terms",
			Label:    Components,
			Keywords: []string{"禧玛诺", "油碟", "大套", "轮峰"},
		},
		{
			Name:     "component-brands",
			Label:    Components,
			Keywords: []string{"shimano", "sram", "campagnolo", "di2", "etap", "axs", "7170"},
		},
		{
			Name:  "component-parts",
			Label: Components,
			Keywords: []string{
				"groupset", "brake", "brakes", "disc", "rotor", "crank", "crankset",
				"chain", "cassette", "derailleur", "component", "components",
			},
		},
		{
			Name:     "overlays",
			Label:    Overlays,
			Keywords: []string{"logo", "logos", "brand", "overlay", "watermark", "text", "label", "badge", "sticker"},
		},
		{
			Name:     "comparisons",
			Label:    Comparisons,
			Keywords: []string{"comparison", "compare", "vs", "versus", "side by side", "split", "before after", "difference", "对比"},
		},
		{
			Name:     "details",
			Label:    Details,
			Keywords: []string{"detail", "details", "close", "closeup", "macro", "texture", "finish", "paint", "细节"},
		},
		{
			Name:  "colors",
			Label: Colors,
			Keywords: []string{
				"color", "colors", "colour", "colours", "matte", "black", "white", "gray", "grey",
				"red", "blue", "green", "yellow", "orange", "purple", "pink", "silver", "gold", "颜色",
			},
		},
		{
			Name:       "videos",
			Label:      Videos,
			Extensions: []string{".mp4", ".mov", ".avi", ".webm"},
		},
	}
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for i, r := range t {
		r.Keywords = slices.Clone(r.Keywords)
		r.Unless = slices.Clone(r.Unless)
		r.Extensions = slices.Clone(r.Extensions)
		out[i] = r
	}
	return out
}

// WithKeywords returns a copy of the table with keywords appended to the first
// row labelled label. When no row carries the label a new row is appended
// after every existing row.
func (t Table) WithKeywords(label Category, keywords ...string) Table {
	out := t.Clone()
	cleaned := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			cleaned = append(cleaned, kw)
		}
	}
	if len(cleaned) == 0 {
		return out
	}
	for i := range out {
		if out[i].Label == label {
			out[i].Keywords = append(out[i].Keywords, cleaned...)
			return out
		}
	}
	return append(out, Rule{Name: string(label) + "-extra", Label: label, Keywords: cleaned})
}

// WithExtensions returns a copy of the table where rows labelled label match
// exactly the given extensions. An empty list leaves the table unchanged.
func (t Table) WithExtensions(label Category, extensions ...string) Table {
	out := t.Clone()
	if len(extensions) == 0 {
		return out
	}
	normalized := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized = append(normalized, ext)
	}
	for i := range out {
		if out[i].Label == label && len(out[i].Extensions) > 0 {
			out[i].Extensions = slices.Clone(normalized)
		}
	}
	return out
}
