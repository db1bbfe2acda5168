package classify

import (
	"path/filepath"
	"slices"
	"strings"

	"mediasort/internal/textutil"
)

// Decision records which rule decided a filename's category.
type Decision struct {
	Category Category
	// Rule is the name of the matching row, or empty when the default applied.
	Rule     string
	Keyword  string
	Priority int
}

// Default reports whether no rule matched.
func (d Decision) Default() bool {
	return d.Rule == ""
}

type keyword struct {
	raw       string
	tokens    []string
	substring bool
}

type compiledRule struct {
	rule       Rule
	keywords   []keyword
	unless     []keyword
	extensions []string
}

// Classifier evaluates a rule table against filenames. It holds no mutable
// state and is safe for concurrent use.
type Classifier struct {
	table Table
	rules []compiledRule
}

// New compiles a classifier for the given table.
func New(table Table) *Classifier {
	c := &Classifier{table: table.Clone()}
	for _, r := range c.table {
		c.rules = append(c.rules, compiledRule{
			rule:       r,
			keywords:   compileKeywords(r.Keywords),
			unless:     compileKeywords(r.Unless),
			extensions: r.Extensions,
		})
	}
	return c
}

// Table returns a copy of the rule table in priority order.
func (c *Classifier) Table() Table {
	return c.table.Clone()
}

// Classify returns the category for a filename.
func (c *Classifier) Classify(name string) Category {
	return c.Explain(name).Category
}

// Explain returns the category for a filename along with the rule that fired.
func (c *Classifier) Explain(name string) Decision {
	subject := newSubject(name)
	for i, r := range c.rules {
		if kw, ok := r.match(subject); ok {
			return Decision{Category: r.rule.Label, Rule: r.rule.Name, Keyword: kw, Priority: i + 1}
		}
	}
	return Decision{Category: Clean}
}

type subject struct {
	folded   string
	tokens   []string
	words    []string
	segments []string
	ext      string
}

func newSubject(name string) subject {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return subject{
		folded:   textutil.Fold(stem),
		tokens:   textutil.Tokenize(stem),
		words:    textutil.Words(stem),
		segments: textutil.Segments(stem),
		ext:      strings.ToLower(ext),
	}
}

func (r compiledRule) match(s subject) (string, bool) {
	if s.ext != "" && slices.Contains(r.extensions, s.ext) {
		return s.ext, true
	}
	for _, kw := range r.keywords {
		if !kw.matches(s) {
			continue
		}
		for _, veto := range r.unless {
			if veto.matches(s) {
				return "", false
			}
		}
		return kw.raw, true
	}
	return "", false
}

func compileKeywords(values []string) []keyword {
	out := make([]keyword, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if textutil.HasIdeographs(value) {
			out = append(out, keyword{raw: value, substring: true, tokens: []string{textutil.Fold(value)}})
			continue
		}
		tokens := textutil.Tokenize(value)
		if len(tokens) == 0 {
			continue
		}
		out = append(out, keyword{raw: value, tokens: tokens})
	}
	return out
}

func (k keyword) matches(s subject) bool {
	if k.substring {
		return strings.Contains(s.folded, k.tokens[0])
	}
	// Segments let counters and model numbers sit directly against a
	// keyword ("detail02", "R7170") while "di2" still matches whole.
	return textutil.ContainsSequence(s.tokens, k.tokens) ||
		textutil.ContainsSequence(s.words, k.tokens) ||
		textutil.ContainsSequence(s.segments, k.tokens)
}
