package textutil

import (
	"regexp"
	"strings"
	"unicode"
)

// Separators become dashes; characters that are unsafe on common filesystems
// are dropped.
var unsafeNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// parentheticalPattern matches ASCII and full-width parenthetical groups.
var parentheticalPattern = regexp.MustCompile(`\s*[(（][^()（）]*[)）]`)

var spaceRun = regexp.MustCompile(`\s+`)

// SanitizeFileName makes name safe to use as a single directory or file name.
// Control characters are removed, runs of whitespace collapse to one space,
// and leading or trailing dots and spaces are trimmed so the result can never
// be "." or "..".
func SanitizeFileName(name string) string {
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	name = unsafeNameReplacer.Replace(name)
	name = spaceRun.ReplaceAllString(name, " ")
	return strings.Trim(name, " .")
}

// StripParenthetical removes parenthetical suffixes such as "(105 big)" or
// "（2）" and collapses the remaining whitespace.
func StripParenthetical(value string) string {
	stripped := parentheticalPattern.ReplaceAllString(value, "")
	return strings.TrimSpace(spaceRun.ReplaceAllString(stripped, " "))
}
