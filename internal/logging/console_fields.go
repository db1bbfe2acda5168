package logging

import (
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"
)

type infoField struct {
	label string
	value string
}

// infoHighlightKeys are rendered first, in this order, at info level and above.
var infoHighlightKeys = []string{
	FieldEventType,
	"category",
	"rule",
	"source",
	"destination",
	"source_root",
	"target_root",
	"reason_code",
	"reason",
	FieldErrorHint,
	FieldImpact,
	"error",
	"processed",
	"organized",
	"unchanged",
	"failed",
	"skipped",
	"flagged",
	"removed",
	"kept_distinct",
}

// skippedInfoKeys are carried in the subject line or are too noisy for info output.
var skippedInfoKeys = map[string]struct{}{
	FieldEntity: {},
	FieldStage:  {},
	FieldRunID:  {},
}

func selectInfoFields(attrs []kv) []infoField {
	if len(attrs) == 0 {
		return nil
	}
	used := make([]bool, len(attrs))
	result := make([]infoField, 0, len(attrs))
	for _, key := range infoHighlightKeys {
		for idx, attr := range attrs {
			if used[idx] || attr.key != key {
				continue
			}
			used[idx] = true
			result = append(result, infoField{label: displayLabel(attr.key), value: formatValueForKey(attr.key, attr.value)})
			break
		}
	}
	for idx, attr := range attrs {
		if used[idx] {
			continue
		}
		if _, skip := skippedInfoKeys[attr.key]; skip {
			continue
		}
		result = append(result, infoField{label: displayLabel(attr.key), value: formatValueForKey(attr.key, attr.value)})
	}
	return result
}

func formatValueForKey(key string, v slog.Value) string {
	v = v.Resolve()
	if isByteSizeKey(key) {
		switch v.Kind() {
		case slog.KindInt64:
			if v.Int64() >= 0 {
				return humanize.IBytes(uint64(v.Int64()))
			}
		case slog.KindUint64:
			return humanize.IBytes(v.Uint64())
		}
	}
	if v.Kind() == slog.KindBool {
		if v.Bool() {
			return "yes"
		}
		return "no"
	}
	return formatValue(v)
}

func isByteSizeKey(key string) bool {
	return strings.HasSuffix(key, "_bytes") || key == "size"
}

func displayLabel(key string) string {
	parts := strings.Split(strings.ReplaceAll(key, ".", "_"), "_")
	for i, part := range parts {
		if part == "" {
			continue
		}
		if i == 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}
