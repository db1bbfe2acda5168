package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrResolution    = errors.New("resolution error")
	ErrCopy          = errors.New("copy error")
	ErrProbe         = errors.New("probe error")
	ErrDelete        = errors.New("delete error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrValidation
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether err should abort a whole run. Everything except
// configuration problems is recorded per file or per entity and skipped.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// Code returns a short machine-readable label for the marker carried by err.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrResolution):
		return "resolution"
	case errors.Is(err, ErrCopy):
		return "copy"
	case errors.Is(err, ErrProbe):
		return "probe"
	case errors.Is(err, ErrDelete):
		return "delete"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrValidation):
		return "validation"
	default:
		return "unknown"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "pipeline failure"
	}
	return strings.Join(parts, ": ")
}
