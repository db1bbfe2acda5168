package services_test

import (
	"errors"
	"strings"
	"testing"

	"mediasort/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("disk full")
	err := services.Wrap(services.ErrCopy, "organize", "copy", "failed to copy bike.jpg", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrCopy) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"organize", "copy", "bike.jpg", "disk full"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := services.Wrap(services.ErrResolution, "organize", "", "no source for R5pro-Term", nil)
	if !errors.Is(err, services.ErrResolution) {
		t.Fatalf("expected resolution marker, got %v", err)
	}
	if strings.Count(err.Error(), ":") != 2 {
		t.Fatalf("unexpected detail formatting: %q", err.Error())
	}
}

func TestCodeAndFatal(t *testing.T) {
	cases := []struct {
		marker error
		code   string
		fatal  bool
	}{
		{services.ErrResolution, "resolution", false},
		{services.ErrCopy, "copy", false},
		{services.ErrProbe, "probe", false},
		{services.ErrDelete, "delete", false},
		{services.ErrValidation, "validation", false},
		{services.ErrConfiguration, "configuration", true},
	}
	for _, tc := range cases {
		err := services.Wrap(tc.marker, "stage", "op", "msg", nil)
		if got := services.Code(err); got != tc.code {
			t.Fatalf("Code(%v) = %q, want %q", tc.marker, got, tc.code)
		}
		if got := services.IsFatal(err); got != tc.fatal {
			t.Fatalf("IsFatal(%v) = %v, want %v", tc.marker, got, tc.fatal)
		}
	}
	if services.Code(nil) != "" {
		t.Fatal("expected empty code for nil error")
	}
	if services.Code(errors.New("plain")) != "unknown" {
		t.Fatal("expected unknown code for unmarked error")
	}
}
