package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

var statusStyles = map[statusKind]struct {
	label string
	color string
}{
	statusInfo:  {"INFO", "\x1b[34m"},
	statusOK:    {"OK", "\x1b[32m"},
	statusWarn:  {"WARN", "\x1b[33m"},
	statusError: {"ERROR", "\x1b[31m"},
}

const (
	ansiReset        = "\x1b[0m"
	statusLabelWidth = 16
	statusIndent     = "  "
)

// statusPrinter writes aligned "Label: [KIND] message" lines, coloured when
// the destination is a terminal.
type statusPrinter struct {
	out      io.Writer
	colorize bool
}

func newStatusPrinter(out io.Writer) *statusPrinter {
	return &statusPrinter{out: out, colorize: shouldColorize(out)}
}

func (p *statusPrinter) line(label string, kind statusKind, format string, args ...any) {
	fmt.Fprintln(p.out, renderStatusLine(label, kind, fmt.Sprintf(format, args...), p.colorize))
}

func (p *statusPrinter) header(title string) {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if p.colorize {
		color := statusStyles[statusInfo].color
		line = color + line + ansiReset
		rule = color + rule + ansiReset
	}
	fmt.Fprintln(p.out, line)
	fmt.Fprintln(p.out, rule)
}

func (p *statusPrinter) block(text string) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, text)
}

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	style := statusStyles[kind]
	text := fmt.Sprintf("%s%-*s [%s]", statusIndent, statusLabelWidth, label+":", style.label)
	if message != "" {
		text += " " + message
	}
	if colorize && style.color != "" {
		return style.color + text + ansiReset
	}
	return text
}

// countStatus is OK for zero and kind otherwise.
func countStatus(n int, kind statusKind) statusKind {
	if n == 0 {
		return statusOK
	}
	return kind
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
