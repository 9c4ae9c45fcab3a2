package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

type statusKind int

const (
	statusOK statusKind = iota
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

var statusStyles = map[statusKind]struct {
	label string
	color string
}{
	statusOK:    {label: "OK", color: ansiGreen},
	statusWarn:  {label: "WARN", color: ansiYellow},
	statusError: {label: "ERROR", color: ansiRed},
}

// statusPrinter writes aligned "label: [KIND] detail" lines, colored when w
// is a terminal.
type statusPrinter struct {
	w          io.Writer
	colorize   bool
	labelWidth int
}

func newStatusPrinter(w io.Writer) *statusPrinter {
	return &statusPrinter{w: w, colorize: shouldColorize(w), labelWidth: 16}
}

func (p *statusPrinter) line(label string, kind statusKind, detail string) {
	style := statusStyles[kind]
	text := fmt.Sprintf("  %-*s [%s]", p.labelWidth, label+":", style.label)
	if detail != "" {
		text += " " + detail
	}
	if p.colorize {
		text = style.color + text + ansiReset
	}
	fmt.Fprintln(p.w, text)
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
