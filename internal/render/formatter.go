// Package render prints timesheets and reference data for the CLI commands.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

const defaultWidth = 100

type Formatter struct {
	Writer    io.Writer
	ColorMode ColorMode
	// Width overrides the detected terminal width when non-zero.
	Width int
}

func NewFormatter(w io.Writer) *Formatter {
	return &Formatter{
		Writer:    w,
		ColorMode: ColorAuto,
	}
}

// IsColorEnabled returns true if color output is enabled.
func (f *Formatter) IsColorEnabled() bool {
	switch f.ColorMode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		if w, ok := f.Writer.(*os.File); ok {
			return isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd())
		}
		return false
	}
}

// TerminalWidth returns the width to lay tables out in.
func (f *Formatter) TerminalWidth() int {
	if f.Width > 0 {
		return f.Width
	}
	if w, ok := f.Writer.(*os.File); ok && term.IsTerminal(int(w.Fd())) {
		if width, _, err := term.GetSize(int(w.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return defaultWidth
}

func (f *Formatter) Println(a ...any) {
	fmt.Fprintln(f.Writer, a...)
}

func (f *Formatter) Printf(format string, a ...any) {
	fmt.Fprintf(f.Writer, format, a...)
}

// JSON outputs data as indented JSON.
func (f *Formatter) JSON(v any) error {
	encoder := json.NewEncoder(f.Writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func (f *Formatter) style(s string, st styler) string {
	if !f.IsColorEnabled() {
		return s
	}
	return st.Render(s)
}

type styler interface {
	Render(strs ...string) string
}
