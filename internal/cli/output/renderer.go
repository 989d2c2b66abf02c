// Package output renders command results as styled text, markdown, or
// machine-readable JSON. Mode auto resolves from whether stdout is a
// terminal, so piped and redirected output stays plain.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// OutputMode selects how command results are rendered.
type OutputMode string

// Output modes.
const (
	// ModeAuto picks text on a terminal and markdown otherwise.
	ModeAuto OutputMode = "auto"
	// ModeText is styled output for humans.
	ModeText OutputMode = "text"
	// ModeMarkdown is plain structured output, safe to pipe.
	ModeMarkdown OutputMode = "markdown"
	// ModeJSON is machine-readable output.
	ModeJSON OutputMode = "json"
)

// Mode parses a mode name. Unknown values fall back to ModeAuto.
func Mode(s string) OutputMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text":
		return ModeText
	case "markdown", "md":
		return ModeMarkdown
	case "json":
		return ModeJSON
	default:
		return ModeAuto
	}
}

// Renderer writes command output in the configured mode. Primary output
// goes to out, diagnostics to errOut.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   OutputMode
	isTTY  bool
	styles *Styles
}

// NewRenderer creates a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode OutputMode) *Renderer {
	isTTY := false
	if f, ok := out.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd()))
	}
	return NewRendererWithTTY(out, errOut, isTTY, mode)
}

// NewRendererWithTTY creates a renderer with an explicit terminal state.
// Tests use it to pin the effective mode.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode OutputMode) *Renderer {
	return &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		isTTY:  isTTY,
		styles: newStyles(out, isTTY),
	}
}

// EffectiveMode resolves ModeAuto: text on a terminal, markdown when
// piped. Explicit modes pass through unchanged.
func (r *Renderer) EffectiveMode() OutputMode {
	if r.mode != ModeAuto && r.mode != "" {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// IsTTY reports whether primary output goes to a terminal.
func (r *Renderer) IsTTY() bool { return r.isTTY }

// Writer returns the destination for primary output.
func (r *Renderer) Writer() io.Writer { return r.out }

// ErrWriter returns the destination for diagnostics.
func (r *Renderer) ErrWriter() io.Writer { return r.errOut }

// Styles returns the style set matching the renderer's terminal state.
func (r *Renderer) Styles() *Styles { return r.styles }

// Println writes a line of primary output.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf writes formatted primary output.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// Header writes a heading. Text mode styles it, every other mode gets
// a markdown heading.
func (r *Renderer) Header(level int, text string) {
	if r.EffectiveMode() != ModeText {
		r.Println(FormatHeader(level, text))
		return
	}
	if level <= 1 {
		r.Println(r.styles.Header.Render(text))
		return
	}
	r.Println(r.styles.Header2.Render(text))
}

// Success writes a success line to primary output.
func (r *Renderer) Success(text string) {
	r.Println(r.styles.Success.Render(text))
}

// Muted writes a de-emphasized line to primary output.
func (r *Renderer) Muted(text string) {
	r.Println(r.styles.Muted.Render(text))
}

// Warning writes a warning line to the diagnostic stream.
func (r *Renderer) Warning(text string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Warning.Render(text))
}

// Error writes an error line to the diagnostic stream.
func (r *Renderer) Error(text string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Error.Render(text))
}

// StatusLine writes an indented status mark for name, with an optional
// detail in muted text.
func (r *Renderer) StatusLine(name, status, detail string) {
	var mark string
	switch status {
	case "success":
		mark = r.styles.StatusSuccess.Render("✓")
	case "failed":
		mark = r.styles.StatusFailed.Render("✗")
	default:
		mark = r.styles.Muted.Render("•")
	}
	if detail != "" {
		r.Printf("  %s %s %s\n", mark, name, r.styles.Muted.Render(detail))
		return
	}
	r.Printf("  %s %s\n", mark, name)
}

// JSON writes v to primary output as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
