// Package output renders command results for terminals, pipes and tools.
//
// Text mode is styled for humans, markdown mode is plain and agent
// friendly, JSON mode is for scripts. Auto mode picks text on a terminal
// and markdown otherwise.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// OutputMode selects how results are rendered.
type OutputMode string

// Output modes.
const (
	ModeAuto     OutputMode = "auto"
	ModeText     OutputMode = "text"
	ModeMarkdown OutputMode = "markdown"
	ModeJSON     OutputMode = "json"
)

// Mode parses a mode name. Unknown and empty names are ModeAuto.
func Mode(s string) OutputMode {
	switch m := OutputMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeText, ModeMarkdown, ModeJSON:
		return m
	}
	return ModeAuto
}

// Renderer writes command output in one mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   OutputMode
	isTTY  bool
	styles *Styles
}

// NewRenderer creates a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode OutputMode) *Renderer {
	return NewRendererWithTTY(out, errOut, IsTerminal(out), mode)
}

// NewRendererWithTTY creates a renderer with an explicit terminal state.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode OutputMode) *Renderer {
	return &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		isTTY:  isTTY,
		styles: NewStyles(out, isTTY),
	}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// EffectiveMode resolves ModeAuto against the terminal state.
func (r *Renderer) EffectiveMode() OutputMode {
	if r.mode != ModeAuto && r.mode != "" {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// Styles returns the styles for this renderer's output.
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Writer returns the standard output writer.
func (r *Renderer) Writer() io.Writer {
	return r.out
}

// ErrWriter returns the diagnostic writer.
func (r *Renderer) ErrWriter() io.Writer {
	return r.errOut
}

// IsTTY reports whether output goes to a terminal.
func (r *Renderer) IsTTY() bool {
	return r.isTTY
}

// Println writes a line to standard output.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf writes formatted text to standard output.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// Header writes a section header.
func (r *Renderer) Header(level int, text string) {
	if r.EffectiveMode() != ModeText {
		r.Println(FormatHeader(level, text))
		r.Println("")
		return
	}
	style := r.styles.Header2
	if level <= 1 {
		style = r.styles.Header1
	}
	r.Println(style.Render(text))
}

// Success writes a success message.
func (r *Renderer) Success(msg string) {
	r.message(r.styles.Success.Render("✓"), msg)
}

// Warning writes a warning to the diagnostic writer.
func (r *Renderer) Warning(msg string) {
	prefix := r.styles.Warning.Render("!")
	if r.EffectiveMode() != ModeText {
		prefix = "**Warning:**"
	}
	_, _ = fmt.Fprintf(r.errOut, "%s %s\n", prefix, msg)
}

// Error writes an error to the diagnostic writer.
func (r *Renderer) Error(msg string) {
	prefix := r.styles.Error.Render("✗")
	if r.EffectiveMode() != ModeText {
		prefix = "**Error:**"
	}
	_, _ = fmt.Fprintf(r.errOut, "%s %s\n", prefix, msg)
}

// Muted writes secondary information.
func (r *Renderer) Muted(msg string) {
	if r.EffectiveMode() != ModeText {
		r.Println(msg)
		return
	}
	r.Println(r.styles.Muted.Render(msg))
}

func (r *Renderer) message(icon, msg string) {
	if r.EffectiveMode() != ModeText {
		r.Println(msg)
		return
	}
	r.Printf("%s %s\n", icon, msg)
}

// StatusLine writes one item with its status: success, changed, failed,
// skipped or pending.
func (r *Renderer) StatusLine(name, status, detail string) {
	if r.EffectiveMode() != ModeText {
		line := fmt.Sprintf("- %s: %s", name, status)
		if detail != "" {
			line += " (" + detail + ")"
		}
		r.Println(line)
		return
	}
	line := fmt.Sprintf("  %s %s", r.styles.StatusIcon(status), r.styles.FilePath.Render(name))
	if detail != "" {
		line += " " + r.styles.Muted.Render(detail)
	}
	r.Println(line)
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// FormatHeader returns a markdown header.
func FormatHeader(level int, text string) string {
	level = max(level, 1)
	return strings.Repeat("#", level) + " " + text
}

// FormatKeyValue returns a markdown list item for a key and value.
func FormatKeyValue(key, value string) string {
	return fmt.Sprintf("- **%s:** %s", key, value)
}
