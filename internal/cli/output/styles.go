package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles holds the lipgloss styles of a renderer.
type Styles struct {
	Muted    lipgloss.Style
	Bold     lipgloss.Style
	Header1  lipgloss.Style
	Header2  lipgloss.Style
	Warning  lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Info     lipgloss.Style
	FilePath lipgloss.Style

	DiffAdd    lipgloss.Style
	DiffDelete lipgloss.Style
	DiffHunk   lipgloss.Style
	DiffFile   lipgloss.Style
}

// NewStyles creates styles for w. Without a terminal every style renders
// plain text.
func NewStyles(w io.Writer, isTTY bool) *Styles {
	re := lipgloss.NewRenderer(w)
	if isTTY {
		re.SetColorProfile(termenv.ANSI256)
	} else {
		re.SetColorProfile(termenv.Ascii)
	}

	green := lipgloss.Color("2")
	red := lipgloss.Color("1")
	yellow := lipgloss.Color("3")
	cyan := lipgloss.Color("6")
	gray := lipgloss.Color("8")

	return &Styles{
		Muted:    re.NewStyle().Foreground(gray),
		Bold:     re.NewStyle().Bold(true),
		Header1:  re.NewStyle().Bold(true).Underline(true),
		Header2:  re.NewStyle().Bold(true),
		Warning:  re.NewStyle().Foreground(yellow),
		Success:  re.NewStyle().Foreground(green),
		Error:    re.NewStyle().Foreground(red).Bold(true),
		Info:     re.NewStyle().Foreground(cyan),
		FilePath: re.NewStyle().Foreground(cyan),

		DiffAdd:    re.NewStyle().Foreground(green),
		DiffDelete: re.NewStyle().Foreground(red),
		DiffHunk:   re.NewStyle().Foreground(cyan),
		DiffFile:   re.NewStyle().Bold(true),
	}
}

// StatusIcon returns the styled icon of a status.
func (s *Styles) StatusIcon(status string) string {
	switch status {
	case "success", "unchanged":
		return s.Success.Render("✓")
	case "changed", "written":
		return s.Warning.Render("~")
	case "failed":
		return s.Error.Render("✗")
	case "skipped":
		return s.Muted.Render("-")
	default:
		return s.Muted.Render("•")
	}
}
