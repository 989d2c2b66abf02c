package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// noColor is set by DisableColors before any renderer is built.
var noColor bool

// DisableColors forces plain styles regardless of terminal detection.
// The --no-color flag routes through here; the NO_COLOR environment
// variable is honored without it.
func DisableColors(disable bool) {
	noColor = disable
}

// Styles groups the lipgloss styles used across commands.
type Styles struct {
	// Header is the top-level heading.
	Header lipgloss.Style
	// Header2 is a section heading.
	Header2 lipgloss.Style
	// Bold emphasizes inline text.
	Bold lipgloss.Style
	// Muted de-emphasizes supporting detail.
	Muted lipgloss.Style
	// Entity highlights a table or CTE name.
	Entity lipgloss.Style
	// Success, Warning, Error and Info color diagnostic lines.
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
	// StatusSuccess and StatusFailed color run status marks.
	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style
}

// newStyles builds the style set for out. Styles degrade to plain text
// when out is not a terminal, when NO_COLOR is set, or when colors were
// disabled explicitly.
func newStyles(out io.Writer, isTTY bool) *Styles {
	re := lipgloss.NewRenderer(out)
	if !isTTY || noColor || termenv.EnvNoColor() {
		re.SetColorProfile(termenv.Ascii)
	}

	return &Styles{
		Header:        re.NewStyle().Bold(true).Underline(true),
		Header2:       re.NewStyle().Bold(true),
		Bold:          re.NewStyle().Bold(true),
		Muted:         re.NewStyle().Foreground(lipgloss.Color("8")),
		Entity:        re.NewStyle().Foreground(lipgloss.Color("6")),
		Success:       re.NewStyle().Foreground(lipgloss.Color("2")),
		Warning:       re.NewStyle().Foreground(lipgloss.Color("3")),
		Error:         re.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		Info:          re.NewStyle().Foreground(lipgloss.Color("4")),
		StatusSuccess: re.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		StatusFailed:  re.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
}
