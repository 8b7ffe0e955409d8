package formatter

import (
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/alexanderramin/boardsync/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// ConfigureColor turns styling off when w is not a terminal so piped output
// stays free of escape sequences.
func ConfigureColor(w io.Writer) {
	f, ok := w.(*os.File)
	if ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		lipgloss.SetColorProfile(termenv.NewOutput(f).EnvColorProfile())
		return
	}
	lipgloss.SetColorProfile(termenv.Ascii)
}

// PriorityStyle returns the style used for a task priority.
func PriorityStyle(p domain.Priority) lipgloss.Style {
	switch p {
	case domain.PriorityHigh:
		return StyleRed
	case domain.PriorityMedium:
		return StyleYellow
	case domain.PriorityLow:
		return StyleBlue
	default:
		return StyleDim
	}
}

// PriorityIndicator returns a short colored marker such as "▲ high".
// Tasks without a priority get an empty string.
func PriorityIndicator(p domain.Priority) string {
	switch p {
	case domain.PriorityHigh:
		return StyleRed.Render("▲ high")
	case domain.PriorityMedium:
		return StyleYellow.Render("● medium")
	case domain.PriorityLow:
		return StyleBlue.Render("▽ low")
	default:
		return ""
	}
}

// Header renders a section header with an underline.
func Header(text string) string {
	line := strings.Repeat("─", utf8.RuneCountInString(text))
	return StyleHeader.Render(text) + "\n" + StyleDim.Render(line)
}

// Dim renders text in the muted color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
