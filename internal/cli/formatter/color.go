package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/apo/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
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
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// BandColor returns the style for a workload band. Overloaded is red.
func BandColor(band domain.WorkloadBand) lipgloss.Style {
	switch band {
	case domain.BandOverloaded:
		return StyleRed
	case domain.BandBalanced:
		return StyleYellow
	case domain.BandAvailable:
		return StyleGreen
	default:
		return StyleDim
	}
}

// BandIndicator renders a band such as "● OVERLOADED".
func BandIndicator(mode Mode, band domain.WorkloadBand) string {
	label := "● " + strings.ToUpper(string(band))
	if band == "" {
		label = "● UNKNOWN"
	}
	return paint(mode, BandColor(band), label)
}

// EventStyle colors a simulation log entry by severity.
func EventStyle(sev domain.EventSeverity) lipgloss.Style {
	switch sev {
	case domain.EventSuccess:
		return StyleGreen
	case domain.EventWarning:
		return StyleYellow
	case domain.EventInfo:
		return StyleBlue
	default:
		return StyleFg
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}

// paint applies style only in pretty mode so plain and markdown output stay
// free of escape sequences.
func paint(mode Mode, style lipgloss.Style, text string) string {
	if mode != ModePretty {
		return text
	}
	return style.Render(text)
}
