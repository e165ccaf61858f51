package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/apo/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// HumanTimestampFrom returns a relative timestamp such as "5m ago".
func HumanTimestampFrom(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < 0:
		return t.Format("Jan 2, 2006")
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return t.Format("Jan 2, 2006")
	}
}

// StatusPill returns a colored indicator for a project's extraction status.
func StatusPill(mode Mode, status domain.ExtractionStatus) string {
	switch status {
	case domain.ExtractionCompleted:
		return paint(mode, StyleGreen, "✔ Completed")
	case domain.ExtractionParsing:
		return paint(mode, StyleYellow, "◌ Parsing")
	case domain.ExtractionFailed:
		return paint(mode, StyleRed, "✖ Failed")
	case domain.ExtractionIdle:
		return paint(mode, StyleDim, "○ Idle")
	default:
		return paint(mode, StyleDim, string(status))
	}
}

// MilestonePill returns a colored indicator for a milestone status.
func MilestonePill(mode Mode, status domain.MilestoneStatus) string {
	switch status {
	case domain.MilestoneCompleted:
		return paint(mode, StyleGreen, "✔ Completed")
	case domain.MilestoneInProgress:
		return paint(mode, StyleBlue, "● In Progress")
	case domain.MilestoneBlocked:
		return paint(mode, StyleRed, "⊘ Blocked")
	default:
		return paint(mode, StyleDim, "○ Pending")
	}
}

// PresencePill returns a colored indicator for a worker's presence.
func PresencePill(mode Mode, p domain.Presence) string {
	switch p {
	case domain.PresenceOnline:
		return paint(mode, StyleGreen, "● online")
	case domain.PresenceBusy:
		return paint(mode, StyleRed, "● busy")
	case domain.PresenceAway:
		return paint(mode, StyleYellow, "● away")
	default:
		return paint(mode, StyleDim, "○ offline")
	}
}

// TruncID returns the first 8 characters of an ID, dimmed in pretty mode.
func TruncID(mode Mode, id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return paint(mode, StyleDim, id)
}

// FormatHours renders hours without trailing zeros: 8h, 7.5h.
func FormatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64) + "h"
}

// FormatMoney renders a budget with its currency code.
func FormatMoney(amount float64, currency string) string {
	if amount <= 0 {
		return "--"
	}
	if currency == "" {
		currency = "USD"
	}
	return fmt.Sprintf("%s %s", strings.ToUpper(currency), strconv.FormatFloat(amount, 'f', -1, 64))
}
