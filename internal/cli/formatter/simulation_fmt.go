package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/apo/internal/contract"
)

// FormatTick renders the outcome of one simulated week.
func FormatTick(mode Mode, res *contract.TickResult) string {
	var b strings.Builder

	if res.Completed && res.Entry == nil {
		b.WriteString(paint(mode, StyleYellow, res.Message) + "\n")
		return b.String()
	}

	header := fmt.Sprintf("Week %d of %d", res.Week, res.TimelineWeeks)
	if mode == ModeMarkdown {
		b.WriteString("### " + header + "\n\n")
	} else {
		b.WriteString(paint(mode, StyleBold, header) + "\n")
	}
	if res.Entry != nil {
		b.WriteString(paint(mode, EventStyle(res.Entry.Severity), "● "+res.Entry.Message) + "\n")
	}
	if res.CompletedAssignments > 0 {
		b.WriteString(fmt.Sprintf("%d staged assignments completed.\n", res.CompletedAssignments))
	}
	if res.Week >= res.TimelineWeeks {
		b.WriteString(paint(mode, StyleGreen, "Project timeline finished.") + "\n")
	}

	if len(res.Log) > 0 {
		b.WriteString("\n")
		for _, e := range res.Log {
			line := fmt.Sprintf("W%-2d %-8s %s", e.Week, e.Severity, e.Message)
			if mode == ModeMarkdown {
				b.WriteString("- " + line + "\n")
				continue
			}
			b.WriteString(paint(mode, StyleDim, line) + "\n")
		}
	}
	return b.String()
}
