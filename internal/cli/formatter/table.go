package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Mode selects how tabular output is rendered.
type Mode int

const (
	// ModePretty draws lipgloss-styled tables inside a rounded box.
	ModePretty Mode = iota
	// ModePlain draws an uncolored ASCII table for pipes and logs.
	ModePlain
	// ModeMarkdown draws a GitHub-flavoured markdown table.
	ModeMarkdown
)

// RenderTable renders a simple aligned table with a header separator line.
// Columns are padded to the widest visible cell so styled content lines up.
func RenderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	cols := len(headers)

	widths := make([]int, cols)
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < cols && i < len(row); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	const colGap = 2
	var b strings.Builder

	for i, h := range headers {
		b.WriteString(StyleHeader.Render(h))
		if i < cols-1 {
			b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(h)+colGap))
		}
	}
	b.WriteString("\n")

	for i, w := range widths {
		b.WriteString(StyleDim.Render(strings.Repeat("─", w)))
		if i < cols-1 {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")

	for _, row := range rows {
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			b.WriteString(cell)
			if i < cols-1 {
				pad := max(widths[i]-lipgloss.Width(cell), 0)
				b.WriteString(strings.Repeat(" ", pad+colGap))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RenderRows renders a titled table in the requested mode.
func RenderRows(mode Mode, title string, headers []string, rows [][]string) string {
	if mode == ModePretty {
		if len(rows) == 0 {
			return RenderBox(title, Dim("(none)"))
		}
		return RenderBox(title, strings.TrimRight(RenderTable(headers, rows), "\n"))
	}

	tw := table.NewWriter()
	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)
	for _, r := range rows {
		row := make(table.Row, len(r))
		for i, c := range r {
			row[i] = c
		}
		tw.AppendRow(row)
	}
	if mode == ModeMarkdown {
		out := tw.RenderMarkdown()
		if title != "" {
			out = "### " + title + "\n\n" + out
		}
		return out + "\n"
	}
	out := tw.Render() + "\n"
	if title != "" {
		// go-pretty wraps titles to the table width.
		out = strings.ToUpper(title) + "\n" + out
	}
	return out
}
