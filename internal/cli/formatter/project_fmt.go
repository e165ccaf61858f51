package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/apo/internal/contract"
	"github.com/alexanderramin/apo/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// FormatProjectList renders the projects of a workspace.
func FormatProjectList(mode Mode, projects []*domain.Project, now time.Time) string {
	headers := []string{"ID", "NAME", "TYPE", "STATUS", "WEEK", "UPDATED"}
	rows := make([][]string, 0, len(projects))

	for _, p := range projects {
		id := TruncID(mode, p.ID)
		if strings.TrimSpace(p.ID) == "" {
			id = "--"
		}
		name := p.Name
		if mode == ModePretty {
			name = Bold(name)
		}
		rows = append(rows, []string{
			id,
			name,
			orDash(p.ProjectType),
			StatusPill(mode, p.Status),
			fmt.Sprintf("%d/%d", p.CurrentWeek, p.TimelineWeeks(0)),
			HumanTimestampFrom(p.UpdatedAt, now),
		})
	}
	return RenderRows(mode, "Projects", headers, rows)
}

// FormatProjectView renders a project card with its extracted plan.
func FormatProjectView(mode Mode, view *contract.ProjectView) string {
	p := view.Project
	if mode != ModePretty {
		return formatProjectViewFlat(mode, view)
	}

	left := buildMetadataPanel(view)
	right := buildMilestonePanel(p)
	combined := lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right)
	return RenderBox("", combined)
}

func buildMetadataPanel(view *contract.ProjectView) string {
	p := view.Project
	var b strings.Builder

	b.WriteString(StyleBold.Render(p.Name) + "\n")
	if view.Type.Name != "" {
		b.WriteString(StylePurple.Render(view.Type.Name) + "\n")
	}
	b.WriteString("\n")

	field := func(label, value string) {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render(fmt.Sprintf("%-8s", label)), value))
	}
	field("STATUS", StatusPill(ModePretty, p.Status))
	field("ID", TruncID(ModePretty, p.ID))
	field("WEEK", fmt.Sprintf("%d of %d", p.CurrentWeek, p.TimelineWeeks(0)))
	if p.Data != nil {
		field("BUDGET", StyleFg.Render(FormatMoney(p.Data.BudgetEstimate, p.Data.Currency)))
	}
	if p.Client.Name != "" {
		field("CLIENT", StyleFg.Render(p.Client.Name))
	}
	field("TASKS", strconv.Itoa(len(view.Tasks)))

	if p.Status == domain.ExtractionFailed && p.StatusError != "" {
		b.WriteString("\n" + StyleRed.Render(p.StatusError) + "\n")
	}
	if p.Data != nil && p.Data.Summary != "" {
		summary := lipgloss.NewStyle().Width(40).Render(p.Data.Summary)
		b.WriteString("\n" + StyleFg.Render(summary) + "\n")
	}
	if p.Data != nil && len(p.Data.Risks) > 0 {
		b.WriteString("\n" + StyleHeader.Render("RISKS") + "\n")
		for _, r := range p.Data.Risks {
			b.WriteString(fmt.Sprintf("%s %s\n", severityMark(r.Severity), r.Description))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func buildMilestonePanel(p *domain.Project) string {
	milestones := p.Milestones()
	if len(milestones) == 0 {
		return Dim("No milestones extracted yet.")
	}

	var b strings.Builder
	b.WriteString(StyleHeader.Render("MILESTONES") + "\n")
	for _, m := range milestones {
		week := StyleDim.Render(fmt.Sprintf("W%-2d", m.Week))
		b.WriteString(fmt.Sprintf("%s %s  %s %s\n",
			week,
			MilestonePill(ModePretty, m.EffectiveStatus()),
			StyleFg.Render(m.Title),
			StyleDim.Render(fmt.Sprintf("%d%%", m.CompletionPct)),
		))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatProjectViewFlat(mode Mode, view *contract.ProjectView) string {
	p := view.Project
	var b strings.Builder

	if mode == ModeMarkdown {
		b.WriteString("## " + p.Name + "\n\n")
	} else {
		b.WriteString(p.Name + "\n\n")
	}
	b.WriteString(fmt.Sprintf("Status: %s\n", p.Status))
	b.WriteString(fmt.Sprintf("ID: %s\n", p.ID))
	b.WriteString(fmt.Sprintf("Week: %d of %d\n", p.CurrentWeek, p.TimelineWeeks(0)))
	if p.StatusError != "" {
		b.WriteString(fmt.Sprintf("Error: %s\n", p.StatusError))
	}
	if p.Data != nil && p.Data.Summary != "" {
		b.WriteString("\n" + p.Data.Summary + "\n")
	}
	b.WriteString("\n")

	rows := make([][]string, 0, len(p.Milestones()))
	for _, m := range p.Milestones() {
		rows = append(rows, []string{
			strconv.Itoa(m.Week),
			m.Title,
			string(m.EffectiveStatus()),
			fmt.Sprintf("%d%%", m.CompletionPct),
			m.ID,
		})
	}
	b.WriteString(RenderRows(mode, "Milestones", []string{"WEEK", "TITLE", "STATUS", "DONE", "ID"}, rows))
	return b.String()
}

func severityMark(s domain.Severity) string {
	switch s {
	case domain.SeverityHigh:
		return StyleRed.Render("▲")
	case domain.SeverityMedium:
		return StyleYellow.Render("■")
	default:
		return StyleDim.Render("▼")
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "--"
	}
	return s
}
