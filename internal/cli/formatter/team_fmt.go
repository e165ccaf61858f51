package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/apo/internal/contract"
	"github.com/alexanderramin/apo/internal/domain"
)

// FormatTeamWorkload renders per-worker utilization with a team summary.
func FormatTeamWorkload(mode Mode, tw *contract.TeamWorkload) string {
	headers := []string{"WORKER", "ROLE", "PRESENCE", "LOAD", "COMMITTED", "FREE", "BAND"}
	rows := make([][]string, 0, len(tw.Workers))
	for _, ww := range tw.Workers {
		rows = append(rows, []string{
			workerLabel(ww.Worker),
			ww.Worker.Role(),
			PresencePill(mode, ww.Worker.Presence),
			RenderUtilization(mode, ww.Workload.RoundedPct, 10),
			FormatHours(ww.Workload.HoursCommitted) + " / " + FormatHours(ww.Workload.CapacityHours),
			FormatHours(ww.Workload.AvailableHours()),
			BandIndicator(mode, ww.Workload.Band),
		})
	}

	summary := fmt.Sprintf("%d members, %d active tasks, %s of %s committed (%d%%). %d overloaded, %d balanced, %d available.",
		tw.Members, tw.ActiveTasks,
		FormatHours(tw.CommittedHours), FormatHours(tw.CapacityHours), tw.RoundedPct,
		tw.Bands.Overloaded, tw.Bands.Balanced, tw.Bands.Available)

	return RenderRows(mode, "Team Workload", headers, rows) + "\n" + paint(mode, StyleDim, summary) + "\n"
}

// FormatSuggestions renders ranked worker suggestions for a milestone.
func FormatSuggestions(mode Mode, milestone string, suggestions []contract.WorkerSuggestion) string {
	headers := []string{"#", "WORKER", "SKILLS", "MATCH", "LOAD"}
	rows := make([][]string, 0, len(suggestions))
	for i, s := range suggestions {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			workerLabel(s.Worker),
			orDash(strings.Join(s.Worker.Skills, ", ")),
			strconv.Itoa(s.SkillScore),
			RenderUtilization(mode, s.Workload.RoundedPct, 10),
		})
	}
	return RenderRows(mode, "Suggestions for "+milestone, headers, rows)
}

// FormatActivity renders ledger records for a worker.
func FormatActivity(mode Mode, records []domain.ActivityRecord) string {
	headers := []string{"ID", "TYPE", "TASK", "PROJECT", "HOURS", "WEEK", "STATUS"}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		status := string(r.Status)
		if !r.IsActive() {
			status = paint(mode, StyleDim, status)
		}
		rows = append(rows, []string{
			TruncID(mode, r.ID),
			string(r.Type),
			orDash(r.TaskTitle),
			orDash(r.ProjectName),
			FormatHours(r.EstimatedHours),
			weekLabel(r.Week),
			status,
		})
	}
	return RenderRows(mode, "Activity", headers, rows)
}

// FormatMembers renders workspace members, used for the available-users view.
func FormatMembers(mode Mode, title string, members []*domain.WorkspaceMember) string {
	headers := []string{"USER", "NAME", "EMAIL", "ROLE"}
	rows := make([][]string, 0, len(members))
	for _, m := range members {
		rows = append(rows, []string{m.UserID, orDash(m.DisplayName), orDash(m.Email), orDash(m.Role)})
	}
	return RenderRows(mode, title, headers, rows)
}

func workerLabel(w *domain.Worker) string {
	if w == nil {
		return "--"
	}
	if w.UserID != "" {
		return w.UserID
	}
	return w.ID
}

func weekLabel(week int) string {
	if week <= 0 {
		return "--"
	}
	return "W" + strconv.Itoa(week)
}
