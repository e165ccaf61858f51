package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/apo/internal/contract"
	"github.com/alexanderramin/apo/internal/domain"
)

// FormatProposal renders a freshly staged proposal and anything the validator
// threw away.
func FormatProposal(mode Mode, res *contract.ProposalResult) string {
	var b strings.Builder
	b.WriteString(formatStaged(mode, fmt.Sprintf("Proposal %s", shortBatch(res.BatchID)), res.Assignments))
	b.WriteString(fmt.Sprintf("%d of %d milestones assigned.\n", res.AssignedCount, res.TotalMilestones))

	if len(res.Discarded) > 0 {
		b.WriteString("\n")
		rows := make([][]string, 0, len(res.Discarded))
		for _, d := range res.Discarded {
			rows = append(rows, []string{orDash(d.TaskName), orDash(d.WorkerID), d.Reason})
		}
		b.WriteString(RenderRows(mode, "Discarded", []string{"TASK", "WORKER", "REASON"}, rows))
	}
	return b.String()
}

// FormatBatch renders the currently staged batch of a project.
func FormatBatch(mode Mode, batch *domain.ProposalBatch) string {
	if batch == nil || len(batch.Assignments) == 0 {
		return "No staged proposal.\n"
	}
	title := fmt.Sprintf("Proposal %s (%s)", shortBatch(batch.ID), batch.Status)
	return formatStaged(mode, title, batch.Assignments)
}

// FormatConfirm summarizes a confirmation.
func FormatConfirm(mode Mode, res *contract.ConfirmResult) string {
	msg := fmt.Sprintf("Confirmed %d assignments from batch %s.", res.ConfirmedCount, shortBatch(res.BatchID))
	return paint(mode, StyleGreen, msg) + "\n"
}

func formatStaged(mode Mode, title string, assignments []domain.StagedAssignment) string {
	headers := []string{"WEEK", "TASK", "WORKER", "STATUS", "REASONING"}
	rows := make([][]string, 0, len(assignments))
	for _, a := range assignments {
		rows = append(rows, []string{
			weekLabel(a.WeekNumber),
			a.TaskName,
			a.WorkerID,
			string(a.Status),
			truncate(a.Reasoning, 60),
		})
	}
	return RenderRows(mode, title, headers, rows) + "\n"
}

func shortBatch(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
