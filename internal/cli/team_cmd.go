package cli

import (
	"fmt"

	"github.com/alexanderramin/apo/internal/cli/formatter"
	"github.com/alexanderramin/apo/internal/contract"
	"github.com/alexanderramin/apo/internal/domain"
	"github.com/alexanderramin/apo/internal/server"
	"github.com/spf13/cobra"
)

func newTeamCmd(app *App, opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Manage the workspace roster and inspect workload",
	}

	cmd.AddCommand(
		newTeamAddCmd(app, opts),
		newTeamWorkloadCmd(app, opts),
		newTeamAvailableCmd(app, opts),
		newTeamSuggestCmd(app, opts),
		newTeamPresenceCmd(app, opts),
	)

	return cmd
}

func newTeamAddCmd(app *App, opts *globalOptions) *cobra.Command {
	var workspace, user, title string
	var skills []string
	var capacity, rate float64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a workspace member to the team roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := contract.NewAddMemberRequest(workspace, user, opts.actor)
			req.JobTitle = title
			req.Skills = skills
			req.HourlyRate = rate
			if cmd.Flags().Changed("capacity") {
				req.CapacityHours = capacity
			}

			w, err := app.Team.AddMember(cmd.Context(), req)
			if err != nil {
				return err
			}
			payload := server.WorkerEnvelope{Success: true, Member: server.NewWorkerResponse(w)}
			return opts.emit(cmd, app, payload, func(formatter.Mode) string {
				return fmt.Sprintf("Added %s as %s (%s/week) [%s]", w.UserID, w.Role(), formatter.FormatHours(w.Capacity()), w.ID)
			})
		},
	}

	cmd.Flags().StringVar(&workspace, "workspace", "", "Workspace id")
	cmd.Flags().StringVar(&user, "user", "", "User id of an existing workspace member")
	cmd.Flags().StringVar(&title, "title", "", "Job title")
	cmd.Flags().StringSliceVar(&skills, "skills", nil, "Comma-separated skills")
	cmd.Flags().Float64Var(&capacity, "capacity", domain.DefaultCapacityHours, "Weekly capacity in hours")
	cmd.Flags().Float64Var(&rate, "rate", 0, "Hourly rate")
	_ = cmd.MarkFlagRequired("workspace")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newTeamWorkloadCmd(app *App, opts *globalOptions) *cobra.Command {
	var workspace string

	cmd := &cobra.Command{
		Use:     "workload",
		Aliases: []string{"list"},
		Short:   "Show utilization for every worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			tw, err := app.Ledger.TeamWorkload(cmd.Context(), workspace)
			if err != nil {
				return err
			}
			return opts.emit(cmd, app, server.NewTeamWorkloadResponse(tw), func(mode formatter.Mode) string {
				return formatter.FormatTeamWorkload(mode, tw)
			})
		},
	}

	cmd.Flags().StringVar(&workspace, "workspace", "", "Workspace id")
	_ = cmd.MarkFlagRequired("workspace")

	return cmd
}

func newTeamAvailableCmd(app *App, opts *globalOptions) *cobra.Command {
	var workspace string

	cmd := &cobra.Command{
		Use:   "available",
		Short: "List workspace members not yet on the roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			members, err := app.Team.AvailableUsers(cmd.Context(), workspace)
			if err != nil {
				return err
			}
			payload := server.MembersResponse{Success: true, Users: server.NewMemberResponses(members)}
			return opts.emit(cmd, app, payload, func(mode formatter.Mode) string {
				return formatter.FormatMembers(mode, "Available Users", members)
			})
		},
	}

	cmd.Flags().StringVar(&workspace, "workspace", "", "Workspace id")
	_ = cmd.MarkFlagRequired("workspace")

	return cmd
}

func newTeamSuggestCmd(app *App, opts *globalOptions) *cobra.Command {
	var workspace, milestone string

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Rank workers for a milestone by skill match and spare capacity",
		RunE: func(cmd *cobra.Command, args []string) error {
			suggestions, err := app.Team.SuggestWorkers(cmd.Context(), workspace, milestone)
			if err != nil {
				return err
			}
			out := make([]server.SuggestionResponse, 0, len(suggestions))
			for _, s := range suggestions {
				out = append(out, server.SuggestionResponse{
					Worker:     server.NewWorkerResponse(s.Worker),
					SkillScore: s.SkillScore,
					Workload:   server.NewWorkloadResponse(s.Workload),
				})
			}
			payload := server.SuggestionsResponse{Success: true, Suggestions: out}
			return opts.emit(cmd, app, payload, func(mode formatter.Mode) string {
				return formatter.FormatSuggestions(mode, milestone, suggestions)
			})
		},
	}

	cmd.Flags().StringVar(&workspace, "workspace", "", "Workspace id")
	cmd.Flags().StringVar(&milestone, "milestone", "", "Milestone title")
	_ = cmd.MarkFlagRequired("workspace")
	_ = cmd.MarkFlagRequired("milestone")

	return cmd
}

func newTeamPresenceCmd(app *App, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "presence <worker-id> <online|away|busy|offline>",
		Short: "Set a worker's presence",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			presence := domain.Presence(args[1])
			if err := app.Team.SetPresence(cmd.Context(), args[0], presence); err != nil {
				return err
			}
			payload := map[string]any{"success": true, "worker_id": args[0], "status": presence}
			return opts.emit(cmd, app, payload, func(mode formatter.Mode) string {
				return fmt.Sprintf("%s %s", args[0], formatter.PresencePill(mode, presence))
			})
		},
	}
}
