package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alexanderramin/apo/internal/cli/formatter"
	"github.com/alexanderramin/apo/internal/contract"
	"github.com/alexanderramin/apo/internal/domain"
	"github.com/alexanderramin/apo/internal/server"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App, opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects and their extracted plans",
	}

	cmd.AddCommand(
		newProjectCreateCmd(app, opts),
		newProjectProcessCmd(app, opts),
		newProjectShowCmd(app, opts),
		newProjectListCmd(app, opts),
		newProjectMilestoneCmd(app, opts),
	)

	return cmd
}

func newProjectCreateCmd(app *App, opts *globalOptions) *cobra.Command {
	var workspace, name, file string
	var process bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project, optionally uploading its brief",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := contract.CreateProjectRequest{
				WorkspaceID: workspace,
				OwnerID:     opts.actor,
				Name:        name,
			}
			if file != "" {
				content, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("reading %s: %w", file, err)
				}
				req.FileName = filepath.Base(file)
				req.Content = content
			}

			project, err := app.Projects.Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			if !process {
				return opts.emit(cmd, app, server.NewProjectResponse(project), func(formatter.Mode) string {
					return fmt.Sprintf("Created project %s [%s]", project.Name, project.DisplayID())
				})
			}

			res, err := app.Projects.Process(cmd.Context(), project.ID)
			if err != nil {
				return err
			}
			return emitProcess(cmd, app, opts, res)
		},
	}

	cmd.Flags().StringVar(&workspace, "workspace", "", "Workspace id")
	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&file, "file", "", "Brief to attach (.pdf, .docx or text)")
	cmd.Flags().BoolVar(&process, "process", false, "Run extraction right after upload")
	_ = cmd.MarkFlagRequired("workspace")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newProjectProcessCmd(app *App, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "process <project-id>",
		Short: "Extract milestones, risks and tasks from the project's brief",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Projects.Process(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return emitProcess(cmd, app, opts, res)
		},
	}
}

func emitProcess(cmd *cobra.Command, app *App, opts *globalOptions, res *contract.ProcessResult) error {
	payload := server.ProcessResponse{
		Success:   true,
		Project:   server.NewProjectResponse(res.Project),
		TaskCount: res.TaskCount,
		Warnings:  res.Warnings,
	}
	return opts.emit(cmd, app, payload, func(mode formatter.Mode) string {
		msg := fmt.Sprintf("Extracted %d milestones and %d tasks for %s.",
			len(res.Project.Milestones()), res.TaskCount, res.Project.Name)
		for _, w := range res.Warnings {
			msg += "\nwarning: " + w
		}
		return msg
	})
}

func newProjectShowCmd(app *App, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show a project with its milestones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := app.Projects.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return opts.emit(cmd, app, server.NewProjectViewResponse(view), func(mode formatter.Mode) string {
				return formatter.FormatProjectView(mode, view)
			})
		},
	}
}

func newProjectListCmd(app *App, opts *globalOptions) *cobra.Command {
	var workspace string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects in a workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.ListByWorkspace(cmd.Context(), workspace)
			if err != nil {
				return err
			}
			out := make([]server.ProjectResponse, 0, len(projects))
			for _, p := range projects {
				out = append(out, server.NewProjectResponse(p))
			}
			payload := server.ProjectListResponse{Success: true, Projects: out}
			return opts.emit(cmd, app, payload, func(mode formatter.Mode) string {
				return formatter.FormatProjectList(mode, projects, time.Now())
			})
		},
	}

	cmd.Flags().StringVar(&workspace, "workspace", "", "Workspace id")
	_ = cmd.MarkFlagRequired("workspace")

	return cmd
}

func newProjectMilestoneCmd(app *App, opts *globalOptions) *cobra.Command {
	var status string
	var pct int

	cmd := &cobra.Command{
		Use:   "milestone <project-id> <milestone-id>",
		Short: "Update a milestone's status or completion",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := contract.UpdateMilestoneRequest{
				ProjectID:   args[0],
				MilestoneID: args[1],
				ActorID:     opts.actor,
				Status:      domain.MilestoneStatus(status),
			}
			if cmd.Flags().Changed("pct") {
				req.CompletionPct = &pct
			}

			m, err := app.Milestones.Update(cmd.Context(), req)
			if err != nil {
				return err
			}
			payload := server.MilestoneResponse{Success: true, Milestone: *m}
			return opts.emit(cmd, app, payload, func(mode formatter.Mode) string {
				return fmt.Sprintf("%s  %s (%d%%)", formatter.MilestonePill(mode, m.EffectiveStatus()), m.Title, m.CompletionPct)
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "pending, in_progress, completed or blocked")
	cmd.Flags().IntVar(&pct, "pct", 0, "Completion percentage (0-100)")
	_ = cmd.MarkFlagRequired("status")

	return cmd
}
