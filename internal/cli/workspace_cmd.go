package cli

import (
	"fmt"

	"github.com/alexanderramin/apo/internal/cli/formatter"
	"github.com/alexanderramin/apo/internal/domain"
	"github.com/alexanderramin/apo/internal/server"
	"github.com/spf13/cobra"
)

func newWorkspaceCmd(app *App, opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workspace",
		Short: "Manage workspace membership",
	}

	cmd.AddCommand(
		newWorkspaceAddMemberCmd(app, opts),
		newWorkspaceMembersCmd(app, opts),
	)

	return cmd
}

func newWorkspaceAddMemberCmd(app *App, opts *globalOptions) *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "add-member <workspace-id> <user-id>",
		Short: "Add a user to a workspace",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.Workspaces.AddMember(cmd.Context(), args[0], args[1], role)
			if err != nil {
				return err
			}
			payload := server.MembersResponse{Success: true, Users: server.NewMemberResponses([]*domain.WorkspaceMember{m})}
			return opts.emit(cmd, app, payload, func(formatter.Mode) string {
				return fmt.Sprintf("Added %s to %s as %s", m.UserID, m.WorkspaceID, m.Role)
			})
		},
	}

	cmd.Flags().StringVar(&role, "role", domain.WorkspaceRoleMember, "owner or member")

	return cmd
}

func newWorkspaceMembersCmd(app *App, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "members <workspace-id>",
		Short: "List workspace members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			members, err := app.Workspaces.ListMembers(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			payload := server.MembersResponse{Success: true, Users: server.NewMemberResponses(members)}
			return opts.emit(cmd, app, payload, func(mode formatter.Mode) string {
				return formatter.FormatMembers(mode, "Members", members)
			})
		},
	}
}
