package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/alexanderramin/apo/internal/contract"
	"github.com/alexanderramin/apo/internal/domain"
	"github.com/danielgtaylor/huma/v2"
)

type workspacePath struct {
	WorkspaceID string `path:"workspace_id"`
}

func (h *handlers) registerTeam(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "add-team-member",
		Method:        http.MethodPost,
		Path:          "/workspaces/{workspace_id}/team",
		Summary:       "Add a workspace user to the team",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusForbidden, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		WorkspaceID string `path:"workspace_id"`
		Body        AddTeamMemberRequest
	}) (*struct {
		Body WorkerEnvelope
	}, error) {
		actorID, authErr := actorIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		req := contract.NewAddMemberRequest(input.WorkspaceID, input.Body.UserID, actorID)
		req.JobTitle = strings.TrimSpace(input.Body.JobTitle)
		req.HourlyRate = input.Body.HourlyRate
		if input.Body.Skills != nil {
			req.Skills = input.Body.Skills
		}
		if input.Body.CapacityHours > 0 {
			req.CapacityHours = input.Body.CapacityHours
		}
		w, err := h.cfg.Team.AddMember(ctx, req)
		if err != nil {
			return nil, h.handleError(ctx, err)
		}
		return &struct {
			Body WorkerEnvelope
		}{Body: WorkerEnvelope{Success: true, Member: NewWorkerResponse(w)}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-available-users",
		Method:      http.MethodGet,
		Path:        "/workspaces/{workspace_id}/team/available-users",
		Summary:     "Workspace users not yet on the team",
	}, func(ctx context.Context, input *workspacePath) (*struct {
		Body MembersResponse
	}, error) {
		users, err := h.cfg.Team.AvailableUsers(ctx, input.WorkspaceID)
		if err != nil {
			return nil, h.handleError(ctx, err)
		}
		return &struct {
			Body MembersResponse
		}{Body: MembersResponse{Success: true, Users: NewMemberResponses(users)}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "team-workload",
		Method:      http.MethodGet,
		Path:        "/workspaces/{workspace_id}/team/workload",
		Summary:     "Team capacity dashboard",
	}, func(ctx context.Context, input *workspacePath) (*struct {
		Body TeamWorkloadResponse
	}, error) {
		tw, err := h.cfg.Ledger.TeamWorkload(ctx, input.WorkspaceID)
		if err != nil {
			return nil, h.handleError(ctx, err)
		}
		return &struct {
			Body TeamWorkloadResponse
		}{Body: NewTeamWorkloadResponse(tw)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "suggest-workers",
		Method:      http.MethodGet,
		Path:        "/workspaces/{workspace_id}/team/suggestions",
		Summary:     "Workers ranked by skill match for a milestone",
	}, func(ctx context.Context, input *struct {
		WorkspaceID string `path:"workspace_id"`
		Milestone   string `query:"milestone"`
	}) (*struct {
		Body SuggestionsResponse
	}, error) {
		suggestions, err := h.cfg.Team.SuggestWorkers(ctx, input.WorkspaceID, input.Milestone)
		if err != nil {
			return nil, h.handleError(ctx, err)
		}
		out := make([]SuggestionResponse, 0, len(suggestions))
		for _, s := range suggestions {
			out = append(out, SuggestionResponse{
				Worker:     NewWorkerResponse(s.Worker),
				SkillScore: s.SkillScore,
				Workload:   NewWorkloadResponse(s.Workload),
			})
		}
		return &struct {
			Body SuggestionsResponse
		}{Body: SuggestionsResponse{Success: true, Suggestions: out}}, nil
	})
}

func (h *handlers) registerLedger(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "record-assignment",
		Method:        http.MethodPost,
		Path:          "/workers/{worker_id}/assignments",
		Summary:       "Assign a milestone to a worker outside the allocation flow",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError},
	}, func(ctx context.Context, input *struct {
		WorkerID string `path:"worker_id"`
		Body     RecordAssignmentRequest
	}) (*struct {
		Body ActivityEnvelope
	}, error) {
		actorID, authErr := actorIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		req := contract.NewRecordAssignmentRequest(actorID, input.WorkerID, input.Body.ProjectID, input.Body.Milestone)
		if input.Body.Hours > 0 {
			req.Hours = input.Body.Hours
		}
		req.Week = input.Body.Week
		req.Notes = input.Body.Notes
		rec, err := h.cfg.Ledger.RecordAssignment(ctx, req)
		if err != nil {
			return nil, h.handleError(ctx, err)
		}
		return &struct {
			Body ActivityEnvelope
		}{Body: ActivityEnvelope{Success: true, Record: NewActivityResponse(rec)}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-worker-assignments",
		Method:      http.MethodGet,
		Path:        "/workers/{worker_id}/assignments",
		Summary:     "Worker ledger with current utilization",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		WorkerID       string `path:"worker_id"`
		IncludeRemoved bool   `query:"include_removed"`
	}) (*struct {
		Body ActivityListResponse
	}, error) {
		records, err := h.cfg.Ledger.ListActivity(ctx, input.WorkerID, input.IncludeRemoved)
		if err != nil {
			return nil, h.handleError(ctx, err)
		}
		wl, err := h.cfg.Ledger.Utilization(ctx, input.WorkerID)
		if err != nil {
			return nil, h.handleError(ctx, err)
		}
		return &struct {
			Body ActivityListResponse
		}{Body: ActivityListResponse{
			Success:  true,
			Workload: NewWorkloadResponse(wl),
			Records:  NewActivityResponses(records),
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "remove-activity",
		Method:      http.MethodDelete,
		Path:        "/activity/{activity_id}",
		Summary:     "Soft-remove a ledger record",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ActivityID string `path:"activity_id"`
	}) (*struct {
		Body ActivityEnvelope
	}, error) {
		rec, err := h.cfg.Ledger.SoftRemove(ctx, input.ActivityID)
		if err != nil {
			return nil, h.handleError(ctx, err)
		}
		return &struct {
			Body ActivityEnvelope
		}{Body: ActivityEnvelope{Success: true, Record: NewActivityResponse(rec)}}, nil
	})
}

func (h *handlers) registerWorkspaces(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "add-workspace-member",
		Method:        http.MethodPost,
		Path:          "/workspaces/{workspace_id}/members",
		Summary:       "Register a user in a workspace",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		WorkspaceID string `path:"workspace_id"`
		Body        AddWorkspaceMemberRequest
	}) (*struct {
		Body MembersResponse
	}, error) {
		m, err := h.cfg.Workspaces.AddMember(ctx, input.WorkspaceID, input.Body.UserID, input.Body.Role)
		if err != nil {
			return nil, h.handleError(ctx, err)
		}
		return &struct {
			Body MembersResponse
		}{Body: MembersResponse{Success: true, Users: NewMemberResponses([]*domain.WorkspaceMember{m})}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-workspace-members",
		Method:      http.MethodGet,
		Path:        "/workspaces/{workspace_id}/members",
		Summary:     "List workspace users",
	}, func(ctx context.Context, input *workspacePath) (*struct {
		Body MembersResponse
	}, error) {
		members, err := h.cfg.Workspaces.ListMembers(ctx, input.WorkspaceID)
		if err != nil {
			return nil, h.handleError(ctx, err)
		}
		return &struct {
			Body MembersResponse
		}{Body: MembersResponse{Success: true, Users: NewMemberResponses(members)}}, nil
	})
}
