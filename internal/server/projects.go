package server

import (
	"context"
	"net/http"

	"github.com/alexanderramin/apo/internal/contract"
	"github.com/alexanderramin/apo/internal/domain"
	"github.com/danielgtaylor/huma/v2"
)

type projectOutput struct {
	Body ProjectResponse
}

type projectPath struct {
	ProjectID string `path:"project_id"`
}

func (h *handlers) registerProjects(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-project",
		Method:        http.MethodPost,
		Path:          "/projects",
		Summary:       "Upload a document and create a project",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusInternalServerError},
	}, func(ctx context.Context, input *struct {
		Body CreateProjectRequest
	}) (*projectOutput, error) {
		actorID, authErr := actorIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		p, err := h.cfg.Projects.Create(ctx, contract.CreateProjectRequest{
			WorkspaceID: input.Body.WorkspaceID,
			OwnerID:     actorID,
			Name:        input.Body.Name,
			FileName:    input.Body.FileName,
			Content:     input.Body.Content,
		})
		if err != nil {
			return nil, h.handleError(ctx, err)
		}
		return &projectOutput{Body: NewProjectResponse(p)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-project",
		Method:      http.MethodGet,
		Path:        "/projects/{project_id}",
		Summary:     "Get project with extracted tasks",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *projectPath) (*struct {
		Body ProjectViewResponse
	}, error) {
		view, err := h.cfg.Projects.Get(ctx, input.ProjectID)
		if err != nil {
			return nil, h.handleError(ctx, err)
		}
		return &struct {
			Body ProjectViewResponse
		}{Body: NewProjectViewResponse(view)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-workspace-projects",
		Method:      http.MethodGet,
		Path:        "/workspaces/{workspace_id}/projects",
		Summary:     "List projects in a workspace",
	}, func(ctx context.Context, input *struct {
		WorkspaceID string `path:"workspace_id"`
	}) (*struct {
		Body ProjectListResponse
	}, error) {
		items, err := h.cfg.Projects.ListByWorkspace(ctx, input.WorkspaceID)
		if err != nil {
			return nil, h.handleError(ctx, err)
		}
		out := make([]ProjectResponse, 0, len(items))
		for _, p := range items {
			out = append(out, NewProjectResponse(p))
		}
		return &struct {
			Body ProjectListResponse
		}{Body: ProjectListResponse{Success: true, Projects: out}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "process-project",
		Method:      http.MethodPost,
		Path:        "/projects/{project_id}/process",
		Summary:     "Run structured extraction on the project document",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
			http.StatusUnprocessableEntity,
			http.StatusInternalServerError,
			http.StatusBadGateway,
		},
	}, func(ctx context.Context, input *projectPath) (*struct {
		Body ProcessResponse
	}, error) {
		res, err := h.cfg.Projects.Process(ctx, input.ProjectID)
		if err != nil {
			return nil, h.handleError(ctx, err)
		}
		return &struct {
			Body ProcessResponse
		}{Body: ProcessResponse{
			Success:   true,
			Project:   NewProjectResponse(res.Project),
			TaskCount: res.TaskCount,
			Warnings:  res.Warnings,
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-milestone",
		Method:      http.MethodPatch,
		Path:        "/projects/{project_id}/milestones/{milestone_id}",
		Summary:     "Update milestone status",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ProjectID   string `path:"project_id"`
		MilestoneID string `path:"milestone_id"`
		Body        UpdateMilestoneRequest
	}) (*struct {
		Body MilestoneResponse
	}, error) {
		actorID, authErr := actorIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		m, err := h.cfg.Milestones.Update(ctx, contract.UpdateMilestoneRequest{
			ProjectID:     input.ProjectID,
			MilestoneID:   input.MilestoneID,
			ActorID:       actorID,
			Status:        domain.MilestoneStatus(input.Body.Status),
			CompletionPct: input.Body.CompletionPct,
		})
		if err != nil {
			return nil, h.handleError(ctx, err)
		}
		return &struct {
			Body MilestoneResponse
		}{Body: MilestoneResponse{Success: true, Milestone: *m}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "simulate-week",
		Method:      http.MethodPost,
		Path:        "/projects/{project_id}/simulate",
		Summary:     "Advance the project simulation by one week",
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, func(ctx context.Context, input *projectPath) (*struct {
		Body TickResponse
	}, error) {
		res, err := h.cfg.Simulation.Tick(ctx, input.ProjectID)
		if err != nil {
			return nil, h.handleError(ctx, err)
		}
		return &struct {
			Body TickResponse
		}{Body: NewTickResponse(res)}, nil
	})
}
