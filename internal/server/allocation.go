package server

import (
	"context"
	"net/http"

	"github.com/alexanderramin/apo/internal/contract"
	"github.com/danielgtaylor/huma/v2"
)

func (h *handlers) registerAllocation(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "propose-allocation",
		Method:      http.MethodPost,
		Path:        "/projects/{project_id}/allocation/propose",
		Summary:     "Ask the oracle for milestone assignments and stage them",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
			http.StatusUnprocessableEntity,
			http.StatusInternalServerError,
			http.StatusBadGateway,
		},
	}, func(ctx context.Context, input *projectPath) (*struct {
		Body ProposalResponse
	}, error) {
		res, err := h.cfg.Allocations.Propose(ctx, input.ProjectID)
		if err != nil {
			return nil, h.handleError(ctx, err)
		}
		return &struct {
			Body ProposalResponse
		}{Body: NewProposalResponse(res)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-allocation",
		Method:      http.MethodGet,
		Path:        "/projects/{project_id}/allocation",
		Summary:     "Get the staged allocation batch",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *projectPath) (*struct {
		Body BatchResponse
	}, error) {
		batch, err := h.cfg.Allocations.Current(ctx, input.ProjectID)
		if err != nil {
			return nil, h.handleError(ctx, err)
		}
		return &struct {
			Body BatchResponse
		}{Body: NewBatchResponse(batch)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "confirm-allocation",
		Method:      http.MethodPost,
		Path:        "/projects/{project_id}/allocation/confirm",
		Summary:     "Commit the staged allocation to the workload ledger",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusUnauthorized,
			http.StatusNotFound,
			http.StatusConflict,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		ProjectID string `path:"project_id"`
		Body      *ConfirmAllocationRequest
	}) (*struct {
		Body ConfirmResponse
	}, error) {
		actorID, authErr := actorIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		req := contract.NewConfirmRequest(input.ProjectID, actorID)
		if input.Body != nil {
			req.BatchID = input.Body.BatchID
		}
		res, err := h.cfg.Allocations.Confirm(ctx, req)
		if err != nil {
			return nil, h.handleError(ctx, err)
		}
		return &struct {
			Body ConfirmResponse
		}{Body: ConfirmResponse{
			Success:        true,
			BatchID:        res.BatchID,
			ConfirmedCount: res.ConfirmedCount,
			Records:        NewActivityResponses(res.Records),
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "reject-allocation",
		Method:      http.MethodPost,
		Path:        "/projects/{project_id}/allocation/reject",
		Summary:     "Discard the staged allocation",
	}, func(ctx context.Context, input *projectPath) (*struct {
		Body RejectResponse
	}, error) {
		res, err := h.cfg.Allocations.Reject(ctx, input.ProjectID)
		if err != nil {
			return nil, h.handleError(ctx, err)
		}
		return &struct {
			Body RejectResponse
		}{Body: RejectResponse{Success: true, Discarded: res.Discarded}}, nil
	})
}
