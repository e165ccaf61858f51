package contract

import "github.com/alexanderramin/apo/internal/app"

type DiscardedProposal = app.DiscardedProposal

type ProposalResult = app.ProposalResult

type ConfirmRequest = app.ConfirmRequest

type ConfirmResult = app.ConfirmResult

type RejectResult = app.RejectResult

// NewConfirmRequest confirms whatever batch is currently staged.
func NewConfirmRequest(projectID, actorID string) ConfirmRequest {
	return ConfirmRequest{ProjectID: projectID, ActorID: actorID}
}
