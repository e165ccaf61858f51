package contract

import "github.com/alexanderramin/apo/internal/app"

// DefaultEstimatedHours is the ledger weight of one assignment when no
// estimate is given.
const DefaultEstimatedHours = 8

type RecordAssignmentRequest = app.RecordAssignmentRequest

// NewRecordAssignmentRequest builds an ad-hoc assignment with the default
// estimate. milestone is matched as an id first, then as a title.
func NewRecordAssignmentRequest(actorID, workerID, projectID, milestone string) RecordAssignmentRequest {
	return RecordAssignmentRequest{
		ActorID:        actorID,
		WorkerID:       workerID,
		ProjectID:      projectID,
		MilestoneID:    milestone,
		MilestoneTitle: milestone,
		Hours:          DefaultEstimatedHours,
	}
}
