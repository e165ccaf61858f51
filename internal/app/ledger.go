package app

type RecordAssignmentRequest struct {
	ActorID        string
	WorkerID       string
	ProjectID      string
	MilestoneID    string
	MilestoneTitle string
	Hours          float64
	Week           int
	Notes          string
}
