package app

type AddMemberRequest struct {
	WorkspaceID   string
	UserID        string
	ActorID       string
	JobTitle      string
	Skills        []string
	CapacityHours float64
	HourlyRate    float64
}
