package domain

type ExtractionStatus string

const (
	ExtractionIdle      ExtractionStatus = "idle"
	ExtractionParsing   ExtractionStatus = "parsing"
	ExtractionCompleted ExtractionStatus = "completed"
	ExtractionFailed    ExtractionStatus = "failed"
)

type MilestoneStatus string

const (
	MilestonePending    MilestoneStatus = "pending"
	MilestoneInProgress MilestoneStatus = "in_progress"
	MilestoneCompleted  MilestoneStatus = "completed"
	MilestoneBlocked    MilestoneStatus = "blocked"
)

// ValidMilestoneStatuses is the canonical set of accepted milestone status strings.
var ValidMilestoneStatuses = map[MilestoneStatus]bool{
	MilestonePending: true, MilestoneInProgress: true,
	MilestoneCompleted: true, MilestoneBlocked: true,
}

type Presence string

const (
	PresenceOnline  Presence = "online"
	PresenceAway    Presence = "away"
	PresenceBusy    Presence = "busy"
	PresenceOffline Presence = "offline"
)

var ValidPresences = map[Presence]bool{
	PresenceOnline: true, PresenceAway: true, PresenceBusy: true, PresenceOffline: true,
}

type ActivityType string

const (
	ActivityTaskAssigned ActivityType = "task_assigned"
	ActivityJoinedTeam   ActivityType = "joined_team"
)

// ActivityStatus is the soft-delete flag on ledger records.
type ActivityStatus string

const (
	ActivityActive  ActivityStatus = "active"
	ActivityRemoved ActivityStatus = "removed"
)

type StagedStatus string

const (
	StagedProposed  StagedStatus = "proposed"
	StagedCompleted StagedStatus = "completed"
)

type BatchStatus string

const (
	BatchProposed  BatchStatus = "proposed"
	BatchConfirmed BatchStatus = "confirmed"
)

type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

var ValidSeverities = map[Severity]bool{
	SeverityHigh: true, SeverityMedium: true, SeverityLow: true,
}

// EventSeverity tags a simulation log entry.
type EventSeverity string

const (
	EventSuccess EventSeverity = "success"
	EventInfo    EventSeverity = "info"
	EventWarning EventSeverity = "warning"
)

type WorkloadBand string

const (
	BandOverloaded WorkloadBand = "overloaded"
	BandBalanced   WorkloadBand = "balanced"
	BandAvailable  WorkloadBand = "available"
)

// Sources recorded on ledger records.
const (
	SourceAllocationPage = "allocation_page"
	SourceManual         = "manual"
)
