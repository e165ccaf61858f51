package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by a use case wraps exactly one of these so
// callers can classify failures with errors.Is.
var (
	// ErrConfiguration indicates missing or invalid configuration (e.g. oracle credentials).
	ErrConfiguration = errors.New("configuration error")

	// ErrPrecondition indicates the operation was aborted before any mutation
	// because its inputs or current state do not allow it.
	ErrPrecondition = errors.New("precondition failed")

	// ErrUpstream indicates an external collaborator (document store, oracle) failed.
	ErrUpstream = errors.New("upstream failure")

	// ErrValidation indicates a collaborator answered but its content is unusable.
	ErrValidation = errors.New("validation failure")

	// ErrPersistence indicates a store write failed.
	ErrPersistence = errors.New("persistence failure")

	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("not authenticated")
)

var (
	ErrNoMilestones       = fmt.Errorf("%w: no milestones found in project data, re-run the document analysis", ErrPrecondition)
	ErrNoWorkers          = fmt.Errorf("%w: no team members found in this workspace, add team members first", ErrPrecondition)
	ErrNothingToConfirm   = fmt.Errorf("%w: no assignments found to confirm", ErrPrecondition)
	ErrAlreadyConfirmed   = fmt.Errorf("%w: allocation has already been confirmed", ErrPrecondition)
	ErrAtCapacity         = fmt.Errorf("%w: team member is at full capacity, remove a task first", ErrPrecondition)
	ErrMissingDocument    = fmt.Errorf("%w: project document is missing", ErrPrecondition)
	ErrInvalidProposal    = fmt.Errorf("%w: oracle could not match any milestones to team members", ErrValidation)
	ErrStaleProposal      = fmt.Errorf("%w: allocation proposal was replaced by a newer run", ErrConflict)
	ErrNotWorkspaceMember = fmt.Errorf("%w: user is not a member of this workspace", ErrForbidden)
	ErrAlreadyOnTeam      = fmt.Errorf("%w: user is already a team member", ErrConflict)
)

// Kind returns the error kind wrapped by err, or nil when err carries none.
func Kind(err error) error {
	for _, k := range []error{
		ErrConfiguration, ErrPrecondition, ErrUpstream, ErrValidation, ErrPersistence,
		ErrNotFound, ErrConflict, ErrForbidden, ErrUnauthenticated,
	} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// NotFoundf builds an ErrNotFound-wrapping error with a formatted subject.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Preconditionf builds an ErrPrecondition-wrapping error.
func Preconditionf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrPrecondition, fmt.Sprintf(format, args...))
}

var kindCodes = []struct {
	kind error
	code string
}{
	{ErrConfiguration, "configuration"},
	{ErrPrecondition, "precondition"},
	{ErrUpstream, "upstream"},
	{ErrValidation, "validation"},
	{ErrPersistence, "persistence"},
	{ErrNotFound, "not_found"},
	{ErrConflict, "conflict"},
	{ErrForbidden, "forbidden"},
	{ErrUnauthenticated, "unauthenticated"},
}

// KindCode returns the snake_case code of err's kind, or "unknown".
func KindCode(err error) string {
	kind := Kind(err)
	for _, kc := range kindCodes {
		if kind == kc.kind {
			return kc.code
		}
	}
	return "unknown"
}
