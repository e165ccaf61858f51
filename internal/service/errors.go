package service

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/apo/internal/domain"
	"github.com/alexanderramin/apo/internal/llm"
)

// classifyOracleError maps oracle failures onto the domain error kinds.
// Errors that already carry a kind pass through.
func classifyOracleError(err error) error {
	switch {
	case err == nil:
		return nil
	case domain.Kind(err) != nil:
		return err
	case errors.Is(err, llm.ErrMissingAPIKey):
		return fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	case errors.Is(err, llm.ErrInvalidOutput):
		return fmt.Errorf("%w: %w", domain.ErrValidation, err)
	default:
		return fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}
}

// persistenceError wraps a failed store write. Errors that already carry a
// kind, such as a lost compare-and-set, pass through.
func persistenceError(action string, err error) error {
	if domain.Kind(err) != nil {
		return err
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrPersistence, action, err)
}

// upstreamError wraps a document store failure.
func upstreamError(action string, err error) error {
	if domain.Kind(err) != nil {
		return err
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrUpstream, action, err)
}
