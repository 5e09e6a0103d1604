package app

import (
	"errors"
	"fmt"
)

type PlanErrorCode string

const (
	PlanErrNotFound     PlanErrorCode = "PLAN_NOT_FOUND"
	PlanErrInvalidInput PlanErrorCode = "INVALID_INPUT"
	PlanErrNoTemplates  PlanErrorCode = "NO_TEMPLATES"
)

// PlanError is a user-actionable failure, distinct from a system fault.
type PlanError struct {
	Code    PlanErrorCode
	Message string
}

func (e *PlanError) Error() string {
	return string(e.Code) + ": " + e.Message
}

func NotFound(format string, args ...any) *PlanError {
	return &PlanError{Code: PlanErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func InvalidInput(format string, args ...any) *PlanError {
	return &PlanError{Code: PlanErrInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// ErrCollaboratorFailure marks a failed customization call. The whole batch
// was abandoned and nothing was persisted, so the caller may retry.
var ErrCollaboratorFailure = errors.New("customization service failed")

// CollaboratorFailure wraps cause so errors.Is(err, ErrCollaboratorFailure) holds.
func CollaboratorFailure(cause error) error {
	return fmt.Errorf("%w: %w", ErrCollaboratorFailure, cause)
}

var ErrRateLimited = errors.New("rate limited")

type RateLimitError struct {
	Message     string
	WaitSeconds int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s (retry in %ds)", e.Message, e.WaitSeconds)
}

func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}

// IsRetryable reports whether err is a transient failure worth retrying.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrCollaboratorFailure) || errors.Is(err, ErrRateLimited)
}

// PlanErrorCodeOf returns the PlanError code in err's chain, if any.
func PlanErrorCodeOf(err error) (PlanErrorCode, bool) {
	var pe *PlanError
	if errors.As(err, &pe) {
		return pe.Code, true
	}
	return "", false
}
