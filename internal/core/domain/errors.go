package domain

import (
	"errors"
	"fmt"
)

// Workflow error kinds. Handlers match these with errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrLoanNotFound      = errors.New("loan not found")
	ErrInvalidTransition = errors.New("invalid loan status transition")
	ErrForbidden         = errors.New("forbidden")
)

// ValidationError carries a caller-facing message for malformed input
type ValidationError struct {
	Message string
}

// NewValidationError creates a validation error with the given message
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// LoanAction names a state machine transition
type LoanAction string

const (
	ActionReview  LoanAction = "review"
	ActionApprove LoanAction = "approve"
	ActionReject  LoanAction = "reject"
)

// InvalidTransitionError reports a loan that is not in the source state an action requires
type InvalidTransitionError struct {
	LoanID  string
	Action  LoanAction
	Current LoanStatus
}

func (e *InvalidTransitionError) Error() string {
	if e.Action == ActionReview {
		return fmt.Sprintf("Loan cannot be reviewed. Current status: %s", e.Current)
	}
	return fmt.Sprintf("Loan must be under review to approve/reject. Current status: %s", e.Current)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }
