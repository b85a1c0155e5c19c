package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"loanflow/internal/adapters/persistence/repositories"
	"loanflow/internal/core/domain"
	"loanflow/internal/pkg/metrics"
)

// LoanService is the workflow façade invoked by the HTTP handlers.
// Every operation is authorized before the state machine or repository is touched.
type LoanService struct {
	repo    repositories.LoanRepository
	machine *LoanStateMachine
	authz   *Authorizer
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewLoanService creates a new loan service
func NewLoanService(
	repo repositories.LoanRepository,
	authz *Authorizer,
	m *metrics.Metrics,
	logger *slog.Logger,
	now func() time.Time,
) *LoanService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoanService{
		repo:    repo,
		machine: NewLoanStateMachine(repo, now),
		authz:   authz,
		metrics: m,
		logger:  logger,
	}
}

// CreateLoanInput represents create loan input
type CreateLoanInput struct {
	Amount  *float64
	Purpose string
}

// ReviewLoanInput represents review input; notes are echoed back, never stored
type ReviewLoanInput struct {
	Notes string
}

// DecideLoanInput represents approve/reject input; a nil Approved is a validation error
type DecideLoanInput struct {
	Approved *bool
}

// Create submits a new loan application owned by the caller
func (s *LoanService) Create(ctx context.Context, caller domain.Caller, input *CreateLoanInput) (*domain.Loan, error) {
	if err := s.authorize(ctx, domain.OpCreateLoan, caller, ""); err != nil {
		return nil, err
	}

	if input == nil || input.Amount == nil || strings.TrimSpace(input.Purpose) == "" {
		return nil, domain.NewValidationError(MsgAmountPurposeRequired)
	}

	loan, err := s.machine.Create(ctx, caller.ID, *input.Amount, input.Purpose)
	if err != nil {
		return nil, err
	}

	s.metrics.IncLoansCreated()
	s.logger.InfoContext(ctx, "loan created",
		"loan_id", loan.ID,
		"user_id", loan.UserID,
		"amount", loan.Amount,
	)
	return loan, nil
}

// Review marks a pending loan as under review by the calling officer
func (s *LoanService) Review(ctx context.Context, caller domain.Caller, loanID string, _ *ReviewLoanInput) (*domain.Loan, error) {
	if err := s.authorize(ctx, domain.OpReviewLoan, caller, ""); err != nil {
		return nil, err
	}

	loan, err := s.machine.Review(ctx, loanID, caller.ID)
	s.observeTransition(ctx, domain.ActionReview, loanID, caller, err)
	return loan, err
}

// Decide approves or rejects a loan under review
func (s *LoanService) Decide(ctx context.Context, caller domain.Caller, loanID string, input *DecideLoanInput) (*domain.Loan, error) {
	if err := s.authorize(ctx, domain.OpDecideLoan, caller, ""); err != nil {
		return nil, err
	}

	if input == nil || input.Approved == nil {
		return nil, domain.NewValidationError(MsgApprovedRequired)
	}

	approved := *input.Approved
	action := domain.ActionReject
	if approved {
		action = domain.ActionApprove
	}

	loan, err := s.machine.Decide(ctx, loanID, caller.ID, approved)
	s.observeTransition(ctx, action, loanID, caller, err)
	return loan, err
}

// List returns the loans matching filter
func (s *LoanService) List(ctx context.Context, caller domain.Caller, filter LoanFilter) (*LoanList, error) {
	if err := s.authorize(ctx, domain.OpListLoans, caller, ""); err != nil {
		return nil, err
	}
	return s.list(ctx, filter)
}

// ListMine returns the caller's own loans
func (s *LoanService) ListMine(ctx context.Context, caller domain.Caller) (*LoanList, error) {
	if err := s.authorize(ctx, domain.OpListOwnLoans, caller, ""); err != nil {
		return nil, err
	}
	return s.list(ctx, LoanFilter{UserID: caller.ID})
}

// Get returns a single loan to a permitted role or to its applicant.
// A caller who is neither gets ErrForbidden even when the loan does not exist.
func (s *LoanService) Get(ctx context.Context, caller domain.Caller, loanID string) (*domain.Loan, error) {
	loan, err := s.repo.FindByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) && !s.authz.RolePermits(domain.OpGetLoan, caller.Role) {
			return nil, s.deny(ctx, domain.OpGetLoan, caller)
		}
		return nil, err
	}

	if err := s.authorize(ctx, domain.OpGetLoan, caller, loan.UserID); err != nil {
		return nil, err
	}
	return loan, nil
}

// Ping checks the backing repository
func (s *LoanService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *LoanService) list(ctx context.Context, filter LoanFilter) (*LoanList, error) {
	snapshot, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return NewLoanList(FilterLoans(snapshot, filter)), nil
}

func (s *LoanService) authorize(ctx context.Context, op domain.Operation, caller domain.Caller, ownerID string) error {
	if err := s.authz.Authorize(op, caller, ownerID); err != nil {
		return s.deny(ctx, op, caller)
	}
	return nil
}

func (s *LoanService) deny(ctx context.Context, op domain.Operation, caller domain.Caller) error {
	s.metrics.IncDenied(string(op))
	s.logger.WarnContext(ctx, "authorization denied",
		"operation", op,
		"caller_id", caller.ID,
		"caller_role", caller.Role,
	)
	return domain.ErrForbidden
}

func (s *LoanService) observeTransition(ctx context.Context, action domain.LoanAction, loanID string, caller domain.Caller, err error) {
	outcome := "applied"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrLoanNotFound):
		outcome = "not_found"
	case errors.Is(err, domain.ErrInvalidTransition):
		outcome = "rejected"
	default:
		outcome = "error"
	}
	s.metrics.ObserveTransition(string(action), outcome)

	if err != nil {
		s.logger.InfoContext(ctx, "loan transition refused",
			"action", action,
			"loan_id", loanID,
			"caller_id", caller.ID,
			"reason", err.Error(),
		)
		return
	}
	s.logger.InfoContext(ctx, "loan transition applied",
		"action", action,
		"loan_id", loanID,
		"caller_id", caller.ID,
	)
}
