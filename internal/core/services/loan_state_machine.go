package services

import (
	"context"
	"math"
	"strings"
	"time"

	"loanflow/internal/adapters/persistence/repositories"
	"loanflow/internal/core/domain"
)

// Validation messages surfaced verbatim to callers
const (
	MsgAmountPurposeRequired = "Amount and purpose are required"
	MsgAmountNotPositive     = "Amount must be a positive number"
	MsgApprovedRequired      = "Approved must be a boolean"
)

// loanTransition is one guarded edge of the workflow
type loanTransition struct {
	from  domain.LoanStatus
	to    domain.LoanStatus
	stamp func(loan *domain.Loan, actorID string)
}

var loanTransitions = map[domain.LoanAction]loanTransition{
	domain.ActionReview: {
		from:  domain.LoanStatusPending,
		to:    domain.LoanStatusUnderReview,
		stamp: func(l *domain.Loan, actorID string) { l.ReviewedBy = actorID },
	},
	domain.ActionApprove: {
		from:  domain.LoanStatusUnderReview,
		to:    domain.LoanStatusApproved,
		stamp: func(l *domain.Loan, actorID string) { l.ApprovedBy = actorID },
	},
	domain.ActionReject: {
		from:  domain.LoanStatusUnderReview,
		to:    domain.LoanStatusRejected,
		stamp: func(l *domain.Loan, actorID string) { l.ApprovedBy = actorID },
	},
}

// LoanStateMachine validates and applies loan status transitions
type LoanStateMachine struct {
	repo repositories.LoanRepository
	now  func() time.Time
}

// NewLoanStateMachine creates a state machine over repo; now defaults to time.Now
func NewLoanStateMachine(repo repositories.LoanRepository, now func() time.Time) *LoanStateMachine {
	if now == nil {
		now = time.Now
	}
	return &LoanStateMachine{repo: repo, now: now}
}

// Create allocates a new pending loan for userID
func (m *LoanStateMachine) Create(ctx context.Context, userID string, amount float64, purpose string) (*domain.Loan, error) {
	if strings.TrimSpace(purpose) == "" {
		return nil, domain.NewValidationError(MsgAmountPurposeRequired)
	}
	if !(amount > 0) || math.IsInf(amount, 1) {
		return nil, domain.NewValidationError(MsgAmountNotPositive)
	}

	loan := &domain.Loan{
		UserID:    userID,
		Amount:    amount,
		Purpose:   purpose,
		Status:    domain.LoanStatusPending,
		CreatedAt: m.now().UTC(),
	}
	return m.repo.Insert(ctx, loan)
}

// Review moves a pending loan to under_review
func (m *LoanStateMachine) Review(ctx context.Context, loanID, officerID string) (*domain.Loan, error) {
	return m.apply(ctx, loanID, domain.ActionReview, officerID)
}

// Decide approves or rejects a loan under review
func (m *LoanStateMachine) Decide(ctx context.Context, loanID, managerID string, approved bool) (*domain.Loan, error) {
	action := domain.ActionReject
	if approved {
		action = domain.ActionApprove
	}
	return m.apply(ctx, loanID, action, managerID)
}

func (m *LoanStateMachine) apply(ctx context.Context, loanID string, action domain.LoanAction, actorID string) (*domain.Loan, error) {
	t := loanTransitions[action]
	return m.repo.Mutate(ctx, loanID, func(loan *domain.Loan) error {
		if loan.Status != t.from {
			return &domain.InvalidTransitionError{LoanID: loan.ID, Action: action, Current: loan.Status}
		}
		loan.Status = t.to
		t.stamp(loan, actorID)
		return nil
	})
}
