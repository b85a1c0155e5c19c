package repositories

import (
	"context"

	"loanflow/internal/core/domain"
)

// LoanRepository defines loan repository interface.
// Every method returns copies; the stored record changes only inside Mutate.
type LoanRepository interface {
	// Insert stores a new loan and returns it with its assigned id
	Insert(ctx context.Context, loan *domain.Loan) (*domain.Loan, error)
	// FindByID returns domain.ErrLoanNotFound when the id is unknown
	FindByID(ctx context.Context, id string) (*domain.Loan, error)
	// Snapshot returns all loans in insertion order
	Snapshot(ctx context.Context) ([]domain.Loan, error)
	// Mutate runs fn against the loan while holding exclusive access to it.
	// Changes are committed only when fn returns nil.
	Mutate(ctx context.Context, id string, fn func(*domain.Loan) error) (*domain.Loan, error)
	// Ping reports whether the backing store is reachable
	Ping(ctx context.Context) error
}
