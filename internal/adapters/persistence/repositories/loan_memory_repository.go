package repositories

import (
	"context"
	"sync"

	"loanflow/internal/adapters/persistence/models"
	"loanflow/internal/core/domain"
)

// memoryLoanRepository keeps loans in process memory
type memoryLoanRepository struct {
	mu     sync.RWMutex
	lastID uint64
	order  []string
	loans  map[string]*domain.Loan
}

// NewMemoryLoanRepository creates an empty in-memory loan repository
func NewMemoryLoanRepository() LoanRepository {
	return &memoryLoanRepository{
		loans: make(map[string]*domain.Loan),
	}
}

// Insert stores a copy of loan under the next id
func (r *memoryLoanRepository) Insert(_ context.Context, loan *domain.Loan) (*domain.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	stored := *loan
	stored.ID = models.FormatLoanID(r.lastID)

	r.loans[stored.ID] = &stored
	r.order = append(r.order, stored.ID)

	out := stored
	return &out, nil
}

// FindByID gets a loan by id
func (r *memoryLoanRepository) FindByID(_ context.Context, id string) (*domain.Loan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	loan, ok := r.loans[id]
	if !ok {
		return nil, domain.ErrLoanNotFound
	}
	out := *loan
	return &out, nil
}

// Snapshot copies every loan in insertion order
func (r *memoryLoanRepository) Snapshot(_ context.Context) ([]domain.Loan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Loan, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.loans[id])
	}
	return out, nil
}

// Mutate applies fn to a working copy and commits it on success
func (r *memoryLoanRepository) Mutate(_ context.Context, id string, fn func(*domain.Loan) error) (*domain.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	loan, ok := r.loans[id]
	if !ok {
		return nil, domain.ErrLoanNotFound
	}

	working := *loan
	if err := fn(&working); err != nil {
		return nil, err
	}
	working.ID = loan.ID
	*loan = working

	out := working
	return &out, nil
}

// Ping always succeeds for the in-memory store
func (r *memoryLoanRepository) Ping(context.Context) error {
	return nil
}
