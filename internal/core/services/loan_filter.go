package services

import (
	"loanflow/internal/core/domain"
)

// LoanFilter holds optional equality predicates; zero values are not applied
type LoanFilter struct {
	Status domain.LoanStatus
	UserID string
}

// IsEmpty reports whether no predicate is set
func (f LoanFilter) IsEmpty() bool {
	return f.Status == "" && f.UserID == ""
}

func (f LoanFilter) matches(loan *domain.Loan) bool {
	if f.Status != "" && loan.Status != f.Status {
		return false
	}
	if f.UserID != "" && loan.UserID != f.UserID {
		return false
	}
	return true
}

// FilterLoans returns the loans matching every set predicate, keeping snapshot order
func FilterLoans(snapshot []domain.Loan, f LoanFilter) []domain.Loan {
	if f.IsEmpty() {
		return snapshot
	}

	out := make([]domain.Loan, 0, len(snapshot))
	for i := range snapshot {
		if f.matches(&snapshot[i]) {
			out = append(out, snapshot[i])
		}
	}
	return out
}

// LoanList is a filtered listing; Count is always len(Loans)
type LoanList struct {
	Count int           `json:"count"`
	Loans []domain.Loan `json:"loans"`
}

// NewLoanList wraps loans, deriving the count from the slice
func NewLoanList(loans []domain.Loan) *LoanList {
	if loans == nil {
		loans = []domain.Loan{}
	}
	return &LoanList{Count: len(loans), Loans: loans}
}
