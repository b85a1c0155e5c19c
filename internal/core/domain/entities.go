package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role represents a caller role in the system
type Role string

const (
	RoleUser    Role = "user"
	RoleOfficer Role = "officer"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// ParseRole converts a raw claim value into a known role
func ParseRole(raw string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(raw))); r {
	case RoleUser, RoleOfficer, RoleManager, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

// Caller is the authenticated identity invoking an operation
type Caller struct {
	ID   string
	Role Role
}

// LoanStatus represents the lifecycle state of a loan application
type LoanStatus string

const (
	LoanStatusPending     LoanStatus = "pending"
	LoanStatusUnderReview LoanStatus = "under_review"
	LoanStatusApproved    LoanStatus = "approved"
	LoanStatusRejected    LoanStatus = "rejected"
)

// IsValid reports whether s is one of the four workflow states
func (s LoanStatus) IsValid() bool {
	switch s {
	case LoanStatusPending, LoanStatusUnderReview, LoanStatusApproved, LoanStatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is legal from s
func (s LoanStatus) IsTerminal() bool {
	return s == LoanStatusApproved || s == LoanStatusRejected
}

// Loan represents a loan application in the domain.
// Status, ReviewedBy and ApprovedBy change only through the loan state machine.
type Loan struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	Amount     float64    `json:"amount"`
	Purpose    string     `json:"purpose"`
	Status     LoanStatus `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
	ReviewedBy string     `json:"reviewedBy,omitempty"`
	ApprovedBy string     `json:"approvedBy,omitempty"`
}

// Operation names a guarded workflow operation
type Operation string

const (
	OpCreateLoan   Operation = "create"
	OpReviewLoan   Operation = "review"
	OpDecideLoan   Operation = "decide"
	OpListLoans    Operation = "list"
	OpGetLoan      Operation = "get"
	OpListOwnLoans Operation = "list_own"
)

// Operations lists every operation that carries a policy
func Operations() []Operation {
	return []Operation{OpCreateLoan, OpReviewLoan, OpDecideLoan, OpListLoans, OpGetLoan, OpListOwnLoans}
}

// RoleSet is a set of roles
type RoleSet map[Role]struct{}

// NewRoleSet builds a set from the given roles
func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

// Has reports whether r is in the set
func (s RoleSet) Has(r Role) bool {
	_, ok := s[r]
	return ok
}

// Policy declares who may invoke an operation
type Policy struct {
	AllowedRoles  RoleSet
	AllowSameUser bool
}
