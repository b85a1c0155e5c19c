package services

import (
	"loanflow/internal/core/domain"
)

// DefaultLoanPolicies returns the reference policy for every workflow operation.
// The admin role is granted nothing here; operators grant it through the policy file.
func DefaultLoanPolicies() map[domain.Operation]domain.Policy {
	return map[domain.Operation]domain.Policy{
		domain.OpCreateLoan:   {AllowedRoles: domain.NewRoleSet(domain.RoleUser)},
		domain.OpReviewLoan:   {AllowedRoles: domain.NewRoleSet(domain.RoleOfficer)},
		domain.OpDecideLoan:   {AllowedRoles: domain.NewRoleSet(domain.RoleManager)},
		domain.OpListLoans:    {AllowedRoles: domain.NewRoleSet(domain.RoleOfficer, domain.RoleManager)},
		domain.OpGetLoan:      {AllowedRoles: domain.NewRoleSet(domain.RoleOfficer, domain.RoleManager), AllowSameUser: true},
		domain.OpListOwnLoans: {AllowedRoles: domain.NewRoleSet(domain.RoleUser)},
	}
}

// Permit decides a single request against a policy.
// ownerID is the resource owner, or empty when the operation has no owner.
func Permit(policy domain.Policy, caller domain.Caller, ownerID string) bool {
	if policy.AllowedRoles.Has(caller.Role) {
		return true
	}
	return policy.AllowSameUser && ownerID != "" && ownerID == caller.ID
}

// Authorizer holds the declared policy per operation
type Authorizer struct {
	policies map[domain.Operation]domain.Policy
}

// NewAuthorizer creates an authorizer from the defaults with overrides applied on top
func NewAuthorizer(overrides map[domain.Operation]domain.Policy) *Authorizer {
	policies := DefaultLoanPolicies()
	for op, p := range overrides {
		policies[op] = p
	}
	return &Authorizer{policies: policies}
}

// Policy returns the policy declared for op
func (a *Authorizer) Policy(op domain.Operation) (domain.Policy, bool) {
	p, ok := a.policies[op]
	return p, ok
}

// Authorize returns domain.ErrForbidden unless the caller satisfies op's policy.
// Operations without a declared policy are always denied.
func (a *Authorizer) Authorize(op domain.Operation, caller domain.Caller, ownerID string) error {
	p, ok := a.policies[op]
	if !ok || !Permit(p, caller, ownerID) {
		return domain.ErrForbidden
	}
	return nil
}

// RolePermits reports whether the caller's role alone satisfies op's policy
func (a *Authorizer) RolePermits(op domain.Operation, role domain.Role) bool {
	p, ok := a.policies[op]
	return ok && p.AllowedRoles.Has(role)
}
