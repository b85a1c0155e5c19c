package services

import (
	"testing"

	"loanflow/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filterFixture() []domain.Loan {
	return []domain.Loan{
		{ID: "loan_1", UserID: "user1", Status: domain.LoanStatusPending},
		{ID: "loan_2", UserID: "user2", Status: domain.LoanStatusUnderReview},
		{ID: "loan_3", UserID: "user1", Status: domain.LoanStatusApproved},
		{ID: "loan_4", UserID: "user2", Status: domain.LoanStatusPending},
		{ID: "loan_5", UserID: "user1", Status: domain.LoanStatusPending},
	}
}

func ids(loans []domain.Loan) []string {
	out := make([]string, 0, len(loans))
	for _, l := range loans {
		out = append(out, l.ID)
	}
	return out
}

func TestFilterLoans(t *testing.T) {
	snapshot := filterFixture()

	t.Run("no predicates returns snapshot unchanged", func(t *testing.T) {
		got := FilterLoans(snapshot, LoanFilter{})
		assert.Equal(t, snapshot, got)
	})

	t.Run("status only keeps insertion order", func(t *testing.T) {
		got := FilterLoans(snapshot, LoanFilter{Status: domain.LoanStatusPending})
		assert.Equal(t, []string{"loan_1", "loan_4", "loan_5"}, ids(got))
	})

	t.Run("user only", func(t *testing.T) {
		got := FilterLoans(snapshot, LoanFilter{UserID: "user2"})
		assert.Equal(t, []string{"loan_2", "loan_4"}, ids(got))
	})

	t.Run("both predicates are an intersection", func(t *testing.T) {
		byStatus := FilterLoans(snapshot, LoanFilter{Status: domain.LoanStatusPending})
		byUser := FilterLoans(snapshot, LoanFilter{UserID: "user1"})
		both := FilterLoans(snapshot, LoanFilter{Status: domain.LoanStatusPending, UserID: "user1"})

		var want []string
		for _, s := range ids(byStatus) {
			for _, u := range ids(byUser) {
				if s == u {
					want = append(want, s)
				}
			}
		}
		assert.Equal(t, want, ids(both))
		assert.Equal(t, []string{"loan_1", "loan_5"}, ids(both))
	})

	t.Run("unknown status matches nothing", func(t *testing.T) {
		got := FilterLoans(snapshot, LoanFilter{Status: "archived"})
		assert.Empty(t, got)
	})

	t.Run("does not mutate snapshot", func(t *testing.T) {
		before := filterFixture()
		_ = FilterLoans(snapshot, LoanFilter{UserID: "user1"})
		assert.Equal(t, before, snapshot)
	})
}

func TestNewLoanList(t *testing.T) {
	list := NewLoanList(nil)
	require.NotNil(t, list.Loans)
	assert.Equal(t, 0, list.Count)

	list = NewLoanList(filterFixture())
	assert.Equal(t, len(list.Loans), list.Count)
	assert.Equal(t, 5, list.Count)
}
