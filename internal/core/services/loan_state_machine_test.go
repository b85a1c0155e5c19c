package services

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"loanflow/internal/adapters/persistence/repositories"
	"loanflow/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestMachine() (*LoanStateMachine, repositories.LoanRepository) {
	repo := repositories.NewMemoryLoanRepository()
	return NewLoanStateMachine(repo, func() time.Time { return fixedNow }), repo
}

func TestStateMachineCreate(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMachine()

	loan, err := m.Create(ctx, "user456", 50000, "Home renovation")
	require.NoError(t, err)
	assert.Equal(t, "loan_1", loan.ID)
	assert.Equal(t, domain.LoanStatusPending, loan.Status)
	assert.Equal(t, "user456", loan.UserID)
	assert.Equal(t, fixedNow, loan.CreatedAt)
	assert.Empty(t, loan.ReviewedBy)
	assert.Empty(t, loan.ApprovedBy)

	second, err := m.Create(ctx, "user111", 1, "Car")
	require.NoError(t, err)
	assert.Equal(t, "loan_2", second.ID)
}

func TestStateMachineCreateValidation(t *testing.T) {
	ctx := context.Background()
	m, repo := newTestMachine()

	cases := []struct {
		name    string
		amount  float64
		purpose string
		msg     string
	}{
		{"blank purpose", 1000, "   ", MsgAmountPurposeRequired},
		{"zero amount", 0, "Car", MsgAmountNotPositive},
		{"negative amount", -5, "Car", MsgAmountNotPositive},
		{"NaN amount", math.NaN(), "Car", MsgAmountNotPositive},
		{"infinite amount", math.Inf(1), "Car", MsgAmountNotPositive},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := m.Create(ctx, "user1", tc.amount, tc.purpose)
			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tc.msg, verr.Message)
		})
	}

	snapshot, err := repo.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, snapshot, "rejected input never reaches the repository")
}

func TestStateMachineLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("approve path", func(t *testing.T) {
		m, _ := newTestMachine()
		loan, err := m.Create(ctx, "user456", 50000, "Home renovation")
		require.NoError(t, err)

		reviewed, err := m.Review(ctx, loan.ID, "officer1")
		require.NoError(t, err)
		assert.Equal(t, domain.LoanStatusUnderReview, reviewed.Status)
		assert.Equal(t, "officer1", reviewed.ReviewedBy)
		assert.Empty(t, reviewed.ApprovedBy)

		approved, err := m.Decide(ctx, loan.ID, "manager1", true)
		require.NoError(t, err)
		assert.Equal(t, domain.LoanStatusApproved, approved.Status)
		assert.Equal(t, "manager1", approved.ApprovedBy)
		assert.Equal(t, "officer1", approved.ReviewedBy)
	})

	t.Run("reject path", func(t *testing.T) {
		m, _ := newTestMachine()
		loan, err := m.Create(ctx, "user456", 100, "Phone")
		require.NoError(t, err)
		_, err = m.Review(ctx, loan.ID, "officer1")
		require.NoError(t, err)

		rejected, err := m.Decide(ctx, loan.ID, "manager1", false)
		require.NoError(t, err)
		assert.Equal(t, domain.LoanStatusRejected, rejected.Status)
		assert.Equal(t, "manager1", rejected.ApprovedBy)
	})
}

func TestStateMachineIllegalTransitions(t *testing.T) {
	ctx := context.Background()

	t.Run("decide on pending fails", func(t *testing.T) {
		m, repo := newTestMachine()
		loan, err := m.Create(ctx, "user1", 10, "x")
		require.NoError(t, err)

		_, err = m.Decide(ctx, loan.ID, "manager1", true)
		var terr *domain.InvalidTransitionError
		require.True(t, errors.As(err, &terr))
		assert.Equal(t, domain.LoanStatusPending, terr.Current)
		assert.Equal(t, "Loan must be under review to approve/reject. Current status: pending", err.Error())

		stored, err := repo.FindByID(ctx, loan.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.LoanStatusPending, stored.Status)
		assert.Empty(t, stored.ApprovedBy)
	})

	t.Run("review twice fails with current status", func(t *testing.T) {
		m, _ := newTestMachine()
		loan, err := m.Create(ctx, "user1", 10, "x")
		require.NoError(t, err)
		_, err = m.Review(ctx, loan.ID, "officer1")
		require.NoError(t, err)

		_, err = m.Review(ctx, loan.ID, "officer2")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		assert.Equal(t, "Loan cannot be reviewed. Current status: under_review", err.Error())
	})

	t.Run("terminal states reject everything", func(t *testing.T) {
		for _, approved := range []bool{true, false} {
			m, repo := newTestMachine()
			loan, err := m.Create(ctx, "user1", 10, "x")
			require.NoError(t, err)
			_, err = m.Review(ctx, loan.ID, "officer1")
			require.NoError(t, err)
			final, err := m.Decide(ctx, loan.ID, "manager1", approved)
			require.NoError(t, err)

			_, err = m.Review(ctx, loan.ID, "officer2")
			assert.ErrorIs(t, err, domain.ErrInvalidTransition)
			assert.Contains(t, err.Error(), "Current status: "+string(final.Status))

			_, err = m.Decide(ctx, loan.ID, "manager2", !approved)
			assert.ErrorIs(t, err, domain.ErrInvalidTransition)
			assert.Contains(t, err.Error(), "Current status: "+string(final.Status))

			stored, err := repo.FindByID(ctx, loan.ID)
			require.NoError(t, err)
			assert.Equal(t, final.Status, stored.Status)
			assert.Equal(t, "officer1", stored.ReviewedBy)
			assert.Equal(t, "manager1", stored.ApprovedBy)
		}
	})

	t.Run("unknown loan is not found", func(t *testing.T) {
		m, _ := newTestMachine()
		_, err := m.Review(ctx, "loan_99", "officer1")
		assert.ErrorIs(t, err, domain.ErrLoanNotFound)
		_, err = m.Decide(ctx, "loan_99", "manager1", true)
		assert.ErrorIs(t, err, domain.ErrLoanNotFound)
	})
}

func TestStateMachineConcurrentReview(t *testing.T) {
	ctx := context.Background()
	m, repo := newTestMachine()
	loan, err := m.Create(ctx, "user1", 10, "x")
	require.NoError(t, err)

	const reviewers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes []string
		refused   int
	)
	start := make(chan struct{})
	for i := 0; i < reviewers; i++ {
		officer := "officer" + string(rune('A'+i))
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := m.Review(ctx, loan.ID, officer)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes = append(successes, officer)
			} else if errors.Is(err, domain.ErrInvalidTransition) {
				refused++
			}
		}()
	}
	close(start)
	wg.Wait()

	require.Len(t, successes, 1)
	assert.Equal(t, reviewers-1, refused)

	stored, err := repo.FindByID(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, successes[0], stored.ReviewedBy)
	assert.Equal(t, domain.LoanStatusUnderReview, stored.Status)
}
