package config

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"loanflow/internal/adapters/persistence/repositories"
	"loanflow/internal/core/domain"
	"loanflow/internal/core/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeederCreatesPendingDemoLoans(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMemoryLoanRepository()
	svc := services.NewLoanService(repo, services.NewAuthorizer(nil), nil, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)

	require.NoError(t, NewSeeder(svc).Run(ctx))

	snapshot, err := repo.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot, len(demoLoans))
	for i, loan := range snapshot {
		assert.Equal(t, demoLoans[i].userID, loan.UserID)
		assert.Equal(t, domain.LoanStatusPending, loan.Status)
	}
}

func TestSeederStopsWhenCreateDenied(t *testing.T) {
	repo := repositories.NewMemoryLoanRepository()
	authz := services.NewAuthorizer(map[domain.Operation]domain.Policy{
		domain.OpCreateLoan: {AllowedRoles: domain.NewRoleSet(domain.RoleOfficer)},
	})
	svc := services.NewLoanService(repo, authz, nil, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)

	err := NewSeeder(svc).Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
