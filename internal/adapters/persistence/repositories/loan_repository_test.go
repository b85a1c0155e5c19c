package repositories

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"loanflow/internal/adapters/persistence/models"
	"loanflow/internal/core/domain"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// =============================================================================
// GORM Loan Repository Test Suite (SQLite in-memory)
// =============================================================================

type GormLoanRepositorySuite struct {
	suite.Suite
	ctx  context.Context
	db   *gorm.DB
	repo LoanRepository
}

func TestGormLoanRepositorySuite(t *testing.T) {
	suite.Run(t, new(GormLoanRepositorySuite))
}

func (s *GormLoanRepositorySuite) SetupTest() {
	s.ctx = context.Background()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	s.Require().NoError(err)

	// one connection keeps the in-memory database alive and shared
	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	s.Require().NoError(models.AutoMigrate(db))
	s.db = db
	s.repo = NewLoanRepository(db)
}

func (s *GormLoanRepositorySuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	s.Require().NoError(sqlDB.Close())
}

func (s *GormLoanRepositorySuite) insert(userID string, amount float64) *domain.Loan {
	loan, err := s.repo.Insert(s.ctx, &domain.Loan{
		UserID:    userID,
		Amount:    amount,
		Purpose:   "purpose",
		Status:    domain.LoanStatusPending,
		CreatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	})
	s.Require().NoError(err)
	return loan
}

func (s *GormLoanRepositorySuite) TestInsertAssignsSequentialIDs() {
	first := s.insert("user1", 100)
	second := s.insert("user2", 200)

	s.Equal("loan_1", first.ID)
	s.Equal("loan_2", second.ID)
	s.Equal(domain.LoanStatusPending, first.Status)
}

func (s *GormLoanRepositorySuite) TestFindByID() {
	loan := s.insert("user1", 1500.5)

	found, err := s.repo.FindByID(s.ctx, loan.ID)
	s.Require().NoError(err)
	s.Equal("user1", found.UserID)
	s.Equal(1500.5, found.Amount)
	s.True(found.CreatedAt.Equal(loan.CreatedAt))

	for _, id := range []string{"loan_99", "loan_0", "loan_x", "99", ""} {
		_, err := s.repo.FindByID(s.ctx, id)
		s.ErrorIs(err, domain.ErrLoanNotFound, id)
	}
}

func (s *GormLoanRepositorySuite) TestAmountReadBackMatchesInsert() {
	for _, amount := range []float64{0.001, 1500.5, 123456.789, 1e13, 9.5e15} {
		loan := s.insert("user1", amount)
		s.Equal(amount, loan.Amount)

		found, err := s.repo.FindByID(s.ctx, loan.ID)
		s.Require().NoError(err)
		s.Equal(amount, found.Amount, "FindByID %v", amount)
		s.Greater(found.Amount, 0.0)
	}

	snapshot, err := s.repo.Snapshot(s.ctx)
	s.Require().NoError(err)
	s.Equal(0.001, snapshot[0].Amount)
}

func (s *GormLoanRepositorySuite) TestAmountColumnIsDouble() {
	var columnType string
	s.Require().NoError(s.db.Raw("SELECT type FROM pragma_table_info('loans') WHERE name = 'amount'").Scan(&columnType).Error)
	s.Equal("double", strings.ToLower(columnType))
}

func (s *GormLoanRepositorySuite) TestSnapshotKeepsInsertionOrder() {
	s.insert("user3", 1)
	s.insert("user1", 2)
	s.insert("user2", 3)

	snapshot, err := s.repo.Snapshot(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(snapshot, 3)
	s.Equal([]string{"user3", "user1", "user2"}, []string{snapshot[0].UserID, snapshot[1].UserID, snapshot[2].UserID})
}

func (s *GormLoanRepositorySuite) TestMutate() {
	loan := s.insert("user1", 100)

	updated, err := s.repo.Mutate(s.ctx, loan.ID, func(l *domain.Loan) error {
		l.Status = domain.LoanStatusUnderReview
		l.ReviewedBy = "officer1"
		return nil
	})
	s.Require().NoError(err)
	s.Equal(loan.ID, updated.ID)
	s.Equal(domain.LoanStatusUnderReview, updated.Status)

	found, err := s.repo.FindByID(s.ctx, loan.ID)
	s.Require().NoError(err)
	s.Equal(domain.LoanStatusUnderReview, found.Status)
	s.Equal("officer1", found.ReviewedBy)
}

func (s *GormLoanRepositorySuite) TestMutateRollsBackOnError() {
	loan := s.insert("user1", 100)
	boom := errors.New("boom")

	_, err := s.repo.Mutate(s.ctx, loan.ID, func(l *domain.Loan) error {
		l.Status = domain.LoanStatusApproved
		return boom
	})
	s.ErrorIs(err, boom)

	found, err := s.repo.FindByID(s.ctx, loan.ID)
	s.Require().NoError(err)
	s.Equal(domain.LoanStatusPending, found.Status)
}

func (s *GormLoanRepositorySuite) TestMutateUnknownLoan() {
	_, err := s.repo.Mutate(s.ctx, "loan_7", func(*domain.Loan) error { return nil })
	s.ErrorIs(err, domain.ErrLoanNotFound)
}

func (s *GormLoanRepositorySuite) TestPing() {
	s.NoError(s.repo.Ping(s.ctx))
}

func TestParseLoanIDRoundTrip(t *testing.T) {
	seq, ok := models.ParseLoanID(models.FormatLoanID(42))
	require.True(t, ok)
	require.Equal(t, uint64(42), seq)
}
