package repositories

import (
	"context"
	"errors"

	"loanflow/internal/adapters/persistence/models"
	"loanflow/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// loanRepository implements LoanRepository on top of GORM
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new GORM-backed loan repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

// Insert creates a new loan row; the auto-increment key becomes the loan id.
// The stored row is read back so callers see exactly what was persisted.
func (r *loanRepository) Insert(ctx context.Context, loan *domain.Loan) (*domain.Loan, error) {
	row := models.NewLoan(loan)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}

	var stored models.Loan
	if err := r.db.WithContext(ctx).Where("seq = ?", row.Seq).First(&stored).Error; err != nil {
		return nil, err
	}
	return stored.ToDomain(), nil
}

// FindByID gets a loan by its public id
func (r *loanRepository) FindByID(ctx context.Context, id string) (*domain.Loan, error) {
	seq, ok := models.ParseLoanID(id)
	if !ok {
		return nil, domain.ErrLoanNotFound
	}

	var row models.Loan
	err := r.db.WithContext(ctx).Where("seq = ?", seq).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}
	return row.ToDomain(), nil
}

// Snapshot lists all loans ordered by insertion
func (r *loanRepository) Snapshot(ctx context.Context) ([]domain.Loan, error) {
	var rows []*models.Loan
	if err := r.db.WithContext(ctx).Order("seq ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Loan, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row.ToDomain())
	}
	return out, nil
}

// Mutate locks the row for the duration of fn and persists the workflow columns
func (r *loanRepository) Mutate(ctx context.Context, id string, fn func(*domain.Loan) error) (*domain.Loan, error) {
	seq, ok := models.ParseLoanID(id)
	if !ok {
		return nil, domain.ErrLoanNotFound
	}

	var result *domain.Loan
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx
		// SQLite has no row locks; its write transaction already serializes.
		if tx.Dialector.Name() == "mysql" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var row models.Loan
		if err := query.Where("seq = ?", seq).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrLoanNotFound
			}
			return err
		}

		loan := row.ToDomain()
		if err := fn(loan); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"status":      string(loan.Status),
			"reviewed_by": loan.ReviewedBy,
			"approved_by": loan.ApprovedBy,
		}
		if err := tx.Model(&row).Updates(updates).Error; err != nil {
			return err
		}

		loan.ID = id
		result = loan
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Ping checks the database connection
func (r *loanRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
