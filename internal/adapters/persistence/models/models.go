package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"loanflow/internal/core/domain"

	"gorm.io/gorm"
)

// LoanIDPrefix prefixes every public loan identifier
const LoanIDPrefix = "loan_"

// Loan represents loans table
type Loan struct {
	Seq        uint      `gorm:"primaryKey;autoIncrement"`
	UserID     string    `gorm:"size:128;not null;index"`
	Amount     float64   `gorm:"type:double;not null"`
	Purpose    string    `gorm:"type:text;not null"`
	Status     string    `gorm:"size:20;not null;index;default:'pending'"`
	ReviewedBy string    `gorm:"size:128"`
	ApprovedBy string    `gorm:"size:128"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (Loan) TableName() string {
	return "loans"
}

// FormatLoanID renders a sequence number as a public loan id
func FormatLoanID(seq uint64) string {
	return fmt.Sprintf("%s%d", LoanIDPrefix, seq)
}

// ParseLoanID extracts the sequence number from a public loan id
func ParseLoanID(id string) (uint64, bool) {
	raw, ok := strings.CutPrefix(id, LoanIDPrefix)
	if !ok {
		return 0, false
	}
	seq, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || seq == 0 {
		return 0, false
	}
	return seq, true
}

// ToDomain converts the row into a domain loan
func (m *Loan) ToDomain() *domain.Loan {
	return &domain.Loan{
		ID:         FormatLoanID(uint64(m.Seq)),
		UserID:     m.UserID,
		Amount:     m.Amount,
		Purpose:    m.Purpose,
		Status:     domain.LoanStatus(m.Status),
		CreatedAt:  m.CreatedAt,
		ReviewedBy: m.ReviewedBy,
		ApprovedBy: m.ApprovedBy,
	}
}

// NewLoan builds a row from a domain loan; the sequence is assigned by the database
func NewLoan(l *domain.Loan) *Loan {
	return &Loan{
		UserID:     l.UserID,
		Amount:     l.Amount,
		Purpose:    l.Purpose,
		Status:     string(l.Status),
		ReviewedBy: l.ReviewedBy,
		ApprovedBy: l.ApprovedBy,
		CreatedAt:  l.CreatedAt,
	}
}

// AutoMigrate creates or updates the loans table
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Loan{})
}
