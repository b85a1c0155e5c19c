package config

import (
	"context"
	"log"

	"loanflow/internal/core/domain"
	"loanflow/internal/core/services"
)

// LoanCreator is the part of the workflow the seeder needs
type LoanCreator interface {
	Create(ctx context.Context, caller domain.Caller, input *services.CreateLoanInput) (*domain.Loan, error)
}

// demoLoan is one sample application
type demoLoan struct {
	userID  string
	amount  float64
	purpose string
}

var demoLoans = []demoLoan{
	{userID: "user456", amount: 50000, purpose: "Home renovation"},
	{userID: "user111", amount: 100000, purpose: "Business expansion"},
	{userID: "user456", amount: 25000, purpose: "Education expenses"},
}

// Seeder handles demo data seeding
type Seeder struct {
	loans LoanCreator
}

// NewSeeder creates a new seeder instance
func NewSeeder(loans LoanCreator) *Seeder {
	return &Seeder{loans: loans}
}

// Run submits the demo applications through the workflow.
// This is for development only; every seeded loan starts pending.
func (s *Seeder) Run(ctx context.Context) error {
	log.Println("🌱 Seeding demo loan applications...")

	for _, d := range demoLoans {
		amount := d.amount
		caller := domain.Caller{ID: d.userID, Role: domain.RoleUser}
		loan, err := s.loans.Create(ctx, caller, &services.CreateLoanInput{Amount: &amount, Purpose: d.purpose})
		if err != nil {
			return err
		}
		log.Printf("   %s for %s (%.2f)", loan.ID, loan.UserID, loan.Amount)
	}

	log.Println("✅ Demo seeding completed")
	return nil
}
