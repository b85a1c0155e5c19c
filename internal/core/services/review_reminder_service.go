package services

import (
	"context"
	"log/slog"
	"time"

	"loanflow/internal/adapters/persistence/repositories"
	"loanflow/internal/core/domain"

	"github.com/robfig/cron/v3"
)

// ============================================================
// Reminder: applications waiting on an officer or manager
// ============================================================

// ReviewReminderService periodically reports loans stuck before a decision
type ReviewReminderService struct {
	repo       repositories.LoanRepository
	staleAfter time.Duration
	now        func() time.Time
	logger     *slog.Logger
	cron       *cron.Cron
}

// NewReviewReminderService creates a reminder service; now defaults to time.Now
func NewReviewReminderService(
	repo repositories.LoanRepository,
	staleAfter time.Duration,
	logger *slog.Logger,
	now func() time.Time,
) *ReviewReminderService {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewReminderService{
		repo:       repo,
		staleAfter: staleAfter,
		now:        now,
		logger:     logger,
	}
}

// Start schedules the sweep with a standard 5-field cron spec
func (s *ReviewReminderService) Start(schedule string) error {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		if _, err := s.Sweep(context.Background()); err != nil {
			s.logger.Error("review reminder sweep failed", "error", err)
		}
	}); err != nil {
		return err
	}

	s.cron = c
	s.cron.Start()
	s.logger.Info("review reminder started", "schedule", schedule, "stale_after", s.staleAfter.String())
	return nil
}

// Stop waits for a running sweep to finish
func (s *ReviewReminderService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.logger.Info("review reminder stopped")
}

// Sweep returns pending and under-review loans older than the stale threshold
func (s *ReviewReminderService) Sweep(ctx context.Context) ([]domain.Loan, error) {
	snapshot, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := s.now().Add(-s.staleAfter)
	var stale []domain.Loan
	for _, status := range []domain.LoanStatus{domain.LoanStatusPending, domain.LoanStatusUnderReview} {
		for _, loan := range FilterLoans(snapshot, LoanFilter{Status: status}) {
			if loan.CreatedAt.Before(cutoff) {
				stale = append(stale, loan)
			}
		}
	}

	for _, loan := range stale {
		s.logger.WarnContext(ctx, "loan awaiting decision",
			"loan_id", loan.ID,
			"status", loan.Status,
			"user_id", loan.UserID,
			"age", s.now().Sub(loan.CreatedAt).Round(time.Minute).String(),
		)
	}
	if len(stale) > 0 {
		s.logger.InfoContext(ctx, "review reminder sweep", "stale_loans", len(stale))
	}
	return stale, nil
}
