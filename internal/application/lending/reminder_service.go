package lending

import (
	"context"
	"fmt"
	"time"

	"github.com/spf-lend/backend/internal/domain/lending"
	"github.com/spf-lend/backend/internal/domain/notification"
	"github.com/spf-lend/backend/internal/domain/settings"
	"go.uber.org/zap"
)

// BorrowerMessenger sends outward-facing messages to borrowers. Both
// channels are best effort here; reminder delivery carries no retry
// guarantee, unlike penalty notifications.
type BorrowerMessenger interface {
	SendEmail(ctx context.Context, to, subject, body string) error
	SendText(ctx context.Context, phone, message string) error
}

// ReminderReport summarizes one reminder run
type ReminderReport struct {
	LoansScanned  int `json:"loans_scanned"`
	RemindersSent int `json:"reminders_sent"`
	Errors        int `json:"errors"`
}

// ReminderService nudges borrowers before late fees start: once three days
// before the grace day and once on the grace day itself. Loans whose
// month is already paid are not reminded.
type ReminderService struct {
	loans         lending.LoanRepository
	payments      lending.PaymentRepository
	borrowers     lending.BorrowerRepository
	settings      settings.Repository
	notifications notification.Repository
	messenger     BorrowerMessenger
	logger        *zap.Logger
}

// NewReminderService creates a new ReminderService
func NewReminderService(
	loans lending.LoanRepository,
	payments lending.PaymentRepository,
	borrowers lending.BorrowerRepository,
	settingsRepo settings.Repository,
	notifications notification.Repository,
	messenger BorrowerMessenger,
	logger *zap.Logger,
) *ReminderService {
	return &ReminderService{
		loans:         loans,
		payments:      payments,
		borrowers:     borrowers,
		settings:      settingsRepo,
		notifications: notifications,
		messenger:     messenger,
		logger:        logger,
	}
}

// Run executes one reminder sweep as of now
func (s *ReminderService) Run(ctx context.Context, now time.Time) (ReminderReport, error) {
	var report ReminderReport

	snapshot, err := s.settings.Snapshot(ctx)
	if err != nil {
		return report, err
	}

	loans, err := s.loans.FindByStatuses(ctx, lending.LoanStatusActive, lending.LoanStatusOverdue)
	if err != nil {
		return report, err
	}
	report.LoansScanned = len(loans)

	for i := range loans {
		sent, err := s.remindLoan(ctx, &loans[i], snapshot, now)
		if err != nil {
			report.Errors++
			s.logger.Error("Reminder failed for loan",
				zap.String("loan_id", loans[i].ID.String()),
				zap.Error(err))
			continue
		}
		if sent {
			report.RemindersSent++
		}
	}
	return report, nil
}

func (s *ReminderService) remindLoan(ctx context.Context, loan *lending.Loan, snapshot settings.Snapshot, now time.Time) (bool, error) {
	policy := lending.ResolvePenaltyPolicy(loan, snapshot.PenaltyAmount(), snapshot.PenaltyDays())
	if !lending.ReminderDue(now, policy.GraceDay) {
		return false, nil
	}

	local := now.In(lending.IST)
	monthStart := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, lending.IST)
	monthEnd := monthStart.AddDate(0, 1, 0)
	satisfied, err := s.payments.HasInRange(ctx, loan.ID, monthStart, monthEnd,
		lending.PaymentForInterest, lending.PaymentForEMI)
	if err != nil {
		return false, err
	}
	if satisfied {
		return false, nil
	}

	borrower, err := s.borrowers.FindByID(ctx, loan.BorrowerID)
	if err != nil {
		return false, err
	}

	message := fmt.Sprintf("Dear %s, your payment of this month is pending. Please pay by day %d to avoid a late fee of %s per day.",
		borrower.Name, policy.GraceDay, policy.Amount.StringFixed(2))

	n, err := notification.New("Payment reminder",
		fmt.Sprintf("Reminder sent to %s for loan %s", borrower.Name, loan.ID),
		notification.TypeReminder)
	if err == nil {
		err = s.notifications.Save(ctx, n)
	}
	if err != nil {
		return false, err
	}

	if s.messenger != nil {
		if borrower.Email != "" {
			if err := s.messenger.SendEmail(ctx, borrower.Email, "Payment reminder", message); err != nil {
				s.logger.Warn("Reminder email failed",
					zap.String("borrower_id", borrower.ID.String()), zap.Error(err))
			}
		}
		if borrower.Phone != "" {
			if err := s.messenger.SendText(ctx, borrower.Phone, message); err != nil {
				s.logger.Warn("Reminder text failed",
					zap.String("borrower_id", borrower.ID.String()), zap.Error(err))
			}
		}
	}
	return true, nil
}
