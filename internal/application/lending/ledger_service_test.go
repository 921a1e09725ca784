package lending

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf-lend/backend/internal/domain/lending"
	"github.com/spf-lend/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seedLoan(t *testing.T, store *fakeStore, principal, rate string, typ lending.InterestType, tenure int, disbursement time.Time) *lending.Loan {
	t.Helper()
	loan, err := lending.NewLoan(uuid.New(),
		valueobject.NewMoneyINR(decimal.RequireFromString(principal)),
		decimal.RequireFromString(rate), typ, tenure, lending.TenureUnitMonth,
		disbursement, "")
	require.NoError(t, err)
	store.loans[loan.ID] = loan
	return loan
}

func seedPayment(t *testing.T, store *fakeStore, loanID uuid.UUID, amount string, date time.Time, category lending.PaymentFor) *lending.Payment {
	t.Helper()
	p, err := lending.NewPayment(loanID, decimal.RequireFromString(amount), date, category, lending.PaymentModeCash, "")
	require.NoError(t, err)
	store.payments[p.ID] = p
	return p
}

func seedPenalty(t *testing.T, store *fakeStore, loanID uuid.UUID, amount string, date time.Time) *lending.Penalty {
	t.Helper()
	p, err := lending.NewPenalty(loanID, decimal.RequireFromString(amount), date, "manual fee")
	require.NoError(t, err)
	store.penalties[p.ID] = p
	return p
}

func newLedgerService(store *fakeStore) *LedgerService {
	return NewLedgerService(&fakeTM{store}, &fakeLoanRepo{store}, zap.NewNop())
}

func TestLedgerService_Recalculate_Flat(t *testing.T) {
	store := newFakeStore()
	disbursed := time.Date(2026, 1, 1, 0, 0, 0, 0, lending.IST)
	loan := seedLoan(t, store, "10000", "2", lending.InterestTypeFlat, 10, disbursed)

	seedPenalty(t, store, loan.ID, "150", disbursed.AddDate(0, 1, 6))
	seedPayment(t, store, loan.ID, "2650", disbursed.AddDate(0, 1, 10), lending.PaymentForEMI)

	svc := newLedgerService(store)
	resp, err := svc.Recalculate(context.Background(), loan.ID)
	require.NoError(t, err)

	// 10000 principal + 2000 flat interest + 150 penalties - 2650 paid
	assert.Equal(t, "9500.00", resp.OutstandingAmount.StringFixed(2))
	assert.Equal(t, string(lending.LoanStatusActive), resp.Status)
}

func TestLedgerService_Recalculate_ReducingIgnoresInterestPayments(t *testing.T) {
	store := newFakeStore()
	disbursed := time.Date(2026, 1, 1, 0, 0, 0, 0, lending.IST)
	loan := seedLoan(t, store, "10000", "2", lending.InterestTypeReducing, 10, disbursed)

	seedPenalty(t, store, loan.ID, "100", disbursed.AddDate(0, 1, 6))
	seedPayment(t, store, loan.ID, "500", disbursed.AddDate(0, 1, 10), lending.PaymentForInterest)
	seedPayment(t, store, loan.ID, "2000", disbursed.AddDate(0, 1, 10), lending.PaymentForEMI)

	svc := newLedgerService(store)
	resp, err := svc.Recalculate(context.Background(), loan.ID)
	require.NoError(t, err)

	// interest servicing never reduces a reducing-balance principal
	assert.Equal(t, "8100.00", resp.OutstandingAmount.StringFixed(2))
}

func TestLedgerService_Recalculate_OverpaymentCloses(t *testing.T) {
	store := newFakeStore()
	disbursed := time.Date(2026, 1, 1, 0, 0, 0, 0, lending.IST)
	loan := seedLoan(t, store, "10000", "2", lending.InterestTypeFlat, 10, disbursed)

	seedPayment(t, store, loan.ID, "12500", disbursed.AddDate(0, 2, 0), lending.PaymentForEMI)

	svc := newLedgerService(store)
	resp, err := svc.Recalculate(context.Background(), loan.ID)
	require.NoError(t, err)

	assert.Equal(t, "0.00", resp.OutstandingAmount.StringFixed(2))
	assert.Equal(t, string(lending.LoanStatusClosed), resp.Status)
}

func TestLedgerService_Recalculate_TerminalStatusSticky(t *testing.T) {
	store := newFakeStore()
	disbursed := time.Date(2026, 1, 1, 0, 0, 0, 0, lending.IST)
	loan := seedLoan(t, store, "10000", "2", lending.InterestTypeFlat, 10, disbursed)
	require.NoError(t, loan.WriteOff())

	seedPayment(t, store, loan.ID, "20000", disbursed.AddDate(0, 2, 0), lending.PaymentForEMI)

	svc := newLedgerService(store)
	resp, err := svc.Recalculate(context.Background(), loan.ID)
	require.NoError(t, err)

	assert.Equal(t, string(lending.LoanStatusWrittenOff), resp.Status)
}

func TestLedgerService_Recalculate_NotFound(t *testing.T) {
	svc := newLedgerService(newFakeStore())
	_, err := svc.Recalculate(context.Background(), uuid.New())
	assert.Error(t, err)
}

func TestLedgerService_SweepOverdue(t *testing.T) {
	store := newFakeStore()
	// one month tenure disbursed long ago, due date is well past
	seedLoan(t, store, "5000", "2", lending.InterestTypeFlat, 1,
		time.Now().AddDate(0, -6, 0))
	// disbursed today, nowhere near due
	fresh := seedLoan(t, store, "5000", "2", lending.InterestTypeFlat, 12, time.Now())

	svc := newLedgerService(store)
	changed, err := svc.SweepOverdue(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), changed)
	assert.Equal(t, lending.LoanStatusActive, store.loans[fresh.ID].Status)
}
