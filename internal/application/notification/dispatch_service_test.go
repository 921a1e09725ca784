package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf-lend/backend/internal/domain/lending"
	"github.com/spf-lend/backend/internal/domain/shared"
	"github.com/spf-lend/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubPenaltyRepo struct {
	penalties map[uuid.UUID]*lending.Penalty
	saveErr   error
}

func (r *stubPenaltyRepo) FindByID(_ context.Context, id uuid.UUID) (*lending.Penalty, error) {
	p, ok := r.penalties[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *stubPenaltyRepo) FindByLoan(_ context.Context, loanID uuid.UUID) ([]lending.Penalty, error) {
	var out []lending.Penalty
	for _, p := range r.penalties {
		if p.LoanID == loanID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubPenaltyRepo) Save(_ context.Context, p *lending.Penalty) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.penalties[p.ID] = p
	return nil
}

func (r *stubPenaltyRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.penalties, id)
	return nil
}

func (r *stubPenaltyRepo) SumForLoan(_ context.Context, _ uuid.UUID) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (r *stubPenaltyRepo) ExistsOnDate(_ context.Context, _ uuid.UUID, _ time.Time, _ string) (bool, error) {
	return false, nil
}

func (r *stubPenaltyRepo) FindUnnotified(_ context.Context) ([]lending.Penalty, error) {
	var out []lending.Penalty
	for _, p := range r.penalties {
		if !p.NotificationSent {
			out = append(out, *p)
		}
	}
	return out, nil
}

type stubLoanRepo struct {
	loans map[uuid.UUID]*lending.Loan
}

func (r *stubLoanRepo) FindByID(_ context.Context, id uuid.UUID) (*lending.Loan, error) {
	loan, ok := r.loans[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return loan, nil
}

func (r *stubLoanRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*lending.Loan, error) {
	return r.FindByID(ctx, id)
}

func (r *stubLoanRepo) FindAll(_ context.Context, _ shared.Filter) ([]lending.Loan, error) {
	return nil, nil
}

func (r *stubLoanRepo) Count(_ context.Context, _ shared.Filter) (int64, error) { return 0, nil }

func (r *stubLoanRepo) FindByStatuses(_ context.Context, _ ...lending.LoanStatus) ([]lending.Loan, error) {
	return nil, nil
}

func (r *stubLoanRepo) FindLiveByBorrower(_ context.Context, _ uuid.UUID) ([]lending.Loan, error) {
	return nil, nil
}

func (r *stubLoanRepo) Save(_ context.Context, loan *lending.Loan) error {
	r.loans[loan.ID] = loan
	return nil
}

func (r *stubLoanRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.loans, id)
	return nil
}

func (r *stubLoanRepo) MarkOverdueBefore(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

type stubBorrowerRepo struct {
	borrowers map[uuid.UUID]*lending.Borrower
}

func (r *stubBorrowerRepo) FindByID(_ context.Context, id uuid.UUID) (*lending.Borrower, error) {
	b, ok := r.borrowers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return b, nil
}

func (r *stubBorrowerRepo) FindAll(_ context.Context, _ shared.Filter) ([]lending.Borrower, error) {
	return nil, nil
}

func (r *stubBorrowerRepo) Count(_ context.Context, _ shared.Filter) (int64, error) { return 0, nil }

func (r *stubBorrowerRepo) FindByStatus(_ context.Context, _ lending.BorrowerStatus) ([]lending.Borrower, error) {
	return nil, nil
}

func (r *stubBorrowerRepo) Save(_ context.Context, b *lending.Borrower) error {
	r.borrowers[b.ID] = b
	return nil
}

func (r *stubBorrowerRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.borrowers, id)
	return nil
}

// recordingMessenger records sends and can fail one channel on demand
type recordingMessenger struct {
	emails   []string
	texts    []string
	emailErr error
	textErr  error
}

func (m *recordingMessenger) SendEmail(_ context.Context, to, _, _ string) error {
	if m.emailErr != nil {
		return m.emailErr
	}
	m.emails = append(m.emails, to)
	return nil
}

func (m *recordingMessenger) SendText(_ context.Context, phone, _ string) error {
	if m.textErr != nil {
		return m.textErr
	}
	m.texts = append(m.texts, phone)
	return nil
}

type dispatchFixture struct {
	penalties *stubPenaltyRepo
	loans     *stubLoanRepo
	borrowers *stubBorrowerRepo
	messenger *recordingMessenger
	svc       *DispatchService
}

func newDispatchFixture(t *testing.T) *dispatchFixture {
	t.Helper()
	f := &dispatchFixture{
		penalties: &stubPenaltyRepo{penalties: make(map[uuid.UUID]*lending.Penalty)},
		loans:     &stubLoanRepo{loans: make(map[uuid.UUID]*lending.Loan)},
		borrowers: &stubBorrowerRepo{borrowers: make(map[uuid.UUID]*lending.Borrower)},
		messenger: &recordingMessenger{},
	}
	f.svc = NewDispatchService(f.penalties, f.loans, f.borrowers, f.messenger, zap.NewNop())
	return f
}

func (f *dispatchFixture) seed(t *testing.T, email, phone string) *lending.Penalty {
	t.Helper()
	borrower, err := lending.NewBorrower("Ravi Kumar", "9876543210", email, "12 Main Road")
	require.NoError(t, err)
	borrower.Phone = phone
	f.borrowers.borrowers[borrower.ID] = borrower

	loan, err := lending.NewLoan(borrower.ID,
		valueobject.NewMoneyINR(decimal.RequireFromString("10000")),
		decimal.RequireFromString("2"), lending.InterestTypeFlat, 10,
		lending.TenureUnitMonth, time.Date(2026, 1, 1, 0, 0, 0, 0, lending.IST), "")
	require.NoError(t, err)
	f.loans.loans[loan.ID] = loan

	penalty, err := lending.NewPenalty(loan.ID, decimal.RequireFromString("50"),
		time.Date(2026, 3, 6, 0, 0, 0, 0, lending.IST), lending.AutomaticLateFeeReason)
	require.NoError(t, err)
	f.penalties.penalties[penalty.ID] = penalty
	return penalty
}

func TestDispatchService_Run_DeliversAndMarks(t *testing.T) {
	f := newDispatchFixture(t)
	penalty := f.seed(t, "ravi@example.com", "9876543210")

	report, err := f.svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Pending)
	assert.Equal(t, 1, report.Delivered)
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, []string{"ravi@example.com"}, f.messenger.emails)
	assert.Equal(t, []string{"9876543210"}, f.messenger.texts)
	assert.True(t, f.penalties.penalties[penalty.ID].NotificationSent)
}

func TestDispatchService_Run_FailureKeepsPenaltyPending(t *testing.T) {
	f := newDispatchFixture(t)
	penalty := f.seed(t, "ravi@example.com", "9876543210")
	f.messenger.emailErr = errors.New("smtp down")

	report, err := f.svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 0, report.Delivered)
	assert.False(t, f.penalties.penalties[penalty.ID].NotificationSent)

	// delivery recovers on the next run
	f.messenger.emailErr = nil
	report, err = f.svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Delivered)
	assert.True(t, f.penalties.penalties[penalty.ID].NotificationSent)
}

func TestDispatchService_Run_PartialChannelFailureRetriesWhole(t *testing.T) {
	f := newDispatchFixture(t)
	penalty := f.seed(t, "ravi@example.com", "9876543210")
	f.messenger.textErr = errors.New("gateway timeout")

	report, err := f.svc.Run(context.Background())
	require.NoError(t, err)

	// email went out but the flag stays down until every channel succeeds
	assert.Equal(t, 1, report.Failed)
	assert.Len(t, f.messenger.emails, 1)
	assert.False(t, f.penalties.penalties[penalty.ID].NotificationSent)
}

func TestDispatchService_Run_OneFailureDoesNotStopOthers(t *testing.T) {
	f := newDispatchFixture(t)
	broken := f.seed(t, "ravi@example.com", "9876543210")
	healthy := f.seed(t, "", "9000000001")

	// orphan the first penalty so its dispatch errors out
	delete(f.loans.loans, f.penalties.penalties[broken.ID].LoanID)

	report, err := f.svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Pending)
	assert.Equal(t, 1, report.Delivered)
	assert.Equal(t, 1, report.Failed)
	assert.True(t, f.penalties.penalties[healthy.ID].NotificationSent)
	assert.False(t, f.penalties.penalties[broken.ID].NotificationSent)
}

func TestDispatchService_Run_NothingPending(t *testing.T) {
	f := newDispatchFixture(t)
	penalty := f.seed(t, "ravi@example.com", "")
	penalty.MarkNotified()

	report, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Pending)
	assert.Empty(t, f.messenger.emails)
}
