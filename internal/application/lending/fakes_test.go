package lending

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf-lend/backend/internal/domain/audit"
	"github.com/spf-lend/backend/internal/domain/lending"
	"github.com/spf-lend/backend/internal/domain/notification"
	"github.com/spf-lend/backend/internal/domain/settings"
	"github.com/spf-lend/backend/internal/domain/shared"
)

// fakeStore is the shared in-memory backing for the fake repositories.
// It has no transaction semantics; services under test are exercised for
// their business behavior, commit/rollback is covered by the persistence
// tests.
type fakeStore struct {
	loans     map[uuid.UUID]*lending.Loan
	payments  map[uuid.UUID]*lending.Payment
	penalties map[uuid.UUID]*lending.Penalty
	topups    map[uuid.UUID]*lending.Topup
	borrowers map[uuid.UUID]*lending.Borrower
	audit     *fakeAuditRepo
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		loans:     make(map[uuid.UUID]*lending.Loan),
		payments:  make(map[uuid.UUID]*lending.Payment),
		penalties: make(map[uuid.UUID]*lending.Penalty),
		topups:    make(map[uuid.UUID]*lending.Topup),
		borrowers: make(map[uuid.UUID]*lending.Borrower),
		audit:     &fakeAuditRepo{},
	}
}

func (s *fakeStore) repos() lending.TxRepos {
	return lending.TxRepos{
		Loans:     &fakeLoanRepo{s},
		Payments:  &fakePaymentRepo{s},
		Penalties: &fakePenaltyRepo{s},
		Topups:    &fakeTopupRepo{s},
		Borrowers: &fakeBorrowerRepo{s},
		Audit:     s.audit,
	}
}

// fakeTM runs the function against the shared store without transaction
// isolation
type fakeTM struct {
	store *fakeStore
}

func (tm *fakeTM) Do(_ context.Context, fn func(repos lending.TxRepos) error) error {
	return fn(tm.store.repos())
}

type fakeLoanRepo struct{ store *fakeStore }

func (r *fakeLoanRepo) FindByID(_ context.Context, id uuid.UUID) (*lending.Loan, error) {
	loan, ok := r.store.loans[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return loan, nil
}

func (r *fakeLoanRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*lending.Loan, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeLoanRepo) FindAll(_ context.Context, _ shared.Filter) ([]lending.Loan, error) {
	out := make([]lending.Loan, 0, len(r.store.loans))
	for _, loan := range r.store.loans {
		out = append(out, *loan)
	}
	return out, nil
}

func (r *fakeLoanRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.store.loans)), nil
}

func (r *fakeLoanRepo) FindByStatuses(_ context.Context, statuses ...lending.LoanStatus) ([]lending.Loan, error) {
	var out []lending.Loan
	for _, loan := range r.store.loans {
		for _, status := range statuses {
			if loan.Status == status {
				out = append(out, *loan)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeLoanRepo) FindLiveByBorrower(_ context.Context, borrowerID uuid.UUID) ([]lending.Loan, error) {
	var out []lending.Loan
	for _, loan := range r.store.loans {
		if loan.BorrowerID == borrowerID && loan.Status.IsLive() {
			out = append(out, *loan)
		}
	}
	return out, nil
}

func (r *fakeLoanRepo) Save(_ context.Context, loan *lending.Loan) error {
	r.store.loans[loan.ID] = loan
	return nil
}

func (r *fakeLoanRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.store.loans[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.store.loans, id)
	return nil
}

func (r *fakeLoanRepo) MarkOverdueBefore(_ context.Context, now time.Time) (int64, error) {
	var changed int64
	for _, loan := range r.store.loans {
		if loan.MarkOverdue(now) {
			changed++
		}
	}
	return changed, nil
}

type fakePaymentRepo struct{ store *fakeStore }

func (r *fakePaymentRepo) FindByID(_ context.Context, id uuid.UUID) (*lending.Payment, error) {
	p, ok := r.store.payments[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *fakePaymentRepo) FindByLoan(_ context.Context, loanID uuid.UUID) ([]lending.Payment, error) {
	var out []lending.Payment
	for _, p := range r.store.payments {
		if p.LoanID == loanID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) Save(_ context.Context, p *lending.Payment) error {
	r.store.payments[p.ID] = p
	return nil
}

func (r *fakePaymentRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.store.payments[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.store.payments, id)
	return nil
}

func (r *fakePaymentRepo) SumForLoan(_ context.Context, loanID uuid.UUID) (decimal.Decimal, error) {
	return r.sumWhere(loanID, func(*lending.Payment) bool { return true }), nil
}

func (r *fakePaymentRepo) SumForLoanByCategory(_ context.Context, loanID uuid.UUID, category lending.PaymentFor) (decimal.Decimal, error) {
	return r.sumWhere(loanID, func(p *lending.Payment) bool { return p.PaymentFor == category }), nil
}

func (r *fakePaymentRepo) SumForLoanExcluding(_ context.Context, loanID uuid.UUID, category lending.PaymentFor) (decimal.Decimal, error) {
	return r.sumWhere(loanID, func(p *lending.Payment) bool { return p.PaymentFor != category }), nil
}

func (r *fakePaymentRepo) sumWhere(loanID uuid.UUID, match func(*lending.Payment) bool) decimal.Decimal {
	total := decimal.Zero
	for _, p := range r.store.payments {
		if p.LoanID == loanID && match(p) {
			total = total.Add(p.Amount)
		}
	}
	return total
}

func (r *fakePaymentRepo) HasInRange(_ context.Context, loanID uuid.UUID, from, to time.Time, categories ...lending.PaymentFor) (bool, error) {
	for _, p := range r.store.payments {
		if p.LoanID != loanID || p.Date.Before(from) || !p.Date.Before(to) {
			continue
		}
		if len(categories) == 0 {
			return true, nil
		}
		for _, c := range categories {
			if p.PaymentFor == c {
				return true, nil
			}
		}
	}
	return false, nil
}

type fakePenaltyRepo struct{ store *fakeStore }

func (r *fakePenaltyRepo) FindByID(_ context.Context, id uuid.UUID) (*lending.Penalty, error) {
	p, ok := r.store.penalties[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *fakePenaltyRepo) FindByLoan(_ context.Context, loanID uuid.UUID) ([]lending.Penalty, error) {
	var out []lending.Penalty
	for _, p := range r.store.penalties {
		if p.LoanID == loanID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePenaltyRepo) Save(_ context.Context, p *lending.Penalty) error {
	r.store.penalties[p.ID] = p
	return nil
}

func (r *fakePenaltyRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.store.penalties[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.store.penalties, id)
	return nil
}

func (r *fakePenaltyRepo) SumForLoan(_ context.Context, loanID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range r.store.penalties {
		if p.LoanID == loanID {
			total = total.Add(p.Amount)
		}
	}
	return total, nil
}

func (r *fakePenaltyRepo) ExistsOnDate(_ context.Context, loanID uuid.UUID, date time.Time, reason string) (bool, error) {
	for _, p := range r.store.penalties {
		if p.LoanID == loanID && p.Reason == reason && sameISTDay(p.Date, date) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePenaltyRepo) FindUnnotified(_ context.Context) ([]lending.Penalty, error) {
	var out []lending.Penalty
	for _, p := range r.store.penalties {
		if !p.NotificationSent {
			out = append(out, *p)
		}
	}
	return out, nil
}

func sameISTDay(a, b time.Time) bool {
	la, lb := a.In(lending.IST), b.In(lending.IST)
	return la.Year() == lb.Year() && la.Month() == lb.Month() && la.Day() == lb.Day()
}

type fakeTopupRepo struct{ store *fakeStore }

func (r *fakeTopupRepo) FindByID(_ context.Context, id uuid.UUID) (*lending.Topup, error) {
	t, ok := r.store.topups[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return t, nil
}

func (r *fakeTopupRepo) FindByLoan(_ context.Context, loanID uuid.UUID) ([]lending.Topup, error) {
	var out []lending.Topup
	for _, t := range r.store.topups {
		if t.LoanID == loanID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTopupRepo) Save(_ context.Context, t *lending.Topup) error {
	r.store.topups[t.ID] = t
	return nil
}

func (r *fakeTopupRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.store.topups[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.store.topups, id)
	return nil
}

type fakeBorrowerRepo struct{ store *fakeStore }

func (r *fakeBorrowerRepo) FindByID(_ context.Context, id uuid.UUID) (*lending.Borrower, error) {
	b, ok := r.store.borrowers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return b, nil
}

func (r *fakeBorrowerRepo) FindAll(_ context.Context, _ shared.Filter) ([]lending.Borrower, error) {
	out := make([]lending.Borrower, 0, len(r.store.borrowers))
	for _, b := range r.store.borrowers {
		out = append(out, *b)
	}
	return out, nil
}

func (r *fakeBorrowerRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.store.borrowers)), nil
}

func (r *fakeBorrowerRepo) FindByStatus(_ context.Context, status lending.BorrowerStatus) ([]lending.Borrower, error) {
	var out []lending.Borrower
	for _, b := range r.store.borrowers {
		if b.Status == status {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBorrowerRepo) Save(_ context.Context, b *lending.Borrower) error {
	r.store.borrowers[b.ID] = b
	return nil
}

func (r *fakeBorrowerRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.store.borrowers[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.store.borrowers, id)
	return nil
}

type fakeNotificationRepo struct {
	saved []notification.Notification
}

func (r *fakeNotificationRepo) FindByID(_ context.Context, id uuid.UUID) (*notification.Notification, error) {
	for i := range r.saved {
		if r.saved[i].ID == id {
			return &r.saved[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeNotificationRepo) FindAll(_ context.Context, _ shared.Filter) ([]notification.Notification, error) {
	return r.saved, nil
}

func (r *fakeNotificationRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.saved)), nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context) (int64, error) {
	var n int64
	for _, item := range r.saved {
		if !item.Read {
			n++
		}
	}
	return n, nil
}

func (r *fakeNotificationRepo) Save(_ context.Context, n *notification.Notification) error {
	r.saved = append(r.saved, *n)
	return nil
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context) error {
	for i := range r.saved {
		r.saved[i].Read = true
	}
	return nil
}

type fakeAuditRepo struct {
	entries []audit.Entry
}

func (r *fakeAuditRepo) Save(_ context.Context, e *audit.Entry) error {
	r.entries = append(r.entries, *e)
	return nil
}

func (r *fakeAuditRepo) FindAll(_ context.Context, _ shared.Filter) ([]audit.Entry, error) {
	return r.entries, nil
}

func (r *fakeAuditRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.entries)), nil
}

type fakeSettingsRepo struct {
	values map[string]string
}

func (r *fakeSettingsRepo) FindByKey(_ context.Context, key string) (*settings.Setting, error) {
	v, ok := r.values[key]
	if !ok {
		return nil, shared.ErrNotFound
	}
	s, _ := settings.NewSetting(key, v)
	return s, nil
}

func (r *fakeSettingsRepo) FindAll(_ context.Context) ([]settings.Setting, error) {
	var out []settings.Setting
	for k, v := range r.values {
		s, _ := settings.NewSetting(k, v)
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeSettingsRepo) Save(_ context.Context, s *settings.Setting) error {
	if r.values == nil {
		r.values = make(map[string]string)
	}
	r.values[s.Key] = s.Value
	return nil
}

func (r *fakeSettingsRepo) Snapshot(_ context.Context) (settings.Snapshot, error) {
	snap := make(settings.Snapshot, len(r.values))
	for k, v := range r.values {
		snap[k] = v
	}
	return snap, nil
}

type fakeRunLock struct {
	held     bool
	acquires int
	releases int
}

func (l *fakeRunLock) Acquire(_ context.Context, _ string, _ time.Duration) (bool, error) {
	l.acquires++
	if l.held {
		return false, nil
	}
	l.held = true
	return true, nil
}

func (l *fakeRunLock) Release(_ context.Context, _ string) error {
	l.releases++
	l.held = false
	return nil
}
