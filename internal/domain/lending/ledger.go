package lending

import (
	"github.com/shopspring/decimal"
	"github.com/spf-lend/backend/internal/domain/shared/valueobject"
)

// LedgerTotals is the snapshot of a loan's transaction history that the
// outstanding computation consumes. All sums cover the loan's full
// lifetime, not just the current period.
type LedgerTotals struct {
	Penalties           decimal.Decimal // every penalty ever applied
	PaymentsAll         decimal.Decimal // every payment row regardless of category
	PaymentsNonInterest decimal.Decimal // payment rows excluding INTEREST
	PaymentsInterest    decimal.Decimal // payment rows tagged INTEREST
	PaymentsPenalty     decimal.Decimal // payment rows tagged PENALTY
}

// LedgerResult is the outcome of one outstanding computation
type LedgerResult struct {
	Outstanding valueobject.Money
	Status      LoanStatus
}

// ComputeOutstanding derives the authoritative outstanding balance for a
// loan from its current principal and history totals.
//
// FLAT loans owe the principal plus a single flat interest charge plus all
// penalties, reduced by every payment. Other loans owe principal plus
// penalties, reduced by payments that are not interest servicing.
//
// A non-positive balance clamps to zero and closes the loan. Terminal
// states stay untouched. OVERDUE is never produced here; the due-date
// sweep owns that transition.
func ComputeOutstanding(loan *Loan, totals LedgerTotals) LedgerResult {
	var outstanding decimal.Decimal

	principal := loan.PrincipalAmount.Amount()
	if loan.InterestType == InterestTypeFlat {
		outstanding = principal.
			Add(loan.ExpectedFlatInterest()).
			Add(totals.Penalties).
			Sub(totals.PaymentsAll)
	} else {
		outstanding = principal.
			Add(totals.Penalties).
			Sub(totals.PaymentsNonInterest)
	}
	outstanding = outstanding.Round(2)

	status := loan.Status
	if !status.IsTerminal() {
		if outstanding.LessThanOrEqual(decimal.Zero) {
			outstanding = decimal.Zero
			status = LoanStatusClosed
		} else {
			status = LoanStatusActive
		}
	}

	return LedgerResult{
		Outstanding: valueobject.NewMoneyINR(outstanding),
		Status:      status,
	}
}

// PendingPenalty returns how much accrued penalty is still unpaid,
// floored at zero
func (t LedgerTotals) PendingPenalty() decimal.Decimal {
	pending := t.Penalties.Sub(t.PaymentsPenalty)
	if pending.IsNegative() {
		return decimal.Zero
	}
	return pending.Round(2)
}

// PendingInterest returns how much of the expected flat interest is still
// unpaid, floored at zero
func (t LedgerTotals) PendingInterest(expectedInterest decimal.Decimal) decimal.Decimal {
	pending := expectedInterest.Sub(t.PaymentsInterest)
	if pending.IsNegative() {
		return decimal.Zero
	}
	return pending.Round(2)
}
