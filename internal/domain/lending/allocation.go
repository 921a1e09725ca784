package lending

import (
	"github.com/shopspring/decimal"
)

// Allocation is one bucket of a split payment
type Allocation struct {
	Category PaymentFor
	Amount   decimal.Decimal
}

// AllocatePayment splits one incoming amount across obligations in strict
// waterfall order: pending penalty, then pending interest, then everything
// left to principal (EMI). Each bucket consumes min(remaining, pending).
// The remainder always goes to EMI in full, so an overpayment is accepted
// and shows up as the outstanding going negative before the ledger clamps
// it.
//
// Only nonzero buckets appear in the result, and the returned amounts sum
// exactly to the input.
func AllocatePayment(amount, pendingPenalty, pendingInterest decimal.Decimal) []Allocation {
	remaining := amount.Round(2)
	if !remaining.IsPositive() {
		return nil
	}

	allocations := make([]Allocation, 0, 3)

	take := func(category PaymentFor, pending decimal.Decimal) {
		if pending.IsNegative() {
			pending = decimal.Zero
		}
		portion := decimal.Min(remaining, pending.Round(2))
		if portion.IsPositive() {
			allocations = append(allocations, Allocation{Category: category, Amount: portion})
			remaining = remaining.Sub(portion)
		}
	}

	take(PaymentForPenalty, pendingPenalty)
	take(PaymentForInterest, pendingInterest)

	if remaining.IsPositive() {
		allocations = append(allocations, Allocation{Category: PaymentForEMI, Amount: remaining})
	}

	return allocations
}
