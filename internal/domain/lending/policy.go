package lending

import (
	"time"

	"github.com/shopspring/decimal"
)

// IST is the fixed regional offset applied to day-boundary comparisons in
// the accrual rules. No general calendar handling is attempted.
var IST = time.FixedZone("IST", 5*3600+30*60)

// MaturityDays is the minimum age past disbursement before a loan becomes
// penalty-eligible
const MaturityDays = 30

// Hard fallbacks when neither the loan nor the global settings carry a
// late-fee policy
var (
	FallbackPenaltyAmount = decimal.NewFromInt(50)
)

const FallbackPenaltyDay = 5

// PenaltyPolicy is the effective late-fee policy for one loan after
// two-level resolution
type PenaltyPolicy struct {
	Amount   decimal.Decimal // fee applied per missed day
	GraceDay int             // day-of-month up to which no penalty accrues
}

// ResolvePenaltyPolicy picks the loan-level override when present and
// nonzero, else the global setting, else the hard fallback. The two
// fields resolve independently.
func ResolvePenaltyPolicy(loan *Loan, globalAmount decimal.Decimal, globalDay int) PenaltyPolicy {
	policy := PenaltyPolicy{
		Amount:   FallbackPenaltyAmount,
		GraceDay: FallbackPenaltyDay,
	}
	if globalAmount.IsPositive() {
		policy.Amount = globalAmount
	}
	if globalDay > 0 {
		policy.GraceDay = globalDay
	}
	if loan != nil {
		if loan.PenaltyAmount.IsPositive() {
			policy.Amount = loan.PenaltyAmount
		}
		if loan.PenaltyDay > 0 {
			policy.GraceDay = loan.PenaltyDay
		}
	}
	return policy
}

// IsMature reports whether the loan has existed for at least MaturityDays
// past disbursement. Both instants are shifted to IST before differencing
// so the comparison respects local day boundaries.
func IsMature(now, disbursement time.Time) bool {
	age := now.In(IST).Sub(disbursement.In(IST))
	return age >= MaturityDays*24*time.Hour
}

// maturityBoundary returns disbursement + MaturityDays in IST
func maturityBoundary(disbursement time.Time) time.Time {
	return disbursement.In(IST).AddDate(0, 0, MaturityDays)
}

// AccrualDates returns the dates in the current IST month for which a
// daily late fee is owed: every day after the grace day up to today,
// excluding days that fall on or before the loan's maturity boundary.
//
// The per-day maturity check repeats the loan-level age gate because the
// grace day can precede the maturity boundary in the loan's first
// eligible month; without it the first sweep would charge days the loan
// had not yet matured through.
//
// Callers apply the remaining gates first: the global enable flag, the
// loan-level maturity gate, and the month-satisfied gate (an INTEREST or
// EMI payment in the current month suppresses the whole month).
func AccrualDates(now, disbursement time.Time, graceDay int) []time.Time {
	local := now.In(IST)
	today := local.Day()
	if today <= graceDay {
		return nil
	}

	boundary := maturityBoundary(disbursement)

	var dates []time.Time
	for day := graceDay + 1; day <= today; day++ {
		date := time.Date(local.Year(), local.Month(), day, 0, 0, 0, 0, IST)
		if !date.After(boundary) {
			continue
		}
		dates = append(dates, date)
	}
	return dates
}

// SameISTMonth reports whether two instants fall in the same IST
// calendar month
func SameISTMonth(a, b time.Time) bool {
	la, lb := a.In(IST), b.In(IST)
	return la.Year() == lb.Year() && la.Month() == lb.Month()
}

// ReminderDue reports whether a payment reminder should go out today for
// the given grace day: three days before the grace day and on the grace
// day itself. The three-days-before date is computed with calendar
// arithmetic, so for grace days 1-3 it lands at the end of the previous
// month. Both this month's and next month's grace days are checked,
// because the advance reminder for next month falls inside this one.
func ReminderDue(now time.Time, graceDay int) bool {
	local := now.In(IST)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, IST)
	for offset := 0; offset <= 1; offset++ {
		due := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, IST).
			AddDate(0, offset, graceDay-1)
		if today.Equal(due) || today.Equal(due.AddDate(0, 0, -3)) {
			return true
		}
	}
	return false
}
