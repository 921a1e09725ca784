package lending

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/spf-lend/backend/internal/domain/shared"
	"github.com/spf-lend/backend/internal/domain/shared/valueobject"
)

func TestNewLoan_Validation(t *testing.T) {
	principal := valueobject.NewMoneyINRFromFloat(10000)
	rate := decimal.NewFromInt(2)
	disbursed := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mutate  func() (*Loan, error)
		wantErr string
	}{
		{
			name: "missing borrower",
			mutate: func() (*Loan, error) {
				return NewLoan(uuid.Nil, principal, rate, InterestTypeFlat, 10, TenureUnitMonth, disbursed, "")
			},
			wantErr: "Borrower is required",
		},
		{
			name: "non-positive principal",
			mutate: func() (*Loan, error) {
				return NewLoan(uuid.New(), valueobject.ZeroINR(), rate, InterestTypeFlat, 10, TenureUnitMonth, disbursed, "")
			},
			wantErr: "Principal amount must be positive",
		},
		{
			name: "negative rate",
			mutate: func() (*Loan, error) {
				return NewLoan(uuid.New(), principal, decimal.NewFromInt(-1), InterestTypeFlat, 10, TenureUnitMonth, disbursed, "")
			},
			wantErr: "Interest rate cannot be negative",
		},
		{
			name: "bad interest type",
			mutate: func() (*Loan, error) {
				return NewLoan(uuid.New(), principal, rate, InterestType("COMPOUND"), 10, TenureUnitMonth, disbursed, "")
			},
			wantErr: "Invalid interest type",
		},
		{
			name: "bad tenure",
			mutate: func() (*Loan, error) {
				return NewLoan(uuid.New(), principal, rate, InterestTypeFlat, 0, TenureUnitMonth, disbursed, "")
			},
			wantErr: "Tenure must be positive",
		},
		{
			name: "bad tenure unit",
			mutate: func() (*Loan, error) {
				return NewLoan(uuid.New(), principal, rate, InterestTypeFlat, 10, TenureUnit("YEAR"), disbursed, "")
			},
			wantErr: "Invalid tenure unit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loan, err := tt.mutate()
			assert.Nil(t, loan)
			require.Error(t, err)
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.wantErr, domainErr.Message)
		})
	}
}

func TestNewLoan_Defaults(t *testing.T) {
	principal := valueobject.NewMoneyINRFromFloat(10000)
	disbursed := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	loan, err := NewLoan(uuid.New(), principal, decimal.NewFromInt(2), InterestTypeFlat, 10, TenureUnitMonth, disbursed, "first loan")
	require.NoError(t, err)

	assert.Equal(t, LoanStatusActive, loan.Status)
	assert.True(t, loan.OutstandingAmount.Equals(principal))
	assert.Equal(t, time.Date(2024, 11, 10, 0, 0, 0, 0, time.UTC), loan.DueDate)
	require.Len(t, loan.GetDomainEvents(), 1)
	assert.Equal(t, EventLoanCreated, loan.GetDomainEvents()[0].EventType())
}

func TestDueDateFor(t *testing.T) {
	disbursed := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, disbursed.AddDate(0, 0, 45), DueDateFor(disbursed, 45, TenureUnitDay))
	assert.Equal(t, disbursed.AddDate(0, 0, 28), DueDateFor(disbursed, 4, TenureUnitWeek))
	assert.Equal(t, disbursed.AddDate(0, 6, 0), DueDateFor(disbursed, 6, TenureUnitMonth))
}

func TestLoan_AdjustPrincipal(t *testing.T) {
	loan := newTestLoan(t, "10000", "2", InterestTypeFlat, 10)

	require.NoError(t, loan.AdjustPrincipal(decimal.NewFromInt(5000)))
	assert.Equal(t, "15000", loan.PrincipalAmount.Amount().String())

	// symmetric reversal returns to the original principal
	require.NoError(t, loan.AdjustPrincipal(decimal.NewFromInt(-5000)))
	assert.Equal(t, "10000", loan.PrincipalAmount.Amount().String())

	err := loan.AdjustPrincipal(decimal.NewFromInt(-20000))
	require.Error(t, err)
	assert.Equal(t, "10000", loan.PrincipalAmount.Amount().String())
}

func TestLoan_MarkOverdue(t *testing.T) {
	loan := newTestLoan(t, "10000", "2", InterestTypeFlat, 10)

	assert.False(t, loan.MarkOverdue(loan.DueDate), "due date itself is not overdue")
	assert.True(t, loan.MarkOverdue(loan.DueDate.Add(24*time.Hour)))
	assert.Equal(t, LoanStatusOverdue, loan.Status)

	// already overdue, nothing to do
	assert.False(t, loan.MarkOverdue(loan.DueDate.Add(48*time.Hour)))
}

func TestLoan_Lifecycle(t *testing.T) {
	t.Run("delete then restore", func(t *testing.T) {
		loan := newTestLoan(t, "10000", "2", InterestTypeFlat, 10)
		require.NoError(t, loan.MarkDeleted())
		assert.Equal(t, LoanStatusDeleted, loan.Status)
		assert.Error(t, loan.MarkDeleted())

		require.NoError(t, loan.Restore())
		assert.Equal(t, LoanStatusActive, loan.Status)
	})

	t.Run("restore requires deleted", func(t *testing.T) {
		loan := newTestLoan(t, "10000", "2", InterestTypeFlat, 10)
		assert.Error(t, loan.Restore())
	})

	t.Run("write off only live loans", func(t *testing.T) {
		loan := newTestLoan(t, "10000", "2", InterestTypeFlat, 10)
		require.NoError(t, loan.WriteOff())
		assert.Equal(t, LoanStatusWrittenOff, loan.Status)
		assert.Error(t, loan.MarkDeleted(), "written-off loans cannot be deleted")

		closed := newTestLoan(t, "10000", "2", InterestTypeFlat, 10)
		closed.Status = LoanStatusClosed
		assert.Error(t, closed.WriteOff())
	})
}

func TestLoan_SetPenaltyOverride(t *testing.T) {
	loan := newTestLoan(t, "10000", "2", InterestTypeFlat, 10)

	require.NoError(t, loan.SetPenaltyOverride(decimal.NewFromInt(75), 10))
	assert.Equal(t, "75", loan.PenaltyAmount.String())
	assert.Equal(t, 10, loan.PenaltyDay)

	assert.Error(t, loan.SetPenaltyOverride(decimal.NewFromInt(-1), 10))
	assert.Error(t, loan.SetPenaltyOverride(decimal.NewFromInt(10), 29))
}
