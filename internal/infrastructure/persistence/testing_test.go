package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/spf-lend/backend/internal/domain/lending"
	"github.com/spf-lend/backend/internal/domain/shared/valueobject"
	"github.com/spf-lend/backend/internal/infrastructure/persistence/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens an in-memory SQLite database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

// seedLoan persists a minimal active loan and returns it
func seedLoan(t *testing.T, db *gorm.DB) *lending.Loan {
	t.Helper()

	borrower, err := lending.NewBorrower("Test Borrower", "9000000001", "b@example.com", "")
	require.NoError(t, err)
	require.NoError(t, NewGormBorrowerRepository(db).Save(context.Background(), borrower))

	loan, err := lending.NewLoan(
		borrower.ID,
		valueobject.NewMoneyINRFromFloat(10000),
		decimal.NewFromInt(2),
		lending.InterestTypeFlat,
		10,
		lending.TenureUnitMonth,
		time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		"",
	)
	require.NoError(t, err)
	require.NoError(t, NewGormLoanRepository(db).Save(context.Background(), loan))
	return loan
}

// seedPayment persists one payment row
func seedPayment(t *testing.T, db *gorm.DB, loanID uuid.UUID, amount string, date time.Time, category lending.PaymentFor) *lending.Payment {
	t.Helper()

	payment, err := lending.NewPayment(loanID, decimal.RequireFromString(amount), date, category, lending.PaymentModeCash, "")
	require.NoError(t, err)
	require.NoError(t, NewGormPaymentRepository(db).Save(context.Background(), payment))
	return payment
}
