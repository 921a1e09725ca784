package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/spf-lend/backend/internal/domain/lending"
	"github.com/spf-lend/backend/internal/domain/shared"
	"github.com/spf-lend/backend/internal/domain/shared/valueobject"
)

func TestGormLoanRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormLoanRepository(db)
	loan := seedLoan(t, db)

	found, err := repo.FindByID(context.Background(), loan.ID)
	require.NoError(t, err)
	assert.Equal(t, loan.ID, found.ID)
	assert.Equal(t, loan.BorrowerID, found.BorrowerID)
	assert.True(t, found.PrincipalAmount.Amount().Equal(decimal.NewFromInt(10000)))
	assert.Equal(t, lending.LoanStatusActive, found.Status)
	assert.Equal(t, lending.InterestTypeFlat, found.InterestType)

	// update round-trips
	found.Status = lending.LoanStatusClosed
	found.OutstandingAmount = valueobject.ZeroINR()
	require.NoError(t, repo.Save(context.Background(), found))

	again, err := repo.FindByID(context.Background(), loan.ID)
	require.NoError(t, err)
	assert.Equal(t, lending.LoanStatusClosed, again.Status)
	assert.True(t, again.OutstandingAmount.IsZero())
}

func TestGormLoanRepository_FindByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormLoanRepository(db)

	loan, err := repo.FindByID(context.Background(), uuid.New())
	assert.Nil(t, loan)
	assert.Equal(t, shared.ErrNotFound, err)
}

func TestGormLoanRepository_FindLiveByBorrower(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormLoanRepository(db)
	loan := seedLoan(t, db)

	live, err := repo.FindLiveByBorrower(context.Background(), loan.BorrowerID)
	require.NoError(t, err)
	assert.Len(t, live, 1)

	// closed loans do not count against the one-active-loan rule
	loan.Status = lending.LoanStatusClosed
	require.NoError(t, repo.Save(context.Background(), loan))

	live, err = repo.FindLiveByBorrower(context.Background(), loan.BorrowerID)
	require.NoError(t, err)
	assert.Empty(t, live)
}

func TestGormLoanRepository_MarkOverdueBefore(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormLoanRepository(db)
	loan := seedLoan(t, db)

	// before the due date nothing changes
	changed, err := repo.MarkOverdueBefore(context.Background(), loan.DueDate.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, changed)

	changed, err = repo.MarkOverdueBefore(context.Background(), loan.DueDate.Add(24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, changed)

	found, err := repo.FindByID(context.Background(), loan.ID)
	require.NoError(t, err)
	assert.Equal(t, lending.LoanStatusOverdue, found.Status)

	// second sweep is a no-op
	changed, err = repo.MarkOverdueBefore(context.Background(), loan.DueDate.Add(48*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, changed)
}

func TestGormLoanRepository_FindByStatuses(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormLoanRepository(db)
	loan := seedLoan(t, db)

	loans, err := repo.FindByStatuses(context.Background(), lending.LoanStatusActive, lending.LoanStatusOverdue)
	require.NoError(t, err)
	assert.Len(t, loans, 1)

	loans, err = repo.FindByStatuses(context.Background(), lending.LoanStatusDeleted)
	require.NoError(t, err)
	assert.Empty(t, loans)

	loan.Status = lending.LoanStatusDeleted
	require.NoError(t, repo.Save(context.Background(), loan))

	loans, err = repo.FindByStatuses(context.Background(), lending.LoanStatusDeleted)
	require.NoError(t, err)
	assert.Len(t, loans, 1)
}

func TestGormLoanRepository_FilterByStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormLoanRepository(db)
	seedLoan(t, db)

	filter := shared.DefaultFilter()
	filter.Filters["status"] = lending.LoanStatusActive

	loans, err := repo.FindAll(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, loans, 1)

	count, err := repo.Count(context.Background(), filter)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
