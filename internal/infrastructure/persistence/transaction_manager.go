package persistence

import (
	"context"

	"github.com/spf-lend/backend/internal/domain/lending"
	"gorm.io/gorm"
)

// GormTransactionManager implements lending.TransactionManager. Every
// repository handed to fn is bound to the same database transaction, so
// a recalculation's row lock and writes commit or roll back as one unit.
type GormTransactionManager struct {
	db *gorm.DB
}

// NewGormTransactionManager creates a new GormTransactionManager
func NewGormTransactionManager(db *gorm.DB) *GormTransactionManager {
	return &GormTransactionManager{db: db}
}

// Do runs fn inside one transaction. The transaction commits when fn
// returns nil and rolls back on error or panic.
func (m *GormTransactionManager) Do(ctx context.Context, fn func(repos lending.TxRepos) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(lending.TxRepos{
			Loans:     NewGormLoanRepository(tx),
			Payments:  NewGormPaymentRepository(tx),
			Penalties: NewGormPenaltyRepository(tx),
			Topups:    NewGormTopupRepository(tx),
			Borrowers: NewGormBorrowerRepository(tx),
			Audit:     NewGormAuditRepository(tx),
		})
	})
}

// Ensure GormTransactionManager implements lending.TransactionManager
var _ lending.TransactionManager = (*GormTransactionManager)(nil)
