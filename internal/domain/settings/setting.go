package settings

import (
	"context"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf-lend/backend/internal/domain/shared"
)

// Recognized setting keys
const (
	KeyPenaltyAmount  = "penalty_amount"  // default fallback late fee
	KeyPenaltyDays    = "penalty_days"    // default fallback grace day-of-month
	KeyPenaltyEnabled = "penalty_enabled" // accrual feature flag
)

// Setting is one process-wide configuration row
type Setting struct {
	shared.BaseEntity
	Key   string
	Value string
}

// NewSetting creates a setting row
func NewSetting(key, value string) (*Setting, error) {
	if key == "" {
		return nil, shared.NewValidationError("Setting key is required")
	}
	return &Setting{
		BaseEntity: shared.NewBaseEntity(),
		Key:        key,
		Value:      value,
	}, nil
}

// SetValue updates the setting value
func (s *Setting) SetValue(value string) {
	s.Value = value
	s.Touch()
}

// Snapshot is an immutable key-value view of the settings table, taken
// once per computation so an algorithm never sees two different values
// for the same key
type Snapshot map[string]string

// Get returns the raw value for a key
func (s Snapshot) Get(key string) (string, bool) {
	v, ok := s[key]
	return v, ok
}

// PenaltyEnabled reports whether automatic penalty accrual is switched on.
// Accrual charges money, so only an explicit opt-in counts; a missing or
// unparseable value reads as disabled.
func (s Snapshot) PenaltyEnabled() bool {
	raw, ok := s[KeyPenaltyEnabled]
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}

// PenaltyAmount returns the global default late fee, zero when unset or
// invalid (callers fall back to the hard default)
func (s Snapshot) PenaltyAmount() decimal.Decimal {
	raw, ok := s[KeyPenaltyAmount]
	if !ok {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// PenaltyDays returns the global default grace day-of-month, zero when
// unset or invalid
func (s Snapshot) PenaltyDays() int {
	raw, ok := s[KeyPenaltyDays]
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Repository persists settings rows
type Repository interface {
	FindByKey(ctx context.Context, key string) (*Setting, error)
	FindAll(ctx context.Context) ([]Setting, error)
	Save(ctx context.Context, setting *Setting) error
	// Snapshot loads every setting into an immutable map
	Snapshot(ctx context.Context) (Snapshot, error)
}
