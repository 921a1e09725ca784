package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf-lend/backend/internal/domain/audit"
	"github.com/spf-lend/backend/internal/domain/settings"
	"github.com/spf-lend/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SettingResponse represents a setting in API responses
type SettingResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// UpdateSettingRequest represents a setting change
type UpdateSettingRequest struct {
	Value string `json:"value" binding:"required,max=200"`
}

// Service manages the process-wide configuration rows
type Service struct {
	repo     settings.Repository
	auditLog audit.Repository
	logger   *zap.Logger
}

// NewService creates a settings service
func NewService(repo settings.Repository, auditLog audit.Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, auditLog: auditLog, logger: logger}
}

// List returns every setting row
func (s *Service) List(ctx context.Context) ([]SettingResponse, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]SettingResponse, len(rows))
	for i, row := range rows {
		responses[i] = SettingResponse{Key: row.Key, Value: row.Value}
	}
	return responses, nil
}

// Get returns one setting by key
func (s *Service) Get(ctx context.Context, key string) (*SettingResponse, error) {
	row, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	return &SettingResponse{Key: row.Key, Value: row.Value}, nil
}

// Update validates and stores a new value for a recognized key, creating
// the row if it does not exist yet
func (s *Service) Update(ctx context.Context, key, actor string, req UpdateSettingRequest) (*SettingResponse, error) {
	value := strings.TrimSpace(req.Value)
	if err := validateSetting(key, value); err != nil {
		return nil, err
	}

	row, err := s.repo.FindByKey(ctx, key)
	switch {
	case err == nil:
		row.SetValue(value)
	case errors.Is(err, shared.ErrNotFound):
		row, err = settings.NewSetting(key, value)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.repo.Save(ctx, row); err != nil {
		return nil, err
	}

	if entry, err := audit.NewEntry(actor, "settings.update", "setting", uuid.Nil,
		fmt.Sprintf("%s=%s", key, value)); err == nil {
		if err := s.auditLog.Save(ctx, entry); err != nil {
			s.logger.Warn("Failed to write audit entry for settings change", zap.Error(err))
		}
	}

	s.logger.Info("Setting updated",
		zap.String("key", key),
		zap.String("value", value),
		zap.String("actor", actor))

	return &SettingResponse{Key: row.Key, Value: row.Value}, nil
}

func validateSetting(key, value string) error {
	switch key {
	case settings.KeyPenaltyAmount:
		d, err := decimal.NewFromString(value)
		if err != nil || d.IsNegative() {
			return shared.NewValidationError("penalty_amount must be a non-negative number")
		}
	case settings.KeyPenaltyDays:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 || n > 28 {
			return shared.NewValidationError("penalty_days must be a day of month between 1 and 28")
		}
	case settings.KeyPenaltyEnabled:
		switch strings.ToLower(value) {
		case "true", "false", "1", "0", "yes", "no", "on", "off":
		default:
			return shared.NewValidationError("penalty_enabled must be a boolean")
		}
	default:
		return shared.NewValidationError("Unknown setting key: " + key)
	}
	return nil
}
