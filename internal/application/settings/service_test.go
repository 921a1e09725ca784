package settings

import (
	"context"
	"testing"

	"github.com/spf-lend/backend/internal/domain/audit"
	"github.com/spf-lend/backend/internal/domain/settings"
	"github.com/spf-lend/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSettingRepo struct {
	rows map[string]*settings.Setting
}

func newFakeSettingRepo() *fakeSettingRepo {
	return &fakeSettingRepo{rows: make(map[string]*settings.Setting)}
}

func (r *fakeSettingRepo) FindByKey(_ context.Context, key string) (*settings.Setting, error) {
	row, ok := r.rows[key]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return row, nil
}

func (r *fakeSettingRepo) FindAll(_ context.Context) ([]settings.Setting, error) {
	out := make([]settings.Setting, 0, len(r.rows))
	for _, row := range r.rows {
		out = append(out, *row)
	}
	return out, nil
}

func (r *fakeSettingRepo) Save(_ context.Context, s *settings.Setting) error {
	r.rows[s.Key] = s
	return nil
}

func (r *fakeSettingRepo) Snapshot(_ context.Context) (settings.Snapshot, error) {
	snap := make(settings.Snapshot, len(r.rows))
	for k, row := range r.rows {
		snap[k] = row.Value
	}
	return snap, nil
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

func TestSettingsService_Update_CreatesAndAudits(t *testing.T) {
	repo := newFakeSettingRepo()
	auditLog := &fakeAuditRepo{}
	svc := NewService(repo, auditLog, zap.NewNop())

	resp, err := svc.Update(context.Background(), settings.KeyPenaltyAmount, "admin",
		UpdateSettingRequest{Value: "75"})
	require.NoError(t, err)
	assert.Equal(t, "75", resp.Value)

	require.Len(t, auditLog.entries, 1)
	assert.Equal(t, "settings.update", auditLog.entries[0].Action)
	assert.Equal(t, "admin", auditLog.entries[0].Actor)

	got, err := svc.Get(context.Background(), settings.KeyPenaltyAmount)
	require.NoError(t, err)
	assert.Equal(t, "75", got.Value)
}

func TestSettingsService_Update_OverwritesExisting(t *testing.T) {
	repo := newFakeSettingRepo()
	svc := NewService(repo, &fakeAuditRepo{}, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Update(ctx, settings.KeyPenaltyDays, "admin", UpdateSettingRequest{Value: "5"})
	require.NoError(t, err)
	_, err = svc.Update(ctx, settings.KeyPenaltyDays, "admin", UpdateSettingRequest{Value: "10"})
	require.NoError(t, err)

	snap, err := repo.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, snap.PenaltyDays())
}

func TestSettingsService_Update_Validation(t *testing.T) {
	svc := NewService(newFakeSettingRepo(), &fakeAuditRepo{}, zap.NewNop())
	ctx := context.Background()

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"negative amount", settings.KeyPenaltyAmount, "-10"},
		{"non-numeric amount", settings.KeyPenaltyAmount, "abc"},
		{"day zero", settings.KeyPenaltyDays, "0"},
		{"day out of range", settings.KeyPenaltyDays, "31"},
		{"bad boolean", settings.KeyPenaltyEnabled, "maybe"},
		{"unknown key", "shoe_size", "42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(ctx, tt.key, "admin", UpdateSettingRequest{Value: tt.value})
			assert.Error(t, err)
		})
	}
}

func TestSettingsService_List(t *testing.T) {
	repo := newFakeSettingRepo()
	svc := NewService(repo, &fakeAuditRepo{}, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Update(ctx, settings.KeyPenaltyAmount, "admin", UpdateSettingRequest{Value: "50"})
	require.NoError(t, err)
	_, err = svc.Update(ctx, settings.KeyPenaltyEnabled, "admin", UpdateSettingRequest{Value: "false"})
	require.NoError(t, err)

	rows, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
