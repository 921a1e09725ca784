package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSetting(t *testing.T) {
	s, err := NewSetting(KeyPenaltyAmount, "75")
	require.NoError(t, err)
	assert.Equal(t, "75", s.Value)

	_, err = NewSetting("", "x")
	assert.Error(t, err)
}

func TestSnapshot_PenaltyEnabled(t *testing.T) {
	tests := []struct {
		name string
		snap Snapshot
		want bool
	}{
		{"missing defaults to disabled", Snapshot{}, false},
		{"explicit true", Snapshot{KeyPenaltyEnabled: "true"}, true},
		{"uppercase on", Snapshot{KeyPenaltyEnabled: "ON"}, true},
		{"explicit false", Snapshot{KeyPenaltyEnabled: "false"}, false},
		{"zero means off", Snapshot{KeyPenaltyEnabled: "0"}, false},
		{"garbage defaults to disabled", Snapshot{KeyPenaltyEnabled: "banana"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.snap.PenaltyEnabled())
		})
	}
}

func TestSnapshot_PenaltyAmount(t *testing.T) {
	assert.Equal(t, "75.5", Snapshot{KeyPenaltyAmount: "75.5"}.PenaltyAmount().String())
	assert.True(t, Snapshot{}.PenaltyAmount().IsZero())
	assert.True(t, Snapshot{KeyPenaltyAmount: "not-a-number"}.PenaltyAmount().IsZero())
	assert.True(t, Snapshot{KeyPenaltyAmount: "-5"}.PenaltyAmount().IsZero())
}

func TestSnapshot_PenaltyDays(t *testing.T) {
	assert.Equal(t, 7, Snapshot{KeyPenaltyDays: "7"}.PenaltyDays())
	assert.Equal(t, 0, Snapshot{}.PenaltyDays())
	assert.Equal(t, 0, Snapshot{KeyPenaltyDays: "x"}.PenaltyDays())
	assert.Equal(t, 0, Snapshot{KeyPenaltyDays: "-3"}.PenaltyDays())
}
