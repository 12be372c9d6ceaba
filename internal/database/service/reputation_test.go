package service_test

import (
	"testing"

	"github.com/agorahq/agora/internal/database/service"
	"github.com/agorahq/agora/internal/database/types/enum"
	"github.com/stretchr/testify/assert"
)

func TestLevelFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		total    int
		expected enum.ReputationLevel
	}{
		{-50, enum.ReputationLevelNewcomer},
		{0, enum.ReputationLevelNewcomer},
		{99, enum.ReputationLevelNewcomer},
		{100, enum.ReputationLevelContributor},
		{499, enum.ReputationLevelContributor},
		{500, enum.ReputationLevelExpert},
		{999, enum.ReputationLevelExpert},
		{1000, enum.ReputationLevelMaster},
		{2499, enum.ReputationLevelMaster},
		{2500, enum.ReputationLevelLegend},
		{100000, enum.ReputationLevelLegend},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, service.LevelFor(tt.total), "total=%d", tt.total)
	}
}

func TestProgressFor(t *testing.T) {
	t.Parallel()

	// Halfway through newcomer
	progress := service.ProgressFor(50)
	assert.Equal(t, enum.ReputationLevelNewcomer, progress.Current)
	assert.Equal(t, 100, progress.NextLevelThreshold)
	assert.Equal(t, 50, progress.Percentage)

	// Exactly at a threshold
	progress = service.ProgressFor(100)
	assert.Equal(t, enum.ReputationLevelContributor, progress.Current)
	assert.Equal(t, 500, progress.NextLevelThreshold)
	assert.Equal(t, 0, progress.Percentage)

	// Negative totals clamp to the bottom of newcomer
	progress = service.ProgressFor(-30)
	assert.Equal(t, enum.ReputationLevelNewcomer, progress.Current)
	assert.Equal(t, 0, progress.Percentage)

	// Top level always reports 100 percent
	progress = service.ProgressFor(9000)
	assert.Equal(t, enum.ReputationLevelLegend, progress.Current)
	assert.Equal(t, 100, progress.Percentage)
	assert.Zero(t, progress.NextLevelThreshold)
}
