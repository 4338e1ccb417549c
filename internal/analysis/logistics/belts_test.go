package logistics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSizeBelts(t *testing.T) {
	tests := []struct {
		name  string
		flow  float64
		tier  string
		count int
	}{
		{"zero flow needs no belts", 0, "mk1", 0},
		{"fits one mk1", 4, "mk1", 1},
		{"exactly mk1 capacity", 6, "mk1", 1},
		{"just over mk1 moves up a tier", 6.01, "mk2", 1},
		{"exactly mk2 capacity", 12, "mk2", 1},
		{"fits one mk3", 25, "mk3", 1},
		{"exactly mk3 capacity", 30, "mk3", 1},
		{"above top tier goes parallel", 36, "mk3", 2},
		{"well above top tier", 95, "mk3", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, count := sizeBelts(tt.flow)
			assert.Equal(t, tt.tier, tier)
			assert.Equal(t, tt.count, count)
		})
	}
}

func TestDetectTier(t *testing.T) {
	assert.Equal(t, "mk1", detectTier(6))
	assert.Equal(t, "mk2", detectTier(12))
	assert.Equal(t, "mk3", detectTier(30))
	assert.Equal(t, "mk3", detectTier(100))
}

func TestUpgradeRecommendation(t *testing.T) {
	assert.Equal(t, "Upgrade to Mk2 (green) belt for 2x throughput", upgradeRecommendation(6))
	assert.Equal(t, "Upgrade to Mk3 (yellow) belt for 2.5x throughput", upgradeRecommendation(12))
	assert.Equal(t, "At max tier - consider parallel belt lines", upgradeRecommendation(30))
}
