package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/astrixglobal/astrix_backend/models"
	"github.com/astrixglobal/astrix_backend/utils"
)

func TestTierPercentage(t *testing.T) {
	tests := []struct {
		rank int
		want float64
	}{
		{0, 0},
		{1, 0.25},
		{2, 0.35},
		{3, 0.40},
		{4, 0.45},
		{5, 0.50},
		{6, 0},
		{-1, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tierPercentage(tt.rank), "rank %d", tt.rank)
	}
}

func TestPropagatedAmount(t *testing.T) {
	// A rank-3 sponsor receives 40% of a 5000 matching bonus.
	amount := utils.Round2(5000 * tierPercentage(3))
	assert.Equal(t, 2000.0, amount)

	split := matchingSplit(amount, true)
	assert.InDelta(t, amount, split.Total(), 0.01)
}

// The source scan is bounded on both ends: a pass run as of some instant
// must not pick up payouts created after it, and nothing older than the
// lookback.
func TestInfinitySourceFilter(t *testing.T) {
	asOf := time.Date(2024, 3, 16, 20, 30, 0, 0, time.UTC)

	filter := infinitySourceFilter(asOf)

	dateRange, ok := filter["date"].(bson.M)
	require.True(t, ok, "date filter must be a range")
	assert.Equal(t, asOf.Add(-infinityLookback), dateRange["$gte"])
	assert.Equal(t, asOf, dateRange["$lte"])
	assert.Equal(t, false, filter["isChecked"])
}

func TestInfinityPayoutName(t *testing.T) {
	assert.Equal(t, models.PayoutInfinityMatching, infinityPayoutName(models.PayoutMatchingBonus))
	assert.Equal(t, models.PayoutInfinitySalesBonus, infinityPayoutName(models.PayoutDirectSalesBonus))
}
