package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextRank_FirstPromotionNeedsBothLegs(t *testing.T) {
	tests := []struct {
		name     string
		left     int
		right    int
		promoted bool
	}{
		{"one paid direct per leg", 1, 1, true},
		{"left only", 2, 0, false},
		{"right only", 0, 3, false},
		{"none", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rank, ok := nextRank(0, tt.left, tt.right)
			assert.Equal(t, tt.promoted, ok)
			if ok {
				assert.Equal(t, 1, rank)
			} else {
				assert.Equal(t, 0, rank)
			}
		})
	}
}

func TestNextRank_CumulativeThresholds(t *testing.T) {
	// Rank N -> N+1 needs 2*(N+1) paid directs in total, any mix of legs.
	tests := []struct {
		current  int
		total    int
		promoted bool
	}{
		{1, 3, false},
		{1, 4, true},
		{2, 5, false},
		{2, 6, true},
		{3, 8, true},
		{4, 9, false},
		{4, 10, true},
	}
	for _, tt := range tests {
		rank, ok := nextRank(tt.current, tt.total, 0)
		assert.Equal(t, tt.promoted, ok, "rank %d with %d paid directs", tt.current, tt.total)
		if ok {
			assert.Equal(t, tt.current+1, rank)
		}
	}
}

func TestNextRank_SingleStepOnly(t *testing.T) {
	// A flood of paid directs still advances one level per evaluation.
	rank, ok := nextRank(1, 50, 50)
	assert.True(t, ok)
	assert.Equal(t, 2, rank)
}

func TestNextRank_TopRankIsTerminal(t *testing.T) {
	rank, ok := nextRank(TopRank, 100, 100)
	assert.False(t, ok)
	assert.Equal(t, TopRank, rank)
}

func TestNextRank_NeverDecreases(t *testing.T) {
	for current := 0; current <= TopRank; current++ {
		rank, _ := nextRank(current, 0, 0)
		assert.GreaterOrEqual(t, rank, current)
	}
}
