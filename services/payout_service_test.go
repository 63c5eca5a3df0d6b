package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchingSplit_PANVerified(t *testing.T) {
	split := matchingSplit(5000, true)

	assert.Equal(t, 4000.0, split.Withdraw)
	assert.Equal(t, 400.0, split.Reward)
	assert.Equal(t, 100.0, split.TDS)
	assert.Equal(t, 500.0, split.Admin)
	assert.InDelta(t, 5000.0, split.Total(), 0.01)
}

func TestMatchingSplit_Unverified(t *testing.T) {
	split := matchingSplit(5000, false)

	assert.Equal(t, 3100.0, split.Withdraw)
	assert.Equal(t, 400.0, split.Reward)
	assert.Equal(t, 1000.0, split.TDS)
	assert.Equal(t, 500.0, split.Admin)
	assert.InDelta(t, 5000.0, split.Total(), 0.01)
}

func TestDirectSalesSplit(t *testing.T) {
	split := directSalesSplit(1000)

	assert.Equal(t, 800.0, split.Withdraw)
	assert.Equal(t, 100.0, split.Reward)
	assert.Equal(t, 50.0, split.TDS)
	assert.Equal(t, 50.0, split.Admin)
	assert.InDelta(t, 1000.0, split.Total(), 0.01)
}

func TestSplits_SumToTotalWithinRounding(t *testing.T) {
	amounts := []float64{0.01, 1, 33.33, 999.99, 5000, 123456.78}
	for _, amount := range amounts {
		for _, pan := range []bool{true, false} {
			split := matchingSplit(amount, pan)
			assert.InDelta(t, amount, split.Total(), 0.02, "matching split of %.2f (pan=%v)", amount, pan)
		}
		split := directSalesSplit(amount)
		assert.InDelta(t, amount, split.Total(), 0.02, "direct sales split of %.2f", amount)
	}
}

func TestShouldHold(t *testing.T) {
	tests := []struct {
		name           string
		candidateTotal float64
		purchaseVolume float64
		want           bool
	}{
		{"under the multiple", 5000, 1000, false},
		{"exactly at the multiple", 10000, 1000, false},
		{"over the multiple", 10001, 1000, true},
		{"no own volume holds everything", 1, 0, true},
		{"zero candidate with zero volume", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldHold(tt.candidateTotal, tt.purchaseVolume))
		})
	}
}
