package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClubFor(t *testing.T) {
	tests := []struct {
		name        string
		totalPayout float64
		isTopRank   bool
		want        string
	}{
		{"below every threshold", 50000, false, ""},
		{"silver", 100000, false, ClubSilver},
		{"gold", 500000, false, ClubGold},
		{"platinum payout without top rank stays gold", 1500000, false, ClubGold},
		{"platinum", 1000000, true, ClubPlatinum},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, clubFor(tt.totalPayout, tt.isTopRank))
		})
	}
}

func TestClubOrder_NeverRegresses(t *testing.T) {
	assert.Less(t, clubOrder(""), clubOrder(ClubSilver))
	assert.Less(t, clubOrder(ClubSilver), clubOrder(ClubGold))
	assert.Less(t, clubOrder(ClubGold), clubOrder(ClubPlatinum))
}
