package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveVolume(t *testing.T) {
	assert.Equal(t, 80.0, effectiveVolume(80))
	assert.Equal(t, 100.0, effectiveVolume(100))
	assert.Equal(t, 100.0, effectiveVolume(150), "volume above the cap is clipped")
	assert.Equal(t, 0.0, effectiveVolume(0))
}

func TestQualifiesForMatching(t *testing.T) {
	tests := []struct {
		name      string
		left      float64
		right     float64
		qualifies bool
	}{
		{"both legs at the cap", 100, 100, true},
		{"both legs above the cap", 150, 120, true},
		{"strong left cannot make up a weak right", 120, 80, false},
		{"strong right cannot make up a weak left", 80, 120, false},
		{"both legs short", 50, 50, false},
		{"empty legs", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.qualifies, qualifiesForMatching(tt.left, tt.right))
		})
	}
}
