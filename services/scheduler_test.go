package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextDailyRun(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			"before the first slot",
			time.Date(2024, 3, 10, 1, 0, 0, 0, time.UTC),
			time.Date(2024, 3, 10, 2, 30, 0, 0, time.UTC),
		},
		{
			"between slots",
			time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
			time.Date(2024, 3, 10, 10, 30, 0, 0, time.UTC),
		},
		{
			"after the last slot rolls to tomorrow",
			time.Date(2024, 3, 10, 19, 0, 0, 0, time.UTC),
			time.Date(2024, 3, 11, 2, 30, 0, 0, time.UTC),
		},
		{
			"exactly on a slot picks the next one",
			time.Date(2024, 3, 10, 10, 30, 0, 0, time.UTC),
			time.Date(2024, 3, 10, 18, 30, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextDailyRun(tt.now))
		})
	}
}

// A pass must always settle a window that has already closed, never the
// one that is still collecting orders at wake time.
func TestProcessingWindowIsAlwaysClosed(t *testing.T) {
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	for _, slot := range dailyRunTimes {
		wakeAt := time.Date(day.Year(), day.Month(), day.Day(), slot.hour, slot.minute, 0, 0, time.UTC)
		window := processingWindow(wakeAt)
		assert.True(t, window.End.Before(wakeAt), "slot %02d:%02d settles window ending %s, which is not closed yet",
			slot.hour, slot.minute, window.End.Format(time.RFC3339))
	}
}

// Every payment instant must fall inside the window settled by some later
// slot, including payments landing in the tail of a half-day after that
// half-day's mid-window slot has already fired.
func TestEveryPaymentIsSettledBySomeSlot(t *testing.T) {
	payments := []time.Time{
		time.Date(2024, 3, 10, 4, 0, 0, 0, time.UTC),   // 09:30 India time, morning half
		time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC), // 21:00 India time, evening half
		time.Date(2024, 3, 10, 6, 29, 59, 0, time.UTC), // last second of the morning half
		time.Date(2024, 3, 10, 18, 29, 59, 0, time.UTC),
	}
	for _, payment := range payments {
		settled := false
		slot := nextDailyRun(payment)
		for i := 0; i < 4; i++ {
			if processingWindow(slot).Contains(payment) {
				settled = true
				break
			}
			slot = nextDailyRun(slot)
		}
		assert.True(t, settled, "payment at %s is settled by no scheduled slot", payment.Format(time.RFC3339))
	}
}

func TestNextFortnightlyRun(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			"early month targets the 1st... already past, so the 16th",
			time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 3, 16, 20, 30, 0, 0, time.UTC),
		},
		{
			"late month rolls to the 1st of next month",
			time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 4, 1, 20, 30, 0, 0, time.UTC),
		},
		{
			"before the slot on the 16th",
			time.Date(2024, 3, 16, 10, 0, 0, 0, time.UTC),
			time.Date(2024, 3, 16, 20, 30, 0, 0, time.UTC),
		},
		{
			"december rolls into january",
			time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 1, 1, 20, 30, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextFortnightlyRun(tt.now))
		})
	}
}
