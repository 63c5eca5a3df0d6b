// services/scheduler.go
package services

import (
	"context"
	"log"
	"time"

	"github.com/astrixglobal/astrix_backend/config"
	"github.com/astrixglobal/astrix_backend/utils"
)

// Fixed trigger times, UTC. The daily slots are 08:00, 16:00 and 24:00 on
// the India clock; every pass settles the most recently closed half-day
// window, so the 16:00 and 24:00 slots each pick up the half-day that just
// ended and the 08:00 slot re-scans the previous night for leftovers. The
// fortnightly job runs on the 1st and 16th.
var (
	dailyRunTimes      = []struct{ hour, minute int }{{2, 30}, {10, 30}, {18, 30}}
	fortnightlyRunDays = []int{1, 16}
	fortnightlyRunHour = 20
	fortnightlyRunMin  = 30
)

// BonusScheduler drives the bonus passes at the fixed times. It is plain
// goroutines with sleeps; the Redis job lock keeps a manual trigger from
// overlapping a scheduled run.
type BonusScheduler struct {
	matching *MatchingBonusService
	direct   *DirectSalesService
	infinity *InfinityBonusService
}

// NewBonusScheduler creates a new bonus scheduler
func NewBonusScheduler(matching *MatchingBonusService, direct *DirectSalesService, infinity *InfinityBonusService) *BonusScheduler {
	return &BonusScheduler{matching: matching, direct: direct, infinity: infinity}
}

// nextDailyRun returns the next daily slot strictly after now.
func nextDailyRun(now time.Time) time.Time {
	now = now.UTC()
	for _, slot := range dailyRunTimes {
		candidate := time.Date(now.Year(), now.Month(), now.Day(), slot.hour, slot.minute, 0, 0, time.UTC)
		if candidate.After(now) {
			return candidate
		}
	}
	first := dailyRunTimes[0]
	tomorrow := now.AddDate(0, 0, 1)
	return time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), first.hour, first.minute, 0, 0, time.UTC)
}

// nextFortnightlyRun returns the next fortnightly slot strictly after now.
func nextFortnightlyRun(now time.Time) time.Time {
	now = now.UTC()
	year, month, _ := now.Date()
	for monthOffset := 0; monthOffset < 2; monthOffset++ {
		base := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, monthOffset, 0)
		for _, day := range fortnightlyRunDays {
			candidate := time.Date(base.Year(), base.Month(), day, fortnightlyRunHour, fortnightlyRunMin, 0, 0, time.UTC)
			if candidate.After(now) {
				return candidate
			}
		}
	}
	// Unreachable: the 1st of next month always qualifies.
	return now.AddDate(0, 1, 0)
}

// processingWindow is the window a pass waking at wakeAt settles. The
// window containing wakeAt is still open; settling it would strand any
// order paid between the pass and the window's close.
func processingWindow(wakeAt time.Time) utils.BonusWindow {
	return utils.PreviousBonusWindow(wakeAt)
}

// RunDaily executes the daily chain: matching first, then direct sales.
func (s *BonusScheduler) RunDaily(ctx context.Context) error {
	window := processingWindow(time.Now())

	matched, err := s.matching.Run(ctx, window)
	if err != nil {
		return err
	}
	log.Printf("Daily bonus job: matching pass created %d payout(s)", matched)

	direct, err := s.direct.Run(ctx, window)
	if err != nil {
		return err
	}
	log.Printf("Daily bonus job: direct sales pass created %d payout(s)", direct)
	return nil
}

// RunFortnightly executes the infinity propagation job.
func (s *BonusScheduler) RunFortnightly(ctx context.Context) error {
	created, err := s.infinity.Run(ctx, time.Now())
	if err != nil {
		return err
	}
	log.Printf("Fortnightly bonus job: infinity pass propagated %d payout(s)", created)
	return nil
}

// Start launches the two scheduling loops.
func (s *BonusScheduler) Start() {
	go s.loop("daily", nextDailyRun, s.RunDaily)
	go s.loop("fortnightly", nextFortnightlyRun, s.RunFortnightly)
}

func (s *BonusScheduler) loop(jobName string, next func(time.Time) time.Time, run func(context.Context) error) {
	for {
		wakeAt := next(time.Now())
		log.Printf("Bonus scheduler: next %s run at %s", jobName, wakeAt.Format(time.RFC3339))
		time.Sleep(time.Until(wakeAt))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		locked, err := config.AcquireJobLock(ctx, jobName, 30*time.Minute)
		if err != nil {
			// The fixed schedule is the primary mutual exclusion; run anyway.
			log.Printf("Bonus scheduler: %s lock error: %v", jobName, err)
			locked = true
		}
		if !locked {
			log.Printf("Bonus scheduler: %s job already running, skipping this slot", jobName)
			cancel()
			continue
		}

		if err := run(ctx); err != nil {
			log.Printf("Bonus scheduler: %s job failed: %v", jobName, err)
		}
		config.ReleaseJobLock(ctx, jobName)
		cancel()
	}
}
