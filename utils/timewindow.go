// utils/timewindow.go
package utils

import "time"

// Bonus windows are defined on the India clock (UTC+5:30, no DST) and
// converted to UTC, which is what Mongo stores.
var istLocation = time.FixedZone("IST", 5*3600+30*60)

// BonusWindow is half a regional day. Both boundaries are inclusive.
type BonusWindow struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w BonusWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// BonusWindowAt returns the half-day window containing the instant t:
// 00:00:00 - 11:59:59.999 IST or 12:00:00 - 23:59:59.999 IST, expressed
// in UTC.
func BonusWindowAt(t time.Time) BonusWindow {
	ist := t.In(istLocation)
	year, month, day := ist.Date()

	startHour := 0
	if ist.Hour() >= 12 {
		startHour = 12
	}

	start := time.Date(year, month, day, startHour, 0, 0, 0, istLocation)
	end := start.Add(12*time.Hour - time.Millisecond)

	return BonusWindow{Start: start.UTC(), End: end.UTC()}
}

// PreviousBonusWindow returns the most recently closed window relative to
// t. Bonus passes settle this one: the window containing t is still open
// and still collecting orders.
func PreviousBonusWindow(t time.Time) BonusWindow {
	current := BonusWindowAt(t)
	return BonusWindowAt(current.Start.Add(-time.Millisecond))
}

// ParseWindowDate resolves a backfill request: a YYYY-MM-DD date on the
// India clock plus a half-day slot ("am" or "pm", defaulting to "am").
func ParseWindowDate(date, slot string) (BonusWindow, error) {
	t, err := time.ParseInLocation("2006-01-02", date, istLocation)
	if err != nil {
		return BonusWindow{}, err
	}
	if slot == "pm" {
		t = t.Add(12 * time.Hour)
	}
	return BonusWindowAt(t), nil
}
