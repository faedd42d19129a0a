package extract

import (
	"fmt"
	"strings"
	"time"

	"ytextract/youtube"
)

// DateWindow is an inclusive publish-timestamp window. Bounds carry no time
// component: both sit at midnight of their day.
type DateWindow struct {
	Start time.Time
	End   time.Time
}

func (w DateWindow) String() string {
	return w.Start.Format("2006-01-02") + ".." + w.End.Format("2006-01-02")
}

// WindowFromMonthsBack converts a whole-months look-back into an absolute
// window ending at today's midnight. Month arithmetic clamps to the last
// day of the target month (Mar 31 minus one month is Feb 28, not Mar 3).
func WindowFromMonthsBack(months int, now time.Time) DateWindow {
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return DateWindow{Start: monthsEarlier(end, months), End: end}
}

// monthsEarlier steps back whole months with day-of-month clamping.
func monthsEarlier(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	total := int(m) - 1 - months
	y += total / 12
	mm := total % 12
	if mm < 0 {
		mm += 12
		y--
	}
	month := time.Month(mm + 1)
	if last := daysIn(month, y); d > last {
		d = last
	}
	return time.Date(y, month, d, 0, 0, 0, 0, t.Location())
}

func daysIn(m time.Month, year int) int {
	// Day 0 of the next month is the last day of m.
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FilterByWindow keeps entries whose publish timestamp falls inside the
// window, both bounds inclusive, compared at full timestamp precision. The
// output order matches the input order. An unparseable publish timestamp is
// a terminal error for the listing being filtered.
func FilterByWindow(entries []youtube.PlaylistEntry, window DateWindow) ([]youtube.PlaylistEntry, error) {
	var kept []youtube.PlaylistEntry
	for _, entry := range entries {
		published, err := parsePublished(entry.PublishedAt, window.Start.Location())
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", entry.VideoID, err)
		}
		if !published.Before(window.Start) && !published.After(window.End) {
			kept = append(kept, entry)
		}
	}
	return kept, nil
}

// parsePublished strips the trailing zone designator and parses the rest as
// a naive timestamp in the window's zone, so both sides of the comparison
// live in one implied zone.
func parsePublished(s string, loc *time.Location) (time.Time, error) {
	trimmed := strings.TrimSuffix(s, "Z")
	t, err := time.ParseInLocation("2006-01-02T15:04:05", trimmed, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse published timestamp %q: %w", s, err)
	}
	return t, nil
}
