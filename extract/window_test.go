package extract

import (
	"testing"
	"time"

	"ytextract/youtube"
)

func TestWindowFromMonthsBack(t *testing.T) {
	loc := time.UTC

	tests := []struct {
		name      string
		now       time.Time
		months    int
		wantStart string
		wantEnd   string
	}{
		{
			"plain six months",
			time.Date(2026, time.August, 30, 15, 4, 5, 0, loc),
			6,
			"2026-02-28", "2026-08-30",
		},
		{
			"clamps to short month",
			time.Date(2026, time.March, 31, 10, 0, 0, 0, loc),
			1,
			"2026-02-28", "2026-03-31",
		},
		{
			"clamps to leap february",
			time.Date(2028, time.March, 31, 10, 0, 0, 0, loc),
			1,
			"2028-02-29", "2028-03-31",
		},
		{
			"crosses year boundary",
			time.Date(2026, time.January, 15, 0, 0, 0, 0, loc),
			3,
			"2025-10-15", "2026-01-15",
		},
		{
			"maximum window",
			time.Date(2026, time.August, 30, 0, 0, 0, 0, loc),
			60,
			"2021-08-30", "2026-08-30",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := WindowFromMonthsBack(tt.months, tt.now)
			if got := w.Start.Format("2006-01-02"); got != tt.wantStart {
				t.Errorf("Start = %s, want %s", got, tt.wantStart)
			}
			if got := w.End.Format("2006-01-02"); got != tt.wantEnd {
				t.Errorf("End = %s, want %s", got, tt.wantEnd)
			}
			if h, m, s := w.Start.Clock(); h+m+s != 0 {
				t.Errorf("Start carries a time component: %v", w.Start)
			}
		})
	}
}

func entryAt(id, publishedAt string) youtube.PlaylistEntry {
	return youtube.PlaylistEntry{VideoID: id, PublishedAt: publishedAt}
}

func TestFilterByWindow_InclusiveBounds(t *testing.T) {
	window := DateWindow{
		Start: time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, time.June, 30, 0, 0, 0, 0, time.UTC),
	}

	entries := []youtube.PlaylistEntry{
		entryAt("before", "2026-05-31T23:59:59Z"),
		entryAt("onStart", "2026-06-01T00:00:00Z"),
		entryAt("inside", "2026-06-15T12:30:00Z"),
		entryAt("onEnd", "2026-06-30T00:00:00Z"),
		entryAt("after", "2026-06-30T00:00:01Z"),
	}

	kept, err := FilterByWindow(entries, window)
	if err != nil {
		t.Fatalf("FilterByWindow() failed: %v", err)
	}

	want := []string{"onStart", "inside", "onEnd"}
	if len(kept) != len(want) {
		t.Fatalf("kept %d entries, want %d", len(kept), len(want))
	}
	for i, id := range want {
		if kept[i].VideoID != id {
			t.Errorf("kept[%d] = %s, want %s (order must be stable)", i, kept[i].VideoID, id)
		}
	}
}

func TestFilterByWindow_SingleDayWindow(t *testing.T) {
	day := time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)
	window := DateWindow{Start: day, End: day}

	entries := []youtube.PlaylistEntry{
		entryAt("secondBefore", "2026-06-14T23:59:59Z"),
		entryAt("exactlyOn", "2026-06-15T00:00:00Z"),
		entryAt("secondAfter", "2026-06-15T00:00:01Z"),
	}

	kept, err := FilterByWindow(entries, window)
	if err != nil {
		t.Fatalf("FilterByWindow() failed: %v", err)
	}
	if len(kept) != 1 || kept[0].VideoID != "exactlyOn" {
		t.Errorf("kept = %v, want only exactlyOn", kept)
	}
}

func TestFilterByWindow_StripsZoneDesignator(t *testing.T) {
	window := DateWindow{
		Start: time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, time.June, 30, 0, 0, 0, 0, time.UTC),
	}

	// With and without trailing Z, including fractional seconds.
	entries := []youtube.PlaylistEntry{
		entryAt("zoned", "2026-06-10T08:00:00Z"),
		entryAt("naive", "2026-06-10T08:00:00"),
		entryAt("fractional", "2026-06-10T08:00:00.500Z"),
	}

	kept, err := FilterByWindow(entries, window)
	if err != nil {
		t.Fatalf("FilterByWindow() failed: %v", err)
	}
	if len(kept) != 3 {
		t.Errorf("kept %d entries, want 3", len(kept))
	}
}

func TestFilterByWindow_UnparseableTimestamp(t *testing.T) {
	window := DateWindow{
		Start: time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, time.June, 30, 0, 0, 0, 0, time.UTC),
	}

	entries := []youtube.PlaylistEntry{entryAt("bad", "June 10th 2026")}
	if _, err := FilterByWindow(entries, window); err == nil {
		t.Error("FilterByWindow() = nil error, want parse failure")
	}
}

func TestFilterByWindow_EmptyInput(t *testing.T) {
	window := WindowFromMonthsBack(6, time.Now())
	kept, err := FilterByWindow(nil, window)
	if err != nil {
		t.Fatalf("FilterByWindow() failed: %v", err)
	}
	if len(kept) != 0 {
		t.Errorf("kept %d entries, want 0", len(kept))
	}
}
