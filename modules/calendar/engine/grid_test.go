package engine

import (
	"testing"
	"time"

	"optimeet/modules/schedule/entity"
)

// fixedNow is a Tuesday, 10:30 local time.
var fixedNow = time.Date(2026, time.March, 10, 10, 30, 0, 0, time.UTC)

func testEngine() *GridEngine {
	return &GridEngine{Now: func() time.Time { return fixedNow }}
}

func TestBuildDayGridFlags(t *testing.T) {
	schedules := []entity.Schedule{
		{
			StartTime: time.Date(2026, time.March, 10, 14, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2026, time.March, 10, 16, 0, 0, 0, time.UTC),
		},
	}

	grid := testEngine().BuildDayGrid(fixedNow, schedules)

	tests := []struct {
		hour      int
		past      bool
		current   bool
		occupied  bool
		clickable bool
	}{
		{8, true, false, false, false},
		{10, true, true, false, false}, // 10:00 cell start is before 10:30
		{11, false, false, false, true},
		{14, false, false, true, false},
		{15, false, false, true, false},
		{16, false, false, false, true}, // half-open: end hour is free
		{23, false, false, false, true},
	}

	for _, tt := range tests {
		cell := grid.Cells[tt.hour]
		if cell.Past != tt.past || cell.Current != tt.current || cell.Occupied != tt.occupied || cell.Clickable != tt.clickable {
			t.Errorf("hour %d = {past:%v current:%v occupied:%v clickable:%v}, want {%v %v %v %v}",
				tt.hour, cell.Past, cell.Current, cell.Occupied, cell.Clickable,
				tt.past, tt.current, tt.occupied, tt.clickable)
		}
	}

	if !grid.Date.Equal(time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("grid date = %v", grid.Date)
	}
}

func TestBuildDayGridMidnightSpanOccupies(t *testing.T) {
	// Entry 22:00 -> 02:00 stored with end before start.
	schedules := []entity.Schedule{
		{
			StartTime: time.Date(2026, time.March, 10, 22, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2026, time.March, 10, 2, 0, 0, 0, time.UTC),
		},
	}

	next := testEngine().BuildDayGrid(time.Date(2026, time.March, 11, 0, 0, 0, 0, time.UTC), schedules)
	if !next.Cells[0].Occupied || !next.Cells[1].Occupied {
		t.Error("early hours of the next day should be occupied by a midnight-spanning entry")
	}
	if next.Cells[2].Occupied {
		t.Error("hour 2 is past the normalized end and should be free")
	}
}

func TestBuildWeekGrid(t *testing.T) {
	schedules := []entity.Schedule{
		{
			// Sunday evening wrap into Monday.
			StartTime: time.Date(2026, time.March, 8, 23, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2026, time.March, 8, 1, 0, 0, 0, time.UTC),
		},
	}

	grid := testEngine().BuildWeekGrid(fixedNow, schedules)

	wantStart := time.Date(2026, time.March, 8, 0, 0, 0, 0, time.UTC) // Sunday
	if !grid.StartOfWeek.Equal(wantStart) {
		t.Fatalf("week start = %v, want %v", grid.StartOfWeek, wantStart)
	}

	if !grid.Days[0].Cells[23].Occupied {
		t.Error("Sunday 23:00 should be occupied")
	}
	// Same normalization applies inside the week view, so Monday 00:00 is
	// occupied by the Sunday entry.
	if !grid.Days[1].Cells[0].Occupied {
		t.Error("Monday 00:00 should be occupied by the midnight-spanning Sunday entry")
	}
	if grid.Days[1].Cells[1].Occupied {
		t.Error("Monday 01:00 is the normalized end and should be free")
	}
}

func TestBuildMonthGridPadding(t *testing.T) {
	tests := []struct {
		name      string
		ref       time.Time
		wantCells int
		wantLead  int
		wantDays  int
	}{
		// March 2026 starts on Sunday: no leading pad, 31 days, 5 weeks.
		{"march 2026", time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), 35, 0, 31},
		// February 2026 starts on Sunday, 28 days: exactly 4 weeks.
		{"february 2026", time.Date(2026, time.February, 15, 0, 0, 0, 0, time.UTC), 28, 0, 28},
		// May 2026 starts on Friday: 5 leading pads, 31 days -> 36 -> 42.
		{"may 2026", time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC), 42, 5, 31},
		// August 2026 starts on Saturday: 6 leading pads, 31 days -> 37 -> 42.
		{"august 2026", time.Date(2026, time.August, 20, 0, 0, 0, 0, time.UTC), 42, 6, 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := testEngine().BuildMonthGrid(tt.ref)

			if len(grid.Cells) != tt.wantCells {
				t.Errorf("cell count = %d, want %d", len(grid.Cells), tt.wantCells)
			}
			if len(grid.Cells)%7 != 0 {
				t.Errorf("cell count %d is not a whole number of weeks", len(grid.Cells))
			}

			days := 0
			for i, cell := range grid.Cells {
				if cell.Day == 0 {
					if i >= tt.wantLead && i < tt.wantLead+tt.wantDays {
						t.Errorf("pad cell at index %d inside the day range", i)
					}
					continue
				}
				days++
			}
			if days != tt.wantDays {
				t.Errorf("day cells = %d, want %d", days, tt.wantDays)
			}
		})
	}
}

func TestBuildMonthGridDayFlags(t *testing.T) {
	grid := testEngine().BuildMonthGrid(fixedNow)

	var today, yesterday, tomorrow *MonthCell
	for i := range grid.Cells {
		switch grid.Cells[i].Day {
		case 9:
			yesterday = &grid.Cells[i]
		case 10:
			today = &grid.Cells[i]
		case 11:
			tomorrow = &grid.Cells[i]
		}
	}

	if today == nil || !today.Current || today.Past {
		t.Errorf("day 10 = %+v, want current and not past", today)
	}
	if yesterday == nil || !yesterday.Past || yesterday.Current {
		t.Errorf("day 9 = %+v, want past", yesterday)
	}
	if tomorrow == nil || tomorrow.Past || tomorrow.Current {
		t.Errorf("day 11 = %+v, want neither", tomorrow)
	}
}

func TestBuildYearGridPastMonths(t *testing.T) {
	grid := testEngine().BuildYearGrid(fixedNow)

	if grid.Months[time.January-1].Past != true || grid.Months[time.February-1].Past != true {
		t.Error("january and february 2026 should be past in march 2026")
	}
	if grid.Months[time.March-1].Past {
		t.Error("the current month is not past")
	}
	if grid.Months[time.December-1].Past {
		t.Error("december 2026 is not past")
	}

	// Day flags inside a past month are still computed.
	jan := grid.Months[time.January-1].Grid
	found := false
	for _, cell := range jan.Cells {
		if cell.Day == 15 {
			found = true
			if !cell.Past {
				t.Error("january 15 should be flagged past")
			}
		}
	}
	if !found {
		t.Fatal("january grid missing day 15")
	}

	lastYear := testEngine().BuildYearGrid(fixedNow.AddDate(-1, 0, 0))
	for m := range lastYear.Months {
		if !lastYear.Months[m].Past {
			t.Errorf("month %d of 2025 should be past", m+1)
		}
	}
}

func TestNavigate(t *testing.T) {
	ref := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		g     Granularity
		delta int
		want  time.Time
	}{
		{GranularityDay, 1, time.Date(2026, time.March, 11, 0, 0, 0, 0, time.UTC)},
		{GranularityDay, -1, time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)},
		{GranularityWeek, 1, time.Date(2026, time.March, 17, 0, 0, 0, 0, time.UTC)},
		{GranularityMonth, 1, time.Date(2026, time.April, 10, 0, 0, 0, 0, time.UTC)},
		{GranularityMonth, -3, time.Date(2025, time.December, 10, 0, 0, 0, 0, time.UTC)},
		{GranularityYear, 2, time.Date(2028, time.March, 10, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		if got := Navigate(ref, tt.g, tt.delta); !got.Equal(tt.want) {
			t.Errorf("Navigate(%s, %d) = %v, want %v", tt.g, tt.delta, got, tt.want)
		}
	}
}

func TestStartOfWeek(t *testing.T) {
	sunday := time.Date(2026, time.March, 8, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		in time.Time
	}{
		{time.Date(2026, time.March, 8, 15, 0, 0, 0, time.UTC)},   // Sunday itself
		{time.Date(2026, time.March, 10, 10, 30, 0, 0, time.UTC)}, // Tuesday
		{time.Date(2026, time.March, 14, 23, 59, 0, 0, time.UTC)}, // Saturday
	}

	for _, tt := range tests {
		if got := StartOfWeek(tt.in); !got.Equal(sunday) {
			t.Errorf("StartOfWeek(%v) = %v, want %v", tt.in, got, sunday)
		}
	}
}

func TestValidGranularity(t *testing.T) {
	for _, g := range []Granularity{GranularityDay, GranularityWeek, GranularityMonth, GranularityYear} {
		if !ValidGranularity(g) {
			t.Errorf("%s should be valid", g)
		}
	}
	if ValidGranularity("decade") {
		t.Error("unknown granularity accepted")
	}
}
