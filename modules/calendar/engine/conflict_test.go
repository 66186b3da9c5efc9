package engine

import (
	"testing"
	"time"

	"optimeet/modules/schedule/entity"
)

func at(h int) time.Time {
	return time.Date(2026, time.March, 10, h, 0, 0, 0, time.UTC)
}

func TestHasConflict(t *testing.T) {
	existing := []Interval{
		{Start: at(9), End: at(11)},
		{Start: at(14), End: at(15)},
	}

	tests := []struct {
		name      string
		candidate Interval
		want      bool
	}{
		{"inside existing", Interval{at(9), at(10)}, true},
		{"wraps existing", Interval{at(8), at(12)}, true},
		{"overlaps start", Interval{at(8), at(10)}, true},
		{"overlaps end", Interval{at(10), at(12)}, true},
		{"touches end exactly", Interval{at(11), at(12)}, false},
		{"touches start exactly", Interval{at(13), at(14)}, false},
		{"clear gap", Interval{at(12), at(13)}, false},
		{"second interval hit", Interval{at(14), at(16)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasConflict(tt.candidate, existing); got != tt.want {
				t.Errorf("HasConflict(%v) = %v, want %v", tt.candidate, got, tt.want)
			}
		})
	}
}

func TestHasConflictEmpty(t *testing.T) {
	if HasConflict(Interval{at(9), at(10)}, nil) {
		t.Error("conflict reported against empty calendar")
	}
}

func TestIntervalsOfNormalizesMidnight(t *testing.T) {
	schedules := []entity.Schedule{
		{
			StartTime: time.Date(2026, time.March, 10, 22, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2026, time.March, 10, 2, 0, 0, 0, time.UTC),
		},
	}

	intervals := IntervalsOf(schedules)
	if len(intervals) != 1 {
		t.Fatalf("got %d intervals, want 1", len(intervals))
	}

	wantEnd := time.Date(2026, time.March, 11, 2, 0, 0, 0, time.UTC)
	if !intervals[0].End.Equal(wantEnd) {
		t.Errorf("normalized end = %v, want %v", intervals[0].End, wantEnd)
	}

	// The late-night candidate now collides with the wrapped entry.
	candidate := Interval{
		Start: time.Date(2026, time.March, 11, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, time.March, 11, 1, 0, 0, 0, time.UTC),
	}
	if !HasConflict(candidate, intervals) {
		t.Error("midnight-spanning entry did not conflict with next-day candidate")
	}
}
