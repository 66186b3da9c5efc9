package engine

import (
	"time"

	"optimeet/modules/schedule/entity"
)

// Interval is a half-open [Start, End) time range.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// HasConflict reports whether the candidate interval overlaps any existing
// interval. Half-open semantics: a candidate that starts exactly when another
// ends is not a conflict.
func HasConflict(candidate Interval, existing []Interval) bool {
	for _, e := range existing {
		if candidate.Start.Before(e.End) && candidate.End.After(e.Start) {
			return true
		}
	}
	return false
}

// IntervalsOf extracts midnight-normalized intervals from schedule entries.
func IntervalsOf(schedules []entity.Schedule) []Interval {
	intervals := make([]Interval, 0, len(schedules))
	for i := range schedules {
		intervals = append(intervals, Interval{
			Start: schedules[i].StartTime,
			End:   schedules[i].NormalizedEnd(),
		})
	}
	return intervals
}
