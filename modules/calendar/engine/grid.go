package engine

import (
	"time"

	"optimeet/modules/schedule/entity"
)

// Granularity selects the calendar grid shape.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
	GranularityYear  Granularity = "year"
)

// ValidGranularity reports whether g is one of the four views.
func ValidGranularity(g Granularity) bool {
	switch g {
	case GranularityDay, GranularityWeek, GranularityMonth, GranularityYear:
		return true
	}
	return false
}

// HourCell is one addressable hour slot in a day or week grid.
type HourCell struct {
	Start     time.Time `json:"start"`
	Hour      int       `json:"hour"`
	Past      bool      `json:"past"`
	Current   bool      `json:"current"`
	Occupied  bool      `json:"occupied"`
	Clickable bool      `json:"clickable"`
}

// DayGrid is the 24 hourly cells of a single date.
type DayGrid struct {
	Date  time.Time    `json:"date"`
	Cells [24]HourCell `json:"cells"`
}

// WeekGrid is seven day grids anchored at the Sunday on or before the
// reference date.
type WeekGrid struct {
	StartOfWeek time.Time  `json:"start_of_week"`
	Days        [7]DayGrid `json:"days"`
}

// MonthCell is a day number within a month grid; Day 0 marks a pad cell
// filling the leading/trailing partial weeks.
type MonthCell struct {
	Day     int  `json:"day"`
	Past    bool `json:"past"`
	Current bool `json:"current"`
}

// MonthGrid is a 7-column grid padded to full weeks.
type MonthGrid struct {
	Year  int         `json:"year"`
	Month time.Month  `json:"month"`
	Cells []MonthCell `json:"cells"`
}

// YearMonth is one mini month grid inside a year view.
type YearMonth struct {
	Month time.Month `json:"month"`
	Past  bool       `json:"past"`
	Grid  MonthGrid  `json:"grid"`
}

// YearGrid is the twelve nested month grids of one year.
type YearGrid struct {
	Year   int           `json:"year"`
	Months [12]YearMonth `json:"months"`
}

// GridEngine builds render-ready cell grids. The clock is injectable so the
// past/current predicates are testable at a fixed instant.
type GridEngine struct {
	Now func() time.Time
}

func NewGridEngine() *GridEngine {
	return &GridEngine{Now: time.Now}
}

// StartOfDay truncates t to its local midnight.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns the midnight of the Sunday on or before t.
func StartOfWeek(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, -int(t.Weekday()))
}

// Navigate shifts a reference date by delta steps of the given granularity.
// Month and year steps lean on the date primitive's rollover normalization.
func Navigate(ref time.Time, g Granularity, delta int) time.Time {
	switch g {
	case GranularityDay:
		return ref.AddDate(0, 0, delta)
	case GranularityWeek:
		return ref.AddDate(0, 0, 7*delta)
	case GranularityMonth:
		return ref.AddDate(0, delta, 0)
	case GranularityYear:
		return ref.AddDate(delta, 0, 0)
	}
	return ref
}

// Occupied reports whether the instant falls inside any entry's
// midnight-normalized [start, end) interval.
func Occupied(at time.Time, schedules []entity.Schedule) bool {
	for i := range schedules {
		s := &schedules[i]
		if !at.Before(s.StartTime) && at.Before(s.NormalizedEnd()) {
			return true
		}
	}
	return false
}

// BuildDayGrid classifies the 24 hourly cells of the reference date.
func (g *GridEngine) BuildDayGrid(ref time.Time, schedules []entity.Schedule) DayGrid {
	now := g.Now()
	day := StartOfDay(ref)
	today := StartOfDay(now)

	grid := DayGrid{Date: day}
	for h := 0; h < 24; h++ {
		cellStart := day.Add(time.Duration(h) * time.Hour)
		cell := HourCell{
			Start:    cellStart,
			Hour:     h,
			Past:     cellStart.Before(now),
			Current:  day.Equal(today) && h == now.Hour(),
			Occupied: Occupied(cellStart, schedules),
		}
		cell.Clickable = !cell.Past && !cell.Occupied
		grid.Cells[h] = cell
	}
	return grid
}

// BuildWeekGrid classifies the 7x24 grid anchored at the Sunday on or before
// the reference date. The same occupancy predicate as the day view applies,
// midnight normalization included.
func (g *GridEngine) BuildWeekGrid(ref time.Time, schedules []entity.Schedule) WeekGrid {
	start := StartOfWeek(ref)
	grid := WeekGrid{StartOfWeek: start}
	for d := 0; d < 7; d++ {
		grid.Days[d] = g.BuildDayGrid(start.AddDate(0, 0, d), schedules)
	}
	return grid
}

// BuildMonthGrid lays the reference month out as a 7-column grid padded to
// full weeks. Pad cells carry Day 0.
func (g *GridEngine) BuildMonthGrid(ref time.Time) MonthGrid {
	now := g.Now()
	today := StartOfDay(now)

	year, month := ref.Year(), ref.Month()
	firstDay := time.Date(year, month, 1, 0, 0, 0, 0, ref.Location())
	daysInMonth := firstDay.AddDate(0, 1, -1).Day()
	startDay := int(firstDay.Weekday())
	totalCells := ((startDay + daysInMonth + 6) / 7) * 7

	grid := MonthGrid{Year: year, Month: month, Cells: make([]MonthCell, totalCells)}
	for i := 0; i < totalCells; i++ {
		if i < startDay || i >= startDay+daysInMonth {
			continue
		}
		day := i - startDay + 1
		cellDate := time.Date(year, month, day, 0, 0, 0, 0, ref.Location())
		grid.Cells[i] = MonthCell{
			Day:     day,
			Past:    cellDate.Before(today),
			Current: cellDate.Equal(today),
		}
	}
	return grid
}

// BuildYearGrid nests twelve month grids. A month is past when its year is
// before the current year, or same year with an earlier month index; the
// day-level flags inside an already-past month are still computed.
func (g *GridEngine) BuildYearGrid(ref time.Time) YearGrid {
	now := g.Now()

	grid := YearGrid{Year: ref.Year()}
	for m := time.January; m <= time.December; m++ {
		monthRef := time.Date(ref.Year(), m, 1, 0, 0, 0, 0, ref.Location())
		past := ref.Year() < now.Year() ||
			(ref.Year() == now.Year() && m < now.Month())
		grid.Months[m-1] = YearMonth{
			Month: m,
			Past:  past,
			Grid:  g.BuildMonthGrid(monthRef),
		}
	}
	return grid
}
