package calendar

import (
	"fmt"
	"time"

	"github.com/username/month-grid/pkg/dateutil"
)

// PreviousMonth returns the same day one month earlier, clamped to the end of
// the shorter month
func PreviousMonth(date time.Time) time.Time {
	return dateutil.AddMonths(date, -1)
}

// NextMonth returns the same day one month later, clamped to the end of the
// shorter month
func NextMonth(date time.Time) time.Time {
	return dateutil.AddMonths(date, 1)
}

// MonthLabel renders the month and year of date. An empty layout means
// DefaultMonthLabelLayout.
func MonthLabel(date time.Time, layout string) string {
	if layout == "" {
		layout = DefaultMonthLabelLayout
	}
	return date.Format(layout)
}

// MonthLabelWith renders the month label with an injected formatter
func MonthLabelWith(date time.Time, f Formatter, pattern string) (string, error) {
	return f.Format(pattern, date)
}

// WeekdayNames returns the seven weekday names in display order beginning at
// startDay (0=Sunday). An empty layout means DefaultWeekdayLayout.
func WeekdayNames(startDay int, layout string) []string {
	if layout == "" {
		layout = DefaultWeekdayLayout
	}
	names, _ := WeekdayNamesWith(startDay, LayoutFormatter{}, layout)
	return names
}

// WeekdayNamesWith returns the weekday names rendered by an injected formatter
func WeekdayNamesWith(startDay int, f Formatter, pattern string) ([]string, error) {
	// The anchor only fixes a real Sunday to count from; the result is the
	// same whichever week today falls in.
	anchor := dateutil.StartOfWeek(dateutil.Today(), time.Sunday)
	offset := int(dateutil.NormalizeWeekStart(startDay))

	names := make([]string, dateutil.DaysPerWeek)
	for i := range names {
		name, err := f.Format(pattern, anchor.AddDate(0, 0, i+offset))
		if err != nil {
			return nil, err
		}
		names[i] = name
	}
	return names, nil
}

// BuildDateGrid returns the dates of the month view for month's calendar
// month. The grid starts on the startDay-aligned week containing the 1st;
// its length is set by policy.
func BuildDateGrid(month time.Time, startDay int, policy Policy) Grid {
	weekStart := dateutil.NormalizeWeekStart(startDay)
	monthStart := dateutil.StartOfMonth(month)
	gridStart := dateutil.StartOfWeek(monthStart, weekStart)

	total := NumRowsFixed * dateutil.DaysPerWeek
	if policy == PolicyMonthAligned {
		gridEnd := dateutil.EndOfWeek(dateutil.EndOfMonth(month), weekStart)
		total = dateutil.DaysBetween(gridStart, gridEnd) + 1
	}

	grid := make(Grid, total)
	for i := range grid {
		grid[i] = gridStart.AddDate(0, 0, i)
	}
	return grid
}

// GroupByWeekNumber splits grid into 7-day rows keyed according to mode.
// startDay is only consulted for KeyWeekOfYear. KeyISOWeek ignores it.
func GroupByWeekNumber(grid Grid, mode KeyMode, startDay int) (WeekGroups, error) {
	rows, err := ToRowMatrix(grid)
	if err != nil {
		return nil, err
	}

	weekStart := dateutil.NormalizeWeekStart(startDay)
	groups := make(WeekGroups, len(rows))
	for i, row := range rows {
		key := i + 1
		switch mode {
		case KeyWeekOfYear:
			key = dateutil.WeekOfYear(row[0], weekStart)
		case KeyISOWeek:
			_, key = dateutil.GetWeekNumber(row[dateutil.DaysPerWeek/2])
		}
		groups[i] = WeekGroup{Key: key, Dates: row}
	}
	return groups, nil
}

// ToRowMatrix splits grid into consecutive rows of 7 dates
func ToRowMatrix(grid Grid) ([][]time.Time, error) {
	if len(grid)%dateutil.DaysPerWeek != 0 {
		return nil, fmt.Errorf("%w: grid length %d is not a multiple of %d",
			ErrInvariantViolation, len(grid), dateutil.DaysPerWeek)
	}

	rows := make([][]time.Time, 0, len(grid)/dateutil.DaysPerWeek)
	for i := 0; i < len(grid); i += dateutil.DaysPerWeek {
		row := make([]time.Time, dateutil.DaysPerWeek)
		copy(row, grid[i:i+dateutil.DaysPerWeek])
		rows = append(rows, row)
	}
	return rows, nil
}
