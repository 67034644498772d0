package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// NumRowsFixed is the number of week rows in a fixed-size grid
	NumRowsFixed = 5

	// DefaultDayLayout renders the day of month without padding
	DefaultDayLayout = "2"

	// DefaultMonthLabelLayout renders the full month name and four-digit year
	DefaultMonthLabelLayout = "January 2006"

	// DefaultWeekdayLayout renders abbreviated weekday names
	DefaultWeekdayLayout = "Mon"
)

var (
	// ErrInvariantViolation signals a broken internal contract, such as a grid
	// whose length is not a whole number of weeks. Callers cannot trigger it
	// through BuildDateGrid.
	ErrInvariantViolation = errors.New("calendar: internal invariant violated")

	ErrInvalidPolicy    = errors.New("invalid grid policy")
	ErrInvalidKeyMode   = errors.New("invalid week key mode")
	ErrUnknownFormatter = errors.New("unknown formatter")
)

// Policy selects how many weeks a grid spans
type Policy int

const (
	// PolicyFixed always produces 5 rows (35 dates). Months that need a sixth
	// row are cut short.
	PolicyFixed Policy = iota

	// PolicyMonthAligned runs from the week containing the 1st to the week
	// containing the last day of the month: 4 to 6 rows.
	PolicyMonthAligned
)

func (p Policy) String() string {
	switch p {
	case PolicyMonthAligned:
		return "month-aligned"
	default:
		return "fixed"
	}
}

// ParsePolicy converts a configuration value into a Policy
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fixed":
		return PolicyFixed, nil
	case "month-aligned", "aligned":
		return PolicyMonthAligned, nil
	default:
		return PolicyFixed, fmt.Errorf("%w: %q (expected fixed or month-aligned)", ErrInvalidPolicy, s)
	}
}

// KeyMode selects how GroupByWeekNumber keys its week rows
type KeyMode int

const (
	// KeyRowIndex keys rows 1..N in grid order
	KeyRowIndex KeyMode = iota

	// KeyWeekOfYear keys rows by the week-of-year number of their first date
	KeyWeekOfYear

	// KeyISOWeek keys rows by the ISO 8601 week that holds most of the row,
	// i.e. the ISO week of its middle date
	KeyISOWeek
)

func (m KeyMode) String() string {
	switch m {
	case KeyWeekOfYear:
		return "week-of-year"
	case KeyISOWeek:
		return "iso-week"
	default:
		return "row"
	}
}

// ParseKeyMode converts a configuration value into a KeyMode
func ParseKeyMode(s string) (KeyMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "row":
		return KeyRowIndex, nil
	case "week-of-year", "week":
		return KeyWeekOfYear, nil
	case "iso-week", "iso":
		return KeyISOWeek, nil
	default:
		return KeyRowIndex, fmt.Errorf("%w: %q (expected row, week-of-year or iso-week)", ErrInvalidKeyMode, s)
	}
}

// Grid is the ordered, gap-free run of dates shown in a month view.
// Its length is always a multiple of 7 and it starts on the week start day.
type Grid []time.Time

// Format renders every date with a Go reference layout
func (g Grid) Format(layout string) []string {
	out := make([]string, len(g))
	for i, d := range g {
		out[i] = d.Format(layout)
	}
	return out
}

// FormatWith renders every date with the given formatter and pattern
func (g Grid) FormatWith(f Formatter, pattern string) ([]string, error) {
	out := make([]string, len(g))
	for i, d := range g {
		s, err := f.Format(pattern, d)
		if err != nil {
			return nil, fmt.Errorf("failed to format %s: %w", d.Format("2006-01-02"), err)
		}
		out[i] = s
	}
	return out, nil
}

// WeekGroup is one 7-day row of a grid together with its key
type WeekGroup struct {
	Key   int
	Dates []time.Time
}

// WeekGroups holds grid rows in display order
type WeekGroups []WeekGroup

// Keys returns the row keys in display order
func (wg WeekGroups) Keys() []int {
	keys := make([]int, len(wg))
	for i, g := range wg {
		keys[i] = g.Key
	}
	return keys
}

// Map returns the rows keyed by week. If two rows share a key the later row
// wins, which can only happen with week-of-year keys across a year boundary.
func (wg WeekGroups) Map() map[int][]time.Time {
	m := make(map[int][]time.Time, len(wg))
	for _, g := range wg {
		m[g.Key] = g.Dates
	}
	return m
}

// Flatten concatenates the rows back into a grid
func (wg WeekGroups) Flatten() Grid {
	grid := make(Grid, 0, len(wg)*7)
	for _, g := range wg {
		grid = append(grid, g.Dates...)
	}
	return grid
}
