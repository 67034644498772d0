package dateutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"cloudeng.io/datetime"
)

// DaysPerWeek is the number of days in a calendar week
const DaysPerWeek = 7

// ErrInvalidDate is returned when a date or month string cannot be parsed
var ErrInvalidDate = errors.New("invalid date")

// NormalizeWeekStart maps any integer onto a weekday (0=Sunday ... 6=Saturday).
// Out-of-range values wrap modulo 7, negatives included.
func NormalizeWeekStart(day int) time.Weekday {
	return time.Weekday(((day % DaysPerWeek) + DaysPerWeek) % DaysPerWeek)
}

// StartOfDay returns the start of the day (00:00:00) for the given date
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// StartOfMonth returns the first day of the date's month (start of day)
func StartOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}

// EndOfMonth returns the last day of the date's month (start of day)
func EndOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), DaysInMonth(date.Year(), date.Month()), 0, 0, 0, 0, date.Location())
}

// DaysInMonth returns the number of days in the given month
func DaysInMonth(year int, month time.Month) int {
	return int(datetime.DaysInMonth(year, datetime.Month(month)))
}

// StartOfWeek returns the first day of the week containing date, where weeks
// begin on weekStart.
func StartOfWeek(date time.Time, weekStart time.Weekday) time.Time {
	diff := (int(date.Weekday()) - int(weekStart) + DaysPerWeek) % DaysPerWeek
	return StartOfDay(date).AddDate(0, 0, -diff)
}

// EndOfWeek returns the last day of the week containing date (start of day),
// where weeks begin on weekStart.
func EndOfWeek(date time.Time, weekStart time.Weekday) time.Time {
	return StartOfWeek(date, weekStart).AddDate(0, 0, DaysPerWeek-1)
}

// AddMonths adds n calendar months to date. The day of month is clamped to the
// last day of the target month, so Mar 31 minus one month is Feb 28 (or 29).
// Time of day is preserved.
func AddMonths(date time.Time, n int) time.Time {
	// Normalize via the first of the month so time.Date never overflows.
	first := time.Date(date.Year(), date.Month()+time.Month(n), 1,
		date.Hour(), date.Minute(), date.Second(), date.Nanosecond(), date.Location())

	day := date.Day()
	if last := DaysInMonth(first.Year(), first.Month()); day > last {
		day = last
	}
	return first.AddDate(0, 0, day-1)
}

// DaysBetween returns the number of calendar days from a to b (b - a), ignoring
// time of day and DST shifts.
func DaysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// GetWeekNumber returns the ISO 8601 week-numbering year and week of date.
// Weeks start on Monday and week 1 holds the year's first Thursday.
func GetWeekNumber(date time.Time) (year int, week int) {
	return date.ISOWeek()
}

// WeekOfYear returns the week number of date for weeks beginning on weekStart.
// Week 1 is the week that contains January 1st, so the last days of December
// can belong to week 1 of the following year.
func WeekOfYear(date time.Time, weekStart time.Weekday) int {
	start := StartOfWeek(date, weekStart)

	// The week-numbering year is the next calendar year when the week that
	// contains next January 1st has already started.
	nextYearStart := StartOfWeek(time.Date(date.Year()+1, time.January, 1, 0, 0, 0, 0, date.Location()), weekStart)
	if !start.Before(nextYearStart) {
		return 1
	}

	yearStart := StartOfWeek(time.Date(date.Year(), time.January, 1, 0, 0, 0, 0, date.Location()), weekStart)
	return DaysBetween(yearStart, start)/DaysPerWeek + 1
}

// IsWeekend returns true if the date is Saturday or Sunday
func IsWeekend(date time.Time) bool {
	weekday := date.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// IsSameDay returns true if two dates are on the same day
func IsSameDay(date1, date2 time.Time) bool {
	return date1.Year() == date2.Year() &&
		date1.Month() == date2.Month() &&
		date1.Day() == date2.Day()
}

// IsSameMonth returns true if two dates fall in the same calendar month
func IsSameMonth(date1, date2 time.Time) bool {
	return date1.Year() == date2.Year() && date1.Month() == date2.Month()
}

// ParseDate parses date string in various formats
func ParseDate(dateStr string) (time.Time, error) {
	formats := []string{
		"2006-01-02",
		"02.01.2006",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05Z",
		"2006-01-02T15:04:05-0700",
	}

	dateStr = strings.TrimSpace(dateStr)
	for _, format := range formats {
		if t, err := time.ParseInLocation(format, dateStr, time.Local); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, dateStr)
}

// ParseMonth parses a month reference and returns the first day of that month.
// Accepted forms: "2021-01", "01.2021", any full date accepted by ParseDate,
// and "<month name> <year>" such as "Jan 2021" or "january 2021".
func ParseMonth(monthStr string) (time.Time, error) {
	monthStr = strings.TrimSpace(monthStr)

	for _, format := range []string{"2006-01", "01.2006"} {
		if t, err := time.ParseInLocation(format, monthStr, time.Local); err == nil {
			return t, nil
		}
	}

	if t, err := ParseDate(monthStr); err == nil {
		return StartOfMonth(t), nil
	}

	fields := strings.Fields(monthStr)
	if len(fields) == 2 {
		var month datetime.Month
		if err := month.Parse(fields[0]); err == nil {
			if year, err := strconv.Atoi(fields[1]); err == nil && year > 0 {
				return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local), nil
			}
		}
	}

	return time.Time{}, fmt.Errorf("%w: month %q", ErrInvalidDate, monthStr)
}

// Today returns today's date (start of day)
func Today() time.Time {
	return StartOfDay(time.Now())
}
