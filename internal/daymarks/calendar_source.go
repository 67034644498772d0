package daymarks

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/username/month-grid/pkg/dateutil"
	"go.uber.org/zap"
)

// CalendarSource implements Source from a production calendar year file in
// the xmlcalendar.ru JSON layout:
//
//	{"year": 2021, "months": [{"month": 1, "days": "1,2,3,...,10,16,17,23,24,30,31"}, ...]}
//
// Listed days are days off; a '*' suffix marks a shortened working day and a
// '+' suffix a transferred day off. Saturdays and Sundays that are not listed
// are transferred workdays.
type CalendarSource struct {
	filePath string
	logger   *zap.Logger
	years    map[int]map[time.Month]map[int]Mark
}

type calendarYear struct {
	Year   int             `json:"year"`
	Months []calendarMonth `json:"months"`
}

type calendarMonth struct {
	Month int    `json:"month"`
	Days  string `json:"days"`
}

// NewCalendarSource creates a new CalendarSource instance
func NewCalendarSource(filePath string, logger *zap.Logger) *CalendarSource {
	return &CalendarSource{
		filePath: filePath,
		logger:   logger,
		years:    make(map[int]map[time.Month]map[int]Mark),
	}
}

// Load reads and parses the calendar file
func (cs *CalendarSource) Load() error {
	raw, err := os.ReadFile(cs.filePath)
	if err != nil {
		return fmt.Errorf("failed to open calendar file: %w", err)
	}

	var year calendarYear
	if err := json.Unmarshal(raw, &year); err != nil {
		return fmt.Errorf("failed to parse calendar JSON: %w", err)
	}
	if year.Year <= 0 {
		return fmt.Errorf("calendar file %s has no year", cs.filePath)
	}

	months := make(map[time.Month]map[int]Mark, len(year.Months))
	for _, m := range year.Months {
		if m.Month < 1 || m.Month > 12 {
			cs.logger.Warn("Skipping calendar month out of range",
				zap.Int("year", year.Year),
				zap.Int("month", m.Month))
			continue
		}
		months[time.Month(m.Month)] = cs.parseMonth(year.Year, time.Month(m.Month), m.Days)
	}
	cs.years[year.Year] = months

	cs.logger.Info("Production calendar loaded",
		zap.String("file", cs.filePath),
		zap.Int("year", year.Year),
		zap.Int("months", len(months)))

	return nil
}

// parseMonth expands the compact day list into a mark for every day of the
// month that differs from a plain Monday-to-Friday week
func (cs *CalendarSource) parseMonth(year int, month time.Month, days string) map[int]Mark {
	listed := make(map[int]rune) // day -> suffix ('*', '+' or 0)
	for _, part := range strings.Split(days, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		marker := rune(0)
		dayStr := part
		if strings.HasSuffix(part, "*") {
			marker = '*'
			dayStr = strings.TrimSuffix(part, "*")
		} else if strings.HasSuffix(part, "+") {
			marker = '+'
			dayStr = strings.TrimSuffix(part, "+")
		}

		day, err := strconv.Atoi(dayStr)
		if err != nil {
			cs.logger.Warn("Failed to parse day number",
				zap.String("part", part),
				zap.Error(err))
			continue
		}
		listed[day] = marker
	}

	marks := make(map[int]Mark)
	for day := 1; day <= dateutil.DaysInMonth(year, month); day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		marker, isListed := listed[day]

		switch {
		case marker == '*':
			marks[day] = Mark{Kind: KindShortened}
		case isListed && dateutil.IsWeekend(date):
			marks[day] = Mark{Kind: KindWeekend}
		case isListed:
			marks[day] = Mark{Kind: KindHoliday}
		case dateutil.IsWeekend(date):
			marks[day] = Mark{Kind: KindWorkday, Note: "transferred workday"}
		}
	}
	return marks
}

// Lookup implements Source
func (cs *CalendarSource) Lookup(date time.Time) (Mark, bool) {
	mark, ok := cs.years[date.Year()][date.Month()][date.Day()]
	return mark, ok
}

// Years returns the number of loaded calendar years
func (cs *CalendarSource) Years() int {
	return len(cs.years)
}

// Path returns the calendar file path
func (cs *CalendarSource) Path() string {
	return cs.filePath
}
