package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"
)

// Formatter renders a date according to a pattern. The pattern language is
// up to the implementation.
type Formatter interface {
	Format(pattern string, t time.Time) (string, error)
}

// Patterns holds the day cell, month label and weekday header patterns used
// to render a month view
type Patterns struct {
	Day     string
	Label   string
	Weekday string
}

// WithDefaults fills every empty pattern in p from d
func (p Patterns) WithDefaults(d Patterns) Patterns {
	if p.Day == "" {
		p.Day = d.Day
	}
	if p.Label == "" {
		p.Label = d.Label
	}
	if p.Weekday == "" {
		p.Weekday = d.Weekday
	}
	return p
}

// DefaultPatterns returns the patterns f renders by default. Formatters that
// do not provide their own get the Go layout defaults.
func DefaultPatterns(f Formatter) Patterns {
	if d, ok := f.(interface{ Defaults() Patterns }); ok {
		return d.Defaults()
	}
	return LayoutFormatter{}.Defaults()
}

// LayoutFormatter formats with Go reference layouts such as "January 2006"
type LayoutFormatter struct{}

// Format implements Formatter
func (LayoutFormatter) Format(pattern string, t time.Time) (string, error) {
	return t.Format(pattern), nil
}

// Defaults returns "2", "January 2006" and "Mon"
func (LayoutFormatter) Defaults() Patterns {
	return Patterns{
		Day:     DefaultDayLayout,
		Label:   DefaultMonthLabelLayout,
		Weekday: DefaultWeekdayLayout,
	}
}

// StrftimeFormatter formats with POSIX strftime patterns such as "%B %Y"
type StrftimeFormatter struct{}

// Format implements Formatter
func (StrftimeFormatter) Format(pattern string, t time.Time) (string, error) {
	s, err := strftime.Format(pattern, t)
	if err != nil {
		return "", fmt.Errorf("invalid strftime pattern %q: %w", pattern, err)
	}
	return s, nil
}

// Defaults returns "%e", "%B %Y" and "%a"
func (StrftimeFormatter) Defaults() Patterns {
	return Patterns{Day: "%e", Label: "%B %Y", Weekday: "%a"}
}

// NewFormatter returns the formatter registered under name ("layout" or "strftime")
func NewFormatter(name string) (Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "layout":
		return LayoutFormatter{}, nil
	case "strftime":
		return StrftimeFormatter{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (expected layout or strftime)", ErrUnknownFormatter, name)
	}
}
