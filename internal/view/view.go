package view

import (
	"fmt"
	"time"

	"github.com/username/month-grid/internal/daymarks"
	"github.com/username/month-grid/pkg/calendar"
	"github.com/username/month-grid/pkg/dateutil"
	"go.uber.org/zap"
)

// Options controls how a month view is built
type Options struct {
	WeekStart     int
	Policy        calendar.Policy
	GroupBy       calendar.KeyMode
	Formatter     calendar.Formatter
	DayFormat     string
	LabelFormat   string
	WeekdayFormat string
}

// Cell is a single date of the month view
type Cell struct {
	Date    time.Time      `json:"date" yaml:"date"`
	Label   string         `json:"label" yaml:"label"`
	InMonth bool           `json:"in_month" yaml:"in_month"`
	Today   bool           `json:"today,omitempty" yaml:"today,omitempty"`
	Mark    *daymarks.Mark `json:"mark,omitempty" yaml:"mark,omitempty"`
}

// Week is one row of the month view
type Week struct {
	Key   int    `json:"key" yaml:"key"`
	Cells []Cell `json:"cells" yaml:"cells"`
}

// MonthView is everything a presentation layer needs to draw one month
type MonthView struct {
	Month     time.Time `json:"month" yaml:"month"`
	Label     string    `json:"label" yaml:"label"`
	PrevLabel string    `json:"prev_label" yaml:"prev_label"`
	NextLabel string    `json:"next_label" yaml:"next_label"`
	Policy    string    `json:"policy" yaml:"policy"`
	GroupBy   string    `json:"group_by" yaml:"group_by"`
	Weekdays  []string  `json:"weekdays" yaml:"weekdays"`
	Weeks     []Week    `json:"weeks" yaml:"weeks"`
}

// Builder assembles month views
type Builder struct {
	opts   Options
	marks  daymarks.Source
	logger *zap.Logger
}

// NewBuilder creates a new Builder. A nil marks source disables annotations
// and empty patterns fall back to the formatter's defaults.
func NewBuilder(opts Options, marks daymarks.Source, logger *zap.Logger) *Builder {
	if opts.Formatter == nil {
		opts.Formatter = calendar.LayoutFormatter{}
	}
	p := calendar.Patterns{
		Day:     opts.DayFormat,
		Label:   opts.LabelFormat,
		Weekday: opts.WeekdayFormat,
	}.WithDefaults(calendar.DefaultPatterns(opts.Formatter))
	opts.DayFormat, opts.LabelFormat, opts.WeekdayFormat = p.Day, p.Label, p.Weekday

	if marks == nil {
		marks = daymarks.None{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		opts:   opts,
		marks:  marks,
		logger: logger,
	}
}

// Build returns the view of the month containing month, with today
// highlighted
func (b *Builder) Build(month, today time.Time) (*MonthView, error) {
	f := b.opts.Formatter
	monthStart := dateutil.StartOfMonth(month)

	label, err := f.Format(b.opts.LabelFormat, monthStart)
	if err != nil {
		return nil, fmt.Errorf("failed to format month label: %w", err)
	}
	prevLabel, err := f.Format(b.opts.LabelFormat, calendar.PreviousMonth(monthStart))
	if err != nil {
		return nil, fmt.Errorf("failed to format previous month label: %w", err)
	}
	nextLabel, err := f.Format(b.opts.LabelFormat, calendar.NextMonth(monthStart))
	if err != nil {
		return nil, fmt.Errorf("failed to format next month label: %w", err)
	}

	weekdays, err := calendar.WeekdayNamesWith(b.opts.WeekStart, f, b.opts.WeekdayFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to format weekday names: %w", err)
	}

	grid := calendar.BuildDateGrid(monthStart, b.opts.WeekStart, b.opts.Policy)
	labels, err := grid.FormatWith(f, b.opts.DayFormat)
	if err != nil {
		return nil, err
	}

	groups, err := calendar.GroupByWeekNumber(grid, b.opts.GroupBy, b.opts.WeekStart)
	if err != nil {
		return nil, err
	}

	view := &MonthView{
		Month:     monthStart,
		Label:     label,
		PrevLabel: prevLabel,
		NextLabel: nextLabel,
		Policy:    b.opts.Policy.String(),
		GroupBy:   b.opts.GroupBy.String(),
		Weekdays:  weekdays,
		Weeks:     make([]Week, len(groups)),
	}

	marked := 0
	for i, g := range groups {
		cells := make([]Cell, len(g.Dates))
		for j, d := range g.Dates {
			cells[j] = Cell{
				Date:    d,
				Label:   labels[i*dateutil.DaysPerWeek+j],
				InMonth: dateutil.IsSameMonth(d, monthStart),
				Today:   dateutil.IsSameDay(d, today),
			}
			if mark, ok := b.marks.Lookup(d); ok {
				cells[j].Mark = &mark
				marked++
			}
		}
		view.Weeks[i] = Week{Key: g.Key, Cells: cells}
	}

	b.logger.Debug("Month view built",
		zap.String("month", monthStart.Format("2006-01")),
		zap.Int("week_start", int(dateutil.NormalizeWeekStart(b.opts.WeekStart))),
		zap.Stringer("policy", b.opts.Policy),
		zap.Int("days", len(grid)),
		zap.Int("marked_days", marked))

	return view, nil
}
