package main

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/username/month-grid/internal/config"
	"github.com/username/month-grid/internal/daymarks"
	"github.com/username/month-grid/internal/view"
	"github.com/username/month-grid/pkg/calendar"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		Grid: config.GridConfig{
			WeekStart: 1,
			Policy:    "fixed",
			GroupBy:   "row",
			Formatter: "layout",
		},
		Marks:  config.MarksConfig{Weekends: true},
		Output: config.OutputConfig{Format: "text"},
	}
}

func TestResolveGridOptions_ConfigOnly(t *testing.T) {
	cmd := gridCmd()
	var flags gridFlags

	opts, output, err := resolveGridOptions(cmd, &flags, testConfig())
	if err != nil {
		t.Fatalf("resolveGridOptions() error = %v", err)
	}
	if opts.WeekStart != 1 || opts.Policy != calendar.PolicyFixed || opts.GroupBy != calendar.KeyRowIndex {
		t.Errorf("opts = %+v", opts)
	}
	if _, ok := opts.Formatter.(calendar.LayoutFormatter); !ok {
		t.Errorf("Formatter = %T, want LayoutFormatter", opts.Formatter)
	}
	if output != "text" {
		t.Errorf("output = %q, want text", output)
	}
	if opts.DayFormat != "2" || opts.LabelFormat != "January 2006" || opts.WeekdayFormat != "Mon" {
		t.Errorf("patterns = %q/%q/%q, want layout defaults", opts.DayFormat, opts.LabelFormat, opts.WeekdayFormat)
	}
}

func TestResolveGridOptions_FormatterOnly(t *testing.T) {
	cmd := gridCmd()
	if err := cmd.Flags().Set("formatter", "strftime"); err != nil {
		t.Fatalf("Set(formatter) error = %v", err)
	}
	flags := gridFlags{formatter: "strftime"}

	opts, output, err := resolveGridOptions(cmd, &flags, testConfig())
	if err != nil {
		t.Fatalf("resolveGridOptions() error = %v", err)
	}

	v, err := view.NewBuilder(opts, nil, zap.NewNop()).Build(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), time.Time{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if v.Label != "January 2021" {
		t.Errorf("Label = %q, want January 2021", v.Label)
	}
	if want := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}; !reflect.DeepEqual(v.Weekdays, want) {
		t.Errorf("Weekdays = %v, want %v", v.Weekdays, want)
	}
	// Monday start: Dec 28 .. Jan 3 in the first row.
	if got := v.Weeks[0].Cells[0].Label; got != "28" {
		t.Errorf("first cell = %q, want 28", got)
	}
	if got := strings.TrimSpace(v.Weeks[0].Cells[4].Label); got != "1" {
		t.Errorf("Jan 1 cell = %q, want 1", got)
	}

	var buf bytes.Buffer
	if err := view.Render(&buf, v, output); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.Contains(buf.String(), "2006") {
		t.Errorf("text output contains a Go layout:\n%s", buf.String())
	}
}

func TestLabelAndWeekdays_Strftime(t *testing.T) {
	g := testConfig().Grid
	g.Formatter = "strftime"

	label, err := monthLabel(g, time.Date(2021, 3, 20, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("monthLabel() error = %v", err)
	}
	if label != "March 2021" {
		t.Errorf("monthLabel() = %q, want March 2021", label)
	}

	names, err := weekdayHeader(g)
	if err != nil {
		t.Fatalf("weekdayHeader() error = %v", err)
	}
	if want := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}; !reflect.DeepEqual(names, want) {
		t.Errorf("weekdayHeader() = %v, want %v", names, want)
	}

	g.LabelFormat = "%b %Y"
	if label, err := monthLabel(g, time.Date(2021, 3, 20, 0, 0, 0, 0, time.UTC)); err != nil || label != "Mar 2021" {
		t.Errorf("monthLabel(%%b %%Y) = %q, %v; want Mar 2021", label, err)
	}

	g.Formatter = "moment"
	if _, err := weekdayHeader(g); err == nil {
		t.Error("weekdayHeader() expected error for unknown formatter, got nil")
	}
}

func TestResolveGridOptions_FlagsOverride(t *testing.T) {
	cmd := gridCmd()
	for name, value := range map[string]string{
		"start-day": "-1",
		"policy":    "month-aligned",
		"group-by":  "week-of-year",
		"formatter": "strftime",
		"format":    "%e",
		"output":    "json",
	} {
		if err := cmd.Flags().Set(name, value); err != nil {
			t.Fatalf("Set(%s) error = %v", name, err)
		}
	}

	flags := gridFlags{
		startDay:  -1,
		policy:    "month-aligned",
		groupBy:   "week-of-year",
		formatter: "strftime",
		format:    "%e",
		output:    "json",
	}

	opts, output, err := resolveGridOptions(cmd, &flags, testConfig())
	if err != nil {
		t.Fatalf("resolveGridOptions() error = %v", err)
	}
	if opts.WeekStart != 6 {
		t.Errorf("WeekStart = %d, want -1 normalised to 6", opts.WeekStart)
	}
	if opts.Policy != calendar.PolicyMonthAligned || opts.GroupBy != calendar.KeyWeekOfYear {
		t.Errorf("Policy/GroupBy = %v/%v", opts.Policy, opts.GroupBy)
	}
	if _, ok := opts.Formatter.(calendar.StrftimeFormatter); !ok {
		t.Errorf("Formatter = %T, want StrftimeFormatter", opts.Formatter)
	}
	if opts.DayFormat != "%e" || output != "json" {
		t.Errorf("DayFormat/output = %q/%q", opts.DayFormat, output)
	}
}

func TestResolveGridOptions_Invalid(t *testing.T) {
	tests := []struct {
		flag  string
		value string
	}{
		{"policy", "weekly"},
		{"group-by", "fortnight"},
		{"formatter", "moment"},
		{"output", "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			cmd := gridCmd()
			if err := cmd.Flags().Set(tt.flag, tt.value); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			flags := gridFlags{policy: "fixed", groupBy: "row", formatter: "layout", output: "text"}
			switch tt.flag {
			case "policy":
				flags.policy = tt.value
			case "group-by":
				flags.groupBy = tt.value
			case "formatter":
				flags.formatter = tt.value
			case "output":
				flags.output = tt.value
			}

			if _, _, err := resolveGridOptions(cmd, &flags, testConfig()); err == nil {
				t.Errorf("resolveGridOptions(--%s=%s) expected error, got nil", tt.flag, tt.value)
			}
		})
	}
}

func TestResolveMonth(t *testing.T) {
	got, err := resolveMonth("2021-01")
	if err != nil {
		t.Fatalf("resolveMonth() error = %v", err)
	}
	if got.Year() != 2021 || got.Month() != time.January || got.Day() != 1 {
		t.Errorf("resolveMonth(2021-01) = %v", got)
	}

	now := time.Now()
	got, err = resolveMonth("")
	if err != nil {
		t.Fatalf("resolveMonth(\"\") error = %v", err)
	}
	if got.Year() != now.Year() || got.Month() != now.Month() || got.Day() != 1 {
		t.Errorf("resolveMonth(\"\") = %v, want first of the current month", got)
	}

	if _, err := resolveMonth("someday"); err == nil {
		t.Error("resolveMonth(someday) expected error, got nil")
	}
}

func TestInitializeMarks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marks.txt")
	if err := os.WriteFile(path, []byte("2021-02-20 workday\n2021-02-23 holiday\n"), 0o644); err != nil {
		t.Fatalf("failed to write marks file: %v", err)
	}

	cfg := testConfig()
	cfg.Marks.Files = []string{path, filepath.Join(t.TempDir(), "absent.txt")}

	marks, err := initializeMarks(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("initializeMarks() error = %v", err)
	}

	tests := []struct {
		date time.Time
		want daymarks.Kind
	}{
		{time.Date(2021, 2, 20, 0, 0, 0, 0, time.Local), daymarks.KindWorkday},
		{time.Date(2021, 2, 21, 0, 0, 0, 0, time.Local), daymarks.KindWeekend},
		{time.Date(2021, 2, 23, 0, 0, 0, 0, time.Local), daymarks.KindHoliday},
	}
	for _, tt := range tests {
		m, ok := marks.Lookup(tt.date)
		if !ok || m.Kind != tt.want {
			t.Errorf("Lookup(%s) = %v, %v; want %v", tt.date.Format("2006-01-02"), m.Kind, ok, tt.want)
		}
	}

	if _, ok := marks.Lookup(time.Date(2021, 2, 24, 0, 0, 0, 0, time.Local)); ok {
		t.Error("Lookup(2021-02-24) found a mark for a plain Wednesday")
	}
}

func TestInitializeMarks_AllFilesMissing(t *testing.T) {
	cfg := testConfig()
	cfg.Marks.Weekends = false
	cfg.Marks.Files = []string{filepath.Join(t.TempDir(), "absent.txt")}

	if _, err := initializeMarks(cfg, zap.NewNop()); err == nil {
		t.Error("initializeMarks() expected error when no source loads, got nil")
	}
}
