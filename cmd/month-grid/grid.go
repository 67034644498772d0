package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/username/month-grid/internal/config"
	"github.com/username/month-grid/internal/daymarks"
	"github.com/username/month-grid/internal/view"
	"github.com/username/month-grid/pkg/calendar"
	"github.com/username/month-grid/pkg/dateutil"
	"go.uber.org/zap"
)

type gridFlags struct {
	month     string
	startDay  int
	policy    string
	groupBy   string
	formatter string
	format    string
	output    string
}

func gridCmd() *cobra.Command {
	var flags gridFlags

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Print the month grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := resolveMonth(flags.month)
			if err != nil {
				return err
			}

			opts, output, err := resolveGridOptions(cmd, &flags, cfg)
			if err != nil {
				return err
			}

			marks, err := initializeMarks(cfg, logger)
			if err != nil {
				return err
			}

			v, err := view.NewBuilder(opts, marks, logger).Build(month, dateutil.Today())
			if err != nil {
				return fmt.Errorf("failed to build month view: %w", err)
			}

			return view.Render(os.Stdout, v, output)
		},
	}

	cmd.Flags().StringVar(&flags.month, "month", "", "Month to show (YYYY-MM, YYYY-MM-DD or \"January 2021\"; default: current month)")
	cmd.Flags().IntVar(&flags.startDay, "start-day", 0, "First day of the week (0=Sunday ... 6=Saturday)")
	cmd.Flags().StringVar(&flags.policy, "policy", "", "Grid policy: fixed or month-aligned")
	cmd.Flags().StringVar(&flags.groupBy, "group-by", "", "Week keys: row, week-of-year or iso-week")
	cmd.Flags().StringVar(&flags.formatter, "formatter", "", "Pattern syntax: layout or strftime")
	cmd.Flags().StringVar(&flags.format, "format", "", "Day cell pattern")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output format: text, json or yaml")

	return cmd
}

// resolveGridOptions merges explicitly set flags over the configuration
func resolveGridOptions(cmd *cobra.Command, flags *gridFlags, cfg *config.Config) (view.Options, string, error) {
	g := cfg.Grid
	output := cfg.Output.Format

	set := cmd.Flags().Changed
	if set("start-day") {
		g.WeekStart = flags.startDay
	}
	if set("policy") {
		g.Policy = flags.policy
	}
	if set("group-by") {
		g.GroupBy = flags.groupBy
	}
	if set("formatter") {
		g.Formatter = flags.formatter
	}
	if set("format") {
		g.DayFormat = flags.format
	}
	if set("output") {
		output = flags.output
	}

	policy, err := calendar.ParsePolicy(g.Policy)
	if err != nil {
		return view.Options{}, "", err
	}
	groupBy, err := calendar.ParseKeyMode(g.GroupBy)
	if err != nil {
		return view.Options{}, "", err
	}
	formatter, patterns, err := g.ResolveFormat()
	if err != nil {
		return view.Options{}, "", err
	}

	switch output {
	case "text", "json", "yaml":
	default:
		return view.Options{}, "", fmt.Errorf("unknown output format: %s", output)
	}

	return view.Options{
		WeekStart:     int(dateutil.NormalizeWeekStart(g.WeekStart)),
		Policy:        policy,
		GroupBy:       groupBy,
		Formatter:     formatter,
		DayFormat:     patterns.Day,
		LabelFormat:   patterns.Label,
		WeekdayFormat: patterns.Weekday,
	}, output, nil
}

// initializeMarks builds the annotation chain. Marks files are consulted
// first, then production calendars, then the weekend rule.
func initializeMarks(cfg *config.Config, logger *zap.Logger) (daymarks.Source, error) {
	var sources []daymarks.Source
	for _, file := range cfg.Marks.Files {
		sources = append(sources, daymarks.NewFileSource(file, logger))
	}
	for _, file := range cfg.Marks.Calendars {
		sources = append(sources, daymarks.NewCalendarSource(file, logger))
	}
	if cfg.Marks.Weekends {
		sources = append(sources, daymarks.WeekendSource{})
	}

	composite := daymarks.NewCompositeSource(logger, sources...)
	if err := composite.LoadFiles(); err != nil {
		return nil, fmt.Errorf("failed to load day marks: %w", err)
	}

	logger.Debug("Day marks initialized",
		zap.Int("files", len(cfg.Marks.Files)),
		zap.Int("calendars", len(cfg.Marks.Calendars)),
		zap.Bool("weekends", cfg.Marks.Weekends),
		zap.Int("sources", composite.Len()))

	return composite, nil
}
