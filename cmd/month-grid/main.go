package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/username/month-grid/internal/config"
	"github.com/username/month-grid/pkg/calendar"
	"github.com/username/month-grid/pkg/dateutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	configPath string
	cfg        *config.Config
	logger     *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "month-grid",
		Short:        "Month calendar grids",
		Long:         "Build month calendar grids with configurable week start, grid policy and day annotations",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			cfg.ExpandEnvVars()

			if cfg.Log.File != "" {
				logger, err = initFileLogger(cfg.Log.File, cfg.Log.Level)
				if err != nil {
					initLogger(cfg.Log.Level) // Fallback to console
				}
			} else {
				initLogger(cfg.Log.Level)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: search ./, $HOME/.month-grid, /etc/month-grid)")

	rootCmd.AddCommand(gridCmd())
	rootCmd.AddCommand(weekdaysCmd())
	rootCmd.AddCommand(labelCmd())
	rootCmd.AddCommand(shiftCmd("prev", "Print the date one month earlier", calendar.PreviousMonth))
	rootCmd.AddCommand(shiftCmd("next", "Print the date one month later", calendar.NextMonth))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func weekdaysCmd() *cobra.Command {
	var startDay int
	var formatter, format string

	cmd := &cobra.Command{
		Use:   "weekdays",
		Short: "Print the weekday header in display order",
		RunE: func(cmd *cobra.Command, args []string) error {
			g := cfg.Grid
			if cmd.Flags().Changed("start-day") {
				g.WeekStart = startDay
			}
			if cmd.Flags().Changed("formatter") {
				g.Formatter = formatter
			}
			if cmd.Flags().Changed("format") {
				g.WeekdayFormat = format
			}

			names, err := weekdayHeader(g)
			if err != nil {
				return err
			}

			fmt.Println(strings.Join(names, " "))
			return nil
		},
	}

	cmd.Flags().IntVar(&startDay, "start-day", 0, "First day of the week (0=Sunday ... 6=Saturday)")
	cmd.Flags().StringVar(&formatter, "formatter", "", "Pattern syntax: layout or strftime")
	cmd.Flags().StringVar(&format, "format", "", "Weekday name pattern")

	return cmd
}

func labelCmd() *cobra.Command {
	var month string
	var formatter, format string

	cmd := &cobra.Command{
		Use:   "label",
		Short: "Print the month label",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := resolveMonth(month)
			if err != nil {
				return err
			}

			g := cfg.Grid
			if cmd.Flags().Changed("formatter") {
				g.Formatter = formatter
			}
			if cmd.Flags().Changed("format") {
				g.LabelFormat = format
			}

			label, err := monthLabel(g, date)
			if err != nil {
				return err
			}

			fmt.Println(label)
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "Month to label (YYYY-MM, YYYY-MM-DD or \"January 2021\"; default: current month)")
	cmd.Flags().StringVar(&formatter, "formatter", "", "Pattern syntax: layout or strftime")
	cmd.Flags().StringVar(&format, "format", "", "Month label pattern")

	return cmd
}

func weekdayHeader(g config.GridConfig) ([]string, error) {
	f, p, err := g.ResolveFormat()
	if err != nil {
		return nil, err
	}
	names, err := calendar.WeekdayNamesWith(g.WeekStart, f, p.Weekday)
	if err != nil {
		return nil, fmt.Errorf("failed to format weekday names: %w", err)
	}
	return names, nil
}

func monthLabel(g config.GridConfig, date time.Time) (string, error) {
	f, p, err := g.ResolveFormat()
	if err != nil {
		return "", err
	}
	label, err := calendar.MonthLabelWith(date, f, p.Label)
	if err != nil {
		return "", fmt.Errorf("failed to format month label: %w", err)
	}
	return label, nil
}

func shiftCmd(use, short string, shift func(time.Time) time.Time) *cobra.Command {
	var dateStr string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			date := dateutil.Today()
			if dateStr != "" {
				var err error
				date, err = dateutil.ParseDate(dateStr)
				if err != nil {
					return err
				}
			}

			result := shift(date)
			logger.Debug("Shifted date",
				zap.String("command", use),
				zap.String("from", date.Format("2006-01-02")),
				zap.String("to", result.Format("2006-01-02")))

			fmt.Println(result.Format("2006-01-02"))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "Date to shift (default: today)")

	return cmd
}

// resolveMonth parses a --month value; empty means the current month
func resolveMonth(s string) (time.Time, error) {
	if s == "" {
		return dateutil.StartOfMonth(dateutil.Today()), nil
	}
	return dateutil.ParseMonth(s)
}

func initLogger(level string) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Level = zap.NewAtomicLevelAt(parseLevel(level))

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(logFile string, level string) (*zap.Logger, error) {
	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100,  // MB
		MaxBackups: 3,    // Keep max 3 old log files
		MaxAge:     28,   // days
		Compress:   true, // Compress old logs with gzip
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		parseLevel(level),
	)

	return zap.New(core), nil
}

func parseLevel(level string) zapcore.Level {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel
	}
	return zapLevel
}
