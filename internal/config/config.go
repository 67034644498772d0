package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"github.com/username/month-grid/pkg/calendar"
)

// Config represents application configuration
type Config struct {
	Grid   GridConfig   `mapstructure:"grid"`
	Marks  MarksConfig  `mapstructure:"marks"`
	Output OutputConfig `mapstructure:"output"`
	Log    LogConfig    `mapstructure:"log"`
}

// GridConfig represents month grid defaults
type GridConfig struct {
	WeekStart     int    `mapstructure:"week_start"`     // 0=Sunday ... 6=Saturday
	Policy        string `mapstructure:"policy"`         // "fixed" or "month-aligned"
	GroupBy       string `mapstructure:"group_by"`       // "row" or "week-of-year"
	Formatter     string `mapstructure:"formatter"`      // "layout" or "strftime"
	DayFormat     string `mapstructure:"day_format"`     // cell labels; empty means the formatter default
	LabelFormat   string `mapstructure:"label_format"`   // month label; empty means the formatter default
	WeekdayFormat string `mapstructure:"weekday_format"` // weekday header; empty means the formatter default
}

// MarksConfig represents day annotation sources
type MarksConfig struct {
	Files     []string `mapstructure:"files"`     // "YYYY-MM-DD kind [note]" text files
	Calendars []string `mapstructure:"calendars"` // xmlcalendar.ru year JSON files
	Weekends  bool     `mapstructure:"weekends"`
}

// OutputConfig represents rendering options
type OutputConfig struct {
	Format string `mapstructure:"format"` // "text", "json" or "yaml"
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// EnvPrefix is the prefix for environment overrides, e.g. MONTH_GRID_GRID_WEEK_START
const EnvPrefix = "MONTH_GRID"

// SetDefaults registers default values on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("grid.week_start", 0)
	v.SetDefault("grid.policy", calendar.PolicyFixed.String())
	v.SetDefault("grid.group_by", calendar.KeyRowIndex.String())
	v.SetDefault("grid.formatter", "layout")
	v.SetDefault("grid.day_format", "")
	v.SetDefault("grid.label_format", "")
	v.SetDefault("grid.weekday_format", "")
	v.SetDefault("marks.files", []string{})
	v.SetDefault("marks.calendars", []string{})
	v.SetDefault("marks.weekends", true)
	v.SetDefault("output.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
}

// Load loads configuration from file. An explicit configPath must exist;
// otherwise the standard locations are searched and defaults apply when no
// file is found.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.month-grid")
		v.AddConfigPath("/etc/month-grid")
	}

	// Read environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Grid.WeekStart < 0 || c.Grid.WeekStart > 6 {
		return fmt.Errorf("grid.week_start must be between 0 (Sunday) and 6 (Saturday), got %d", c.Grid.WeekStart)
	}
	if _, err := calendar.ParsePolicy(c.Grid.Policy); err != nil {
		return fmt.Errorf("grid.policy: %w", err)
	}
	if _, err := calendar.ParseKeyMode(c.Grid.GroupBy); err != nil {
		return fmt.Errorf("grid.group_by: %w", err)
	}
	if _, err := calendar.NewFormatter(c.Grid.Formatter); err != nil {
		return fmt.Errorf("grid.formatter: %w", err)
	}

	switch c.Output.Format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("output.format must be 'text', 'json' or 'yaml', got '%s'", c.Output.Format)
	}

	return nil
}

// ResolveFormat returns the configured formatter together with the day, label
// and weekday patterns, filling unset patterns with that formatter's defaults
func (g GridConfig) ResolveFormat() (calendar.Formatter, calendar.Patterns, error) {
	f, err := calendar.NewFormatter(g.Formatter)
	if err != nil {
		return nil, calendar.Patterns{}, err
	}
	p := calendar.Patterns{
		Day:     g.DayFormat,
		Label:   g.LabelFormat,
		Weekday: g.WeekdayFormat,
	}.WithDefaults(calendar.DefaultPatterns(f))
	return f, p, nil
}

// ExpandEnvVars expands environment variables in config paths
func (c *Config) ExpandEnvVars() {
	for i, f := range c.Marks.Files {
		c.Marks.Files[i] = os.ExpandEnv(f)
	}
	for i, f := range c.Marks.Calendars {
		c.Marks.Calendars[i] = os.ExpandEnv(f)
	}
	c.Log.File = os.ExpandEnv(c.Log.File)
}
