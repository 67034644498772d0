package view

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/username/month-grid/internal/daymarks"
	"github.com/username/month-grid/pkg/dateutil"
	"gopkg.in/yaml.v3"
)

// Render writes the view to w in the given format ("text", "json" or "yaml")
func Render(w io.Writer, v *MonthView, format string) error {
	switch format {
	case "", "text":
		return renderText(w, v)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode view as json: %w", err)
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode view as yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// renderText draws the view as a fixed-width table:
//
//	   January 2021
//	  #  Sun  Mon  Tue ...
//	  1   27   28   29 ...
//
// Days outside the month are parenthesised, today is bracketed and marked
// days carry a suffix: '*' holiday, '~' shortened, '+' transferred workday.
func renderText(w io.Writer, v *MonthView) error {
	width := cellWidth(v)
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", v.Label)
	fmt.Fprintf(&b, "%3s ", "#")
	for _, name := range v.Weekdays {
		fmt.Fprintf(&b, " %*s", width, name)
	}
	b.WriteByte('\n')

	var notes []string
	for _, week := range v.Weeks {
		fmt.Fprintf(&b, "%3d ", week.Key)
		for _, c := range week.Cells {
			fmt.Fprintf(&b, " %*s", width, cellText(c))
			if c.Mark != nil && c.Mark.Note != "" && c.InMonth {
				notes = append(notes, fmt.Sprintf("%s  %s", c.Date.Format("2006-01-02"), c.Mark.Note))
			}
		}
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "\n< %s | %s >\n", v.PrevLabel, v.NextLabel)
	for _, n := range notes {
		fmt.Fprintf(&b, "  %s\n", n)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func cellText(c Cell) string {
	s := c.Label
	if c.Mark != nil {
		switch c.Mark.Kind {
		case daymarks.KindHoliday:
			s += "*"
		case daymarks.KindShortened:
			s += "~"
		case daymarks.KindWorkday:
			if dateutil.IsWeekend(c.Date) {
				s += "+"
			}
		}
	}
	switch {
	case c.Today:
		s = "[" + s + "]"
	case !c.InMonth:
		s = "(" + s + ")"
	}
	return s
}

func cellWidth(v *MonthView) int {
	width := 3
	for _, name := range v.Weekdays {
		if n := len([]rune(name)); n > width {
			width = n
		}
	}
	for _, week := range v.Weeks {
		for _, c := range week.Cells {
			if n := len([]rune(cellText(c))); n > width {
				width = n
			}
		}
	}
	return width
}
