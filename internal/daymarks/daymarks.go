package daymarks

import (
	"fmt"
	"strings"
	"time"

	"github.com/username/month-grid/pkg/dateutil"
)

// Kind represents the type of day
type Kind int

const (
	KindWorkday Kind = iota + 1
	KindWeekend
	KindHoliday
	KindShortened
)

func (k Kind) String() string {
	switch k {
	case KindWorkday:
		return "workday"
	case KindWeekend:
		return "weekend"
	case KindHoliday:
		return "holiday"
	case KindShortened:
		return "shortened"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name for JSON and YAML output
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseKind converts a kind name into a Kind
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "workday":
		return KindWorkday, nil
	case "weekend":
		return KindWeekend, nil
	case "holiday":
		return KindHoliday, nil
	case "shortened":
		return KindShortened, nil
	default:
		return 0, fmt.Errorf("unknown day kind: %q", s)
	}
}

// Mark annotates a single date in the month view
type Mark struct {
	Kind Kind   `json:"kind" yaml:"kind"`
	Note string `json:"note,omitempty" yaml:"note,omitempty"`
}

// IsDayOff reports whether the mark describes a non-working day
func (m Mark) IsDayOff() bool {
	return m.Kind == KindWeekend || m.Kind == KindHoliday
}

// Source looks up annotations for dates
type Source interface {
	// Lookup returns the mark for date, if the source knows one
	Lookup(date time.Time) (Mark, bool)
}

// WeekendSource marks every Saturday and Sunday as a weekend
type WeekendSource struct{}

// Lookup implements Source
func (WeekendSource) Lookup(date time.Time) (Mark, bool) {
	if dateutil.IsWeekend(date) {
		return Mark{Kind: KindWeekend}, true
	}
	return Mark{}, false
}

// None is a Source that never marks anything
type None struct{}

// Lookup implements Source
func (None) Lookup(time.Time) (Mark, bool) {
	return Mark{}, false
}
