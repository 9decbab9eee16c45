package panel

import "strings"

// Frequency identifies the period granularity of a panel. A Collection keeps
// one read-only panel per granularity and callers select which one a batch
// evaluates against.
type Frequency int

const (
	Daily Frequency = iota
	Weekly
	Quarterly
	Yearly
)

func (f Frequency) String() string {
	switch f {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Quarterly:
		return "quarterly"
	case Yearly:
		return "yearly"
	default:
		return "unknown"
	}
}

// ParseFrequency parses a string into a Frequency.
func ParseFrequency(s string) (Frequency, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily", "d":
		return Daily, true
	case "weekly", "w":
		return Weekly, true
	case "quarterly", "q":
		return Quarterly, true
	case "yearly", "annual", "y":
		return Yearly, true
	default:
		return Yearly, false
	}
}

// Collection holds one panel per period granularity.
type Collection map[Frequency]*Panel

// Panel returns the panel for the given granularity, or nil if absent.
func (c Collection) Panel(f Frequency) *Panel {
	return c[f]
}
