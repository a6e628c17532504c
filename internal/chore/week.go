package chore

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Window is an inclusive Monday..Sunday date range, both ends YYYY-MM-DD.
type Window struct {
	Start string
	End   string
}

func (w Window) Contains(date string) bool {
	// YYYY-MM-DD compares lexicographically == chronologically.
	return date >= w.Start && date <= w.End
}

// ParseDate validates a naive YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad date %q", ErrValidation, s)
	}
	return d, nil
}

// WeekWindow returns the Monday-through-Sunday window containing date.
// Pure: same date always yields the same window. Dates are naive calendar
// dates; no timezone is involved.
func WeekWindow(date string) (Window, error) {
	d, err := ParseDate(date)
	if err != nil {
		return Window{}, err
	}
	// time.Weekday has Sunday=0; shift so Monday=0.
	back := (int(d.Weekday()) + 6) % 7
	start := d.AddDate(0, 0, -back)
	end := start.AddDate(0, 0, 6)
	return Window{
		Start: start.Format(dateLayout),
		End:   end.Format(dateLayout),
	}, nil
}
