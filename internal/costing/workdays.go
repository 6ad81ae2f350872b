package costing

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// WorkingDays is a count of Monday to Friday days. Unbounded marks a
// requirement that can never be met because capacity is zero.
type WorkingDays struct {
	Count     int  `json:"count"`
	Unbounded bool `json:"unbounded,omitempty"`
}

func (d WorkingDays) String() string {
	if d.Unbounded {
		return "never"
	}
	return fmt.Sprintf("%d", d.Count)
}

// WorkingDaysBetween counts weekdays from start to end, both inclusive, on
// calendar dates. It is zero when end precedes start.
func WorkingDaysBetween(start, end time.Time) int {
	s, e := dateOf(start), dateOf(end)
	if e.Before(s) {
		return 0
	}
	n := 0
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			n++
		}
	}
	return n
}

// daysNeeded is ceil(minutes / daily); unbounded whenever capacity is zero.
func daysNeeded(minutes, daily float64) WorkingDays {
	if daily <= 0 {
		return WorkingDays{Unbounded: true}
	}
	if minutes <= 0 {
		return WorkingDays{}
	}
	return WorkingDays{Count: int(ceilTolerant(minutes / daily))}
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q must be YYYY-MM-DD", s)
	}
	return t, nil
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AdhocLineInput is an ad-hoc order line as submitted, with its deadline as a
// YYYY-MM-DD string.
type AdhocLineInput struct {
	Name             string  `json:"name" yaml:"name"`
	Units            int     `json:"units" yaml:"units"`
	MinutesPerItem   float64 `json:"minutes_per_item" yaml:"minutes_per_item"`
	PrisonersPerItem int     `json:"prisoners_per_item" yaml:"prisoners_per_item"`
	Deadline         string  `json:"deadline" yaml:"deadline"`
}

// ParseAdhocLines converts submitted lines, reporting every bad deadline.
// A blank deadline is left zero for ValidateLines to reject.
func ParseAdhocLines(inputs []AdhocLineInput) ([]AdhocLine, error) {
	var errs []error
	lines := make([]AdhocLine, 0, len(inputs))
	for i, s := range inputs {
		line := AdhocLine{
			Name:             s.Name,
			Units:            s.Units,
			MinutesPerItem:   s.MinutesPerItem,
			PrisonersPerItem: s.PrisonersPerItem,
		}
		if d := strings.TrimSpace(s.Deadline); d != "" {
			t, err := ParseDate(d)
			if err != nil {
				errs = append(errs, fmt.Errorf("lines[%d].deadline: %w", i, err))
			}
			line.Deadline = t
		}
		lines = append(lines, line)
	}
	return lines, errors.Join(errs...)
}

// ResolveToday parses an optional YYYY-MM-DD evaluation date, defaulting to now.
func ResolveToday(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now, nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("today: %w", err)
	}
	return t, nil
}
