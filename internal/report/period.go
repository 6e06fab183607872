package report

import (
	"fmt"
	"time"
)

type PeriodKind string

const (
	PeriodDaily   PeriodKind = "daily"
	PeriodWeekly  PeriodKind = "weekly"
	PeriodMonthly PeriodKind = "monthly"
	PeriodCustom  PeriodKind = "custom"
)

// Window is the closed date-time interval a report covers. Both boundaries
// are inclusive and expressed in local calendar time, matching the
// operator's wall clock on receipts and shift boundaries.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Week returns the 1-based week bucket of t relative to the window start:
// floor(days since start / 7) + 1. The buckets are deliberately anchored to
// the window, not to calendar weeks; the weekly export tables depend on
// this.
func (w Window) Week(t time.Time) int {
	days := int(t.Sub(w.Start).Hours() / 24)
	return days/7 + 1
}

// InvalidRangeError is returned for malformed period input, e.g. a custom
// range whose start is after its end.
type InvalidRangeError struct {
	Reason string
}

func (e *InvalidRangeError) Error() string {
	return "invalid range: " + e.Reason
}

// Reference supplies the anchor for a period. Daily and weekly take a date
// (zero means today), monthly takes a year/month pair, custom takes an
// explicit start and end date.
type Reference struct {
	Date  time.Time
	Year  int
	Month time.Month
	Start time.Time
	End   time.Time
}

// ResolveWindow maps a period kind plus reference input to a concrete
// window. Pure: no clock reads other than defaulting a missing daily or
// weekly reference to now.
func ResolveWindow(kind PeriodKind, ref Reference) (Window, error) {
	switch kind {
	case PeriodDaily:
		day := ref.Date
		if day.IsZero() {
			day = time.Now()
		}
		return Window{Start: startOfDay(day), End: endOfDay(day)}, nil

	case PeriodWeekly:
		// A fixed 7-day span from the reference date, not calendar-week
		// aligned.
		day := ref.Date
		if day.IsZero() {
			day = time.Now()
		}
		return Window{Start: startOfDay(day), End: endOfDay(day.AddDate(0, 0, 6))}, nil

	case PeriodMonthly:
		if ref.Year == 0 || ref.Month < time.January || ref.Month > time.December {
			return Window{}, &InvalidRangeError{Reason: fmt.Sprintf("bad year/month %d/%d", ref.Year, ref.Month)}
		}
		first := time.Date(ref.Year, ref.Month, 1, 0, 0, 0, 0, time.Local)
		// Day 0 of the following month is the last day of this one.
		last := time.Date(ref.Year, ref.Month+1, 0, 0, 0, 0, 0, time.Local)
		return Window{Start: first, End: endOfDay(last)}, nil

	case PeriodCustom:
		if ref.Start.IsZero() || ref.End.IsZero() {
			return Window{}, &InvalidRangeError{Reason: "custom period requires start and end dates"}
		}
		start := startOfDay(ref.Start)
		end := endOfDay(ref.End)
		if start.After(end) {
			return Window{}, &InvalidRangeError{Reason: "start date is after end date"}
		}
		return Window{Start: start, End: end}, nil

	default:
		return Window{}, &InvalidRangeError{Reason: "unknown period kind " + string(kind)}
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.Local)
}
