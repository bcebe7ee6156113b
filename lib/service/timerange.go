package service

import (
	"strings"
	"time"

	"github.com/irazshakir/ArazitCRM-Production/common"
)

const dateLayout = "2006-01-02"

// TimeFilter carries the raw time parameters of a list request. A named
// TimeRange wins over the StartDate/EndDate pair.
type TimeFilter struct {
	TimeRange string
	StartDate string
	EndDate   string
}

// Window is the half open interval [From, To). A zero bound is open.
type Window struct {
	From time.Time
	To   time.Time
}

func (w *Window) Contains(t time.Time) bool {
	if w == nil {
		return true
	}
	if !w.From.IsZero() && t.Before(w.From) {
		return false
	}
	if !w.To.IsZero() && !t.Before(w.To) {
		return false
	}
	return true
}

// Dates aligns the window to whole days for date typed columns: from is
// the first included day, to the first excluded one.
func (w *Window) Dates() (from, to time.Time) {
	if !w.From.IsZero() {
		from = truncateDay(w.From)
	}
	if !w.To.IsZero() {
		to = truncateDay(w.To)
		if !to.Equal(w.To) {
			to = to.AddDate(0, 0, 1)
		}
	}
	return from, to
}

// ContainsDate reports whether the calendar day of d falls in the window.
func (w *Window) ContainsDate(d time.Time) bool {
	if w == nil {
		return true
	}
	from, to := w.Dates()
	key := dayKey(d)
	if !from.IsZero() && key < dayKey(from) {
		return false
	}
	if !to.IsZero() && key >= dayKey(to) {
		return false
	}
	return true
}

// ResolveWindow turns a TimeFilter into a Window relative to now. It returns
// nil when the filter carries no time restriction.
func ResolveWindow(f TimeFilter, now time.Time) (*Window, error) {
	switch strings.TrimSpace(f.TimeRange) {
	case "":
	case common.TimeRange7Days:
		return &Window{From: now.AddDate(0, 0, -7)}, nil
	case common.TimeRange30Days:
		return &Window{From: now.AddDate(0, 0, -30)}, nil
	case common.TimeRange90Days:
		return &Window{From: now.AddDate(0, 0, -90)}, nil
	case common.TimeRangeCurrMonth:
		first := firstOfMonth(now)
		return &Window{From: first, To: first.AddDate(0, 1, 0)}, nil
	case common.TimeRangePrevMonth:
		first := firstOfMonth(now)
		return &Window{From: first.AddDate(0, -1, 0), To: first}, nil
	default:
		return nil, validationErr("unknown timeRange %q", f.TimeRange)
	}

	if f.StartDate == "" || f.EndDate == "" {
		return nil, nil
	}
	start, _, err := parseBound(f.StartDate, now.Location())
	if err != nil {
		return nil, validationErr("invalid startDate %q", f.StartDate)
	}
	end, dateOnly, err := parseBound(f.EndDate, now.Location())
	if err != nil {
		return nil, validationErr("invalid endDate %q", f.EndDate)
	}
	// the end bound is inclusive: a bare date covers that whole day and a
	// timestamp covers its own instant (postgres stores microseconds)
	if dateOnly {
		end = end.AddDate(0, 0, 1)
	} else {
		end = end.Add(time.Microsecond)
	}
	if !start.Before(end) {
		return nil, validationErr("startDate %q is after endDate %q", f.StartDate, f.EndDate)
	}
	return &Window{From: start, To: end}, nil
}

func parseBound(s string, loc *time.Location) (t time.Time, dateOnly bool, err error) {
	s = strings.TrimSpace(s)
	if t, err = time.ParseInLocation(dateLayout, s, loc); err == nil {
		return t, true, nil
	}
	t, err = time.Parse(time.RFC3339, s)
	return t, false, err
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}
