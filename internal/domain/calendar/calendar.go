package calendar

import (
	"time"

	"github.com/Seimmet/dolcie-salon/internal/httperr"
	"github.com/Seimmet/dolcie-salon/internal/models"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Interval is a half-open [Start, End) span of wall-clock time.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps is the half-open intersection test: [a,b) and [c,d) conflict
// iff a < d && c < b.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

func (i Interval) Contains(o Interval) bool {
	return !o.Start.Before(i.Start) && !o.End.After(i.End)
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

type day struct {
	open       bool
	start, end int // minutes from midnight
	breakStart int
	breakEnd   int
	hasBreak   bool
}

// Rules resolves the weekly business-hours table into concrete intervals in
// the salon timezone. It is immutable once built.
type Rules struct {
	loc  *time.Location
	days [7]day
}

// NewRules validates the weekly table. Missing weekdays are closed; open
// days need start < end. A break that does not sit strictly inside the open
// range is ignored.
func NewRules(hours []models.BusinessHours, loc *time.Location) (*Rules, error) {
	if loc == nil {
		loc = time.UTC
	}
	r := &Rules{loc: loc}

	for _, h := range hours {
		if h.Weekday < 0 || h.Weekday > 6 {
			return nil, httperr.ErrInvalidBusinessHours
		}
		if !h.IsOpen {
			r.days[h.Weekday] = day{}
			continue
		}

		start, ok1 := parseHM(h.StartTime)
		end, ok2 := parseHM(h.EndTime)
		if !ok1 || !ok2 || start >= end {
			return nil, httperr.ErrInvalidBusinessHours
		}

		d := day{open: true, start: start, end: end}

		bs, ok3 := parseHM(h.BreakStart)
		be, ok4 := parseHM(h.BreakEnd)
		if ok3 && ok4 && start < bs && bs < be && be < end {
			d.hasBreak = true
			d.breakStart = bs
			d.breakEnd = be
		}

		r.days[h.Weekday] = d
	}

	return r, nil
}

func (r *Rules) Location() *time.Location {
	return r.loc
}

// OpenIntervals returns the open intervals for the weekday of date, in
// chronological order. Empty when the salon is closed that day.
func (r *Rules) OpenIntervals(date time.Time) []Interval {
	y, m, dd := date.In(r.loc).Date()
	d := r.days[time.Date(y, m, dd, 0, 0, 0, 0, r.loc).Weekday()]
	if !d.open {
		return nil
	}

	at := func(minutes int) time.Time {
		return time.Date(y, m, dd, minutes/60, minutes%60, 0, 0, r.loc)
	}

	if d.hasBreak {
		return []Interval{
			{Start: at(d.start), End: at(d.breakStart)},
			{Start: at(d.breakEnd), End: at(d.end)},
		}
	}
	return []Interval{{Start: at(d.start), End: at(d.end)}}
}

// ParseDate reads "2006-01-02" as midnight in the salon timezone.
func (r *Rules) ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, r.loc)
	if err != nil {
		return time.Time{}, httperr.ErrInvalidRequest
	}
	return t, nil
}

// At combines a salon-local date with a "15:04" wall-clock time.
func (r *Rules) At(date time.Time, hm string) (time.Time, error) {
	minutes, ok := parseHM(hm)
	if !ok {
		return time.Time{}, httperr.ErrInvalidRequest
	}
	y, m, d := date.In(r.loc).Date()
	return time.Date(y, m, d, minutes/60, minutes%60, 0, 0, r.loc), nil
}

// DayBounds is the full salon-local day containing date.
func (r *Rules) DayBounds(date time.Time) Interval {
	y, m, d := date.In(r.loc).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, r.loc)
	return Interval{Start: start, End: start.AddDate(0, 0, 1)}
}

func parseHM(hm string) (int, bool) {
	if hm == "" {
		return 0, false
	}
	t, err := time.Parse(TimeLayout, hm)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}
