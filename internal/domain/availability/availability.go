package availability

import (
	"context"
	"slices"
	"time"

	"github.com/Seimmet/dolcie-salon/internal/domain/calendar"
	"github.com/Seimmet/dolcie-salon/internal/domain/capability"
	"github.com/Seimmet/dolcie-salon/internal/domain/salon"
	"github.com/Seimmet/dolcie-salon/internal/httperr"
	"github.com/Seimmet/dolcie-salon/internal/models"
	"github.com/Seimmet/dolcie-salon/internal/timezone"
)

type Query struct {
	Date        string
	StyleID     uint
	VariationID uint
	StylistID   *uint

	// ExcludeBookingID ignores one booking, so a booking can be checked
	// against its own new position.
	ExcludeBookingID *uint

	// DurationMinutes, when set, replaces the current Pricing duration.
	// Reschedule and restore use the duration snapshotted on the booking.
	DurationMinutes int
}

type Slot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`

	Start        time.Time `json:"-"`
	FreeStylists []uint    `json:"-"`
}

// BookingReader lists non-cancelled bookings of the given stylists that
// overlap [from, to).
type BookingReader interface {
	ListActiveForStylists(
		ctx context.Context,
		stylistIDs []uint,
		from time.Time,
		to time.Time,
		excludeBookingID *uint,
	) ([]models.Booking, error)
}

// Plan is everything Compute needs, already resolved.
type Plan struct {
	Intervals []calendar.Interval
	Duration  time.Duration
	Step      time.Duration
	Stylists  []uint
	Busy      map[uint][]calendar.Interval

	// Candidates starting at or before Cutoff are never available.
	Cutoff time.Time
}

// Compute generates candidate starts at Step granularity inside every open
// interval so that start+Duration never passes the interval end, and marks
// each one available iff at least one stylist is free for the whole span.
// Slots come back in chronological order.
func Compute(p Plan) []Slot {
	step := p.Step
	if step <= 0 {
		step = salon.DefaultSlotStep
	}
	if p.Duration <= 0 {
		return []Slot{}
	}

	slots := []Slot{}
	for _, iv := range p.Intervals {
		for start := iv.Start; !start.Add(p.Duration).After(iv.End); start = start.Add(step) {
			cand := calendar.Interval{Start: start, End: start.Add(p.Duration)}

			slot := Slot{
				Time:  start.Format(calendar.TimeLayout),
				Start: start,
			}

			if start.After(p.Cutoff) {
				for _, id := range p.Stylists {
					if isFree(p.Busy[id], cand) {
						slot.FreeStylists = append(slot.FreeStylists, id)
					}
				}
			}
			slot.Available = len(slot.FreeStylists) > 0

			slots = append(slots, slot)
		}
	}
	return slots
}

func isFree(busy []calendar.Interval, cand calendar.Interval) bool {
	for _, b := range busy {
		if b.Overlaps(cand) {
			return false
		}
	}
	return true
}

// Find returns the slot starting at hm ("15:04").
func Find(slots []Slot, hm string) (Slot, bool) {
	for _, s := range slots {
		if s.Time == hm {
			return s, true
		}
	}
	return Slot{}, false
}

// ===============================
// Engine
// ===============================

type Engine struct {
	resolver *capability.Resolver
	bookings BookingReader
	now      timezone.Clock
}

func NewEngine(
	resolver *capability.Resolver,
	bookings BookingReader,
	now timezone.Clock,
) *Engine {
	if now == nil {
		now = timezone.SystemClock
	}
	return &Engine{
		resolver: resolver,
		bookings: bookings,
		now:      now,
	}
}

func (e *Engine) GetSlots(ctx context.Context, cfg *salon.Config, q Query) ([]Slot, error) {

	// --------------------------------------------------
	// 1. Duration
	// --------------------------------------------------
	// An existing booking keeps its snapshot even if its style has since
	// been retired or repriced.
	minutes := q.DurationMinutes
	if minutes <= 0 {
		off, err := e.resolver.Resolve(ctx, q.StyleID, q.VariationID)
		if err != nil {
			return nil, err
		}
		minutes = off.DurationMinutes
	}

	// --------------------------------------------------
	// 2. Stylists
	// --------------------------------------------------
	ids, err := e.stylistIDs(ctx, q)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3. Open hours
	// --------------------------------------------------
	date, err := cfg.Calendar.ParseDate(q.Date)
	if err != nil {
		return nil, err
	}
	intervals := cfg.Calendar.OpenIntervals(date)
	if len(intervals) == 0 {
		return []Slot{}, nil
	}

	// --------------------------------------------------
	// 4. Existing bookings
	// --------------------------------------------------
	busy := map[uint][]calendar.Interval{}
	if len(ids) > 0 {
		day := cfg.Calendar.DayBounds(date)
		existing, err := e.bookings.ListActiveForStylists(ctx, ids, day.Start, day.End, q.ExcludeBookingID)
		if err != nil {
			return nil, err
		}
		for _, b := range existing {
			if b.StylistID == nil {
				continue
			}
			busy[*b.StylistID] = append(busy[*b.StylistID], calendar.Interval{
				Start: b.StartTime,
				End:   b.EndTime,
			})
		}
	}

	// --------------------------------------------------
	// 5. Slots
	// --------------------------------------------------
	return Compute(Plan{
		Intervals: intervals,
		Duration:  time.Duration(minutes) * time.Minute,
		Step:      cfg.SlotStep,
		Stylists:  ids,
		Busy:      busy,
		Cutoff:    e.Cutoff(cfg),
	}), nil
}

// Cutoff is the instant at or before which no candidate may start.
func (e *Engine) Cutoff(cfg *salon.Config) time.Time {
	return e.now().Add(cfg.MinAdvance)
}

// ExpireBefore marks every slot starting at or before cutoff unavailable.
// Cached slots carry only their wall-clock time, so starts are rebuilt from
// date in the salon timezone.
func ExpireBefore(cfg *salon.Config, date string, slots []Slot, cutoff time.Time) ([]Slot, error) {
	day, err := cfg.Calendar.ParseDate(date)
	if err != nil {
		return nil, err
	}

	out := make([]Slot, len(slots))
	for i, s := range slots {
		if s.Available {
			start, err := cfg.Calendar.At(day, s.Time)
			if err != nil {
				return nil, err
			}
			if !start.After(cutoff) {
				s.Available = false
				s.FreeStylists = nil
			}
		}
		out[i] = s
	}
	return out, nil
}

// stylistIDs returns the ascending ids whose calendars decide the slots. A
// booking being moved (snapshot duration set) stays with its assigned
// stylist, who is checked on calendar alone.
func (e *Engine) stylistIDs(ctx context.Context, q Query) ([]uint, error) {
	if q.DurationMinutes > 0 && q.StylistID != nil {
		return []uint{*q.StylistID}, nil
	}

	stylists, err := e.resolver.EligibleStylists(ctx, q.StyleID, q.StylistID)
	if err != nil {
		return nil, err
	}
	if len(stylists) == 0 && q.StylistID != nil {
		return nil, httperr.ErrNoEligibleStylist
	}

	ids := make([]uint, 0, len(stylists))
	for _, st := range stylists {
		ids = append(ids, st.ID)
	}
	slices.Sort(ids)
	return ids, nil
}
