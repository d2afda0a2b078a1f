package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Seimmet/dolcie-salon/internal/httperr"
	"github.com/Seimmet/dolcie-salon/internal/models"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestOverlapsIsHalfOpen(t *testing.T) {
	base := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	at := func(h, m int) time.Time { return base.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }

	a := Interval{Start: at(10, 0), End: at(12, 0)}

	assert.True(t, a.Overlaps(Interval{Start: at(11, 30), End: at(13, 30)}))
	assert.True(t, a.Overlaps(Interval{Start: at(9, 0), End: at(11, 0)}))
	assert.True(t, a.Overlaps(Interval{Start: at(10, 30), End: at(11, 0)}))
	assert.False(t, a.Overlaps(Interval{Start: at(12, 0), End: at(14, 0)}))
	assert.False(t, a.Overlaps(Interval{Start: at(8, 0), End: at(10, 0)}))
}

func TestOpenIntervals(t *testing.T) {
	loc := mustLoad(t, "America/Chicago")
	rules, err := NewRules([]models.BusinessHours{
		{Weekday: int(time.Tuesday), IsOpen: true, StartTime: "09:00", EndTime: "19:00"},
		{Weekday: int(time.Sunday), IsOpen: false, StartTime: "19:00", EndTime: "09:00"},
	}, loc)
	require.NoError(t, err)

	tuesday, err := rules.ParseDate("2025-03-04")
	require.NoError(t, err)

	got := rules.OpenIntervals(tuesday)
	require.Len(t, got, 1)
	assert.Equal(t, time.Date(2025, 3, 4, 9, 0, 0, 0, loc), got[0].Start)
	assert.Equal(t, time.Date(2025, 3, 4, 19, 0, 0, 0, loc), got[0].End)

	sunday, _ := rules.ParseDate("2025-03-02")
	assert.Empty(t, rules.OpenIntervals(sunday))

	// weekday with no row is closed
	monday, _ := rules.ParseDate("2025-03-03")
	assert.Empty(t, rules.OpenIntervals(monday))
}

func TestOpenIntervalsUsesSalonDateNotCallerDate(t *testing.T) {
	loc := mustLoad(t, "America/Los_Angeles")
	rules, err := NewRules([]models.BusinessHours{
		{Weekday: int(time.Tuesday), IsOpen: true, StartTime: "09:00", EndTime: "17:00"},
	}, loc)
	require.NoError(t, err)

	// 2025-03-05 02:00 UTC is still Tuesday evening in Los Angeles.
	got := rules.OpenIntervals(time.Date(2025, 3, 5, 2, 0, 0, 0, time.UTC))
	require.Len(t, got, 1)
	assert.Equal(t, time.Tuesday, got[0].Start.Weekday())
}

func TestBreakSplitsDay(t *testing.T) {
	rules, err := NewRules([]models.BusinessHours{
		{Weekday: 3, IsOpen: true, StartTime: "09:00", EndTime: "18:00", BreakStart: "12:00", BreakEnd: "13:00"},
		{Weekday: 4, IsOpen: true, StartTime: "09:00", EndTime: "18:00", BreakStart: "08:00", BreakEnd: "09:30"},
	}, time.UTC)
	require.NoError(t, err)

	wed := rules.OpenIntervals(time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC))
	require.Len(t, wed, 2)
	assert.Equal(t, 12, wed[0].End.Hour())
	assert.Equal(t, 13, wed[1].Start.Hour())

	thu := rules.OpenIntervals(time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC))
	assert.Len(t, thu, 1)
}

func TestNewRulesRejectsInvertedHours(t *testing.T) {
	_, err := NewRules([]models.BusinessHours{
		{Weekday: 2, IsOpen: true, StartTime: "19:00", EndTime: "09:00"},
	}, time.UTC)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidBusinessHours))

	_, err = NewRules([]models.BusinessHours{
		{Weekday: 2, IsOpen: true, StartTime: "09:00", EndTime: "09:00"},
	}, time.UTC)
	assert.Error(t, err)

	_, err = NewRules([]models.BusinessHours{
		{Weekday: 9, IsOpen: false},
	}, time.UTC)
	assert.Error(t, err)
}

func TestAt(t *testing.T) {
	loc := mustLoad(t, "Europe/London")
	rules, err := NewRules(nil, loc)
	require.NoError(t, err)

	date, err := rules.ParseDate("2025-07-01")
	require.NoError(t, err)

	got, err := rules.At(date, "14:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 7, 1, 14, 30, 0, 0, loc), got)

	_, err = rules.At(date, "2pm")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidRequest))

	_, err = rules.ParseDate("01/07/2025")
	assert.Error(t, err)
}
