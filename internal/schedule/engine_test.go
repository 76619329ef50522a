package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CelestynPark/PenArt-Reservation/internal/domain"
)

func baseAvailability() *domain.Availability {
	return &domain.Availability{
		BaseDays: []int{2, 3, 4, 5, 6}, // Tue..Sat
		Rules: []domain.Rule{
			{DOW: []int{2, 3, 4, 5, 6}, Start: "10:00", End: "18:00", SlotMin: 30},
		},
	}
}

// seoulTime builds an instant from Seoul wall-clock components.
func seoulTime(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, Seoul)
}

func TestNextMonday(t *testing.T) {
	// 2026-09-02 is a Wednesday, 2026-09-07 the following Monday.
	got := NextMonday(seoulTime(2026, 9, 2, 15, 0), Seoul)
	assert.Equal(t, seoulTime(2026, 9, 7, 0, 0), got)

	// From a Monday the boundary is the next Monday, not the same day.
	got = NextMonday(seoulTime(2026, 9, 7, 0, 0), Seoul)
	assert.Equal(t, seoulTime(2026, 9, 14, 0, 0), got)
}

func TestEffectiveBaseDays(t *testing.T) {
	e := NewEngine(Seoul)
	a := baseAvailability()
	eff := seoulTime(2026, 9, 7, 0, 0)
	a.PendingBaseDays = []int{1, 2, 3}
	a.BaseDaysEffectiveFrom = &eff

	assert.Equal(t, []int{2, 3, 4, 5, 6}, e.EffectiveBaseDays(a, seoulTime(2026, 9, 6, 23, 59)))
	assert.Equal(t, []int{1, 2, 3}, e.EffectiveBaseDays(a, seoulTime(2026, 9, 7, 0, 0)))
}

func TestOpenIntervalsRuleDays(t *testing.T) {
	e := NewEngine(Seoul)

	// 2026-09-02 is a Wednesday (dow 3): covered by the weekday rule.
	got, err := e.OpenIntervals(baseAvailability(), "2026-09-02")
	require.NoError(t, err)
	assert.Equal(t, []domain.Interval{{Start: 600, End: 1080}}, got)

	// 2026-09-06 is a Sunday (dow 0): no rule covers it.
	got, err = e.OpenIntervals(baseAvailability(), "2026-09-06")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestOpenIntervalsRuleBreaks(t *testing.T) {
	e := NewEngine(Seoul)
	a := baseAvailability()
	a.Rules = []domain.Rule{
		// Weekday hours with a lunch break carved out of the rule itself.
		{DOW: []int{2, 3, 4, 5, 6}, Start: "10:00", End: "18:00", SlotMin: 30,
			Breaks: []domain.TimeRange{{Start: "12:00", End: "13:00"}}},
		// Sunday afternoon opening.
		{DOW: []int{0}, Start: "14:00", End: "17:00", SlotMin: 60},
	}

	got, err := e.OpenIntervals(a, "2026-09-02")
	require.NoError(t, err)
	assert.Equal(t, []domain.Interval{{Start: 600, End: 720}, {Start: 780, End: 1080}}, got)

	got, err = e.OpenIntervals(a, "2026-09-06")
	require.NoError(t, err)
	assert.Equal(t, []domain.Interval{{Start: 840, End: 1020}}, got)
}

func TestOpenIntervalsMergesOverlappingRules(t *testing.T) {
	e := NewEngine(Seoul)
	a := baseAvailability()
	a.Rules = []domain.Rule{
		{DOW: []int{3}, Start: "10:00", End: "14:00", SlotMin: 30},
		{DOW: []int{3}, Start: "13:00", End: "18:00", SlotMin: 30},
	}

	got, err := e.OpenIntervals(a, "2026-09-02")
	require.NoError(t, err)
	assert.Equal(t, []domain.Interval{{Start: 600, End: 1080}}, got)
}

func TestOpenIntervalsExceptionClosed(t *testing.T) {
	e := NewEngine(Seoul)
	a := baseAvailability()
	a.Exceptions = []domain.Exception{{Date: "2026-09-02", Closed: true, Note: "holiday"}}

	got, err := e.OpenIntervals(a, "2026-09-02")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestOpenIntervalsExceptionBlocksSubtract(t *testing.T) {
	e := NewEngine(Seoul)
	a := baseAvailability()
	a.Exceptions = []domain.Exception{{
		Date:   "2026-09-02",
		Blocks: []domain.TimeRange{{Start: "12:00", End: "13:00"}},
	}}

	// The block is carved out of the composed day; the rest stays open.
	got, err := e.OpenIntervals(a, "2026-09-02")
	require.NoError(t, err)
	assert.Equal(t, []domain.Interval{{Start: 600, End: 720}, {Start: 780, End: 1080}}, got)

	// Other dates are untouched.
	got, err = e.OpenIntervals(a, "2026-09-03")
	require.NoError(t, err)
	assert.Equal(t, []domain.Interval{{Start: 600, End: 1080}}, got)
}

func TestComposeDayPicksSmallestSlotMin(t *testing.T) {
	e := NewEngine(Seoul)
	a := baseAvailability()
	a.Rules = []domain.Rule{
		{DOW: []int{3}, Start: "10:00", End: "12:00", SlotMin: 60},
		{DOW: []int{3}, Start: "14:00", End: "18:00", SlotMin: 30},
	}

	ds, err := e.ComposeDay(a, "2026-09-02")
	require.NoError(t, err)
	assert.Equal(t, 30, ds.SlotMin)

	// No matching rules: the default applies.
	ds, err = e.ComposeDay(a, "2026-09-06")
	require.NoError(t, err)
	assert.Equal(t, 60, ds.SlotMin)
	assert.Empty(t, ds.Open)
}

func TestSlotsForDate(t *testing.T) {
	e := NewEngine(Seoul)
	now := seoulTime(2026, 9, 1, 9, 0)

	slots, err := e.SlotsForDate(baseAvailability(), "2026-09-02", nil, now)
	require.NoError(t, err)
	// 10:00 through 17:30 starts in 30-minute slots.
	require.Len(t, slots, 16)
	assert.Equal(t, seoulTime(2026, 9, 2, 10, 0).UTC(), slots[0].StartAt)
	assert.Equal(t, seoulTime(2026, 9, 2, 10, 30).UTC(), slots[0].EndAt)
	assert.Equal(t, seoulTime(2026, 9, 2, 17, 30).UTC(), slots[len(slots)-1].StartAt)
}

func TestSlotsForDateOccupied(t *testing.T) {
	e := NewEngine(Seoul)
	now := seoulTime(2026, 9, 1, 9, 0)
	occupied := []Slot{{
		StartAt: seoulTime(2026, 9, 2, 11, 0).UTC(),
		EndAt:   seoulTime(2026, 9, 2, 12, 0).UTC(),
	}}

	slots, err := e.SlotsForDate(baseAvailability(), "2026-09-02", occupied, now)
	require.NoError(t, err)
	for _, s := range slots {
		local := s.StartAt.In(Seoul)
		h := local.Hour()*60 + local.Minute()
		// Nothing may overlap the 11:00-12:00 booking.
		assert.False(t, h >= 660 && h < 720, "slot %s overlaps booking", local)
	}
	// 10:30 fits before and 12:00 right after.
	assert.Equal(t, seoulTime(2026, 9, 2, 10, 30).UTC(), slots[1].StartAt)
	assert.Equal(t, seoulTime(2026, 9, 2, 12, 0).UTC(), slots[2].StartAt)
}

func TestSlotsForDatePastFiltered(t *testing.T) {
	e := NewEngine(Seoul)
	now := seoulTime(2026, 9, 2, 14, 10)

	slots, err := e.SlotsForDate(baseAvailability(), "2026-09-02", nil, now)
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	assert.Equal(t, seoulTime(2026, 9, 2, 14, 30).UTC(), slots[0].StartAt)
}

func TestIsSlotBookable(t *testing.T) {
	e := NewEngine(Seoul)
	now := seoulTime(2026, 9, 1, 9, 0)

	ok, err := e.IsSlotBookable(baseAvailability(), seoulTime(2026, 9, 2, 10, 0), nil, now)
	require.NoError(t, err)
	assert.True(t, ok)

	// Unaligned start.
	ok, err = e.IsSlotBookable(baseAvailability(), seoulTime(2026, 9, 2, 10, 15), nil, now)
	require.NoError(t, err)
	assert.False(t, ok)

	// No rule covers Sunday.
	ok, err = e.IsSlotBookable(baseAvailability(), seoulTime(2026, 9, 6, 10, 0), nil, now)
	require.NoError(t, err)
	assert.False(t, ok)
}
