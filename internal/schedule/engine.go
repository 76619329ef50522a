// Package schedule computes bookable slots from the studio's availability
// configuration. All calendar math happens in the studio's local timezone
// (Asia/Seoul); callers persist the resulting instants in UTC.
package schedule

import (
	"time"

	"github.com/CelestynPark/PenArt-Reservation/internal/domain"
)

// Seoul is the studio's display timezone. Dates, weekdays and the Monday
// boundary for base-day changes are all evaluated here.
var Seoul = mustLoad("Asia/Seoul")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// Slot is one bookable start/end pair in UTC.
type Slot struct {
	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`
}

// DaySchedule is the composed result for one local date: the open minute
// ranges and the slot length they are cut into.
type DaySchedule struct {
	Open    []domain.Interval
	SlotMin int
}

// Engine turns the availability singleton into concrete slots.
type Engine struct {
	loc *time.Location
}

// NewEngine returns an engine evaluating dates in loc. Pass Seoul for
// production use.
func NewEngine(loc *time.Location) *Engine {
	return &Engine{loc: loc}
}

// EffectiveBaseDays returns the base weekday set in force at now. A pending
// change applies once now reaches its effective-from instant (next Monday
// midnight local time at the moment the change was made).
func (e *Engine) EffectiveBaseDays(a *domain.Availability, now time.Time) []int {
	if a.BaseDaysEffectiveFrom != nil && !now.Before(*a.BaseDaysEffectiveFrom) && a.PendingBaseDays != nil {
		return a.PendingBaseDays
	}
	return a.BaseDays
}

// NextMonday returns the upcoming Monday 00:00 in loc, strictly after t's
// day when t already falls on a Monday.
func NextMonday(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	days := (int(time.Monday) - int(t.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	d := t.AddDate(0, 0, days)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}

// ComposeDay merges the rule windows matching the date's weekday (each minus
// its own breaks), then subtracts the date's exception blocks. A closed
// exception wipes the day; a weekday no rule covers has no open hours. The
// slot length is the smallest SlotMin among the matching rules.
func (e *Engine) ComposeDay(a *domain.Availability, date string) (*DaySchedule, error) {
	day, err := time.ParseInLocation("2006-01-02", date, e.loc)
	if err != nil {
		return nil, err
	}
	dow := int(day.Weekday())

	var open []domain.Interval
	slotMin := 0
	for _, r := range a.Rules {
		if !containsInt(r.DOW, dow) {
			continue
		}
		start, err := ParseHHMM(r.Start)
		if err != nil {
			return nil, err
		}
		end, err := ParseHHMM(r.End)
		if err != nil {
			return nil, err
		}
		if end <= start {
			continue
		}

		breaks, err := parseRanges(r.Breaks)
		if err != nil {
			return nil, err
		}
		open = append(open, Subtract([]domain.Interval{{Start: start, End: end}}, breaks)...)

		if m := r.SlotMin; m > 0 && (slotMin == 0 || m < slotMin) {
			slotMin = m
		}
	}
	open = Normalize(open)

	for _, ex := range a.Exceptions {
		if ex.Date != date {
			continue
		}
		if ex.Closed {
			open = nil
			break
		}
		blocks, err := parseRanges(ex.Blocks)
		if err != nil {
			return nil, err
		}
		open = Subtract(open, blocks)
		break
	}

	if slotMin == 0 {
		slotMin = 60
	}
	return &DaySchedule{Open: open, SlotMin: slotMin}, nil
}

// OpenIntervals returns just the open minute ranges for a local date.
func (e *Engine) OpenIntervals(a *domain.Availability, date string) ([]domain.Interval, error) {
	ds, err := e.ComposeDay(a, date)
	if err != nil {
		return nil, err
	}
	return ds.Open, nil
}

// SlotsForDate cuts the composed day into SlotMin-sized slots, dropping
// anything that overlaps an occupied range or starts at or before now. The
// result is sorted and in UTC.
func (e *Engine) SlotsForDate(a *domain.Availability, date string, occupied []Slot, now time.Time) ([]Slot, error) {
	ds, err := e.ComposeDay(a, date)
	if err != nil {
		return nil, err
	}
	day, err := time.ParseInLocation("2006-01-02", date, e.loc)
	if err != nil {
		return nil, err
	}

	busy := make([]domain.Interval, 0, len(occupied))
	for _, o := range occupied {
		s := o.StartAt.In(e.loc)
		en := o.EndAt.In(e.loc)
		if s.Before(day) {
			s = day
		}
		dayEnd := day.AddDate(0, 0, 1)
		if en.After(dayEnd) {
			en = dayEnd
		}
		if !s.Before(en) {
			continue
		}
		busy = append(busy, domain.Interval{
			Start: int(s.Sub(day) / time.Minute),
			End:   int(en.Sub(day) / time.Minute),
		})
	}
	free := Subtract(ds.Open, busy)

	var slots []Slot
	for _, iv := range free {
		for start := iv.Start; start+ds.SlotMin <= iv.End; start += ds.SlotMin {
			startAt := day.Add(time.Duration(start) * time.Minute)
			if !startAt.After(now) {
				continue
			}
			slots = append(slots, Slot{
				StartAt: startAt.UTC(),
				EndAt:   startAt.Add(time.Duration(ds.SlotMin) * time.Minute).UTC(),
			})
		}
	}
	return slots, nil
}

// IsSlotBookable reports whether a specific start instant is one of the
// slots the engine would offer for its local date.
func (e *Engine) IsSlotBookable(a *domain.Availability, startAt time.Time, occupied []Slot, now time.Time) (bool, error) {
	date := startAt.In(e.loc).Format("2006-01-02")
	slots, err := e.SlotsForDate(a, date, occupied, now)
	if err != nil {
		return false, err
	}
	for _, s := range slots {
		if s.StartAt.Equal(startAt.UTC()) {
			return true, nil
		}
	}
	return false, nil
}

func parseRanges(rs []domain.TimeRange) ([]domain.Interval, error) {
	var out []domain.Interval
	for _, r := range rs {
		start, err := ParseHHMM(r.Start)
		if err != nil {
			return nil, err
		}
		end, err := ParseHHMM(r.End)
		if err != nil {
			return nil, err
		}
		if end <= start {
			continue
		}
		out = append(out, domain.Interval{Start: start, End: end})
	}
	return out, nil
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
