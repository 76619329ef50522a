package domain

import (
	"context"
	"time"
)

// Interval is a half-open [Start, End) range of minutes since local midnight.
type Interval struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// TimeRange is an HH:MM start/end pair in studio-local time, end exclusive.
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Rule opens hours on the listed weekdays. DOW uses 0=Sunday..6=Saturday in
// studio-local time. Breaks are carved out of the rule's own window. SlotMin
// is the slot length this window is cut into: at least 15 minutes, in
// 15-minute steps.
type Rule struct {
	DOW     []int       `json:"dow"`
	Start   string      `json:"start"`
	End     string      `json:"end"`
	SlotMin int         `json:"slot_min"`
	Breaks  []TimeRange `json:"break,omitempty"`
}

// Exception overrides a single calendar date (local). Closed wipes the whole
// day; otherwise Blocks are subtracted from the day's composed schedule.
type Exception struct {
	Date   string      `json:"date"`
	Closed bool        `json:"closed"`
	Blocks []TimeRange `json:"blocks,omitempty"`
	Note   string      `json:"note,omitempty"`
}

// Availability is the singleton scheduling configuration. BaseDays lists the
// weekdays the studio operates by default; a pending change takes effect at
// the next Monday midnight local time and is recorded in PendingBaseDays /
// BaseDaysEffectiveFrom until applied.
type Availability struct {
	BaseDays              []int
	PendingBaseDays       []int
	BaseDaysEffectiveFrom *time.Time
	Rules                 []Rule
	Exceptions            []Exception
	UpdatedAt             time.Time
}

// AvailabilityRepository reads and writes the singleton scheduling config.
type AvailabilityRepository interface {
	Get(ctx context.Context) (*Availability, error)
	Update(ctx context.Context, a *Availability) (*Availability, error)
}
