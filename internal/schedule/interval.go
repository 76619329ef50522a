package schedule

import (
	"fmt"
	"sort"

	"github.com/CelestynPark/PenArt-Reservation/internal/domain"
)

// ParseHHMM converts "HH:MM" to minutes since midnight.
func ParseHHMM(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("parse time %q: %w", s, err)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("time %q out of range", s)
	}
	return h*60 + m, nil
}

// FormatHHMM converts minutes since midnight to "HH:MM".
func FormatHHMM(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// Normalize sorts intervals and merges overlapping or touching ones. Empty
// and inverted intervals are dropped.
func Normalize(in []domain.Interval) []domain.Interval {
	var ivs []domain.Interval
	for _, iv := range in {
		if iv.Start < iv.End {
			ivs = append(ivs, iv)
		}
	}
	if len(ivs) == 0 {
		return nil
	}
	sort.Slice(ivs, func(i, j int) bool { return ivs[i].Start < ivs[j].Start })
	out := []domain.Interval{ivs[0]}
	for _, iv := range ivs[1:] {
		last := &out[len(out)-1]
		if iv.Start <= last.End {
			if iv.End > last.End {
				last.End = iv.End
			}
			continue
		}
		out = append(out, iv)
	}
	return out
}

// Union merges b into a and normalizes.
func Union(a, b []domain.Interval) []domain.Interval {
	return Normalize(append(append([]domain.Interval{}, a...), b...))
}

// Subtract removes every interval in b from a. Both inputs may be
// unnormalized; the result is normalized.
func Subtract(a, b []domain.Interval) []domain.Interval {
	a = Normalize(a)
	b = Normalize(b)
	var out []domain.Interval
	for _, iv := range a {
		cur := iv
		for _, cut := range b {
			if cut.End <= cur.Start || cut.Start >= cur.End {
				continue
			}
			if cut.Start > cur.Start {
				out = append(out, domain.Interval{Start: cur.Start, End: cut.Start})
			}
			if cut.End >= cur.End {
				cur.Start = cur.End
				break
			}
			cur.Start = cut.End
		}
		if cur.Start < cur.End {
			out = append(out, cur)
		}
	}
	return out
}

// Contains reports whether [start, end) fits entirely inside one interval.
func Contains(ivs []domain.Interval, start, end int) bool {
	for _, iv := range ivs {
		if start >= iv.Start && end <= iv.End {
			return true
		}
	}
	return false
}
