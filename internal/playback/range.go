// Package playback holds the range configuration and the position arithmetic
// used by the slideshow. Everything here is pure: no timers, no locks.
package playback

import "time"

const (
	DefaultIntervalSeconds = 2.0
	MinIntervalSeconds     = 0.1
	MaxIntervalSeconds     = 60.0
)

// Range is the active sub-range of a document together with the playback
// direction and the auto-advance interval. Start and End are 1-based and
// inclusive.
type Range struct {
	Start           int
	End             int
	Reverse         bool
	IntervalSeconds float64
}

// NewRange returns the full range [1, unitCount] with the default interval.
func NewRange(unitCount int) Range {
	return Range{
		Start:           1,
		End:             max(unitCount, 1),
		IntervalSeconds: DefaultIntervalSeconds,
	}
}

// Interval converts IntervalSeconds to a duration.
func (r Range) Interval() time.Duration {
	return time.Duration(r.IntervalSeconds * float64(time.Second))
}

// Clamp brings r back inside 1 <= Start <= End <= unitCount. A start beyond
// the end drags the end up with it rather than being rejected.
func (r Range) Clamp(unitCount int) Range {
	upper := max(unitCount, 1)
	r.Start = min(max(r.Start, 1), upper)
	r.End = min(max(r.End, 1), upper)
	if r.Start > r.End {
		r.End = r.Start
	}
	r.IntervalSeconds = ClampInterval(r.IntervalSeconds)
	return r
}

// WithStart sets the start and re-clamps against unitCount.
func (r Range) WithStart(start, unitCount int) Range {
	r.Start = start
	return r.Clamp(unitCount)
}

// WithEnd sets the end and re-clamps against unitCount. An end below the
// start is raised to the start.
func (r Range) WithEnd(end, unitCount int) Range {
	r.End = end
	return r.Clamp(unitCount)
}

// WithInterval sets the interval, clamped to (0, 60].
func (r Range) WithInterval(seconds float64) Range {
	r.IntervalSeconds = ClampInterval(seconds)
	return r
}

// ClampInterval maps any value into [MinIntervalSeconds, MaxIntervalSeconds].
// Non-positive values fall back to the default.
func ClampInterval(seconds float64) float64 {
	switch {
	case seconds != seconds || seconds <= 0: // NaN or non-positive
		return DefaultIntervalSeconds
	case seconds < MinIntervalSeconds:
		return MinIntervalSeconds
	case seconds > MaxIntervalSeconds:
		return MaxIntervalSeconds
	}
	return seconds
}

// ResetForWords resets the range after a word or text document loaded.
func (r Range) ResetForWords(unitCount int) Range {
	r.Start = 1
	r.End = unitCount
	return r.Clamp(unitCount)
}

// ResetForPages resets the range after a page-image document loaded. The end
// is raised to cover the whole document when it was left at the default or
// no longer reaches the last page.
func (r Range) ResetForPages(unitCount int) Range {
	r.Start = 1
	if r.End <= 1 || r.End < unitCount {
		r.End = unitCount
	}
	return r.Clamp(unitCount)
}
