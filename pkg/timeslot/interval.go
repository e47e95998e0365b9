package timeslot

import "fmt"

// Interval is a half-open time-of-day range [Start, End).
type Interval struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

func NewInterval(start, end TimeOfDay) Interval {
	return Interval{Start: start, End: end}
}

func (i Interval) String() string {
	return fmt.Sprintf("%s-%s", i.Start, i.End)
}

// Normalize floors the start down to the minute and ceils the end up, so a
// request a few seconds over length is widened rather than truncated away.
func (i Interval) Normalize() Interval {
	return Interval{
		Start: i.Start.FloorMinute(),
		End:   i.End.CeilMinute(),
	}
}

// Buffered widens the interval by bufferMinutes on both ends. The result may
// extend past midnight on either side; it is only used for comparisons.
func (i Interval) Buffered(bufferMinutes int) Interval {
	return Interval{
		Start: i.Start.AddMinutes(-bufferMinutes),
		End:   i.End.AddMinutes(bufferMinutes),
	}
}

// Overlaps reports whether two half-open intervals intersect.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && other.Start < i.End
}

// Contains reports whether t falls inside the half-open interval.
func (i Interval) Contains(t TimeOfDay) bool {
	return i.Start <= t && t < i.End
}

// ContainsInterval reports whether other fits fully inside i.
func (i Interval) ContainsInterval(other Interval) bool {
	return other.Start >= i.Start && other.End <= i.End
}

// Valid reports whether the interval has positive length.
func (i Interval) Valid() bool {
	return i.Start < i.End
}
