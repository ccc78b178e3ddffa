package playback

// Direction of a single step through the range.
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Step moves current by step in the given direction and wraps to the opposite
// bound when it leaves the range. A degenerate range always yields Start.
func Step(current int, r Range, step int, dir Direction) int {
	if r.Start >= r.End {
		return r.Start
	}
	step = max(step, 1)
	if dir == Backward {
		next := current - step
		if next < r.Start {
			return r.End
		}
		return next
	}
	next := current + step
	if next > r.End {
		return r.Start
	}
	return next
}

// Advance is the timer step: backward when the range is reversed.
func Advance(current int, r Range, step int) int {
	if r.Reverse {
		return Step(current, r, step, Backward)
	}
	return Step(current, r, step, Forward)
}

// Retreat always steps backward regardless of Reverse.
func Retreat(current int, r Range, step int) int {
	return Step(current, r, step, Backward)
}

// SkipForward always steps forward regardless of Reverse.
func SkipForward(current int, r Range, step int) int {
	return Step(current, r, step, Forward)
}

// InitialIndex is where playback begins: the end for a reversed range.
func InitialIndex(r Range) int {
	if r.Reverse {
		return r.End
	}
	return r.Start
}
