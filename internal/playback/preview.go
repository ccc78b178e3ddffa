package playback

// Preview helpers serve browsing while no slideshow is running. They clamp to
// the document instead of wrapping.

// PreviewBack steps back by step, never below 1.
func PreviewBack(current, step int) int {
	return max(1, current-max(step, 1))
}

// PreviewForward steps forward by step. Past the end it lands on the last
// position that still fills a full view.
func PreviewForward(current, unitCount, step int) int {
	step = max(step, 1)
	next := current + step
	if next > unitCount {
		return max(1, unitCount-step+1)
	}
	return next
}

// NavState tells the UI which preview buttons make sense.
type NavState struct {
	CanBack    bool
	CanForward bool
}

// Nav computes button availability for the current preview position.
func Nav(current, unitCount, step int) NavState {
	step = max(step, 1)
	return NavState{
		CanBack:    current > 1,
		CanForward: current+step-1 < unitCount,
	}
}
