// Package display builds the render request for a playback position: which
// units go on stage, how content is transformed and which alignment overlays
// are drawn.
package display

import (
	"strings"

	"photoreader/internal/content"
	"photoreader/internal/pages"
)

// Config holds the presentation settings that shape a request.
type Config struct {
	ViewMode   int
	Rotate     bool
	Mirror     bool
	CenterDot  bool
	CornerDots bool
	GuideLine  bool
}

// DefaultConfig shows one unit with no overlays.
func DefaultConfig() Config {
	return Config{ViewMode: 1}
}

// Normalize clamps ViewMode to 1..3.
func (c Config) Normalize() Config {
	c.ViewMode = min(max(c.ViewMode, 1), 3)
	return c
}

// Transform is applied to content only, never to overlays. Rotation comes
// first, then the horizontal mirror.
type Transform struct {
	Rotate bool
	Mirror bool
}

func (t Transform) Identity() bool { return !t.Rotate && !t.Mirror }

// CSS renders the transform in CSS notation.
func (t Transform) CSS() string {
	var parts []string
	if t.Rotate {
		parts = append(parts, "rotate(180deg)")
	}
	if t.Mirror {
		parts = append(parts, "scaleX(-1)")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}

// Stage refers to the whole display area rather than a single slot.
const Stage = -1

// Corner of a box.
type Corner int

const (
	TopLeft Corner = iota
	TopRight
	BottomLeft
	BottomRight
)

func (c Corner) String() string {
	return [...]string{"top-left", "top-right", "bottom-left", "bottom-right"}[c]
}

// CornerDot places a dot at a corner of a slot, or of the stage when Slot is
// Stage.
type CornerDot struct {
	Slot   int
	Corner Corner
}

// Guide is a vertical line through the middle of a slot, or of the stage when
// Slot is Stage.
type Guide struct {
	Slot int
}

// Slot is one displayed unit. Text carries the word or page HTML.
type Slot struct {
	Unit int
	Text string
}

// Request is everything a render sink needs to draw one frame. Seq increases
// with every request emitted by a controller; sinks drop anything older than
// the newest request they have seen. Columns is the number of slot positions
// the stage is divided into; a run cut short at the end of a document keeps
// the full width. Pages is set for page-image documents only.
type Request struct {
	Seq       uint64
	Kind      content.Kind
	Title     string
	Columns   int
	Slots     []Slot
	Pages     pages.Provider
	Transform Transform
	CenterDot bool
	Guides    []Guide
	Corners   []CornerDot
}

// Empty reports a request with nothing to show.
func (r Request) Empty() bool { return len(r.Slots) == 0 }

// Units lists the unit indices in slot order.
func (r Request) Units() []int {
	out := make([]int, len(r.Slots))
	for i, s := range r.Slots {
		out[i] = s.Unit
	}
	return out
}
