package display

import (
	"photoreader/internal/content"
)

var allCorners = []Corner{TopLeft, TopRight, BottomLeft, BottomRight}

// Build creates the request for position index of doc. For page images the
// view mode decides how many consecutive pages share the stage; the run is cut
// at the last page. Other documents always show a single unit.
func Build(doc content.Document, index int, cfg Config) Request {
	cfg = cfg.Normalize()
	req := Request{
		Columns:   1,
		Transform: Transform{Rotate: cfg.Rotate, Mirror: cfg.Mirror},
		CenterDot: cfg.CenterDot,
	}
	if doc == nil || doc.UnitCount() == 0 {
		return req
	}
	req.Kind = doc.Kind()
	req.Title = doc.Title()

	n := doc.UnitCount()
	index = min(max(index, 1), n)
	if paged, ok := doc.(*content.ImagePaged); ok {
		req.Columns = cfg.ViewMode
		req.Pages = paged.Pages
	}
	for u := index; u < index+req.Columns && u <= n; u++ {
		unit, err := doc.Unit(u)
		if err != nil {
			break
		}
		req.Slots = append(req.Slots, Slot{Unit: u, Text: unit.Text})
	}

	if cfg.GuideLine {
		req.Guides = guides(len(req.Slots))
	}
	if cfg.CornerDots {
		req.Corners = corners(doc.Kind(), cfg.ViewMode, len(req.Slots))
	}
	return req
}

func guides(slots int) []Guide {
	if slots <= 1 {
		return []Guide{{Slot: Stage}}
	}
	out := make([]Guide, slots)
	for i := range out {
		out[i] = Guide{Slot: i}
	}
	return out
}

// corners frames the visible run. A single view gets all four stage corners;
// a multi-page view puts the left corners on the first page and the right
// corners on the last page present.
func corners(kind content.Kind, viewMode, slots int) []CornerDot {
	if kind != content.KindImagePaged || viewMode == 1 {
		out := make([]CornerDot, 0, len(allCorners))
		for _, c := range allCorners {
			out = append(out, CornerDot{Slot: Stage, Corner: c})
		}
		return out
	}
	if slots == 0 {
		return nil
	}
	out := []CornerDot{{Slot: 0, Corner: TopLeft}, {Slot: 0, Corner: BottomLeft}}
	last := -1
	switch {
	case viewMode == 2 && slots >= 2:
		last = 1
	case viewMode == 3 && slots >= 3:
		last = 2
	case viewMode == 3 && slots == 2:
		last = 1
	}
	if last > 0 {
		out = append(out, CornerDot{Slot: last, Corner: TopRight}, CornerDot{Slot: last, Corner: BottomRight})
	}
	return out
}
