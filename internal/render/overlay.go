package render

import (
	"image"
	"image/color"

	"github.com/srwiley/rasterx"

	"photoreader/internal/display"
)

// drawOverlays draws guides, corner dots and the centre dot on top of the
// content. Overlays ignore the content transform.
func drawOverlays(dst *image.RGBA, req display.Request, slots []image.Rectangle, col color.Color) {
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	radius := max(float64(min(w, h))/100, 4)
	lineW := max(radius/2, 2)

	scanner := rasterx.NewScannerGV(w, h, dst, b)
	filler := rasterx.NewFiller(w, h, scanner)
	fill := func(add func(rasterx.Adder)) {
		filler.Clear()
		filler.SetColor(col)
		add(filler)
		filler.Draw()
	}
	box := func(slot int) image.Rectangle {
		if slot == display.Stage || slot < 0 || slot >= len(slots) {
			return b
		}
		return slots[slot]
	}

	for _, g := range req.Guides {
		r := box(g.Slot)
		x := float64(r.Min.X+r.Max.X) / 2
		fill(func(a rasterx.Adder) {
			rasterx.AddRect(x-lineW/2, float64(r.Min.Y), x+lineW/2, float64(r.Max.Y), 0, a)
		})
	}

	inset := radius * 2
	for _, cd := range req.Corners {
		r := box(cd.Slot)
		x, y := float64(r.Min.X)+inset, float64(r.Min.Y)+inset
		if cd.Corner == display.TopRight || cd.Corner == display.BottomRight {
			x = float64(r.Max.X) - inset
		}
		if cd.Corner == display.BottomLeft || cd.Corner == display.BottomRight {
			y = float64(r.Max.Y) - inset
		}
		fill(func(a rasterx.Adder) { rasterx.AddCircle(x, y, radius, a) })
	}

	if req.CenterDot {
		fill(func(a rasterx.Adder) { rasterx.AddCircle(float64(w)/2, float64(h)/2, radius, a) })
	}
}
