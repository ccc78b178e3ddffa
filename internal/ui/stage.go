package ui

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

// stage shows composed frames and reports clicks and size changes.
type stage struct {
	widget.BaseWidget
	image *canvas.Image

	onPrimary   func()
	onSecondary func()
	onResize    func(fyne.Size)
}

func newStage() *stage {
	s := &stage{image: &canvas.Image{}}
	s.image.FillMode = canvas.ImageFillContain
	s.image.ScaleMode = canvas.ImageScaleFastest
	s.ExtendBaseWidget(s)
	return s
}

func (s *stage) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(s.image)
}

// Tapped is the primary mouse button.
func (s *stage) Tapped(_ *fyne.PointEvent) {
	if s.onPrimary != nil {
		s.onPrimary()
	}
}

// TappedSecondary is the secondary mouse button.
func (s *stage) TappedSecondary(_ *fyne.PointEvent) {
	if s.onSecondary != nil {
		s.onSecondary()
	}
}

func (s *stage) Resize(size fyne.Size) {
	if size == s.Size() {
		return
	}
	s.BaseWidget.Resize(size)
	if s.onResize != nil {
		s.onResize(size)
	}
}

// SetFrame replaces the displayed frame. Must run on the UI goroutine.
func (s *stage) SetFrame(img image.Image) {
	s.image.Image = img
	s.image.Refresh()
}

func (s *stage) Frame() image.Image { return s.image.Image }

// pixelSize converts a widget size to device pixels.
func pixelSize(size fyne.Size, scale float32) image.Point {
	if scale <= 0 {
		scale = 1
	}
	return image.Pt(max(int(size.Width*scale), 1), max(int(size.Height*scale), 1))
}
