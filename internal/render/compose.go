// Package render turns display requests into bitmaps. The Composer draws a
// single frame; the Pipeline feeds a sink with the newest frame only.
package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"sync"

	"github.com/disintegration/imaging"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"photoreader/internal/content"
	"photoreader/internal/display"
)

// Composer draws frames. It is safe for concurrent use.
type Composer struct {
	log     *zap.Logger
	regular *opentype.Font
	bold    *opentype.Font

	Background color.Color
	Foreground color.Color
	Overlay    color.Color
}

// NewComposer prepares fonts and default colours.
func NewComposer(log *zap.Logger) (*Composer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bold font: %w", err)
	}
	return &Composer{
		log:        log,
		regular:    regular,
		bold:       bold,
		Background: color.Black,
		Foreground: color.White,
		Overlay:    color.RGBA{R: 0xff, G: 0x30, B: 0x30, A: 0xff},
	}, nil
}

// Compose draws req onto a stage of the given size. Units that fail to render
// are logged and left blank; their errors are combined in the returned error
// while the image still holds everything else.
func (c *Composer) Compose(ctx context.Context, req display.Request, size image.Point) (*image.RGBA, error) {
	size.X, size.Y = max(size.X, 1), max(size.Y, 1)
	dst := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c.Background), image.Point{}, draw.Src)
	if req.Empty() {
		return dst, nil
	}

	var (
		rects []image.Rectangle
		err   error
	)
	switch req.Kind {
	case content.KindImagePaged:
		rects, err = c.drawPages(ctx, dst, req)
	case content.KindWordStream:
		rects = []image.Rectangle{dst.Bounds()}
		err = c.drawTransformed(dst, dst.Bounds(), req.Transform, func(slot *image.RGBA) error {
			return c.drawWord(slot, req.Slots[0].Text)
		})
	case content.KindTextPaged:
		rects = []image.Rectangle{dst.Bounds()}
		err = c.drawTransformed(dst, dst.Bounds(), req.Transform, func(slot *image.RGBA) error {
			return c.drawPage(slot, req.Slots[0].Text)
		})
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	drawOverlays(dst, req, rects, c.Overlay)
	return dst, err
}

// layout places page slots side by side, centred as a group. Every page is
// scaled to fit its share of the stage width and the full height.
func layout(stage image.Point, columns int, sizes []image.Point) ([]image.Rectangle, []float64) {
	columns = max(columns, 1)
	rects := make([]image.Rectangle, len(sizes))
	scales := make([]float64, len(sizes))
	colW := float64(stage.X) / float64(columns)

	total := 0
	dims := make([]image.Point, len(sizes))
	for i, sz := range sizes {
		if sz.X <= 0 || sz.Y <= 0 {
			dims[i] = image.Pt(int(colW), stage.Y)
			total += dims[i].X
			continue
		}
		s := min(colW/float64(sz.X), float64(stage.Y)/float64(sz.Y))
		scales[i] = s
		dims[i] = image.Pt(max(int(float64(sz.X)*s+0.5), 1), max(int(float64(sz.Y)*s+0.5), 1))
		total += dims[i].X
	}

	x := (stage.X - total) / 2
	for i, d := range dims {
		y := (stage.Y - d.Y) / 2
		rects[i] = image.Rect(x, y, x+d.X, y+d.Y)
		x += d.X
	}
	return rects, scales
}

func (c *Composer) drawPages(ctx context.Context, dst *image.RGBA, req display.Request) ([]image.Rectangle, error) {
	if req.Pages == nil {
		return nil, fmt.Errorf("request %d carries no page provider", req.Seq)
	}
	sizes := make([]image.Point, len(req.Slots))
	errs := make([]error, len(req.Slots))
	for i, s := range req.Slots {
		sizes[i], errs[i] = req.Pages.UnitSize(ctx, s.Unit)
	}
	rects, scales := layout(dst.Bounds().Size(), req.Columns, sizes)

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for i, s := range req.Slots {
		if errs[i] != nil {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			surface, err := req.Pages.RenderUnit(ctx, s.Unit, scales[i])
			if err != nil {
				errs[i] = err
				return
			}
			img := applyTransform(surface.Image, req.Transform)
			mu.Lock()
			draw.Draw(dst, rects[i], img, img.Bounds().Min, draw.Over)
			mu.Unlock()
		}()
	}
	wg.Wait()

	var err error
	for i, e := range errs {
		if e == nil {
			continue
		}
		if ctx.Err() == nil {
			c.log.Warn("Unable to render page", zap.Int("page", req.Slots[i].Unit), zap.Error(e))
		}
		err = multierr.Append(err, fmt.Errorf("page %d: %w", req.Slots[i].Unit, e))
	}
	return rects, err
}

// drawTransformed lets fn draw into a scratch image, applies the content
// transform and copies the result into r.
func (c *Composer) drawTransformed(dst *image.RGBA, r image.Rectangle, t display.Transform, fn func(*image.RGBA) error) error {
	scratch := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(scratch, scratch.Bounds(), image.NewUniform(c.Background), image.Point{}, draw.Src)
	if err := fn(scratch); err != nil {
		return err
	}
	img := applyTransform(scratch, t)
	draw.Draw(dst, r, img, img.Bounds().Min, draw.Src)
	return nil
}

// applyTransform rotates first, then mirrors.
func applyTransform(img image.Image, t display.Transform) image.Image {
	if t.Rotate {
		img = imaging.Rotate180(img)
	}
	if t.Mirror {
		img = imaging.FlipH(img)
	}
	return img
}

// WritePNG encodes a frame.
func WritePNG(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG)
}
