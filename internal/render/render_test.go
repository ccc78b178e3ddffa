package render

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photoreader/internal/content"
	"photoreader/internal/display"
	"photoreader/internal/pages"
)

var (
	red   = color.RGBA{R: 255, A: 255}
	green = color.RGBA{G: 255, A: 255}
)

type solidPages struct {
	size   image.Point
	colors map[int]color.Color
	fail   map[int]error
	block  map[int]bool
}

func (s solidPages) UnitCount() int { return len(s.colors) }

func (s solidPages) UnitSize(context.Context, int) (image.Point, error) {
	return s.size, nil
}

func (s solidPages) RenderUnit(ctx context.Context, index int, scale float64) (pages.Surface, error) {
	if s.block[index] {
		<-ctx.Done()
		return pages.Surface{}, ctx.Err()
	}
	if err := s.fail[index]; err != nil {
		return pages.Surface{}, err
	}
	w, h := int(float64(s.size.X)*scale), int(float64(s.size.Y)*scale)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(s.colors[index]), image.Point{}, draw.Src)
	return pages.Surface{Width: w, Height: h, Image: img}, nil
}

func newComposer(t *testing.T) *Composer {
	t.Helper()
	c, err := NewComposer(nil)
	require.NoError(t, err)
	return c
}

func pagedRequest(p pages.Provider, columns int, units ...int) display.Request {
	req := display.Request{Kind: content.KindImagePaged, Columns: columns, Pages: p}
	for _, u := range units {
		req.Slots = append(req.Slots, display.Slot{Unit: u})
	}
	return req
}

func rgba(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

func TestLayout(t *testing.T) {
	rects, scales := layout(image.Pt(300, 100), 3, []image.Point{{50, 100}, {50, 100}})
	assert.Equal(t, []float64{1, 1}, scales)
	assert.Equal(t, image.Rect(100, 0, 150, 100), rects[0])
	assert.Equal(t, image.Rect(150, 0, 200, 100), rects[1])

	rects, scales = layout(image.Pt(200, 100), 1, []image.Point{{400, 100}})
	assert.Equal(t, 0.5, scales[0])
	assert.Equal(t, image.Rect(0, 25, 200, 75), rects[0])
}

func TestComposePagesSideBySide(t *testing.T) {
	p := solidPages{size: image.Pt(100, 100), colors: map[int]color.Color{1: red, 2: green}}
	img, err := newComposer(t).Compose(context.Background(), pagedRequest(p, 2, 1, 2), image.Pt(200, 100))
	require.NoError(t, err)
	assert.Equal(t, red, rgba(img, 50, 50))
	assert.Equal(t, green, rgba(img, 150, 50))
}

func TestComposeFailedPageLeavesSlotEmpty(t *testing.T) {
	p := solidPages{
		size:   image.Pt(100, 100),
		colors: map[int]color.Color{1: red, 2: green},
		fail:   map[int]error{2: errors.New("corrupt page")},
	}
	img, err := newComposer(t).Compose(context.Background(), pagedRequest(p, 2, 1, 2), image.Pt(200, 100))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page 2")
	assert.Equal(t, red, rgba(img, 50, 50))
	assert.Equal(t, color.RGBA{A: 255}, rgba(img, 150, 50))
}

func TestComposeTransformsContentOnly(t *testing.T) {
	left := &halfPages{}
	req := pagedRequest(left, 1, 1)
	req.Transform = display.Transform{Mirror: true}
	req.CenterDot = true

	img, err := newComposer(t).Compose(context.Background(), req, image.Pt(100, 100))
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{A: 255}, rgba(img, 10, 10), "white half moved right")
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, rgba(img, 90, 10))

	dot := rgba(img, 50, 50)
	assert.Greater(t, dot.R, uint8(200))
	assert.Less(t, dot.G, uint8(100))
}

type halfPages struct{}

func (halfPages) UnitCount() int { return 1 }
func (halfPages) UnitSize(context.Context, int) (image.Point, error) {
	return image.Pt(100, 100), nil
}
func (halfPages) RenderUnit(_ context.Context, _ int, _ float64) (pages.Surface, error) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(0, 0, 50, 100), image.NewUniform(color.White), image.Point{}, draw.Src)
	return pages.Surface{Width: 100, Height: 100, Image: img}, nil
}

func TestComposeWord(t *testing.T) {
	req := display.Request{Kind: content.KindWordStream, Columns: 1, Slots: []display.Slot{{Unit: 1, Text: "Hello"}}}
	img, err := newComposer(t).Compose(context.Background(), req, image.Pt(300, 150))
	require.NoError(t, err)

	lit := 0
	for y := range 150 {
		for x := range 300 {
			if rgba(img, x, y).R > 128 {
				lit++
			}
		}
	}
	assert.Positive(t, lit)
}

func TestComposeTextPageAndOverlays(t *testing.T) {
	req := display.Request{
		Kind:    content.KindTextPaged,
		Columns: 1,
		Slots:   []display.Slot{{Unit: 1, Text: "<h1>Title</h1><p>Some body text that wraps around the page.</p>"}},
		Guides:  []display.Guide{{Slot: display.Stage}},
		Corners: []display.CornerDot{{Slot: display.Stage, Corner: display.BottomRight}},
	}
	c := newComposer(t)
	img, err := c.Compose(context.Background(), req, image.Pt(400, 400))
	require.NoError(t, err)

	guide := rgba(img, 200, 399)
	assert.Greater(t, guide.R, uint8(200))
	corner := rgba(img, 392, 392)
	assert.Greater(t, corner.R, uint8(200))
	assert.Less(t, corner.G, uint8(100))
}

func TestComposeEmpty(t *testing.T) {
	img, err := newComposer(t).Compose(context.Background(), display.Request{}, image.Pt(10, 10))
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{A: 255}, rgba(img, 5, 5))
}

func TestWrap(t *testing.T) {
	c := newComposer(t)
	face, err := c.newFace(c.regular, 12)
	require.NoError(t, err)
	defer face.Close()
	lines := wrap(face, "alpha beta gamma delta epsilon", 60)
	assert.Greater(t, len(lines), 1)
	assert.Empty(t, wrap(face, "   ", 60))
}

func TestPipelineDeliversNewestOnly(t *testing.T) {
	p := solidPages{
		size:   image.Pt(10, 10),
		colors: map[int]color.Color{1: red, 2: green},
		block:  map[int]bool{1: true},
	}
	var (
		mu     sync.Mutex
		frames []Frame
	)
	pl := NewPipeline(newComposer(t), image.Pt(10, 10), nil, func(f Frame) {
		mu.Lock()
		frames = append(frames, f)
		mu.Unlock()
	})

	slow := pagedRequest(p, 1, 1)
	slow.Seq = 1
	fast := pagedRequest(p, 1, 2)
	fast.Seq = 2
	pl.Display(slow)
	pl.Display(fast)
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(frames) == 1
	}, time.Second, time.Millisecond)

	pl.Display(slow) // older than what was seen
	pl.Close()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, frames, 1)
	assert.Equal(t, uint64(2), frames[0].Request.Seq)
	assert.Equal(t, green, rgba(frames[0].Image, 5, 5))
}
