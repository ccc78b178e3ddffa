package pages

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"path/filepath"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	defaultSVGSize = 1024
	maxRasterDim   = 8192
)

func isSVG(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".svg")
}

func decodeSize(name string, data []byte) (image.Point, error) {
	if isSVG(name) {
		icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
		if err != nil {
			return image.Point{}, err
		}
		return svgSize(icon), nil
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return image.Point{}, err
	}
	return image.Pt(cfg.Width, cfg.Height), nil
}

func svgSize(icon *oksvg.SvgIcon) image.Point {
	w := int(math.Ceil(icon.ViewBox.W))
	h := int(math.Ceil(icon.ViewBox.H))
	if w <= 0 {
		w = defaultSVGSize
	}
	if h <= 0 {
		h = defaultSVGSize
	}
	return image.Pt(w, h)
}

// decode returns the page bitmap. Vector pages are rasterized directly at the
// requested scale, bitmaps are returned at natural size.
func decode(name string, data []byte, scale float64) (image.Image, error) {
	if !isSVG(name) {
		img, _, err := image.Decode(bytes.NewReader(data))
		return img, err
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	sz := svgSize(icon)
	w := min(max(int(math.Round(float64(sz.X)*scale)), 1), maxRasterDim)
	h := min(max(int(math.Round(float64(sz.Y)*scale)), 1), maxRasterDim)
	icon.SetTarget(0, 0, float64(w), float64(h))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)
	return dst, nil
}
