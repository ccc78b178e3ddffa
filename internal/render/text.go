package render

import (
	"fmt"
	"image"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"photoreader/internal/content"
)

func (c *Composer) newFace(f *opentype.Font, size float64) (font.Face, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("failed to create %.1fpt face: %w", size, err)
	}
	return face, nil
}

// drawWord centres a single word, shrinking it to fit the width.
func (c *Composer) drawWord(dst *image.RGBA, word string) error {
	b := dst.Bounds()
	size := max(float64(b.Dy())/5, 8)
	face, err := c.newFace(c.bold, size)
	if err != nil {
		return err
	}
	width := font.MeasureString(face, word).Ceil()
	if limit := b.Dx() * 9 / 10; width > limit && width > 0 {
		face.Close()
		size = max(size*float64(limit)/float64(width), 4)
		if face, err = c.newFace(c.bold, size); err != nil {
			return err
		}
		width = font.MeasureString(face, word).Ceil()
	}
	defer face.Close()

	m := face.Metrics()
	x := (b.Dx() - width) / 2
	y := (b.Dy() + m.Ascent.Ceil() - m.Descent.Ceil()) / 2
	d := font.Drawer{Dst: dst, Src: image.NewUniform(c.Foreground), Face: face, Dot: fixed.P(x, y)}
	d.DrawString(word)
	return nil
}

// drawPage typesets an HTML page fragment as wrapped paragraphs. Text that
// does not fit is clipped at the bottom margin.
func (c *Composer) drawPage(dst *image.RGBA, fragment string) error {
	b := dst.Bounds()
	margin := max(b.Dx()/20, 4)
	size := max(float64(b.Dy())/32, 10)

	body, err := c.newFace(c.regular, size)
	if err != nil {
		return err
	}
	defer body.Close()
	head, err := c.newFace(c.bold, size*1.3)
	if err != nil {
		return err
	}
	defer head.Close()

	src := image.NewUniform(c.Foreground)
	y := margin
	for _, blk := range content.Blocks(fragment) {
		face := body
		if blk.Heading {
			face = head
		}
		m := face.Metrics()
		lineH := (m.Height * 14 / 10).Ceil()
		for _, line := range wrap(face, blk.Text, b.Dx()-2*margin) {
			if y+lineH > b.Dy()-margin {
				return nil
			}
			d := font.Drawer{Dst: dst, Src: src, Face: face, Dot: fixed.P(margin, y+m.Ascent.Ceil())}
			d.DrawString(line)
			y += lineH
		}
		y += lineH / 2
	}
	return nil
}

// wrap breaks text into lines no wider than width. A single word wider than
// the line gets a line of its own.
func wrap(face font.Face, text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var (
		lines []string
		cur   = words[0]
	)
	for _, w := range words[1:] {
		next := cur + " " + w
		if font.MeasureString(face, next).Ceil() > width {
			lines = append(lines, cur)
			cur = w
			continue
		}
		cur = next
	}
	return append(lines, cur)
}
