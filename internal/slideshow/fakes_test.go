package slideshow

import (
	"context"
	"image"

	"photoreader/internal/content"
	"photoreader/internal/pages"
)

type fakePages int

func (f fakePages) UnitCount() int { return int(f) }
func (f fakePages) UnitSize(context.Context, int) (image.Point, error) {
	return image.Pt(100, 140), nil
}
func (f fakePages) RenderUnit(context.Context, int, float64) (pages.Surface, error) {
	return pages.Surface{}, nil
}

func pagedDoc(n int) content.Document {
	return content.NewImagePaged("scan", fakePages(n))
}
