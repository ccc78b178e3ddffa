// Package pages provides page images for image-paged documents. A page set can
// come from a directory, a list of files or a zip archive (CBZ).
package pages

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"

	"photoreader/internal/scan"
)

// Surface is a rendered page ready for drawing.
type Surface struct {
	Width  int
	Height int
	Image  image.Image
}

// Provider is the page-image collaborator used by the renderer. Indices are
// 1-based.
type Provider interface {
	UnitCount() int
	UnitSize(ctx context.Context, index int) (image.Point, error)
	RenderUnit(ctx context.Context, index int, scale float64) (Surface, error)
}

// ErrNoPages is returned when a source holds no page images.
var ErrNoPages = errors.New("no page images found")

type entry struct {
	name string
	read func() ([]byte, error)
}

// Set is a Provider over an ordered list of page images. Sizes are cached
// after the first lookup.
type Set struct {
	entries []entry

	mu    sync.Mutex
	sizes map[int]image.Point
}

func newSet(entries []entry) (*Set, error) {
	if len(entries) == 0 {
		return nil, ErrNoPages
	}
	return &Set{entries: entries, sizes: make(map[int]image.Point)}, nil
}

// FromDir collects page images found under dir.
func FromDir(dir string) (*Set, error) {
	files, err := scan.Run(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	return FromFiles(files...)
}

// FromFiles uses the given image files in the given order.
func FromFiles(files ...string) (*Set, error) {
	entries := make([]entry, 0, len(files))
	for _, f := range files {
		entries = append(entries, entry{name: f, read: func() ([]byte, error) { return os.ReadFile(f) }})
	}
	return newSet(entries)
}

// FromImage wraps a single image held in memory.
func FromImage(name string, data []byte) (*Set, error) {
	return newSet([]entry{{name: name, read: func() ([]byte, error) { return data, nil }}})
}

// FromZip reads page images from a zip archive held in memory. Entries are
// ordered naturally by name. Entries that could escape the archive root are
// rejected.
func FromZip(data []byte) (*Set, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	byName := make(map[string]*zip.File)
	var names []string
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !scan.IsImage(f.Name) {
			continue
		}
		if !isSafePath(f.Name) {
			return nil, fmt.Errorf("zip entry %q: unsafe path", f.Name)
		}
		byName[f.Name] = f
		names = append(names, f.Name)
	}
	scan.SortNatural(names)

	entries := make([]entry, 0, len(names))
	for _, n := range names {
		f := byName[n]
		entries = append(entries, entry{name: n, read: func() ([]byte, error) {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}})
	}
	return newSet(entries)
}

func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}

func (s *Set) UnitCount() int { return len(s.entries) }

// Name returns the base name of the page at index.
func (s *Set) Name(index int) string {
	if index < 1 || index > len(s.entries) {
		return ""
	}
	return filepath.Base(s.entries[index-1].name)
}

func (s *Set) load(ctx context.Context, index int) (string, []byte, error) {
	if index < 1 || index > len(s.entries) {
		return "", nil, fmt.Errorf("page %d of %d does not exist", index, len(s.entries))
	}
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}
	e := s.entries[index-1]
	data, err := e.read()
	if err != nil {
		return "", nil, fmt.Errorf("failed to read page %d (%s): %w", index, e.name, err)
	}
	return e.name, data, nil
}

// UnitSize returns the natural pixel size of a page without decoding it fully.
func (s *Set) UnitSize(ctx context.Context, index int) (image.Point, error) {
	s.mu.Lock()
	sz, ok := s.sizes[index]
	s.mu.Unlock()
	if ok {
		return sz, nil
	}

	name, data, err := s.load(ctx, index)
	if err != nil {
		return image.Point{}, err
	}
	sz, err = decodeSize(name, data)
	if err != nil {
		return image.Point{}, fmt.Errorf("failed to size page %d: %w", index, err)
	}

	s.mu.Lock()
	s.sizes[index] = sz
	s.mu.Unlock()
	return sz, nil
}

// RenderUnit decodes a page and scales it by scale.
func (s *Set) RenderUnit(ctx context.Context, index int, scale float64) (Surface, error) {
	name, data, err := s.load(ctx, index)
	if err != nil {
		return Surface{}, err
	}
	if scale <= 0 {
		scale = 1
	}
	img, err := decode(name, data, scale)
	if err != nil {
		return Surface{}, fmt.Errorf("failed to decode page %d: %w", index, err)
	}
	if err := ctx.Err(); err != nil {
		return Surface{}, err
	}

	b := img.Bounds()
	w := max(int(float64(b.Dx())*scale+0.5), 1)
	h := max(int(float64(b.Dy())*scale+0.5), 1)
	if isSVG(name) {
		// already rasterized at the target size
		w, h = b.Dx(), b.Dy()
	} else if w != b.Dx() || h != b.Dy() {
		img = imaging.Resize(img, w, h, imaging.Lanczos)
	}
	return Surface{Width: w, Height: h, Image: img}, nil
}
