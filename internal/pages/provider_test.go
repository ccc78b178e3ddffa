package pages

import (
	"archive/zip"
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func zipBytes(t *testing.T, files map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestFromDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "p10.png"), pngBytes(t, 10, 20), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "p2.png"), pngBytes(t, 40, 30), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("hello"), 0o644))

	set, err := FromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, set.UnitCount())
	assert.Equal(t, "p2.png", set.Name(1))
	assert.Equal(t, "p10.png", set.Name(2))

	sz, err := set.UnitSize(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(40, 30), sz)
}

func TestFromDirEmpty(t *testing.T) {
	_, err := FromDir(t.TempDir())
	assert.ErrorIs(t, err, ErrNoPages)
}

func TestFromZip(t *testing.T) {
	data := zipBytes(t, map[string][]byte{
		"ch1/page11.png": pngBytes(t, 8, 8),
		"ch1/page9.png":  pngBytes(t, 16, 4),
		"info.txt":       []byte("not a page"),
	})
	set, err := FromZip(data)
	require.NoError(t, err)
	require.Equal(t, 2, set.UnitCount())
	assert.Equal(t, "page9.png", set.Name(1))

	s, err := set.RenderUnit(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 32, s.Width)
	assert.Equal(t, 8, s.Height)
	assert.Equal(t, 32, s.Image.Bounds().Dx())
}

func TestFromZipRejectsTraversal(t *testing.T) {
	data := zipBytes(t, map[string][]byte{"../evil.png": pngBytes(t, 2, 2)})
	_, err := FromZip(data)
	assert.Error(t, err)
}

func TestRenderUnitErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "broken.png")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0o644))
	set, err := FromFiles(bad)
	require.NoError(t, err)

	_, err = set.RenderUnit(context.Background(), 1, 1)
	assert.Error(t, err)
	_, err = set.RenderUnit(context.Background(), 2, 1)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = set.RenderUnit(ctx, 1, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSVGPage(t *testing.T) {
	dir := t.TempDir()
	svg := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 50" width="100" height="50">
<rect x="0" y="0" width="100" height="50" fill="#000"/></svg>`
	p := filepath.Join(dir, "cover.svg")
	require.NoError(t, os.WriteFile(p, []byte(svg), 0o644))
	set, err := FromFiles(p)
	require.NoError(t, err)

	sz, err := set.UnitSize(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(100, 50), sz)

	s, err := set.RenderUnit(context.Background(), 1, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 50, s.Width)
	assert.Equal(t, 25, s.Height)
}

func TestInfo(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "scan.png")
	data := pngBytes(t, 12, 7)
	require.NoError(t, os.WriteFile(p, data, 0o644))
	set, err := FromFiles(p)
	require.NoError(t, err)

	info, err := set.Info(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "scan.png", info.Name)
	assert.Equal(t, 12, info.Width)
	assert.Equal(t, 7, info.Height)
	assert.Equal(t, int64(len(data)), info.Size)
	assert.Empty(t, info.EXIFData)
}
