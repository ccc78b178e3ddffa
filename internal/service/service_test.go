package service

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photoreader/internal/content"
	"photoreader/internal/extract"
	"photoreader/internal/pages"
)

type memStore struct {
	saved [][]string
	init  []string
}

func (m *memStore) SaveRecent(paths []string) error {
	m.saved = append(m.saved, append([]string(nil), paths...))
	return nil
}

func (m *memStore) LoadRecent() []string { return m.init }

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.White)
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

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

func TestOpenText(t *testing.T) {
	store := &memStore{}
	s := NewService(Options{Store: store})
	path := writeFile(t, t.TempDir(), "notes.txt", []byte("one two  three\nfour"))

	l, err := s.Open(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, extract.FormatText, l.Format)
	assert.Equal(t, content.KindWordStream, l.Document.Kind())
	assert.Equal(t, "notes", l.Document.Title())
	assert.Equal(t, 4, l.Document.UnitCount())
	assert.Nil(t, l.Pages)
	assert.NotEqual(t, uuid.Nil, l.ID)

	require.Len(t, store.saved, 1)
	assert.Equal(t, []string{path}, store.saved[0])
	assert.Equal(t, []string{path}, s.Recent())
}

func TestOpenEmptyText(t *testing.T) {
	s := NewService(Options{})
	path := writeFile(t, t.TempDir(), "empty.txt", []byte("  \n "))

	_, err := s.Open(context.Background(), path)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.ErrorIs(t, err, ErrNoUnits)
	assert.Empty(t, s.Recent())
}

func TestOpenDirectory(t *testing.T) {
	dir := t.TempDir()
	img := pngBytes(t, 4, 3)
	writeFile(t, dir, "page10.png", img)
	writeFile(t, dir, "page2.png", img)
	writeFile(t, dir, "readme.md", []byte("skip"))

	s := NewService(Options{})
	l, err := s.Open(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, extract.FormatDirectory, l.Format)
	assert.Equal(t, content.KindImagePaged, l.Document.Kind())
	require.NotNil(t, l.Pages)
	assert.Equal(t, 2, l.Pages.UnitCount())
	assert.Equal(t, "page2.png", l.Pages.Name(1))

	sz, err := l.Pages.UnitSize(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(4, 3), sz)
}

func TestOpenEmptyDirectory(t *testing.T) {
	s := NewService(Options{})
	_, err := s.Open(context.Background(), t.TempDir())
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, extract.FormatDirectory, le.Format)
	assert.ErrorIs(t, err, pages.ErrNoPages)
}

func TestOpenArchiveAndImage(t *testing.T) {
	img := pngBytes(t, 2, 2)
	s := NewService(Options{})

	l, err := s.OpenBytes(context.Background(), "comic.cbz", zipBytes(t, map[string][]byte{
		"b/3.png": img, "b/1.png": img, "b/2.png": img, "notes.txt": []byte("x"),
	}))
	require.NoError(t, err)
	assert.Equal(t, extract.FormatArchive, l.Format)
	assert.Equal(t, 3, l.Document.UnitCount())
	assert.Equal(t, "1.png", l.Pages.Name(1))

	l, err = s.OpenBytes(context.Background(), "cover", img)
	require.NoError(t, err)
	assert.Equal(t, extract.FormatImage, l.Format, "sniffed from content")
	assert.Equal(t, 1, l.Document.UnitCount())
	assert.Empty(t, s.Recent(), "in-memory documents are not remembered")
}

func TestOpenDOCX(t *testing.T) {
	body := strings.Repeat("<w:p><w:r><w:t>A long enough paragraph for the reader to page through.</w:t></w:r></w:p>", 4)
	data := zipBytes(t, map[string][]byte{
		"word/document.xml": []byte(`<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body + `</w:body></w:document>`),
	})

	s := NewService(Options{})
	l, err := s.OpenBytes(context.Background(), "Report.docx", data)
	require.NoError(t, err)
	assert.Equal(t, content.KindTextPaged, l.Document.Kind())
	assert.Equal(t, "Report", l.Document.Title())
	assert.GreaterOrEqual(t, l.Document.UnitCount(), 1)

	tp, ok := l.Document.(*content.TextPaged)
	require.True(t, ok)
	assert.Contains(t, tp.PlainText(), "page through")
}

func TestOpenFailures(t *testing.T) {
	s := NewService(Options{})

	_, err := s.OpenBytes(context.Background(), "broken.docx", []byte("not a zip"))
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, extract.FormatDOCX, le.Format)
	assert.Contains(t, err.Error(), "broken.docx as docx")

	_, err = s.OpenBytes(context.Background(), "blob.bin", []byte{0xff, 0xfe, 0x00, 0x81})
	assert.ErrorIs(t, err, extract.ErrUnsupportedFormat)

	_, err = s.Open(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	require.ErrorAs(t, err, &le)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.OpenBytes(ctx, "a.txt", []byte("words here"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRecentList(t *testing.T) {
	store := &memStore{init: []string{"/old/a.txt", "/old/b.txt"}}
	s := NewService(Options{Store: store, RecentCapacity: 2})
	assert.Equal(t, []string{"/old/a.txt", "/old/b.txt"}, s.Recent())

	path := writeFile(t, t.TempDir(), "c.txt", []byte("hello"))
	_, err := s.Open(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{path, "/old/a.txt"}, s.Recent())

	s.ForgetRecent("/old/a.txt")
	assert.Equal(t, []string{path}, s.Recent())

	s.ClearRecent()
	assert.Empty(t, s.Recent())
	assert.Empty(t, store.saved[len(store.saved)-1])
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "book", Title("/x/y/book.epub"))
	assert.Equal(t, ".hidden", Title(".hidden"))
	assert.Equal(t, "plain", Title("plain"))
}
