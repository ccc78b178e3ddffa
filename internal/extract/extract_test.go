package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zipOf(t *testing.T, files [][2]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.Create(f[0])
		require.NoError(t, err)
		_, err = w.Write([]byte(f[1]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

const lorem = "The quick brown fox jumps over the lazy dog while the patient reader keeps turning pages without rest."

func docxOf(t *testing.T, body string) []byte {
	return zipOf(t, [][2]string{
		{"[Content_Types].xml", `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`},
		{"word/document.xml", `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body + `</w:body></w:document>`},
	})
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		head []byte
		want Format
	}{
		{"notes.TXT", nil, FormatText},
		{"report.docx", nil, FormatDOCX},
		{"book.epub", nil, FormatEPUB},
		{"book.mobi", nil, FormatMOBI},
		{"comic.cbz", nil, FormatArchive},
		{"page.webp", nil, FormatImage},
		{"blob", nil, FormatUnknown},
		{"blob", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), FormatImage},
		{"blob", []byte("just some words"), FormatText},
		{"blob", []byte{0xff, 0xfe, 0x00, 0xd8, 0x01}, FormatUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Detect(tt.name, tt.head), tt.name)
	}
}

func TestDecodeText(t *testing.T) {
	assert.Equal(t, "héllo", DecodeText([]byte("\xEF\xBB\xBFhéllo")))
	// windows-1252 / latin-1 bytes for "café"
	assert.Equal(t, "café", DecodeText([]byte{'c', 'a', 'f', 0xE9}))
}

func TestDOCX(t *testing.T) {
	body := `<w:p><w:pPr><w:pStyle w:val="Heading2"/></w:pPr><w:r><w:t>Intro</w:t></w:r></w:p>
<w:p><w:r><w:t>Hello </w:t></w:r><w:r><w:t>world</w:t><w:tab/><w:t>&amp; more</w:t></w:r></w:p>
<w:p></w:p>
<w:tbl><w:tr><w:tc><w:p><w:r><w:t>cell</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`
	res, err := DOCX{}.Extract(context.Background(), docxOf(t, body))
	require.NoError(t, err)
	assert.Equal(t, "<h2>Intro</h2><p>Hello world\t&amp; more</p><p>cell</p>", res.HTML)
	assert.Contains(t, res.PlainText, "Hello world")
}

func TestDOCXMissingBody(t *testing.T) {
	_, err := DOCX{}.Extract(context.Background(), zipOf(t, [][2]string{{"other.xml", "<x/>"}}))
	assert.Error(t, err)
	_, err = DOCX{}.Extract(context.Background(), []byte("not a zip"))
	assert.Error(t, err)
}

func epubOf(t *testing.T, chapters ...string) []byte {
	files := [][2]string{
		{"mimetype", "application/epub+zip"},
		{"META-INF/container.xml", `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
<rootfiles><rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/></rootfiles></container>`},
	}
	var manifest, spine strings.Builder
	for i, ch := range chapters {
		id := string(rune('a' + i))
		manifest.WriteString(`<item id="` + id + `" href="text/ch` + id + `.xhtml" media-type="application/xhtml+xml"/>`)
		spine.WriteString(`<itemref idref="` + id + `"/>`)
		files = append(files, [2]string{"OEBPS/text/ch" + id + ".xhtml",
			`<?xml version="1.0"?><html xmlns="http://www.w3.org/1999/xhtml"><head><title>x</title></head><body>` + ch + `</body></html>`})
	}
	files = append(files, [2]string{"OEBPS/content.opf", `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0"><manifest>` + manifest.String() +
		`</manifest><spine>` + spine.String() + `</spine></package>`})
	return zipOf(t, files)
}

func TestEPUBFollowsSpine(t *testing.T) {
	data := epubOf(t, "<h1>One</h1><p>"+lorem+"</p>", "<h1>Two</h1><p>"+lorem+"</p>")
	res, err := EPUB{}.Extract(context.Background(), data)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.HTML, "<h2>One</h2><p>The quick"))
	assert.Less(t, strings.Index(res.HTML, "One"), strings.Index(res.HTML, "Two"))
}

func TestEPUBTooShort(t *testing.T) {
	_, err := EPUB{}.Extract(context.Background(), epubOf(t, "<p>tiny</p>"))
	var ee *ExtractionError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, FormatEPUB, ee.Format)
	assert.Equal(t, MinEPUBText, ee.Minimum)
}

func TestEPUBFallsBackToMining(t *testing.T) {
	raw := []byte("garbage<body><p>" + lorem + "</p><p>" + lorem + "</p></body>garbage")
	res, err := EPUB{}.Extract(context.Background(), raw)
	require.NoError(t, err)
	assert.Contains(t, res.PlainText, "quick brown fox")
}

func TestMOBI(t *testing.T) {
	var raw bytes.Buffer
	raw.Write([]byte{0, 1, 2, 0xff, 0xfe})
	raw.WriteString("Chapter 1 " + lorem + " " + lorem)
	raw.Write([]byte{0, 0, 0x9c})
	raw.WriteString("Chapter 2 " + lorem)

	res, err := MOBI{}.Extract(context.Background(), raw.Bytes())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(res.PlainText), MinMOBIText)
	assert.NotContains(t, res.PlainText, "\x00")
	assert.True(t, strings.HasPrefix(res.HTML, "<p>"))
}

func TestMOBITooShort(t *testing.T) {
	_, err := MOBI{}.Extract(context.Background(), []byte("\x00\x01 Short text only."))
	var ee *ExtractionError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, MinMOBIText, ee.Minimum)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(120)
	assert.True(t, r.Supports(FormatDOCX))
	assert.False(t, r.Supports(FormatText))

	_, err := r.Extract(context.Background(), FormatText, nil)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	body := ""
	for range 4 {
		body += "<w:p><w:r><w:t>" + lorem + "</w:t></w:r></w:p>"
	}
	res, err := r.Extract(context.Background(), FormatDOCX, docxOf(t, body))
	require.NoError(t, err)
	assert.Len(t, res.Pages, 4)

	_, err = r.Extract(context.Background(), FormatDOCX, docxOf(t, "<w:p><w:r><w:t>short</w:t></w:r></w:p>"))
	var ee *ExtractionError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, MinBookText, ee.Minimum)
}
