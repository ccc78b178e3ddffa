// Package extract turns raw document bytes into text and paginated HTML. Each
// supported format has its own Extractor; the Registry picks one by Format.
package extract

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/h2non/filetype"

	"photoreader/internal/content"
)

// Format is a detected input type.
type Format int

const (
	FormatUnknown Format = iota
	FormatText
	FormatDOCX
	FormatEPUB
	FormatMOBI
	FormatArchive
	FormatImage
	FormatDirectory
)

func (f Format) String() string {
	switch f {
	case FormatText:
		return "txt"
	case FormatDOCX:
		return "docx"
	case FormatEPUB:
		return "epub"
	case FormatMOBI:
		return "mobi"
	case FormatArchive:
		return "archive"
	case FormatImage:
		return "image"
	case FormatDirectory:
		return "directory"
	}
	return "unknown"
}

// Minimum amount of plain text an extraction must produce.
const (
	MinEPUBText = 100
	MinMOBIText = 200
	MinBookText = 50
)

// ErrUnsupportedFormat is returned for inputs no extractor handles.
var ErrUnsupportedFormat = errors.New("unsupported format")

// ExtractionError reports that a document yielded too little readable text.
type ExtractionError struct {
	Format  Format
	Length  int
	Minimum int
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("unable to extract sufficient readable content from %s (got %d characters, need %d); the file may be encrypted, corrupted or in an unsupported layout",
		strings.ToUpper(e.Format.String()), e.Length, e.Minimum)
}

// Result of an extraction. HTML is the whole document, Pages the same content
// split for display.
type Result struct {
	PlainText string
	HTML      string
	Pages     []string
}

// Extractor converts raw bytes of one format.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (Result, error)
}

// Detect decides the format from the file name and, when the extension does
// not say, from the leading bytes.
func Detect(name string, head []byte) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".text":
		return FormatText
	case ".docx":
		return FormatDOCX
	case ".epub":
		return FormatEPUB
	case ".mobi", ".prc", ".azw":
		return FormatMOBI
	case ".cbz", ".zip":
		return FormatArchive
	case ".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".tif", ".tiff", ".svg":
		return FormatImage
	}

	if len(head) == 0 {
		return FormatUnknown
	}
	if filetype.IsImage(head) {
		return FormatImage
	}
	if kind, err := filetype.Match(head); err == nil && kind != filetype.Unknown {
		switch kind.Extension {
		case "docx":
			return FormatDOCX
		case "epub":
			return FormatEPUB
		case "zip":
			return FormatArchive
		}
		return FormatUnknown
	}
	if len(head) > 68 && string(head[60:68]) == "BOOKMOBI" {
		return FormatMOBI
	}
	if utf8.Valid(head) {
		return FormatText
	}
	return FormatUnknown
}

// Registry maps formats to extractors and finishes their results.
type Registry struct {
	extractors map[Format]Extractor
	pageLength int
}

// NewRegistry returns a registry with the built-in e-book extractors.
func NewRegistry(pageLength int) *Registry {
	if pageLength <= 0 {
		pageLength = content.DefaultPageLength
	}
	return &Registry{
		extractors: map[Format]Extractor{
			FormatDOCX: DOCX{},
			FormatEPUB: EPUB{},
			FormatMOBI: MOBI{},
		},
		pageLength: pageLength,
	}
}

// Register replaces the extractor for f.
func (r *Registry) Register(f Format, e Extractor) {
	r.extractors[f] = e
}

// Supports reports whether f has an extractor.
func (r *Registry) Supports(f Format) bool {
	_, ok := r.extractors[f]
	return ok
}

// Extract runs the extractor for f, checks the overall text minimum and
// splits the HTML into pages.
func (r *Registry) Extract(ctx context.Context, f Format, data []byte) (Result, error) {
	ex, ok := r.extractors[f]
	if !ok {
		return Result{}, fmt.Errorf("%s: %w", f, ErrUnsupportedFormat)
	}
	res, err := ex.Extract(ctx, data)
	if err != nil {
		return Result{}, err
	}
	if res.PlainText == "" && res.HTML != "" {
		res.PlainText = htmlText(res.HTML)
	}
	if n := utf8.RuneCountInString(res.PlainText); res.HTML == "" || n < MinBookText {
		return Result{}, &ExtractionError{Format: f, Length: n, Minimum: MinBookText}
	}
	res.Pages = content.SplitPages(res.HTML, r.pageLength)
	return res, nil
}
