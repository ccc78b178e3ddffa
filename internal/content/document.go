// Package content models a loaded document as one of three shapes: page
// images, a flat word stream, or paginated rich text. Callers switch on the
// concrete type once; everything else goes through UnitCount and Unit.
package content

import (
	"errors"
	"fmt"

	"photoreader/internal/pages"
)

// Kind names the document shape.
type Kind int

const (
	KindImagePaged Kind = iota
	KindWordStream
	KindTextPaged
)

func (k Kind) String() string {
	switch k {
	case KindImagePaged:
		return "image-paged"
	case KindWordStream:
		return "word-stream"
	case KindTextPaged:
		return "text-paged"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ErrIndexOutOfRange is returned by Unit for indices outside [1, UnitCount].
var ErrIndexOutOfRange = errors.New("unit index out of range")

// Unit is one displayable item. Text holds a word for word streams and an
// HTML fragment for text pages. Image pages carry only the index.
type Unit struct {
	Index int
	Text  string
}

// Document is implemented by ImagePaged, WordStream and TextPaged only.
type Document interface {
	Kind() Kind
	Title() string
	UnitCount() int
	Unit(index int) (Unit, error)
	document()
}

// ImagePaged is a document made of page images rendered on demand.
type ImagePaged struct {
	title string
	Pages pages.Provider
}

func NewImagePaged(title string, p pages.Provider) *ImagePaged {
	return &ImagePaged{title: title, Pages: p}
}

func (d *ImagePaged) Kind() Kind     { return KindImagePaged }
func (d *ImagePaged) Title() string  { return d.title }
func (d *ImagePaged) UnitCount() int { return d.Pages.UnitCount() }
func (d *ImagePaged) document()      {}

func (d *ImagePaged) Unit(index int) (Unit, error) {
	if index < 1 || index > d.UnitCount() {
		return Unit{}, fmt.Errorf("page %d of %d: %w", index, d.UnitCount(), ErrIndexOutOfRange)
	}
	return Unit{Index: index}, nil
}

// WordStream is plain text shown one word at a time.
type WordStream struct {
	title string
	words []string
}

// NewWordStream splits text on whitespace. Empty tokens are dropped.
func NewWordStream(title, text string) *WordStream {
	return &WordStream{title: title, words: SplitWords(text)}
}

func (d *WordStream) Kind() Kind      { return KindWordStream }
func (d *WordStream) Title() string   { return d.title }
func (d *WordStream) UnitCount() int  { return len(d.words) }
func (d *WordStream) Words() []string { return d.words }
func (d *WordStream) document()       {}

func (d *WordStream) Unit(index int) (Unit, error) {
	if index < 1 || index > len(d.words) {
		return Unit{}, fmt.Errorf("word %d of %d: %w", index, len(d.words), ErrIndexOutOfRange)
	}
	return Unit{Index: index, Text: d.words[index-1]}, nil
}

// TextPaged is rich text already split into HTML page fragments.
type TextPaged struct {
	title     string
	pages     []string
	plainText string
}

// NewTextPaged keeps at least one page even for empty input.
func NewTextPaged(title string, fragments []string, plainText string) *TextPaged {
	if len(fragments) == 0 {
		fragments = []string{""}
	}
	return &TextPaged{title: title, pages: fragments, plainText: plainText}
}

func (d *TextPaged) Kind() Kind        { return KindTextPaged }
func (d *TextPaged) Title() string     { return d.title }
func (d *TextPaged) UnitCount() int    { return len(d.pages) }
func (d *TextPaged) PlainText() string { return d.plainText }
func (d *TextPaged) document()         {}

func (d *TextPaged) Unit(index int) (Unit, error) {
	if index < 1 || index > len(d.pages) {
		return Unit{}, fmt.Errorf("page %d of %d: %w", index, len(d.pages), ErrIndexOutOfRange)
	}
	return Unit{Index: index, Text: d.pages[index-1]}, nil
}

// StepSize is how many units one navigation step covers. Only page images
// are shown several at a time.
func StepSize(doc Document, viewMode int) int {
	if doc == nil || doc.Kind() != KindImagePaged {
		return 1
	}
	return max(viewMode, 1)
}
