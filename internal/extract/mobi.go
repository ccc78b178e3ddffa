package extract

import (
	"context"
	"strings"
	"unicode/utf8"

	"photoreader/internal/content"
)

// MOBI mines readable text runs out of a Mobipocket file. Compressed records
// are not decoded, so results vary with the book.
type MOBI struct{}

func (MOBI) Extract(ctx context.Context, data []byte) (Result, error) {
	text := decodeLoose(data)
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	var pieces []string
	pieces = append(pieces, reLongRun.FindAllString(text, -1)...)
	pieces = append(pieces, reMediumRun.FindAllString(text, -1)...)
	pieces = append(pieces, chapters(text)...)

	var kept []string
	for _, p := range pieces {
		if p = strings.TrimSpace(p); len(p) > 30 {
			kept = append(kept, p)
		}
	}
	plain := strings.Join(content.SplitWords(keepLatin(strings.Join(kept, " "))), " ")

	if n := utf8.RuneCountInString(plain); n < MinMOBIText {
		return Result{}, &ExtractionError{Format: FormatMOBI, Length: n, Minimum: MinMOBIText}
	}
	return Result{PlainText: plain, HTML: paragraphs(plain, 15)}, nil
}

// chapters splits text at every "Chapter N" marker. Each piece runs up to the
// next marker or the end of the text.
func chapters(text string) []string {
	idx := reChapter.FindAllStringIndex(text, -1)
	out := make([]string, 0, len(idx))
	for i, loc := range idx {
		end := len(text)
		if i+1 < len(idx) {
			end = idx[i+1][0]
		}
		out = append(out, text[loc[0]:end])
	}
	return out
}

// keepLatin drops everything outside printable ASCII and Latin-1.
func keepLatin(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 0x20 && r <= 0x7E, r >= 0xA0 && r <= 0xFF:
			return r
		case r == '\t' || r == '\n' || r == '\r':
			return ' '
		}
		return -1
	}, s)
}
