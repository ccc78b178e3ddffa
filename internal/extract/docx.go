package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/beevik/etree"
)

// DOCX reads the main body part of a Word document. Headings keep their level,
// everything else becomes a paragraph. Tables are flattened row by row.
type DOCX struct{}

func (DOCX) Extract(ctx context.Context, data []byte) (Result, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Result{}, fmt.Errorf("failed to open docx: %w", err)
	}
	body, err := readZipEntry(zr, "word/document.xml")
	if err != nil {
		return Result{}, fmt.Errorf("failed to read docx body: %w", err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return Result{}, fmt.Errorf("failed to parse docx body: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return Result{}, errors.New("docx body has no root element")
	}

	var (
		out   strings.Builder
		plain strings.Builder
	)
	var walk func(el *etree.Element) error
	walk = func(el *etree.Element) error {
		for _, child := range el.ChildElements() {
			if err := ctx.Err(); err != nil {
				return err
			}
			switch child.Tag {
			case "p":
				text := strings.TrimSpace(runText(child))
				if text == "" {
					continue
				}
				tag := "p"
				if lvl := headingLevel(child); lvl > 0 {
					tag = fmt.Sprintf("h%d", lvl)
				}
				fmt.Fprintf(&out, "<%s>%s</%s>", tag, html.EscapeString(text), tag)
				plain.WriteString(text)
				plain.WriteString("\n")
			case "body", "tbl", "tr", "tc", "sdt", "sdtContent":
				if err := walk(child); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := walk(root); err != nil {
		return Result{}, err
	}
	return Result{PlainText: plain.String(), HTML: out.String()}, nil
}

func runText(p *etree.Element) string {
	var sb strings.Builder
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		for _, c := range el.ChildElements() {
			switch c.Tag {
			case "t":
				sb.WriteString(c.Text())
			case "tab":
				sb.WriteByte('\t')
			case "br", "cr":
				sb.WriteByte(' ')
			case "pPr", "rPr", "instrText", "delText":
			default:
				walk(c)
			}
		}
	}
	walk(p)
	return sb.String()
}

func headingLevel(p *etree.Element) int {
	ppr := p.SelectElement("pPr")
	if ppr == nil {
		return 0
	}
	style := ppr.SelectElement("pStyle")
	if style == nil {
		return 0
	}
	val := strings.ToLower(style.SelectAttrValue("val", ""))
	if val == "title" {
		return 1
	}
	if rest, ok := strings.CutPrefix(val, "heading"); ok && len(rest) == 1 && rest[0] >= '1' && rest[0] <= '6' {
		return int(rest[0] - '0')
	}
	return 0
}

func readZipEntry(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%s: %w", name, errMissingEntry)
}

var errMissingEntry = errors.New("entry not found")
