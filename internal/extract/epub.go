package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"net/url"
	"path"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/beevik/etree"
	xhtml "golang.org/x/net/html"
	"golang.org/x/text/encoding/charmap"

	"photoreader/internal/content"
)

var errNoSpine = errors.New("epub spine is empty")

// EPUB reads the package document and walks the spine in reading order. When
// the container structure cannot be read it falls back to mining text runs
// out of the raw bytes.
type EPUB struct{}

func (EPUB) Extract(ctx context.Context, data []byte) (Result, error) {
	res, err := epubStructured(ctx, data)
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		res = epubMined(data)
	}
	if n := utf8.RuneCountInString(res.PlainText); n < MinEPUBText {
		return Result{}, &ExtractionError{Format: FormatEPUB, Length: n, Minimum: MinEPUBText}
	}
	return res, nil
}

func epubStructured(ctx context.Context, data []byte) (Result, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Result{}, fmt.Errorf("failed to open epub: %w", err)
	}
	opfPath, err := rootfilePath(zr)
	if err != nil {
		return Result{}, err
	}
	docs, err := spineDocuments(zr, opfPath)
	if err != nil {
		return Result{}, err
	}

	var out, plain strings.Builder
	for _, name := range docs {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		raw, err := readZipEntry(zr, name)
		if err != nil {
			// manifests routinely list missing files
			continue
		}
		for _, b := range bodyBlocks(raw) {
			tag := "p"
			if b.Heading {
				tag = "h2"
			}
			fmt.Fprintf(&out, "<%s>%s</%s>", tag, html.EscapeString(b.Text), tag)
			plain.WriteString(b.Text)
			plain.WriteString("\n")
		}
	}
	return Result{PlainText: plain.String(), HTML: out.String()}, nil
}

func rootfilePath(zr *zip.Reader) (string, error) {
	raw, err := readZipEntry(zr, "META-INF/container.xml")
	if err != nil {
		return "", fmt.Errorf("failed to read epub container: %w", err)
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return "", fmt.Errorf("failed to parse epub container: %w", err)
	}
	for _, rf := range doc.FindElements("//rootfile") {
		mt := rf.SelectAttrValue("media-type", "")
		if p := rf.SelectAttrValue("full-path", ""); p != "" && (mt == "" || mt == "application/oebps-package+xml") {
			return p, nil
		}
	}
	return "", errors.New("epub container names no package document")
}

func spineDocuments(zr *zip.Reader, opfPath string) ([]string, error) {
	raw, err := readZipEntry(zr, opfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read epub package: %w", err)
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, fmt.Errorf("failed to parse epub package: %w", err)
	}

	base := path.Dir(opfPath)
	hrefs := make(map[string]string)
	for _, item := range doc.FindElements("//manifest/item") {
		href := item.SelectAttrValue("href", "")
		if u, err := url.PathUnescape(href); err == nil {
			href = u
		}
		hrefs[item.SelectAttrValue("id", "")] = path.Join(base, href)
	}

	var docs []string
	for _, ref := range doc.FindElements("//spine/itemref") {
		if p, ok := hrefs[ref.SelectAttrValue("idref", "")]; ok {
			docs = append(docs, p)
		}
	}
	if len(docs) == 0 {
		return nil, errNoSpine
	}
	return docs, nil
}

func bodyBlocks(raw []byte) []content.Block {
	root, err := xhtml.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil
	}
	body := findElement(root, "body")
	if body == nil {
		return nil
	}
	var sb strings.Builder
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := xhtml.Render(&sb, c); err != nil {
			return nil
		}
	}
	return content.Blocks(sb.String())
}

func findElement(n *xhtml.Node, tag string) *xhtml.Node {
	if n.Type == xhtml.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

var (
	reParagraph = regexp.MustCompile(`(?is)<p[^>]*>(.*?)</p>`)
	reDiv       = regexp.MustCompile(`(?is)<div[^>]*>(.*?)</div>`)
	reBody      = regexp.MustCompile(`(?is)<body[^>]*>(.*?)</body>`)
	reTags      = regexp.MustCompile(`<[^>]*>`)
	reLongRun   = regexp.MustCompile(`[A-Z][a-zA-Z\s.,!?;:'"()\-—–]{100,}`)
	reMediumRun = regexp.MustCompile(`[a-zA-Z][a-zA-Z\s.,!?;:'"()\-—–]{50,}`)
	reChapter   = regexp.MustCompile(`(?i)chapter\s+\d+`)
)

// epubMined scrapes markup fragments, then long capitalised text runs, out
// of undecoded bytes.
func epubMined(data []byte) Result {
	text := decodeLoose(data)

	var pieces []string
	pieces = append(pieces, reParagraph.FindAllString(text, -1)...)
	pieces = append(pieces, reDiv.FindAllString(text, -1)...)
	pieces = append(pieces, reBody.FindAllString(text, -1)...)
	if len(pieces) == 0 {
		pieces = reLongRun.FindAllString(text, -1)
	}
	if len(pieces) == 0 {
		return Result{}
	}

	joined := strings.Join(pieces, " ")
	plain := strings.Join(content.SplitWords(reTags.ReplaceAllString(joined, " ")), " ")
	htm := joined
	if !strings.Contains(joined, "<p>") {
		htm = paragraphs(plain, 20)
	}
	return Result{PlainText: plain, HTML: htm}
}

// decodeLoose reads bytes as UTF-8 when they are valid and as Latin-1
// otherwise.
func decodeLoose(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return strings.ToValidUTF8(string(data), " ")
	}
	return string(out)
}
