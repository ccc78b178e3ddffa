package extract

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"

	"photoreader/internal/content"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeText returns plain text as UTF-8. Input that is not valid UTF-8 is
// decoded with the encoding sniffed from its bytes.
func DecodeText(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data)
	}
	enc, _, _ := charset.DetermineEncoding(data, "text/plain")
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return strings.ToValidUTF8(string(data), "�")
	}
	return string(out)
}

func htmlText(fragment string) string {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body})
	if err != nil {
		return fragment
	}
	var sb strings.Builder
	for _, n := range nodes {
		sb.WriteString(content.TextContent(n))
		sb.WriteByte(' ')
	}
	return strings.Join(content.SplitWords(sb.String()), " ")
}
