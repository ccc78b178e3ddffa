package content

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultPageLength is the soft limit of text characters per page.
const DefaultPageLength = 2000

// SplitWords splits on any run of whitespace and drops empty tokens.
func SplitWords(text string) []string {
	return strings.Fields(text)
}

func bodyContext() *html.Node {
	return &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
}

// SplitPages groups the top-level elements of an HTML fragment into pages of
// at most maxLen text characters. An element longer than maxLen gets a page of
// its own. At least one page is always returned.
func SplitPages(fragment string, maxLen int) []string {
	if maxLen <= 0 {
		maxLen = DefaultPageLength
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), bodyContext())
	if err != nil {
		return []string{fragment}
	}

	var (
		result []string
		cur    bytes.Buffer
		curLen int
	)
	flush := func() {
		if cur.Len() > 0 {
			result = append(result, cur.String())
			cur.Reset()
			curLen = 0
		}
	}
	for _, n := range nodes {
		switch n.Type {
		case html.ElementNode:
		case html.TextNode:
			if strings.TrimSpace(n.Data) == "" {
				continue
			}
			p := &html.Node{Type: html.ElementNode, Data: "p", DataAtom: atom.P}
			p.AppendChild(&html.Node{Type: html.TextNode, Data: strings.TrimSpace(n.Data)})
			n = p
		default:
			continue
		}
		l := utf8.RuneCountInString(TextContent(n))
		if curLen+l > maxLen && cur.Len() > 0 {
			flush()
		}
		if err := html.Render(&cur, n); err != nil {
			continue
		}
		curLen += l
	}
	flush()

	if len(result) == 0 {
		return []string{fragment}
	}
	return result
}

// TextContent concatenates all text below n.
func TextContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// Block is one paragraph-level piece of a text page.
type Block struct {
	Heading bool
	Text    string
}

var headings = map[atom.Atom]bool{
	atom.H1: true, atom.H2: true, atom.H3: true,
	atom.H4: true, atom.H5: true, atom.H6: true,
}

var blocks = map[atom.Atom]bool{
	atom.P: true, atom.Li: true, atom.Blockquote: true,
	atom.Pre: true, atom.Div: true, atom.Tr: true,
}

// Blocks flattens an HTML page fragment into paragraphs for typesetting.
// Whitespace inside a paragraph is collapsed.
func Blocks(fragment string) []Block {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), bodyContext())
	if err != nil {
		return []Block{{Text: strings.Join(SplitWords(fragment), " ")}}
	}

	var out []Block
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (headings[n.DataAtom] || blocks[n.DataAtom]) && !hasBlockChild(n) {
			if text := strings.Join(SplitWords(TextContent(n)), " "); text != "" {
				out = append(out, Block{Heading: headings[n.DataAtom], Text: text})
			}
			return
		}
		if n.Type == html.TextNode {
			if text := strings.Join(SplitWords(n.Data), " "); text != "" {
				out = append(out, Block{Text: text})
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return out
}

func hasBlockChild(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (headings[c.DataAtom] || blocks[c.DataAtom]) {
			return true
		}
	}
	return false
}
