package extract

import (
	"html"
	"strings"
	"sync"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

var (
	tokenizerOnce sync.Once
	tokenizer     *sentences.DefaultSentenceTokenizer
)

func splitSentences(text string) []string {
	tokenizerOnce.Do(func() {
		// english training data is compiled in; failure means a broken build
		tokenizer, _ = english.NewSentenceTokenizer(nil)
	})
	if tokenizer == nil {
		return strings.SplitAfter(text, ". ")
	}
	var out []string
	for _, s := range tokenizer.Tokenize(text) {
		out = append(out, s.Text)
	}
	return out
}

// paragraphs rebuilds HTML from flat text, one paragraph per sentence.
// Sentences not longer than minLen are dropped as noise.
func paragraphs(text string, minLen int) string {
	var sb strings.Builder
	for _, s := range splitSentences(text) {
		s = strings.TrimSpace(s)
		if len(s) <= minLen {
			continue
		}
		sb.WriteString("<p>")
		sb.WriteString(html.EscapeString(s))
		if !strings.HasSuffix(s, ".") && !strings.HasSuffix(s, "!") && !strings.HasSuffix(s, "?") {
			sb.WriteByte('.')
		}
		sb.WriteString("</p>")
	}
	return sb.String()
}
