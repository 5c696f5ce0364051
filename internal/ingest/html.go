package ingest

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"resumeparser/internal/errors"
)

var (
	// lineTags start a new line
	lineTags = map[string]bool{
		"div": true, "p": true, "tr": true, "dt": true, "dd": true, "address": true,
		"blockquote": true, "pre": true, "figcaption": true, "caption": true,
	}
	// blockTags are separated from their neighbors by a blank line
	blockTags = map[string]bool{
		"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
		"section": true, "article": true, "header": true, "footer": true, "main": true,
		"ul": true, "ol": true, "dl": true, "table": true, "hr": true, "aside": true,
	}
)

// HTMLText extracts the visible text of an HTML document. Headings and
// sections become paragraphs, block elements become lines and list items
// are bulleted, so section detection sees the same layout a reader does.
func HTMLText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", errors.NewValidationError(errors.ErrCodeInvalidFormat, "Failed to parse HTML input", err)
	}
	doc.Find("script, style, noscript, template, head, svg").Remove()

	w := &textWriter{}
	w.walk(doc.Selection)
	return w.String(), nil
}

type textWriter struct {
	b strings.Builder
}

func (w *textWriter) walk(s *goquery.Selection) {
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		name := goquery.NodeName(c)
		switch {
		case name == "#text":
			w.text(c.Text())
		case name == "br":
			w.breakLines(1)
		case name == "li":
			w.breakLines(1)
			w.b.WriteString("• ")
			w.walk(c)
			w.breakLines(1)
		case name == "td" || name == "th":
			w.text(" ")
			w.walk(c)
			w.text(" ")
		case blockTags[name]:
			w.breakLines(2)
			w.walk(c)
			w.breakLines(2)
		case lineTags[name]:
			w.breakLines(1)
			w.walk(c)
			w.breakLines(1)
		default:
			w.walk(c)
		}
	})
}

// text writes s with whitespace runs collapsed to single spaces
func (w *textWriter) text(s string) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		if s != "" {
			w.space()
		}
		return
	}
	if isSpace(s[0]) {
		w.space()
	}
	w.b.WriteString(strings.Join(fields, " "))
	if isSpace(s[len(s)-1]) {
		w.space()
	}
}

func (w *textWriter) space() {
	out := w.b.String()
	if out == "" || strings.HasSuffix(out, " ") || strings.HasSuffix(out, "\n") {
		return
	}
	w.b.WriteByte(' ')
}

// breakLines makes the output end in at least n newlines
func (w *textWriter) breakLines(n int) {
	out := w.b.String()
	if out == "" {
		return
	}
	have := len(out) - len(strings.TrimRight(out, "\n"))
	for ; have < n; have++ {
		w.b.WriteByte('\n')
	}
}

// String trims every line and collapses runs of blank lines
func (w *textWriter) String() string {
	var out []string
	blank := false
	for _, line := range strings.Split(w.b.String(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			blank = len(out) > 0
			continue
		}
		if blank {
			out = append(out, "")
			blank = false
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
