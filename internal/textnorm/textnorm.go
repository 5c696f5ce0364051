package textnorm

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Report describes what Normalize had to do to produce valid text
type Report struct {
	Text         string
	Encoding     string // legacy encoding used to decode the input, "" when it was valid UTF-8
	DroppedBytes bool   // invalid bytes were discarded
}

type legacyDecoder struct {
	name string
	enc  encoding.Encoding
}

var legacyDecoders = []legacyDecoder{
	{"windows-1252", charmap.Windows1252},
	{"iso-8859-1", charmap.ISO8859_1},
}

var (
	blankRunRe = regexp.MustCompile(`\n{4,}`)
	hspaceRe   = regexp.MustCompile(`[ \t\p{Zs}]+`)
)

// Normalize converts raw extracted text into clean UTF-8. It never fails:
// unrecoverable bytes are dropped.
func Normalize(raw []byte) string {
	return NormalizeWithReport(raw).Text
}

// NormalizeString is Normalize for text that is already a Go string
func NormalizeString(s string) string {
	return Normalize([]byte(s))
}

// NormalizeWithReport is Normalize plus a description of any decoding fallback
func NormalizeWithReport(raw []byte) Report {
	var rep Report
	text := decode(raw, &rep)

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = stripInvisible(text)

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = hspaceRe.ReplaceAllString(line, " ")
		lines[i] = strings.TrimRight(line, " ")
	}
	text = strings.Join(lines, "\n")
	text = blankRunRe.ReplaceAllString(text, "\n\n\n")

	rep.Text = strings.TrimSpace(text)
	return rep
}

func decode(raw []byte, rep *Report) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	for _, d := range legacyDecoders {
		out, err := d.enc.NewDecoder().Bytes(raw)
		if err != nil {
			continue
		}
		if acceptable(out) {
			rep.Encoding = d.name
			return string(out)
		}
	}
	rep.DroppedBytes = true
	return strings.ToValidUTF8(string(raw), "")
}

// acceptable rejects decodes that produced C1 controls or replacement runes,
// which means the bytes were not really in that encoding.
func acceptable(b []byte) bool {
	if !utf8.Valid(b) {
		return false
	}
	for _, r := range string(b) {
		if (r >= 0x80 && r <= 0x9f) || r == utf8.RuneError {
			return false
		}
	}
	return true
}

func stripInvisible(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case r == utf8.RuneError:
			return -1
		case r >= 0x200b && r <= 0x200d, r == 0x2060, r == 0xfeff:
			return -1
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
}

// Paragraphs splits text on blank lines and joins each paragraph's lines with a space
func Paragraphs(text string) []string {
	var out []string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			out = append(out, strings.Join(cur, " "))
			cur = nil
		}
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		cur = append(cur, line)
	}
	flush()
	return out
}
