package ai

import (
	"encoding/json"
	stderrors "errors"
	"strings"
	"unicode/utf8"

	"resumeparser/internal/errors"
)

var (
	errNoObject   = stderrors.New("reply contains no JSON object")
	errUnbalanced = stderrors.New("reply JSON object is not closed")
	errNotObject  = stderrors.New("reply JSON is not an object")
)

// DecodeReply turns a model reply into a JSON object. It tolerates markdown
// code fences, prose around the object, invalid UTF-8, raw control characters
// inside strings and trailing commas.
func DecodeReply(reply string) (map[string]any, error) {
	obj, err := firstObject(stripCodeFences(reply))
	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeAIResponseParse, "failed to locate JSON in AI reply", err)
	}

	var v any
	if err := json.Unmarshal([]byte(sanitizeJSON(obj)), &v); err != nil {
		return nil, errors.NewAIError(errors.ErrCodeAIResponseParse, "failed to decode AI reply", err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, errors.NewAIError(errors.ErrCodeAIResponseParse, "failed to decode AI reply", errNotObject)
	}
	return m, nil
}

// stripCodeFences removes a surrounding ``` or ```json block
func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	// Skip a language identifier on the fence line
	if idx := strings.Index(text, "\n"); idx >= 0 {
		first := text[:idx]
		if len(first) < 20 && !strings.Contains(first, " ") && !strings.Contains(first, "{") {
			text = text[idx+1:]
		}
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// firstObject returns the first balanced top-level {...} in s, honoring string
// literals. Bracketed prose is skipped, but an object nested in a top-level
// array means the reply is a list and is rejected.
func firstObject(s string) (string, error) {
	for i := 0; i < len(s); {
		j := strings.IndexAny(s[i:], "{[")
		if j < 0 {
			return "", errNoObject
		}
		start := i + j
		end, closed := closingBracket(s, start)
		if s[start] == '{' {
			if !closed {
				return "", errUnbalanced
			}
			return s[start : end+1], nil
		}
		if strings.IndexByte(s[start:end], '{') >= 0 {
			return "", errNotObject
		}
		i = end + 1
	}
	return "", errNoObject
}

// closingBracket finds the bracket closing the one at s[start]. When the
// value never closes it returns len(s) and false.
func closingBracket(s string, start int) (int, bool) {
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return len(s), false
}

// sanitizeJSON forces valid UTF-8, escapes control characters inside strings,
// drops them elsewhere and removes trailing commas before } or ].
func sanitizeJSON(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}

	var b strings.Builder
	b.Grow(len(s))
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
				b.WriteByte(c)
			case c == '\\':
				escaped = true
				b.WriteByte(c)
			case c == '"':
				inString = false
				b.WriteByte(c)
			case c == '\n':
				b.WriteString(`\n`)
			case c == '\t':
				b.WriteString(`\t`)
			case c == '\r':
				b.WriteString(`\r`)
			case c < 0x20 || c == 0x7f:
				// dropped
			default:
				b.WriteByte(c)
			}
			continue
		}

		switch {
		case c == '"':
			inString = true
			b.WriteByte(c)
		case c == ',':
			if next := nextNonSpace(s, i+1); next == '}' || next == ']' {
				continue
			}
			b.WriteByte(c)
		case c == '\n' || c == '\t' || c == '\r' || c == ' ':
			b.WriteByte(c)
		case c < 0x20 || c == 0x7f:
			// dropped
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func nextNonSpace(s string, from int) byte {
	for i := from; i < len(s); i++ {
		switch s[i] {
		case ' ', '\n', '\t', '\r':
			continue
		}
		return s[i]
	}
	return 0
}
