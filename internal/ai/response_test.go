package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeparser/internal/errors"
)

func TestDecodeReply(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  map[string]any
	}{
		{
			name:  "plain object",
			reply: `{"summary": "Engineer"}`,
			want:  map[string]any{"summary": "Engineer"},
		},
		{
			name:  "json code fence",
			reply: "```json\n{\"summary\": \"Engineer\"}\n```",
			want:  map[string]any{"summary": "Engineer"},
		},
		{
			name:  "prose around object",
			reply: "Here is the result:\n{\"summary\": \"Engineer\"}\nLet me know if you need more.",
			want:  map[string]any{"summary": "Engineer"},
		},
		{
			name:  "trailing commas",
			reply: `{"hobbies": ["chess", "hiking",], "summary": "x",}`,
			want:  map[string]any{"hobbies": []any{"chess", "hiking"}, "summary": "x"},
		},
		{
			name:  "raw newline inside string",
			reply: "{\"summary\": \"line one\nline two\"}",
			want:  map[string]any{"summary": "line one\nline two"},
		},
		{
			name:  "braces inside strings",
			reply: `{"summary": "uses {curly} braces"} trailing }`,
			want:  map[string]any{"summary": "uses {curly} braces"},
		},
		{
			name:  "bracketed prose before object",
			reply: "Result [draft 2]:\n{\"summary\": \"Engineer\"}",
			want:  map[string]any{"summary": "Engineer"},
		},
		{
			name:  "invalid utf8",
			reply: "{\"summary\": \"caf\xff\"}",
			want:  map[string]any{"summary": "caf"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeReply(tt.reply)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeReplyFailures(t *testing.T) {
	for _, reply := range []string{
		"",
		"I could not parse this résumé.",
		`{"summary": "unterminated"`,
		`{"summary": }`,
		`[{"contact": {"firstName": "Zed", "city": "Atlantis"}}]`,
		"```json\n[{\"summary\": \"x\"}]\n```",
		"Here you go: [{\"summary\": \"x\"}, {\"summary\": \"y\"}]",
		`[{"summary": "truncated"`,
	} {
		_, err := DecodeReply(reply)
		require.Error(t, err, reply)
		assert.Equal(t, errors.ErrCodeAIResponseParse, errors.CodeOf(err), reply)
	}
}
