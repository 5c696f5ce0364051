package common

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeparser/internal/ingest"
	"resumeparser/internal/types"
)

func echoParse(_ context.Context, in types.ParseResumeInput) types.ParseResult {
	return types.ParseResult{Success: true, SourceName: in.SourceName, AIUsed: in.UseAI, Data: types.NewParsedResume()}
}

func TestParseAllKeepsOrderAndBoundsConcurrency(t *testing.T) {
	docs := make([]ingest.Document, 10)
	for i := range docs {
		docs[i] = ingest.Document{Name: string(rune('a' + i))}
	}

	var inFlight, peak atomic.Int32
	parse := func(ctx context.Context, in types.ParseResumeInput) types.ParseResult {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return echoParse(ctx, in)
	}

	results, err := ParseAll(context.Background(), docs, true, 3, parse)
	require.NoError(t, err)
	require.Len(t, results, len(docs))
	for i, r := range results {
		assert.Equal(t, docs[i].Name, r.SourceName)
		assert.True(t, r.AIUsed)
	}
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestParseAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ParseAll(ctx, []ingest.Document{{Name: "a"}}, false, 0, echoParse)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunParseCommandWritesOutput(t *testing.T) {
	dir := t.TempDir()
	in1 := filepath.Join(dir, "one.txt")
	in2 := filepath.Join(dir, "two.html")
	require.NoError(t, os.WriteFile(in1, []byte("John Smith"), 0o600))
	require.NoError(t, os.WriteFile(in2, []byte("<p>Jane Doe</p>"), 0o600))

	t.Run("single file writes one object", func(t *testing.T) {
		out := filepath.Join(dir, "out", "one.json")
		cfg := BatchConfig{CommandConfig: CommandConfig{OutputFile: out, OutputFormat: "json"}, Concurrency: 2}
		require.NoError(t, RunParseCommand(context.Background(), nil, cfg, []string{in1}, echoParse))

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		var r types.ParseResult
		require.NoError(t, json.Unmarshal(data, &r))
		assert.Equal(t, in1, r.SourceName)
	})

	t.Run("several files write a list", func(t *testing.T) {
		out := filepath.Join(dir, "all.json")
		cfg := BatchConfig{CommandConfig: CommandConfig{OutputFile: out, OutputFormat: "json"}, Concurrency: 2}
		require.NoError(t, RunParseCommand(context.Background(), nil, cfg, []string{in1, in2}, echoParse))

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		var rs []types.ParseResult
		require.NoError(t, json.Unmarshal(data, &rs))
		require.Len(t, rs, 2)
		assert.Equal(t, in2, rs[1].SourceName)
	})

	t.Run("unsupported input fails before parsing", func(t *testing.T) {
		pdf := filepath.Join(dir, "cv.pdf")
		require.NoError(t, os.WriteFile(pdf, []byte("%PDF"), 0o600))
		called := false
		parse := func(ctx context.Context, in types.ParseResumeInput) types.ParseResult {
			called = true
			return echoParse(ctx, in)
		}
		err := RunParseCommand(context.Background(), nil, BatchConfig{CommandConfig: CommandConfig{OutputFormat: "json"}}, []string{in1, pdf}, parse)
		assert.Error(t, err)
		assert.False(t, called)
	})
}

func TestOutputHandlerStdout(t *testing.T) {
	var buf bytes.Buffer
	h := NewOutputHandler(nil).WithWriter(&buf)
	require.NoError(t, h.HandleOutput(map[string]int{"a": 1}, CommandConfig{OutputFormat: "json"}))
	assert.JSONEq(t, `{"a":1}`, buf.String())

	err := h.HandleOutput(map[string]int{"a": 1}, CommandConfig{OutputFormat: "xml"})
	assert.Error(t, err)
}
