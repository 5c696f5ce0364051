package ai

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeparser/internal/errors"
)

type fakeProvider struct {
	reply string
	err   error
	delay time.Duration
	calls int
}

func (f *fakeProvider) StructureResume(ctx context.Context, _ string) (string, *TokenUsage, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", nil, ctx.Err()
		}
	}
	if f.err != nil {
		return "", nil, f.err
	}
	return f.reply, &TokenUsage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}, nil
}

func (f *fakeProvider) GetModelInfo(context.Context) *ModelInfo {
	return &ModelInfo{Name: "fake", Available: true}
}

func (f *fakeProvider) Close() error { return nil }

type recordingObserver struct {
	operations []string
	errs       []error
}

func (o *recordingObserver) RecordAIRequest(_ context.Context, operation string, _ time.Duration, _ *TokenUsage, err error) {
	o.operations = append(o.operations, operation)
	o.errs = append(o.errs, err)
}

func TestStructurerSuccess(t *testing.T) {
	provider := &fakeProvider{reply: "```json\n" + `{
		"contact": {"firstName": "Ada", "lastName": "Lovelace"},
		"experience": [{"role": "Analyst", "employer": "Engine Co"}],
		"skills": ["Mathematics"]
	}` + "\n```"}
	observer := &recordingObserver{}

	s := NewStructurer(provider, nil, time.Second, errors.NewNopLogger()).WithObserver(observer)
	r, err := s.Structure(context.Background(), "résumé text")
	require.NoError(t, err)
	require.NotNil(t, r)

	assert.Equal(t, "Ada", r.Contact.FirstName)
	require.Len(t, r.Experiences, 1)
	assert.Equal(t, "Engine Co", r.Experiences[0].Company)
	assert.Equal(t, 1, r.Skills[0].ID)

	assert.Equal(t, []string{"structure"}, observer.operations)
	assert.Nil(t, observer.errs[0])
}

func TestStructurerFailuresYieldNoRecord(t *testing.T) {
	tests := []struct {
		name     string
		provider *fakeProvider
		timeout  time.Duration
		code     string
	}{
		{
			name:     "provider error",
			provider: &fakeProvider{err: errors.NewAIError(errors.ErrCodeAIServiceFailed, "boom", nil)},
			timeout:  time.Second,
			code:     errors.ErrCodeAIServiceFailed,
		},
		{
			name:     "unparseable reply",
			provider: &fakeProvider{reply: "Sorry, I cannot help with that."},
			timeout:  time.Second,
			code:     errors.ErrCodeAIResponseParse,
		},
		{
			name:     "reply is a list",
			provider: &fakeProvider{reply: `[{"name": "x"}]`},
			timeout:  time.Second,
			code:     errors.ErrCodeAIResponseParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStructurer(tt.provider, nil, tt.timeout, nil)
			r, err := s.Structure(context.Background(), "text")
			assert.Nil(t, r)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.CodeOf(err))
			assert.Equal(t, 1, tt.provider.calls, "no retries")
		})
	}
}

func TestStructurerTimeout(t *testing.T) {
	provider := &fakeProvider{reply: `{}`, delay: time.Second}
	s := NewStructurer(provider, nil, 20*time.Millisecond, nil)

	start := time.Now()
	r, err := s.Structure(context.Background(), "text")
	assert.Nil(t, r)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestNilStructurer(t *testing.T) {
	var s *Structurer
	r, err := s.Structure(context.Background(), "text")
	assert.Nil(t, r)
	assert.NoError(t, err)
}
