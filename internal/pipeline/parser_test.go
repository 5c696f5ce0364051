package pipeline

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeparser/internal/ai"
	"resumeparser/internal/confidence"
	"resumeparser/internal/types"
)

const headedResume = "John Smith\njohn@example.com\n555-123-4567\n\nEXPERIENCE\nSoftware Engineer\nAcme Corp\nJan 2020 - Present\nBuilt internal tools."

type scriptedProvider struct {
	reply string
	err   error
	panic bool
}

func (s *scriptedProvider) StructureResume(context.Context, string) (string, *ai.TokenUsage, error) {
	if s.panic {
		panic("provider exploded")
	}
	return s.reply, nil, s.err
}

func (s *scriptedProvider) GetModelInfo(context.Context) *ai.ModelInfo { return &ai.ModelInfo{} }
func (s *scriptedProvider) Close() error                               { return nil }

type captureRecorder struct {
	mu      sync.Mutex
	results []types.ParseResult
	sizes   []int
}

func (c *captureRecorder) RecordParse(_ context.Context, r *types.ParseResult, n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, *r)
	c.sizes = append(c.sizes, n)
}

type stageRecorder struct {
	captureRecorder
	stages []string
}

func (s *stageRecorder) RecordStage(_ context.Context, stage string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stages = append(s.stages, stage)
}

func withAI(p ai.AIProvider) *ai.Structurer {
	return ai.NewStructurer(p, nil, time.Second, nil)
}

func stripVolatile(r types.ParseResult) types.ParseResult {
	r.ID = ""
	r.DurationMs = 0
	return r
}

func TestParseHeadedExperienceAndContact(t *testing.T) {
	rec := &captureRecorder{}
	res := New(Options{Recorder: rec}).Parse(context.Background(), types.ParseResumeInput{Text: headedResume, SourceName: "a.txt"})

	require.True(t, res.Success)
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, "a.txt", res.SourceName)
	assert.False(t, res.AIUsed)

	assert.Equal(t, "john@example.com", res.Data.Contact.Email)
	require.Len(t, res.Data.Experiences, 1)
	assert.Equal(t, types.Experience{
		ID:          1,
		JobTitle:    "Software Engineer",
		Company:     "Acme Corp",
		StartDate:   "Jan 2020",
		EndDate:     "Present",
		Description: "Built internal tools.",
	}, res.Data.Experiences[0])

	assert.Greater(t, res.Confidence.OverallScore, 0)
	assert.Contains(t, res.Confidence.SectionsFound, confidence.SectionExperience)

	require.Len(t, rec.results, 1)
	assert.Equal(t, res.ID, rec.results[0].ID)
	assert.Equal(t, len(headedResume), rec.sizes[0])
}

func TestParseEmptyInputScoresZero(t *testing.T) {
	res := New(Options{}).Parse(context.Background(), types.ParseResumeInput{Text: ""})
	require.True(t, res.Success)
	assert.Equal(t, 0, res.Confidence.OverallScore)
	assert.NotNil(t, res.Data.Experiences)
}

func TestParseIsDeterministic(t *testing.T) {
	p := New(Options{})
	in := types.ParseResumeInput{Text: headedResume + "\n\nSKILLS\nReact (Advanced), Kubernetes"}

	first := p.Parse(context.Background(), in)
	second := p.Parse(context.Background(), in)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, stripVolatile(first), stripVolatile(second))
}

func TestParseWithoutStructurerMatchesHeuristicOnly(t *testing.T) {
	p := New(Options{})
	ctx := context.Background()

	withFlag := p.Parse(ctx, types.ParseResumeInput{Text: headedResume, UseAI: true})
	without := p.Parse(ctx, types.ParseResumeInput{Text: headedResume})
	assert.False(t, withFlag.AIUsed)
	assert.Equal(t, stripVolatile(without), stripVolatile(withFlag))

	// a failing provider is the same as no provider
	failing := New(Options{Structurer: withAI(&scriptedProvider{reply: "no json here"})})
	res := failing.Parse(ctx, types.ParseResumeInput{Text: headedResume, UseAI: true})
	assert.False(t, res.AIUsed)
	assert.Equal(t, stripVolatile(without), stripVolatile(res))
}

func TestParseMergesAndFiltersAIOutput(t *testing.T) {
	text := headedResume + "\n\nSKILLS\nKubernetes, Terraform"
	provider := &scriptedProvider{reply: `{
		"skills": ["Kubernetes", "555-123-4567"],
		"experience": [
			{"title": "Software Engineer", "employer": "Acme Corp", "start": "January 2020", "end": "current"},
			{"title": "CTO", "employer": "Fabricated LLC"}
		]
	}`}

	res := New(Options{Structurer: withAI(provider)}).Parse(context.Background(), types.ParseResumeInput{Text: text, UseAI: true})

	require.True(t, res.Success)
	assert.True(t, res.AIUsed)
	assert.Equal(t, []types.Skill{{ID: 1, Name: "Kubernetes"}}, res.Data.Skills)

	require.Len(t, res.Data.Experiences, 1)
	assert.Equal(t, "Acme Corp", res.Data.Experiences[0].Company)
	assert.Equal(t, "Jan 2020", res.Data.Experiences[0].StartDate)
	assert.Equal(t, "Present", res.Data.Experiences[0].EndDate)

	assert.Equal(t, 1, res.Dropped["skills"])
	assert.Equal(t, 1, res.Dropped["experiences"])
	// heuristic contact survives an AI record without one
	assert.Equal(t, "john@example.com", res.Data.Contact.Email)
}

func TestParseRecoversFromPanic(t *testing.T) {
	rec := &captureRecorder{}
	p := New(Options{Structurer: withAI(&scriptedProvider{panic: true}), Recorder: rec})

	res := p.Parse(context.Background(), types.ParseResumeInput{Text: headedResume, UseAI: true, SourceName: "x.txt"})

	assert.False(t, res.Success)
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, "x.txt", res.SourceName)
	assert.Equal(t, FailureMessage, res.Error)
	assert.Equal(t, types.NewParsedResume(), res.Data)
	assert.Equal(t, 0, res.Confidence.OverallScore)
	assert.Equal(t, []string{confidence.ManualEntrySuggestion}, res.Confidence.Suggestions)

	require.Len(t, rec.results, 1)
	assert.False(t, rec.results[0].Success)
}

func TestParseConcurrentCallers(t *testing.T) {
	p := New(Options{})
	in := types.ParseResumeInput{Text: headedResume}
	want := stripVolatile(p.Parse(context.Background(), in))

	var wg sync.WaitGroup
	results := make([]types.ParseResult, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = p.Parse(context.Background(), in)
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, want, stripVolatile(r))
	}
}

func TestSections(t *testing.T) {
	sections := New(Options{}).Sections(headedResume)
	require.NotEmpty(t, sections)

	var names []string
	for _, s := range sections {
		names = append(names, s.Name)
	}
	assert.Contains(t, names, "experience")
	assert.Contains(t, names, "contact")
}

func TestParseRecordsStagesInOrder(t *testing.T) {
	tests := []struct {
		name  string
		opts  Options
		useAI bool
		want  []string
	}{
		{
			name: "heuristic only",
			want: []string{"textnorm", "detect", "reclassify", "extract", "evidence", "normalize", "score"},
		},
		{
			name:  "with AI structuring",
			opts:  Options{Structurer: withAI(&scriptedProvider{reply: `{"skills": ["Go"]}`})},
			useAI: true,
			want:  []string{"textnorm", "detect", "reclassify", "extract", "merge", "evidence", "normalize", "score"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &stageRecorder{}
			tt.opts.Recorder = rec
			res := New(tt.opts).Parse(context.Background(), types.ParseResumeInput{Text: headedResume, UseAI: tt.useAI})

			require.True(t, res.Success)
			assert.Equal(t, tt.want, rec.stages)
			assert.Len(t, rec.results, 1)
		})
	}
}
