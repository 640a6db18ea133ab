package eval

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"KisanGPT/app/configs"
	"KisanGPT/app/models"
	"KisanGPT/app/rag"
)

type mockJSON struct{ mock.Mock }

func (m *mockJSON) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// fastCfg keeps the retry count but removes the waits.
func fastCfg() configs.EvalConfig {
	c := configs.Default().Eval
	c.BackoffSeconds, c.BackoffStepSeconds, c.CooldownSeconds = 0, 0, 0
	return c
}

var rateLimited = fmt.Errorf("%w: http 429", models.ErrRateLimited)

func TestJudgeParsesVerdict(t *testing.T) {
	llm := &mockJSON{}
	llm.On("GenerateJSON", mock.Anything, mock.Anything).
		Return(`{"faithfulness": 1, "relevance": 5, "reason": "grounded"}`, nil).Once()

	v := NewJudge(llm, fastCfg()).Evaluate(context.Background(), "q", "a", "ctx")
	assert.Equal(t, Verdict{Faithfulness: 1, Relevance: 5, Reason: "grounded"}, v)
}

func TestJudgeRetriesOnRateLimit(t *testing.T) {
	llm := &mockJSON{}
	llm.On("GenerateJSON", mock.Anything, mock.Anything).Return("", rateLimited).Twice()
	llm.On("GenerateJSON", mock.Anything, mock.Anything).
		Return(`{"faithfulness": 0, "relevance": 2, "reason": "hallucinated"}`, nil).Once()

	v := NewJudge(llm, fastCfg()).Evaluate(context.Background(), "q", "a", "ctx")
	assert.Equal(t, Verdict{Relevance: 2, Reason: "hallucinated"}, v)
	llm.AssertNumberOfCalls(t, "GenerateJSON", 3)
}

func TestJudgeGivesUpAfterRetries(t *testing.T) {
	llm := &mockJSON{}
	llm.On("GenerateJSON", mock.Anything, mock.Anything).Return("", rateLimited)

	cfg := fastCfg()
	v := NewJudge(llm, cfg).Evaluate(context.Background(), "q", "a", "ctx")
	assert.Equal(t, Verdict{Reason: "Failed after retries"}, v)
	llm.AssertNumberOfCalls(t, "GenerateJSON", cfg.MaxRetries+1)
}

func TestJudgeOtherErrorsAreNotRetried(t *testing.T) {
	cases := []struct {
		name string
		out  string
		err  error
	}{
		{"transport", "", errors.New("dial tcp 10.0.0.1:443: connect: connection refused by the remote host")},
		{"invalid_json", "{oops", nil},
	}
	for _, cse := range cases {
		t.Run(cse.name, func(t *testing.T) {
			llm := &mockJSON{}
			llm.On("GenerateJSON", mock.Anything, mock.Anything).Return(cse.out, cse.err)

			v := NewJudge(llm, fastCfg()).Evaluate(context.Background(), "q", "a", "ctx")
			assert.Zero(t, v.Faithfulness)
			assert.Zero(t, v.Relevance)
			assert.True(t, strings.HasPrefix(v.Reason, "Error: "))
			assert.LessOrEqual(t, len([]rune(v.Reason)), len("Error: ")+50)
			llm.AssertNumberOfCalls(t, "GenerateJSON", 1)
		})
	}
}

func TestJudgeTruncatesContext(t *testing.T) {
	llm := &mockJSON{}
	cfg := fastCfg()
	passages := strings.Repeat("c", cfg.ContextChars) + "OVERFLOW"
	llm.On("GenerateJSON", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "RETRIEVED CONTEXT: "+strings.Repeat("c", cfg.ContextChars)+"...") &&
			!strings.Contains(p, "OVERFLOW")
	})).Return(`{"faithfulness": 1, "relevance": 4, "reason": "ok"}`, nil)

	v := NewJudge(llm, cfg).Evaluate(context.Background(), "q", "a", passages)
	assert.Equal(t, 4, v.Relevance)
}

type fakeRAG struct {
	fail    map[string]bool
	prompts []string
	delay   time.Duration
	starts  []time.Time
	ends    []time.Time
}

func (f *fakeRAG) Retrieve(_ context.Context, query string, retrieveK, rerankK int) ([]rag.ScoredHit, error) {
	f.starts = append(f.starts, time.Now())
	if f.fail[query] {
		f.ends = append(f.ends, time.Now())
		return nil, errors.New("qdrant down")
	}
	return []rag.ScoredHit{
		{Hit: rag.Hit{Payload: rag.Payload{Source: "a.pdf", Text: fmt.Sprintf("k1=%d", retrieveK)}}, RerankScore: 2},
		{Hit: rag.Hit{Payload: rag.Payload{Source: "b.pdf", Text: fmt.Sprintf("k2=%d", rerankK)}}, RerankScore: 1},
	}, nil
}

func (f *fakeRAG) Generate(_ context.Context, prompt string) string {
	time.Sleep(f.delay)
	f.prompts = append(f.prompts, prompt)
	f.ends = append(f.ends, time.Now())
	return "answer"
}

type recordingGrader struct {
	passages []string
}

func (g *recordingGrader) Evaluate(_ context.Context, _, answer, passages string) Verdict {
	g.passages = append(g.passages, passages)
	return Verdict{Faithfulness: 1, Relevance: len(answer) - 1, Reason: "fine"}
}

func TestHarnessRun(t *testing.T) {
	r := &fakeRAG{fail: map[string]bool{DefaultDataset[1].Question: true}}
	g := &recordingGrader{}
	h := NewHarness(r, g, fastCfg(), nil)

	report, err := h.Run(context.Background(), DefaultDataset)
	require.NoError(t, err)
	require.Len(t, report.Rows, len(DefaultDataset))
	assert.NotEmpty(t, report.RunID)

	assert.Equal(t, Row{Query: DefaultDataset[0].Question, Type: "PDF_Fact", Faithfulness: 1, Relevance: 5, Reason: "fine"}, report.Rows[0])
	assert.Equal(t, "KCC_Data", report.Rows[1].Type)
	assert.Equal(t, "pipeline failed: qdrant down", report.Rows[1].Reason)
	assert.Zero(t, report.Rows[1].Relevance)

	require.Len(t, g.passages, 4)
	assert.Equal(t, "k1=10\nk2=5", g.passages[0])
	for _, p := range r.prompts {
		assert.NotContains(t, p, "[FERTILIZER DATABASE]")
		assert.Contains(t, p, "entirely in English.")
	}
}

func TestHarnessStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := fastCfg()
	cfg.CooldownSeconds = 15
	h := NewHarness(&fakeRAG{}, &recordingGrader{}, cfg, nil)

	_, err := h.Run(ctx, DefaultDataset)
	assert.Error(t, err)
}

func TestHarnessCoolsDownAfterEachQuestion(t *testing.T) {
	cooldown := 80 * time.Millisecond
	r := &fakeRAG{delay: 2 * cooldown}
	h := NewHarness(r, &recordingGrader{}, fastCfg(), nil)
	h.cooldown = cooldown

	cases := DefaultDataset[:3]
	report, err := h.Run(context.Background(), cases)
	returned := time.Now()
	require.NoError(t, err)
	require.Len(t, report.Rows, len(cases))

	require.Len(t, r.starts, len(cases))
	require.Len(t, r.ends, len(cases))
	for i := 1; i < len(cases); i++ {
		assert.GreaterOrEqual(t, r.starts[i].Sub(r.ends[i-1]), cooldown, "gap before question %d", i)
	}
	// no wait after the last question
	assert.Less(t, returned.Sub(r.ends[len(cases)-1]), cooldown)
}

func TestReportCSVAndTable(t *testing.T) {
	report := &Report{Rows: []Row{
		{Query: "dose for wheat?", Type: "PDF_Fact", Faithfulness: 1, Relevance: 5, Reason: "uses, the table"},
		{Query: "chilli price", Type: "KCC_Data", Faithfulness: 0, Relevance: 2, Reason: "Failed after retries"},
	}}

	path := filepath.Join(t.TempDir(), "rag_evaluation_report.csv")
	require.NoError(t, report.SaveCSV(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Query,Type,Faithfulness,Relevance,Reason\n"+
		"dose for wheat?,PDF_Fact,1,5,\"uses, the table\"\n"+
		"chilli price,KCC_Data,0,2,Failed after retries\n", string(data))

	f, rel := report.Averages()
	assert.Equal(t, 0.5, f)
	assert.Equal(t, 3.5, rel)

	var buf bytes.Buffer
	require.NoError(t, report.PrintTable(&buf))
	assert.Contains(t, buf.String(), "dose for wheat?")
	assert.Contains(t, buf.String(), "3.50")
}
