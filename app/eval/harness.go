package eval

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"KisanGPT/app/chat"
	"KisanGPT/app/configs"
	"KisanGPT/app/rag"
	"KisanGPT/app/utils"
)

// RAG is the part of the chat pipeline the harness drives stage by stage.
type RAG interface {
	Retrieve(ctx context.Context, query string, retrieveK, rerankK int) ([]rag.ScoredHit, error)
	Generate(ctx context.Context, prompt string) string
}

type Grader interface {
	Evaluate(ctx context.Context, query, answer, passages string) Verdict
}

type Harness struct {
	rag      RAG
	judge    Grader
	cfg      configs.EvalConfig
	cooldown time.Duration
	logger   *utils.JobLogger
}

func NewHarness(r RAG, judge Grader, cfg configs.EvalConfig, logger *utils.JobLogger) *Harness {
	if logger == nil {
		logger = utils.DiscardLogger()
	}
	return &Harness{
		rag:      r,
		judge:    judge,
		cfg:      cfg,
		cooldown: cfg.Cooldown(),
		logger:   logger,
	}
}

// Run asks every question in English without the fertilizer block, judges
// the answer against the passages it was given, and waits the full cool-down
// after each question but the last. A question whose retrieval fails still
// gets a row.
func (h *Harness) Run(ctx context.Context, cases []TestCase) (*Report, error) {
	h.logger.Println("👨‍⚖️ Starting RAG evaluation...")
	report := &Report{RunID: uuid.NewString()}

	for i, tc := range cases {
		if i > 0 {
			if err := h.coolDown(ctx); err != nil {
				return report, err
			}
		} else if err := ctx.Err(); err != nil {
			return report, err
		}
		h.logger.Printf("📝 Testing: %s", tc.Question)

		row := Row{Query: tc.Question, Type: tc.Type}
		hits, err := h.rag.Retrieve(ctx, tc.Question, h.cfg.RetrieveK, h.cfg.RerankK)
		if err != nil {
			h.logger.Printf("❌ Pipeline failed: %v", err)
			row.Reason = "pipeline failed: " + err.Error()
			report.Rows = append(report.Rows, row)
			continue
		}

		answer := h.rag.Generate(ctx, chat.BuildPrompt(tc.Question, hits, nil, chat.DefaultLanguage))
		verdict := h.judge.Evaluate(ctx, tc.Question, answer, passages(hits))
		row.Faithfulness, row.Relevance, row.Reason = verdict.Faithfulness, verdict.Relevance, verdict.Reason
		report.Rows = append(report.Rows, row)

		h.logger.Printf("   -> Faithfulness: %d | Relevance: %d/5", row.Faithfulness, row.Relevance)
		h.logger.Printf("   -> Reason: %s", row.Reason)
	}
	return report, nil
}

func (h *Harness) coolDown(ctx context.Context) error {
	if h.cooldown <= 0 {
		return ctx.Err()
	}
	h.logger.Printf("⏳ Cooling down for %s...", h.cooldown)
	select {
	case <-time.After(h.cooldown):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func passages(hits []rag.ScoredHit) string {
	texts := make([]string, len(hits))
	for i, h := range hits {
		texts[i] = h.Payload.Text
	}
	return strings.Join(texts, "\n")
}
