package eval

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/tidwall/gjson"

	"KisanGPT/app/configs"
	"KisanGPT/app/metrics"
	"KisanGPT/app/models"
	"KisanGPT/app/utils"
)

type Verdict struct {
	Faithfulness int    `json:"faithfulness"`
	Relevance    int    `json:"relevance"`
	Reason       string `json:"reason"`
}

// Judge scores an answer with a language model. Rate limited calls are
// retried after cfg.Backoff(0), cfg.Backoff(1)... up to cfg.MaxRetries times.
type Judge struct {
	llm models.JSONGenerator
	cfg configs.EvalConfig
}

func NewJudge(llm models.JSONGenerator, cfg configs.EvalConfig) *Judge {
	return &Judge{llm: llm, cfg: cfg}
}

// Evaluate never fails: errors become a zero verdict with the reason set.
func (j *Judge) Evaluate(ctx context.Context, query, answer, passages string) Verdict {
	prompt := models.JudgePrompt(query, utils.Truncate(passages, j.cfg.ContextChars), answer)

	var verdict Verdict
	err := retry.Do(
		func() error {
			raw, err := j.llm.GenerateJSON(ctx, prompt)
			if err != nil {
				return err
			}
			verdict, err = ParseVerdict(raw)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(uint(j.cfg.MaxRetries)+1),
		retry.DelayType(func(n uint, _ error, _ *retry.Config) time.Duration {
			return j.cfg.Backoff(n)
		}),
		retry.RetryIf(models.IsRateLimited),
		retry.OnRetry(func(n uint, _ error) {
			if int(n) < j.cfg.MaxRetries {
				metrics.IncJudgeRetry()
				log.Printf("⚠️ Quota hit. Retrying in %s...", j.cfg.Backoff(n))
			}
		}),
		retry.LastErrorOnly(true),
	)

	switch {
	case err == nil:
		return verdict
	case models.IsRateLimited(err):
		return Verdict{Reason: "Failed after retries"}
	default:
		return Verdict{Reason: "Error: " + utils.Truncate(err.Error(), 50)}
	}
}

func ParseVerdict(raw string) (Verdict, error) {
	if !gjson.Valid(raw) {
		return Verdict{}, errors.New("judge returned invalid JSON")
	}
	res := gjson.Parse(raw)
	if !res.IsObject() {
		return Verdict{}, errors.New("judge did not return a JSON object")
	}
	return Verdict{
		Faithfulness: int(res.Get("faithfulness").Int()),
		Relevance:    int(res.Get("relevance").Int()),
		Reason:       res.Get("reason").String(),
	}, nil
}
