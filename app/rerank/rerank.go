package rerank

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"KisanGPT/app/rag"
	"KisanGPT/app/utils/restclient"
	"KisanGPT/app/workers"
)

// Scorer scores (query, text) pairs jointly. Higher is more relevant; scores
// come back in the order of texts.
type Scorer interface {
	Score(ctx context.Context, query string, texts []string) ([]float64, error)
}

// CrossEncoder calls a cross-encoder service.
// Request:  {"query":"...","candidates":[{"id":"0","text":"..."}],"model":"..."}
// Response: {"ranking":[{"id":"0","score":0.9}]}
type CrossEncoder struct {
	restClient restclient.Interface
	endpoint   string
	model      string
	pool       *workers.Pool
}

type rerankReq struct {
	Query      string            `json:"query"`
	Candidates []rerankCandidate `json:"candidates"`
	Model      string            `json:"model,omitempty"`
}

type rerankCandidate struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type rerankResp struct {
	Ranking []struct {
		ID    string  `json:"id"`
		Score float64 `json:"score"`
	} `json:"ranking"`
}

func NewCrossEncoder(baseURL, endpoint, model string, pool *workers.Pool) *CrossEncoder {
	return &CrossEncoder{
		restClient: restclient.NewRestClient(strings.TrimRight(baseURL, "/"), nil),
		endpoint:   endpoint,
		model:      model,
		pool:       pool,
	}
}

func (c *CrossEncoder) Score(ctx context.Context, query string, texts []string) ([]float64, error) {
	req := rerankReq{Query: query, Model: c.model, Candidates: make([]rerankCandidate, len(texts))}
	for i, t := range texts {
		req.Candidates[i] = rerankCandidate{ID: strconv.Itoa(i), Text: t}
	}

	return workers.Run(ctx, c.pool, func(ctx context.Context) ([]float64, error) {
		body, _, err := c.restClient.Post(ctx, c.endpoint, req, nil)
		if err != nil {
			return nil, fmt.Errorf("cross-encoder: %w", err)
		}
		var rr rerankResp
		if err = json.Unmarshal(body, &rr); err != nil {
			return nil, fmt.Errorf("parse cross-encoder response: %w", err)
		}

		scores := make([]float64, len(texts))
		seen := 0
		for _, r := range rr.Ranking {
			i, err := strconv.Atoi(r.ID)
			if err != nil || i < 0 || i >= len(texts) {
				continue
			}
			scores[i] = r.Score
			seen++
		}
		if seen != len(texts) {
			return nil, fmt.Errorf("cross-encoder scored %d of %d candidates", seen, len(texts))
		}
		return scores, nil
	})
}

type Reranker struct {
	scorer Scorer
}

func NewReranker(scorer Scorer) *Reranker {
	return &Reranker{scorer: scorer}
}

// Rerank scores every hit against query and returns the best k, highest
// first. Ties keep the vector search order. The input slice is not modified.
// An empty input returns an empty result without calling the scorer.
func (r *Reranker) Rerank(ctx context.Context, query string, hits []rag.Hit, k int) ([]rag.ScoredHit, error) {
	if len(hits) == 0 || k <= 0 {
		return []rag.ScoredHit{}, nil
	}

	texts := make([]string, len(hits))
	for i, h := range hits {
		texts[i] = h.Payload.RerankText()
	}
	scores, err := r.scorer.Score(ctx, query, texts)
	if err != nil {
		return nil, err
	}
	if len(scores) != len(hits) {
		return nil, fmt.Errorf("rerank: %d scores for %d hits", len(scores), len(hits))
	}

	out := make([]rag.ScoredHit, len(hits))
	for i, h := range hits {
		out[i] = rag.ScoredHit{Hit: h, RerankScore: scores[i]}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RerankScore > out[j].RerankScore })
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}

// Passthrough keeps the first k hits in vector order with a zero rerank
// score. Used when the scorer is unavailable.
func Passthrough(hits []rag.Hit, k int) []rag.ScoredHit {
	n := min(len(hits), max(k, 0))
	out := make([]rag.ScoredHit, n)
	for i := 0; i < n; i++ {
		out[i] = rag.ScoredHit{Hit: hits[i]}
	}
	return out
}
