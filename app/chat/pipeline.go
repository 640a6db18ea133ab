package chat

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"KisanGPT/app/configs"
	"KisanGPT/app/metrics"
	"KisanGPT/app/rag"
	"KisanGPT/app/rerank"
	"KisanGPT/app/storage"
	"KisanGPT/app/utils"
)

const errorAnswerPrefix = "Error connecting to AI: "

type FertilizerFinder interface {
	FindFertilizer(ctx context.Context, query string) (*storage.FertilizerRecord, error)
}

type QueryEmbedder interface {
	EmbedText(ctx context.Context, input string) ([]float32, error)
}

type Searcher interface {
	Query(ctx context.Context, vector []float32, k int) ([]rag.Hit, error)
}

type Reranker interface {
	Rerank(ctx context.Context, query string, hits []rag.Hit, k int) ([]rag.ScoredHit, error)
}

type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Pipeline answers one question: structured lookup, wide vector search,
// cross-encoder re-ranking, prompt assembly and generation, in that order.
// It holds only shared read-only clients and is safe for concurrent use.
type Pipeline struct {
	fertilizers FertilizerFinder
	embedder    QueryEmbedder
	vectors     Searcher
	reranker    Reranker
	llm         Generator
	cfg         configs.RAGConfig
}

func NewPipeline(fertilizers FertilizerFinder, embedder QueryEmbedder, vectors Searcher,
	reranker Reranker, llm Generator, cfg configs.RAGConfig) *Pipeline {
	return &Pipeline{
		fertilizers: fertilizers,
		embedder:    embedder,
		vectors:     vectors,
		reranker:    reranker,
		llm:         llm,
		cfg:         cfg,
	}
}

// Ask only fails on an invalid query. Downstream failures degrade the answer
// instead: no fertilizer block, no passages, or the error placeholder.
func (p *Pipeline) Ask(ctx context.Context, q ChatQuery) (*ChatAnswer, error) {
	if err := q.Normalize(); err != nil {
		return nil, err
	}
	start := time.Now()
	reqID := uuid.NewString()
	log.Printf("🔎 [%s] ask lang=%s query=%q", reqID, q.Language, q.Query)

	fert := p.lookup(ctx, reqID, q.Query)

	hits, err := p.Retrieve(ctx, q.Query, p.cfg.RetrieveK, p.cfg.RerankK)
	if err != nil {
		log.Printf("⚠️ [%s] retrieval failed, answering without passages: %v", reqID, err)
		hits = []rag.ScoredHit{}
	}

	answer := p.Generate(ctx, BuildPrompt(q.Query, hits, fert, q.Language))

	out := &ChatAnswer{
		Answer:         answer,
		Sources:        p.sources(hits),
		ProcessingTime: time.Since(start).Seconds(),
	}
	log.Printf("✅ [%s] answered with %d sources in %.2fs", reqID, len(out.Sources), out.ProcessingTime)
	return out, nil
}

func (p *Pipeline) lookup(ctx context.Context, reqID, query string) *storage.FertilizerRecord {
	start := time.Now()
	fert, err := p.fertilizers.FindFertilizer(ctx, query)
	metrics.ObserveStage("lookup", start, -1)
	switch {
	case err != nil:
		metrics.IncLookup("error")
		log.Printf("⚠️ [%s] fertilizer lookup failed: %v", reqID, err)
		return nil
	case fert == nil:
		metrics.IncLookup("miss")
	default:
		metrics.IncLookup("hit")
		log.Printf("🌾 [%s] matched crop %s", reqID, fert.CropName)
	}
	return fert
}

// Retrieve embeds query, fetches the retrieveK nearest children and keeps
// the rerankK best after re-ranking. When the re-ranker fails the first
// rerankK hits are kept in vector order with a zero score.
func (p *Pipeline) Retrieve(ctx context.Context, query string, retrieveK, rerankK int) ([]rag.ScoredHit, error) {
	start := time.Now()
	vector, err := p.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	metrics.ObserveStage("embed", start, -1)

	start = time.Now()
	hits, err := p.vectors.Query(ctx, vector, retrieveK)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	metrics.ObserveStage("search", start, len(hits))

	start = time.Now()
	scored, err := p.reranker.Rerank(ctx, query, hits, rerankK)
	if err != nil {
		log.Printf("⚠️ re-rank failed, keeping vector order: %v", err)
		scored = rerank.Passthrough(hits, rerankK)
	}
	metrics.ObserveStage("rerank", start, len(scored))
	return scored, nil
}

// Generate never fails: a model error becomes the placeholder answer.
func (p *Pipeline) Generate(ctx context.Context, prompt string) string {
	start := time.Now()
	answer, err := p.llm.Generate(ctx, prompt)
	metrics.ObserveStage("generate", start, -1)
	if err != nil {
		metrics.IncGenerationFailure()
		log.Printf("❌ generation failed: %v", err)
		return errorAnswerPrefix + err.Error()
	}
	return answer
}

func (p *Pipeline) sources(hits []rag.ScoredHit) []Source {
	out := make([]Source, 0, len(hits))
	for _, h := range hits {
		out = append(out, Source{
			Source:      h.Payload.SourceOr("PDF"),
			Score:       h.RerankScore,
			TextPreview: utils.Truncate(h.Payload.Text, p.cfg.PreviewChars) + "...",
		})
	}
	return out
}
