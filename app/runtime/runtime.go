package runtime

import (
	"context"
	"fmt"
	"log"

	"github.com/hashicorp/go-multierror"

	"KisanGPT/app/chat"
	"KisanGPT/app/configs"
	"KisanGPT/app/eval"
	"KisanGPT/app/ingest"
	"KisanGPT/app/models"
	"KisanGPT/app/rag"
	"KisanGPT/app/rerank"
	"KisanGPT/app/storage"
	"KisanGPT/app/utils"
	"KisanGPT/app/workers"
)

// App holds the clients built once at start-up and shared read-only by
// every request and batch job.
type App struct {
	Config      *configs.Config
	Pool        *workers.Pool
	LLM         *models.LLMClient
	Embedder    *models.EmbeddingsClient
	Vectors     rag.VectorStore
	Fertilizers storage.Interface
	Reranker    *rerank.Reranker
	Chat        *chat.Pipeline

	closers []func() error
}

func New(cfg *configs.Config) (*App, error) {
	a := &App{Config: cfg}

	a.Pool = workers.NewPool(cfg.Workers.Size)
	a.closers = append(a.closers, func() error { a.Pool.Close(); return nil })

	vectors, err := rag.NewQdrantStore(cfg.Qdrant, cfg.Ingest.UpsertBatch)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Vectors = vectors
	a.closers = append(a.closers, vectors.Close)

	fertilizers, err := storage.NewSQLiteStore(cfg.Database.DSN)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Fertilizers = fertilizers
	a.closers = append(a.closers, fertilizers.Close)

	a.LLM = models.NewLLMClient(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.Temperature, cfg.LLM.Timeout())
	a.Embedder = models.NewEmbeddingsClient(cfg.Embeddings.BaseURL, cfg.Embeddings.APIKey, cfg.Embeddings.Model,
		cfg.Embeddings.Dimension, cfg.Embeddings.BatchSize, a.Pool).WithBatchRetries(uint(cfg.Embeddings.BatchAttempts))
	a.Reranker = rerank.NewReranker(rerank.NewCrossEncoder(cfg.Reranker.BaseURL, cfg.Reranker.Endpoint, cfg.Reranker.Model, a.Pool))
	a.Chat = chat.NewPipeline(fertilizers, a.Embedder, a.Vectors, a.Reranker, a.LLM, cfg.RAG)

	log.Printf("✅ %s ready (collection=%s, model=%s)", cfg.Server.Name, cfg.Qdrant.Collection, cfg.LLM.Model)
	return a, nil
}

// Ingestion builds the pipeline that rebuilds the vector index. Metadata
// tagging uses llm.metadata_model when set.
func (a *App) Ingestion(logger *utils.JobLogger) *ingest.Pipeline {
	cfg := a.Config.Ingest
	chunker := rag.ParentChildChunker{
		ParentSize: cfg.ParentChunkSize,
		ChildSize:  cfg.ChildChunkSize,
		Overlap:    cfg.ChildOverlap,
	}
	tagger := ingest.NewMetadataExtractor(a.LLM.WithModel(a.Config.LLM.MetadataModel), cfg.MetadataChars)
	return ingest.NewPipeline(ingest.DefaultReaders(nil), tagger, chunker, a.Embedder, a.Vectors,
		a.Config.Embeddings.Dimension, logger)
}

// Evaluation builds the eval harness. The judge uses llm.judge_model when set.
func (a *App) Evaluation(logger *utils.JobLogger) *eval.Harness {
	judge := eval.NewJudge(a.LLM.WithModel(a.Config.LLM.JudgeModel), a.Config.Eval)
	return eval.NewHarness(a.Chat, judge, a.Config.Eval, logger)
}

// Ping checks the vector store collection is reachable.
func (a *App) Ping(ctx context.Context) (rag.CollectionInfo, error) {
	info, err := a.Vectors.Info(ctx)
	if err != nil {
		return rag.CollectionInfo{}, fmt.Errorf("ping %s: %w", a.Config.Qdrant.Collection, err)
	}
	return info, nil
}

// Close releases resources in reverse construction order.
func (a *App) Close() error {
	var result *multierror.Error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			result = multierror.Append(result, err)
		}
	}
	a.closers = nil
	return result.ErrorOrNil()
}
