package models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"KisanGPT/app/utils/restclient"
	"KisanGPT/app/workers"
)

const embeddingEndpoint = "/embeddings"

var _ Embedder = &EmbeddingsClient{}

// EmbeddingsClient calls an OpenAI compatible /embeddings endpoint (TEI,
// LM Studio, Ollama...). Requests run on the shared worker pool when one is set.
// Query embeddings are always a single round trip; only EmbedTexts retries,
// and only when WithBatchRetries is set.
type EmbeddingsClient struct {
	restClient    restclient.Interface
	pool          *workers.Pool
	model         string
	dimension     int
	batchSize     int
	batchAttempts uint
}

func NewEmbeddingsClient(baseURL, apiKey, model string, dimension, batchSize int, pool *workers.Pool) *EmbeddingsClient {
	var headers map[string]string
	if apiKey != "" {
		headers = map[string]string{"Authorization": "Bearer " + apiKey}
	}
	if batchSize <= 0 {
		batchSize = 64
	}
	return &EmbeddingsClient{
		restClient:    restclient.NewRestClient(strings.TrimRight(baseURL, "/"), headers),
		pool:          pool,
		model:         model,
		dimension:     dimension,
		batchSize:     batchSize,
		batchAttempts: 1,
	}
}

// WithBatchRetries lets EmbedTexts retry a batch on 429 and 5xx up to
// attempts times in total. Ingestion uses it; EmbedText never retries.
func (ec *EmbeddingsClient) WithBatchRetries(attempts uint) *EmbeddingsClient {
	ec.batchAttempts = max(attempts, 1)
	return ec
}

func (ec *EmbeddingsClient) Dimension() int { return ec.dimension }

// EmbedText embeds a single query with one request: no cache, no retry.
func (ec *EmbeddingsClient) EmbedText(ctx context.Context, input string) ([]float32, error) {
	if ec.model == "" {
		return nil, errors.New("embeddings model is empty; configure embeddings.model")
	}
	out, err := workers.Run(ctx, ec.pool, func(ctx context.Context) ([][]float32, error) {
		return ec.embedBatch(ctx, []string{input}, 1)
	})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// EmbedTexts embeds inputs in batches and returns vectors in input order.
func (ec *EmbeddingsClient) EmbedTexts(ctx context.Context, inputs []string) ([][]float32, error) {
	if ec.model == "" {
		return nil, errors.New("embeddings model is empty; configure embeddings.model")
	}
	out := make([][]float32, 0, len(inputs))
	for start := 0; start < len(inputs); start += ec.batchSize {
		end := min(start+ec.batchSize, len(inputs))
		batch := inputs[start:end]
		vectors, err := workers.Run(ctx, ec.pool, func(ctx context.Context) ([][]float32, error) {
			return ec.embedBatch(ctx, batch, ec.batchAttempts)
		})
		if err != nil {
			return nil, err
		}
		out = append(out, vectors...)
	}
	return out, nil
}

func (ec *EmbeddingsClient) embedBatch(ctx context.Context, batch []string, attempts uint) ([][]float32, error) {
	resp, err := ec.sendEmbeddings(ctx, embeddingRequestPayload{Model: ec.model, Input: batch}, attempts)
	if err != nil {
		return nil, err
	}
	if len(resp.Data) != len(batch) {
		return nil, fmt.Errorf("embeddings: got %d vectors for %d inputs", len(resp.Data), len(batch))
	}

	sort.Slice(resp.Data, func(i, j int) bool { return resp.Data[i].Index < resp.Data[j].Index })
	vectors := make([][]float32, len(resp.Data))
	for i, item := range resp.Data {
		if ec.dimension > 0 && len(item.Embedding) != ec.dimension {
			return nil, fmt.Errorf("embeddings: vector %d has dimension %d, want %d", i, len(item.Embedding), ec.dimension)
		}
		vectors[i] = item.Embedding
	}
	return vectors, nil
}

func (ec *EmbeddingsClient) sendEmbeddings(ctx context.Context, payload embeddingRequestPayload, attempts uint) (*embeddingResponse, error) {
	var out embeddingResponse
	err := retry.Do(
		func() error {
			body, status, err := ec.restClient.Post(ctx, embeddingEndpoint, payload, nil)
			if err != nil {
				log.Printf("⚠️ embed request failed: http=%d err=%v", status, err)
				return err
			}
			if err = json.Unmarshal(body, &out); err != nil {
				return retry.Unrecoverable(fmt.Errorf("parse embeddings json: %w", err))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(100*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryableEmbeddingError),
	)
	if err != nil {
		return nil, fmt.Errorf("embeddings request: %w", err)
	}
	return &out, nil
}

// Client errors other than 429 will not get better on retry.
func retryableEmbeddingError(err error) bool {
	if !retry.IsRecoverable(err) {
		return false
	}
	var se *restclient.StatusError
	if errors.As(err, &se) {
		return se.Status == http.StatusTooManyRequests || se.Status >= 500
	}
	return true
}
