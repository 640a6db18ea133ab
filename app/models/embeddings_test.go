package models

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"KisanGPT/app/workers"
)

// embeddingServer answers with vectors whose first component is the input
// length, in reverse index order to exercise re-sorting.
func embeddingServer(t *testing.T, dim int, calls *int32) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		assert.Equal(t, embeddingEndpoint, r.URL.Path)
		var req embeddingRequestPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		var resp embeddingResponse
		for i := len(req.Input) - 1; i >= 0; i-- {
			vec := make([]float32, dim)
			vec[0] = float32(len(req.Input[i]))
			resp.Data = append(resp.Data, embeddingItem{Embedding: vec, Index: i})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestEmbedTextsBatchesInOrder(t *testing.T) {
	var calls int32
	ts := embeddingServer(t, 4, &calls)
	pool := workers.NewPool(2)
	defer pool.Close()

	ec := NewEmbeddingsClient(ts.URL, "", "mini", 4, 2, pool)
	inputs := []string{"a", "bb", "ccc", "dddd", "eeeee"}
	out, err := ec.EmbedTexts(context.Background(), inputs)
	require.NoError(t, err)
	require.Len(t, out, len(inputs))
	for i, in := range inputs {
		assert.Equal(t, float32(len(in)), out[i][0])
		assert.Len(t, out[i], 4)
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestEmbedTextIsOneRoundTripPerCall(t *testing.T) {
	var calls int32
	ts := embeddingServer(t, 3, &calls)
	ec := NewEmbeddingsClient(ts.URL, "", "mini", 3, 8, nil).WithBatchRetries(3)

	first, err := ec.EmbedText(context.Background(), "wheat")
	require.NoError(t, err)
	second, err := ec.EmbedText(context.Background(), "wheat")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestEmbedTextSurfacesServerErrors(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	ec := NewEmbeddingsClient(ts.URL, "", "mini", 3, 8, nil).WithBatchRetries(3)
	_, err := ec.EmbedText(context.Background(), "rice")
	assert.ErrorContains(t, err, "http 503")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestEmbedTextsDimensionMismatch(t *testing.T) {
	var calls int32
	ts := embeddingServer(t, 3, &calls)
	ec := NewEmbeddingsClient(ts.URL, "", "mini", 384, 8, nil)

	_, err := ec.EmbedTexts(context.Background(), []string{"x"})
	assert.ErrorContains(t, err, "want 384")
}

func TestEmbedRetryPolicy(t *testing.T) {
	cases := []struct {
		name      string
		status    int
		attempts  uint
		wantCalls int32
	}{
		{"bad_request_not_retried", http.StatusBadRequest, 3, 1},
		{"server_error_retried", http.StatusBadGateway, 3, 3},
		{"server_error_without_retries", http.StatusBadGateway, 0, 1},
		{"bad_json_not_retried", http.StatusOK, 3, 1},
	}
	for _, cse := range cases {
		t.Run(cse.name, func(t *testing.T) {
			var calls int32
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(cse.status)
				_, _ = w.Write([]byte("not json"))
			}))
			defer ts.Close()

			ec := NewEmbeddingsClient(ts.URL, "", "mini", 3, 8, nil)
			if cse.attempts > 0 {
				ec.WithBatchRetries(cse.attempts)
			}
			_, err := ec.EmbedTexts(context.Background(), []string{"x"})
			assert.Error(t, err)
			assert.Equal(t, cse.wantCalls, atomic.LoadInt32(&calls))
		})
	}
}

func TestEmbedTextsRequiresModel(t *testing.T) {
	ec := NewEmbeddingsClient("http://unused", "", "", 3, 8, nil)
	_, err := ec.EmbedTexts(context.Background(), []string{"x"})
	assert.Error(t, err)
}
