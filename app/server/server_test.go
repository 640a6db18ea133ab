package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"KisanGPT/app/chat"
	"KisanGPT/app/configs"
)

type fakeAsker struct {
	got []chat.ChatQuery
}

func (f *fakeAsker) Ask(_ context.Context, q chat.ChatQuery) (*chat.ChatAnswer, error) {
	if err := q.Normalize(); err != nil {
		return nil, err
	}
	f.got = append(f.got, q)
	return &chat.ChatAnswer{
		Answer:         "Apply N=120 kg/ha",
		Sources:        []chat.Source{{Source: "wheat.pdf", Score: 7.5, TextPreview: "Wheat needs..."}},
		ProcessingTime: 0.25,
	}, nil
}

func newTestServer(t *testing.T, asker Asker) *httptest.Server {
	cfg := configs.Default().Server
	srv := httptest.NewServer(NewHTTPServer(cfg, asker).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestHandleAsk(t *testing.T) {
	asker := &fakeAsker{}
	srv := newTestServer(t, asker)

	resp, err := http.Post(srv.URL+askPath, "application/json",
		strings.NewReader(`{"query": "fertilizer for wheat", "language": "hi"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Apply N=120 kg/ha", body["answer"])
	assert.Equal(t, 0.25, body["processing_time"])
	sources := body["sources"].([]any)
	require.Len(t, sources, 1)
	assert.Equal(t, "wheat.pdf", sources[0].(map[string]any)["source"])
	assert.Equal(t, "Wheat needs...", sources[0].(map[string]any)["text_preview"])

	require.Len(t, asker.got, 1)
	assert.Equal(t, chat.ChatQuery{Query: "fertilizer for wheat", Language: "hi"}, asker.got[0])
}

func TestHandleAskDefaultsLanguage(t *testing.T) {
	asker := &fakeAsker{}
	srv := newTestServer(t, asker)

	resp, err := http.Post(srv.URL+askPath, "application/json", strings.NewReader(`{"query": "maize spacing"}`))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, asker.got, 1)
	assert.Equal(t, "en", asker.got[0].Language)
}

func TestHandleAskBadRequests(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"malformed_json", `{"query": `},
		{"missing_query", `{"language": "en"}`},
		{"blank_query", `{"query": "   "}`},
	}
	for _, cse := range cases {
		t.Run(cse.name, func(t *testing.T) {
			asker := &fakeAsker{}
			srv := newTestServer(t, asker)

			resp, err := http.Post(srv.URL+askPath, "application/json", strings.NewReader(cse.body))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			var body errorBody
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.NotEmpty(t, body.Detail)
			assert.Empty(t, asker.got)
		})
	}
}

func TestAskRejectsGet(t *testing.T) {
	srv := newTestServer(t, &fakeAsker{})

	resp, err := http.Get(srv.URL + askPath)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestRootBanner(t *testing.T) {
	srv := newTestServer(t, &fakeAsker{})

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "KisanGPT Enterprise API is running", body["message"])
	assert.Contains(t, body["docs"], askPath)

	resp, err = http.Get(srv.URL + "/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, &fakeAsker{})

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMCPAskTool(t *testing.T) {
	asker := &fakeAsker{}
	s := NewMCPServer("KisanGPT", asker)

	_, out, err := s.handleAsk(context.Background(), nil, AskInput{Query: "wheat dose", Language: "te"})
	require.NoError(t, err)
	assert.Equal(t, "Apply N=120 kg/ha", out.Answer)
	require.Len(t, out.Sources, 1)
	assert.Equal(t, "te", asker.got[0].Language)

	_, _, err = s.handleAsk(context.Background(), nil, AskInput{})
	assert.Error(t, err)
}
