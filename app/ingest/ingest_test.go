package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"KisanGPT/app/rag"
)

type fakeIndex struct {
	calls     []string
	dimension int
	points    []rag.Point
	upsertErr error
}

func (f *fakeIndex) Recreate(_ context.Context, dimension int) error {
	f.calls = append(f.calls, "recreate")
	f.dimension = dimension
	return nil
}

func (f *fakeIndex) Upsert(_ context.Context, points []rag.Point) error {
	f.calls = append(f.calls, "upsert")
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.points = append(f.points, points...)
	return nil
}

// lengthEmbedder encodes a text as [runes, first rune] so tests can check
// which text a vector came from.
type lengthEmbedder struct {
	fail map[string]bool
}

func (e lengthEmbedder) EmbedTexts(_ context.Context, inputs []string) ([][]float32, error) {
	out := make([][]float32, len(inputs))
	for i, in := range inputs {
		if e.fail[in] {
			return nil, errors.New("embedder overloaded")
		}
		r := []rune(in)
		out[i] = []float32{float32(len(r)), float32(r[0])}
	}
	return out, nil
}

type fixedTagger struct{ md rag.Metadata }

func (f fixedTagger) Extract(context.Context, string) rag.Metadata { return f.md }

type failingRunner struct{}

func (failingRunner) Run(context.Context, string, ...string) ([]byte, error) {
	return nil, errors.New("exit status 1")
}

func writeDocs(t *testing.T, docs map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range docs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func TestRunIndexesChildrenWithParentContext(t *testing.T) {
	dir := writeDocs(t, map[string]string{
		"a_wheat.txt": strings.Repeat("w", 2400),
		"b_rice.md":   strings.Repeat("r", 300),
		"broken.pdf":  "%PDF",
		"image.png":   "ignored",
	})
	index := &fakeIndex{}
	md := rag.Metadata{Topic: "Wheat Advisory", State: "Punjab", Season: "Rabi", IsStateSpecific: true}
	p := NewPipeline(DefaultReaders(failingRunner{}), fixedTagger{md},
		rag.ParentChildChunker{ParentSize: 1000, ChildSize: 300, Overlap: 50},
		lengthEmbedder{}, index, 384, nil)

	summary, err := p.Run(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, "recreate", index.calls[0])
	assert.Equal(t, 384, index.dimension)

	// 2400 chars -> 10 children, 300 chars -> 2 children
	require.Len(t, index.points, 12)
	assert.Equal(t, 12, summary.Points)
	for i, pt := range index.points {
		assert.Equal(t, uint64(i), pt.ID)
		assert.Equal(t, float32(len([]rune(pt.Payload.SearchText))), pt.Vector[0], "vector comes from the child")
		assert.Contains(t, pt.Payload.Text, pt.Payload.SearchText)
		assert.Equal(t, md, pt.Payload.Metadata)
	}
	assert.Equal(t, "a_wheat.txt", index.points[0].Payload.Source)
	assert.Equal(t, 2, index.points[9].Payload.ParentID)
	assert.Equal(t, "b_rice.md", index.points[11].Payload.Source)

	require.Error(t, summary.Err())
	assert.Len(t, summary.Skipped(), 1)
	assert.Contains(t, summary.Err().Error(), "broken.pdf")

	tree := summary.Tree()
	assert.Contains(t, tree, "a_wheat.txt")
	assert.Contains(t, tree, "chunks: 10")
	assert.Contains(t, tree, "skipped: ")
	assert.Contains(t, tree, "state: Punjab")
}

func TestRunSkipsDocumentWhenEmbeddingFails(t *testing.T) {
	dir := writeDocs(t, map[string]string{
		"a.txt": "bad",
		"b.txt": "good text",
	})
	index := &fakeIndex{}
	p := NewPipeline(DefaultReaders(nil), fixedTagger{rag.DefaultMetadata()},
		rag.ParentChildChunker{ParentSize: 1000, ChildSize: 300, Overlap: 50},
		lengthEmbedder{fail: map[string]bool{"bad": true}}, index, 384, nil)

	summary, err := p.Run(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, index.points, 1)
	assert.Equal(t, uint64(0), index.points[0].ID, "ids stay contiguous after a skip")
	assert.Equal(t, "b.txt", index.points[0].Payload.Source)
	assert.Len(t, summary.Skipped(), 1)
}

func TestRunAbortsOnUpsertFailure(t *testing.T) {
	dir := writeDocs(t, map[string]string{"a.txt": "text"})
	index := &fakeIndex{upsertErr: errors.New("qdrant unavailable")}
	p := NewPipeline(DefaultReaders(nil), fixedTagger{rag.DefaultMetadata()},
		rag.ParentChildChunker{ParentSize: 10, ChildSize: 5, Overlap: 1},
		lengthEmbedder{}, index, 384, nil)

	_, err := p.Run(context.Background(), dir)
	assert.ErrorContains(t, err, "qdrant unavailable")
}

func TestRunEmptyFolder(t *testing.T) {
	index := &fakeIndex{}
	p := NewPipeline(DefaultReaders(nil), fixedTagger{}, rag.ParentChildChunker{ParentSize: 10, ChildSize: 5, Overlap: 1},
		lengthEmbedder{}, index, 384, nil)

	summary, err := p.Run(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Zero(t, summary.Points)
	assert.NoError(t, summary.Err())
	assert.Equal(t, []string{"recreate"}, index.calls)
}
