package rag

type Chunk struct {
	ChildText   string
	ParentText  string
	ParentIndex int
}

// Chunker splits a document into searchable children that point back to a
// larger context window.
type Chunker interface {
	Split(text string) []Chunk
}

// ParentChildChunker slices by characters only. Parents do not overlap;
// children overlap by Overlap characters inside their parent. Child windows
// start every ChildSize-Overlap characters up to the end of the parent, so a
// parent of P characters yields ceil(P/(ChildSize-Overlap)) children and the
// trailing ones may be suffixes of earlier windows.
type ParentChildChunker struct {
	ParentSize int
	ChildSize  int
	Overlap    int
}

var _ Chunker = ParentChildChunker{}

func (c ParentChildChunker) Split(text string) []Chunk {
	if c.ParentSize <= 0 || c.ChildSize <= 0 || c.Overlap >= c.ChildSize {
		return nil
	}

	var chunks []Chunk
	for pi, parent := range ChunkText(text, c.ParentSize, 0) {
		for _, child := range ChunkText(parent, c.ChildSize, c.Overlap) {
			chunks = append(chunks, Chunk{
				ChildText:   child,
				ParentText:  parent,
				ParentIndex: pi,
			})
		}
	}
	return chunks
}

// ChunkText returns windows of size runes starting every size-overlap runes,
// until the start passes the end of the text.
func ChunkText(text string, size, overlap int) []string {
	runes := []rune(text)
	step := size - overlap
	if size <= 0 || step <= 0 {
		return nil
	}

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := min(start+size, len(runes))
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
