package rag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkText(t *testing.T) {
	cases := []struct {
		name    string
		text    string
		size    int
		overlap int
		want    []string
	}{
		{"empty", "", 5, 1, nil},
		{"shorter_than_window", "abc", 5, 1, []string{"abc"}},
		{"no_overlap", "abcdefgh", 4, 0, []string{"abcd", "efgh"}},
		{"overlap_keeps_tail_windows", "abcdefgh", 4, 2, []string{"abcd", "cdef", "efgh", "gh"}},
		{"runes_not_bytes", "गेहूँधान", 2, 0, []string{"गे", "हू", "ँध", "ान"}},
		{"invalid_step", "abc", 3, 3, nil},
	}
	for _, cse := range cases {
		t.Run(cse.name, func(t *testing.T) {
			assert.Equal(t, cse.want, ChunkText(cse.text, cse.size, cse.overlap))
		})
	}
}

func TestParentChildChunkCounts(t *testing.T) {
	c := ParentChildChunker{ParentSize: 1000, ChildSize: 300, Overlap: 50}

	cases := []struct {
		name       string
		length     int
		wantChunks int
	}{
		// 1000-char parent: ceil(1000/250) = 4 children.
		{"single_full_parent", 1000, 4},
		// 2 full parents (8) + a 400-char parent: ceil(400/250) = 2.
		{"two_and_a_bit", 2400, 10},
		{"tiny", 10, 1},
		{"empty", 0, 0},
	}
	for _, cse := range cases {
		t.Run(cse.name, func(t *testing.T) {
			chunks := c.Split(strings.Repeat("x", cse.length))
			assert.Len(t, chunks, cse.wantChunks)
		})
	}
}

func TestParentChildChunkContents(t *testing.T) {
	c := ParentChildChunker{ParentSize: 6, ChildSize: 4, Overlap: 1}
	chunks := c.Split("abcdefghij")

	require.Len(t, chunks, 4)
	assert.Equal(t, Chunk{ChildText: "abcd", ParentText: "abcdef", ParentIndex: 0}, chunks[0])
	assert.Equal(t, Chunk{ChildText: "def", ParentText: "abcdef", ParentIndex: 0}, chunks[1])
	assert.Equal(t, Chunk{ChildText: "ghij", ParentText: "ghij", ParentIndex: 1}, chunks[2])
	assert.Equal(t, Chunk{ChildText: "j", ParentText: "ghij", ParentIndex: 1}, chunks[3])

	for _, ch := range chunks {
		assert.Contains(t, ch.ParentText, ch.ChildText)
	}
}

func TestParentChildChunkerRejectsBadSizes(t *testing.T) {
	assert.Nil(t, ParentChildChunker{ParentSize: 10, ChildSize: 4, Overlap: 4}.Split("abcdefghij"))
	assert.Nil(t, ParentChildChunker{}.Split("abc"))
}
