package ingest

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/go-multierror"

	"KisanGPT/app/rag"
	"KisanGPT/app/utils"
)

type MetadataTagger interface {
	Extract(ctx context.Context, text string) rag.Metadata
}

type BatchEmbedder interface {
	EmbedTexts(ctx context.Context, inputs []string) ([][]float32, error)
}

type IndexWriter interface {
	Recreate(ctx context.Context, dimension int) error
	Upsert(ctx context.Context, points []rag.Point) error
}

// Pipeline rebuilds the vector index from a folder of documents.
type Pipeline struct {
	readers   Readers
	tagger    MetadataTagger
	chunker   rag.Chunker
	embedder  BatchEmbedder
	index     IndexWriter
	dimension int
	logger    *utils.JobLogger
}

func NewPipeline(readers Readers, tagger MetadataTagger, chunker rag.Chunker, embedder BatchEmbedder,
	index IndexWriter, dimension int, logger *utils.JobLogger) *Pipeline {
	if logger == nil {
		logger = utils.DiscardLogger()
	}
	return &Pipeline{
		readers:   readers,
		tagger:    tagger,
		chunker:   chunker,
		embedder:  embedder,
		index:     index,
		dimension: dimension,
		logger:    logger,
	}
}

// Run drops and recreates the collection, then indexes every supported file
// under folder. Documents that cannot be read or embedded are skipped and
// reported in Summary.Err; only a vector store failure aborts the run.
func (p *Pipeline) Run(ctx context.Context, folder string) (*Summary, error) {
	p.logger.Println("🚀 Starting ingestion pipeline...")

	if err := p.index.Recreate(ctx, p.dimension); err != nil {
		return nil, fmt.Errorf("recreate collection: %w", err)
	}

	paths, err := utils.LoadFilesFromDir(folder, p.readers.Extensions())
	if err != nil {
		return nil, err
	}
	p.logger.Printf("📂 Found %d documents.", len(paths))

	summary := &Summary{Folder: folder}
	var nextID uint64
	for _, path := range paths {
		if err = ctx.Err(); err != nil {
			return summary, err
		}

		doc, points, err := p.processDocument(ctx, path, nextID)
		if err != nil {
			p.logger.Printf("❌ Skipping %s: %v", doc.Source, err)
			doc.Err = err
			summary.skipped = multierror.Append(summary.skipped, fmt.Errorf("%s: %w", doc.Source, err))
			summary.Documents = append(summary.Documents, doc)
			continue
		}

		if len(points) > 0 {
			p.logger.Printf("⬆️ Uploading %d chunks from %s", len(points), doc.Source)
			if err = p.index.Upsert(ctx, points); err != nil {
				return summary, fmt.Errorf("upsert %s: %w", doc.Source, err)
			}
		}
		nextID += uint64(len(points))
		summary.Points += len(points)
		summary.Documents = append(summary.Documents, doc)
	}

	p.logger.Printf("✅ Ingestion complete: %d chunks from %d documents (%d skipped)",
		summary.Points, len(paths), len(summary.Skipped()))
	return summary, nil
}

// processDocument reads, tags, chunks and embeds one file. Point ids start at
// firstID and are consecutive.
func (p *Pipeline) processDocument(ctx context.Context, path string, firstID uint64) (DocumentResult, []rag.Point, error) {
	doc := DocumentResult{Path: path, Source: filepath.Base(path)}
	p.logger.Printf("📄 Processing %s...", doc.Source)

	text, err := p.readers.Read(ctx, path)
	if err != nil {
		return doc, nil, err
	}

	doc.Metadata = p.tagger.Extract(ctx, text)
	p.logger.Printf("🏷️ Tags: %+v", doc.Metadata)

	chunks := p.chunker.Split(text)
	if len(chunks) == 0 {
		return doc, nil, nil
	}

	children := make([]string, len(chunks))
	for i, c := range chunks {
		children[i] = c.ChildText
	}
	vectors, err := p.embedder.EmbedTexts(ctx, children)
	if err != nil {
		return doc, nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return doc, nil, fmt.Errorf("embed chunks: got %d vectors for %d chunks", len(vectors), len(chunks))
	}

	points := make([]rag.Point, len(chunks))
	for i, c := range chunks {
		points[i] = rag.Point{
			ID:     firstID + uint64(i),
			Vector: vectors[i],
			Payload: rag.Payload{
				Source:     doc.Source,
				Text:       c.ParentText,
				SearchText: c.ChildText,
				ParentID:   c.ParentIndex,
				Metadata:   doc.Metadata,
			},
		}
	}
	doc.Chunks = len(points)
	return doc, points, nil
}
