package rag

import "context"

// Metadata holds the document level tags produced at ingestion time.
// Empty State / Season mean the classifier returned null.
type Metadata struct {
	IsStateSpecific bool   `json:"is_state_specific"`
	State           string `json:"state,omitempty"`
	Season          string `json:"season,omitempty"`
	Topic           string `json:"topic"`
}

func DefaultMetadata() Metadata {
	return Metadata{IsStateSpecific: false, Topic: "General Agriculture"}
}

// Payload is what is stored next to every vector. Text is the parent chunk
// shown to the model, SearchText the child chunk that was embedded.
type Payload struct {
	Source     string
	Text       string
	SearchText string
	ParentID   int
	Metadata   Metadata
}

// RerankText is the text scored by the cross-encoder.
func (p Payload) RerankText() string {
	if p.Text != "" {
		return p.Text
	}
	return p.SearchText
}

func (p Payload) SourceOr(fallback string) string {
	if p.Source != "" {
		return p.Source
	}
	return fallback
}

type Point struct {
	ID      uint64
	Vector  []float32
	Payload Payload
}

// Hit is a k-NN result. It is never modified after the query returns.
type Hit struct {
	ID      uint64
	Score   float32
	Payload Payload
}

// ScoredHit is a Hit after the re-rank stage.
type ScoredHit struct {
	Hit
	RerankScore float64
}

type CollectionInfo struct {
	Name   string
	Status string
	Points uint64
}

type VectorStore interface {
	Recreate(ctx context.Context, dimension int) error
	Upsert(ctx context.Context, points []Point) error
	Query(ctx context.Context, vector []float32, k int) ([]Hit, error)
	Info(ctx context.Context) (CollectionInfo, error)
	Close() error
}
