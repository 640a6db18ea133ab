package rag

import (
	"context"
	"fmt"
	"log"

	"github.com/qdrant/go-client/qdrant"

	"KisanGPT/app/configs"
)

const defaultUpsertBatch = 256

var _ VectorStore = &QdrantStore{}

// qdrantAPI is the part of *qdrant.Client the store talks to.
type qdrantAPI interface {
	CollectionExists(ctx context.Context, collectionName string) (bool, error)
	DeleteCollection(ctx context.Context, collectionName string) error
	CreateCollection(ctx context.Context, request *qdrant.CreateCollection) error
	Upsert(ctx context.Context, request *qdrant.UpsertPoints) (*qdrant.UpdateResult, error)
	Query(ctx context.Context, request *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error)
	GetCollectionInfo(ctx context.Context, collectionName string) (*qdrant.CollectionInfo, error)
	Close() error
}

type QdrantStore struct {
	client     qdrantAPI
	collection string
	batch      int
}

func NewQdrantStore(cfg configs.QdrantConfig, upsertBatch int) (*QdrantStore, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant client: %w", err)
	}
	return newQdrantStore(client, cfg.Collection, upsertBatch), nil
}

func newQdrantStore(client qdrantAPI, collection string, upsertBatch int) *QdrantStore {
	if upsertBatch <= 0 {
		upsertBatch = defaultUpsertBatch
	}
	return &QdrantStore{
		client:     client,
		collection: collection,
		batch:      upsertBatch,
	}
}

// Recreate drops the collection when present and defines it again with cosine
// distance. Every ingestion run starts from an empty index.
func (s *QdrantStore) Recreate(ctx context.Context, dimension int) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("check collection: %w", err)
	}
	if exists {
		if err = s.client.DeleteCollection(ctx, s.collection); err != nil {
			return fmt.Errorf("delete collection: %w", err)
		}
		log.Printf("🗑️ Dropped collection %s", s.collection)
	}

	if err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: &qdrant.VectorsConfig{
			Config: &qdrant.VectorsConfig_Params{
				Params: &qdrant.VectorParams{
					Size:     uint64(dimension),
					Distance: qdrant.Distance_Cosine,
				},
			},
		},
	}); err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	log.Printf("✅ Collection %s ready (dim=%d, cosine)", s.collection, dimension)
	return nil
}

func (s *QdrantStore) Close() error {
	return s.client.Close()
}

func (s *QdrantStore) Upsert(ctx context.Context, points []Point) error {
	wait := true
	for start := 0; start < len(points); start += s.batch {
		end := min(start+s.batch, len(points))
		pts := make([]*qdrant.PointStruct, 0, end-start)
		for _, p := range points[start:end] {
			pts = append(pts, toPointStruct(p))
		}

		if _, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: s.collection,
			Wait:           &wait,
			Points:         pts,
		}); err != nil {
			return fmt.Errorf("upsert points %d-%d: %w", start, end, err)
		}
	}
	return nil
}

func (s *QdrantStore) Query(ctx context.Context, vector []float32, k int) ([]Hit, error) {
	limit := uint64(k)
	resp, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Limit:          &limit,
		Query:          qdrant.NewQuery(vector...),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.collection, err)
	}

	out := make([]Hit, 0, len(resp))
	for _, r := range resp {
		out = append(out, Hit{
			ID:      pointID(r.Id),
			Score:   r.Score,
			Payload: payloadFromValues(r.Payload),
		})
	}
	return out, nil
}

func (s *QdrantStore) Info(ctx context.Context) (CollectionInfo, error) {
	info, err := s.client.GetCollectionInfo(ctx, s.collection)
	if err != nil {
		return CollectionInfo{}, fmt.Errorf("collection info %s: %w", s.collection, err)
	}
	return CollectionInfo{
		Name:   s.collection,
		Status: info.GetStatus().String(),
		Points: info.GetPointsCount(),
	}, nil
}

func toPointStruct(p Point) *qdrant.PointStruct {
	md := map[string]any{
		"is_state_specific": p.Payload.Metadata.IsStateSpecific,
		"topic":             p.Payload.Metadata.Topic,
	}
	if p.Payload.Metadata.State != "" {
		md["state"] = p.Payload.Metadata.State
	}
	if p.Payload.Metadata.Season != "" {
		md["season"] = p.Payload.Metadata.Season
	}

	payload := map[string]any{
		"source":      p.Payload.Source,
		"text":        p.Payload.Text,
		"search_text": p.Payload.SearchText,
		"parent_id":   int64(p.Payload.ParentID),
		"metadata":    md,
	}
	return &qdrant.PointStruct{
		Id:      qdrant.NewIDNum(p.ID),
		Vectors: qdrant.NewVectors(p.Vector...),
		Payload: qdrant.NewValueMap(payload),
	}
}

func pointID(id *qdrant.PointId) uint64 {
	if id == nil {
		return 0
	}
	if x, ok := id.PointIdOptions.(*qdrant.PointId_Num); ok {
		return x.Num
	}
	return 0
}

// payloadFromValues reads a stored payload. Older collections used "chunk"
// for the text and "pdf" for the source; both are still accepted.
func payloadFromValues(values map[string]*qdrant.Value) Payload {
	raw := make(map[string]any, len(values))
	for key, v := range values {
		raw[key] = convertQdrantValue(v)
	}

	p := Payload{
		Source:     firstString(raw, "source", "pdf"),
		Text:       firstString(raw, "text", "chunk"),
		SearchText: firstString(raw, "search_text"),
	}
	if n, ok := raw["parent_id"].(int64); ok {
		p.ParentID = int(n)
	}
	if md, ok := raw["metadata"].(map[string]any); ok {
		p.Metadata = Metadata{
			State:  firstString(md, "state"),
			Season: firstString(md, "season"),
			Topic:  firstString(md, "topic"),
		}
		p.Metadata.IsStateSpecific, _ = md["is_state_specific"].(bool)
	}
	return p
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func convertQdrantValue(v *qdrant.Value) any {
	if v == nil {
		return nil
	}
	switch val := v.Kind.(type) {

	case *qdrant.Value_BoolValue:
		return val.BoolValue

	case *qdrant.Value_IntegerValue:
		return val.IntegerValue

	case *qdrant.Value_DoubleValue:
		return val.DoubleValue

	case *qdrant.Value_StringValue:
		return val.StringValue

	case *qdrant.Value_NullValue:
		return nil

	case *qdrant.Value_ListValue:
		out := make([]any, len(val.ListValue.Values))
		for i, lv := range val.ListValue.Values {
			out[i] = convertQdrantValue(lv)
		}
		return out

	case *qdrant.Value_StructValue:
		out := make(map[string]any)
		for k, nv := range val.StructValue.Fields {
			out[k] = convertQdrantValue(nv)
		}
		return out
	}

	return nil
}
