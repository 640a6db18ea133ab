package ingest

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/tidwall/gjson"

	"KisanGPT/app/models"
	"KisanGPT/app/rag"
	"KisanGPT/app/utils"
)

// MetadataExtractor classifies a document from its first characters.
type MetadataExtractor struct {
	llm      models.JSONGenerator
	maxChars int
}

func NewMetadataExtractor(llm models.JSONGenerator, maxChars int) *MetadataExtractor {
	return &MetadataExtractor{llm: llm, maxChars: maxChars}
}

// Extract never fails. Any model or parsing error yields DefaultMetadata so
// one bad classification does not stop the ingestion run.
func (m *MetadataExtractor) Extract(ctx context.Context, text string) rag.Metadata {
	raw, err := m.llm.GenerateJSON(ctx, models.MetadataPrompt(utils.Truncate(text, m.maxChars)))
	if err != nil {
		log.Printf("⚠️ Metadata extraction failed: %v", err)
		return rag.DefaultMetadata()
	}
	md, err := ParseMetadata(raw)
	if err != nil {
		log.Printf("⚠️ Metadata extraction failed: %v", err)
		return rag.DefaultMetadata()
	}
	return md
}

// ParseMetadata reads the classifier output leniently: code fences and text
// around the JSON object are ignored and a one-element array is unwrapped.
func ParseMetadata(raw string) (rag.Metadata, error) {
	body := extractJSON(raw)
	if !gjson.Valid(body) {
		return rag.Metadata{}, errors.New("classifier returned invalid JSON")
	}
	res := gjson.Parse(body)
	if res.IsArray() {
		res = res.Get("0")
	}
	if !res.IsObject() {
		return rag.Metadata{}, errors.New("classifier did not return a JSON object")
	}

	md := rag.Metadata{
		IsStateSpecific: res.Get("is_state_specific").Bool(),
		State:           nullableString(res.Get("state")),
		Season:          nullableString(res.Get("season")),
		Topic:           nullableString(res.Get("topic")),
	}
	if md.Topic == "" {
		md.Topic = rag.DefaultMetadata().Topic
	}
	return md, nil
}

func nullableString(r gjson.Result) string {
	if r.Type == gjson.Null {
		return ""
	}
	s := strings.TrimSpace(r.String())
	if strings.EqualFold(s, "null") {
		return ""
	}
	return s
}

func extractJSON(raw string) string {
	start := strings.IndexAny(raw, "{[")
	end := strings.LastIndexAny(raw, "}]")
	if start < 0 || end < start {
		return strings.TrimSpace(raw)
	}
	return raw[start : end+1]
}
