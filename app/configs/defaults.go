package configs

import (
	"os"
	"strconv"
)

const (
	DefaultCollection = "docs_kisangpt_advanced"
	DefaultDimension  = 384
)

// Default builds the baseline configuration. Secrets and endpoints come from
// the environment so a bare `.env` is enough to run every command.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Name:    "KisanGPT Enterprise",
			Addr:    env("SERVER_ADDR", ":8000"),
			MCPPath: "/mcp",
		},
		LLM: LLMConfig{
			BaseURL:        env("LLM_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai"),
			APIKey:         env("LLM_API_KEY", os.Getenv("GEMINI_API_KEY")),
			Model:          env("LLM_MODEL", "gemini-2.5-flash"),
			MetadataModel:  env("LLM_METADATA_MODEL", "gemini-2.0-flash"),
			JudgeModel:     env("LLM_JUDGE_MODEL", "gemini-2.5-flash"),
			Temperature:    0.2,
			TimeoutSeconds: 60,
		},
		Embeddings: EmbeddingsConfig{
			BaseURL:       env("EMBEDDINGS_BASE_URL", "http://localhost:8080/v1"),
			APIKey:        os.Getenv("EMBEDDINGS_API_KEY"),
			Model:         env("EMBEDDINGS_MODEL", "paraphrase-multilingual-MiniLM-L12-v2"),
			Dimension:     DefaultDimension,
			BatchSize:     64,
			BatchAttempts: 3,
		},
		Reranker: RerankerConfig{
			BaseURL:  env("RERANKER_BASE_URL", "http://localhost:8082"),
			Endpoint: "/rerank",
			Model:    env("RERANKER_MODEL", "cross-encoder/ms-marco-MiniLM-L-6-v2"),
		},
		Qdrant: QdrantConfig{
			Host:       env("QDRANT_HOST", "localhost"),
			Port:       envInt("QDRANT_PORT", 6334),
			APIKey:     os.Getenv("QDRANT_API_KEY"),
			UseTLS:     os.Getenv("QDRANT_USE_TLS") == "true",
			Collection: env("QDRANT_COLLECTION", DefaultCollection),
		},
		Database: DatabaseConfig{
			DSN: env("DATABASE_URL", "./kisan_database.db"),
		},
		RAG: RAGConfig{
			RetrieveK:    15,
			RerankK:      5,
			PreviewChars: 50,
		},
		Ingest: IngestConfig{
			Folder:          env("FOLDER_RAG", "data"),
			ParentChunkSize: 1000,
			ChildChunkSize:  300,
			ChildOverlap:    50,
			MetadataChars:   1500,
			UpsertBatch:     256,
		},
		Eval: EvalConfig{
			RetrieveK:          10,
			RerankK:            5,
			CooldownSeconds:    15,
			MaxRetries:         3,
			BackoffSeconds:     30,
			BackoffStepSeconds: 10,
			ContextChars:       4000,
			ReportPath:         "rag_evaluation_report.csv",
		},
		Workers: WorkersConfig{
			Size: 4,
		},
		Discord: DiscordConfig{
			Enabled:   os.Getenv("DISCORD_TOKEN") != "",
			Token:     os.Getenv("DISCORD_TOKEN"),
			ChannelID: os.Getenv("DISCORD_CHANNEL_ID"),
			AdminID:   os.Getenv("DISCORD_ADMIN"),

			AskCooldownSeconds: 5,
		},
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return n
	}
	return fallback
}
