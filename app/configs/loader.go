package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	LLM        LLMConfig        `yaml:"llm"`
	Embeddings EmbeddingsConfig `yaml:"embeddings"`
	Reranker   RerankerConfig   `yaml:"reranker"`
	Qdrant     QdrantConfig     `yaml:"qdrant"`
	Database   DatabaseConfig   `yaml:"database"`
	RAG        RAGConfig        `yaml:"rag"`
	Ingest     IngestConfig     `yaml:"ingest"`
	Eval       EvalConfig       `yaml:"eval"`
	Workers    WorkersConfig    `yaml:"workers"`
	Discord    DiscordConfig    `yaml:"discord"`
}

type ServerConfig struct {
	Name    string `yaml:"name" validate:"required"`
	Addr    string `yaml:"addr" validate:"required"`
	MCPPath string `yaml:"mcp_path,omitempty"`
}

type LLMConfig struct {
	BaseURL        string  `yaml:"base_url" validate:"required,url"`
	APIKey         string  `yaml:"api_key"`
	Model          string  `yaml:"model" validate:"required"`
	MetadataModel  string  `yaml:"metadata_model,omitempty"`
	JudgeModel     string  `yaml:"judge_model,omitempty"`
	Temperature    float64 `yaml:"temperature" validate:"gte=0,lte=2"`
	TimeoutSeconds int     `yaml:"timeout_seconds" validate:"gte=0"`
}

type EmbeddingsConfig struct {
	BaseURL   string `yaml:"base_url" validate:"required,url"`
	APIKey    string `yaml:"api_key"`
	Model     string `yaml:"model" validate:"required"`
	Dimension int    `yaml:"dimension" validate:"gt=0"`
	BatchSize int    `yaml:"batch_size" validate:"gt=0"`
	// BatchAttempts bounds retries of ingestion batches. Query embeddings
	// are never retried.
	BatchAttempts int `yaml:"batch_attempts" validate:"gte=1"`
}

type RerankerConfig struct {
	BaseURL  string `yaml:"base_url" validate:"required,url"`
	Endpoint string `yaml:"endpoint" validate:"required"`
	Model    string `yaml:"model,omitempty"`
}

type QdrantConfig struct {
	Host       string `yaml:"host" validate:"required"`
	Port       int    `yaml:"port" validate:"gt=0"`
	APIKey     string `yaml:"api_key"`
	UseTLS     bool   `yaml:"use_tls"`
	Collection string `yaml:"collection" validate:"required"`
}

type DatabaseConfig struct {
	// DSN is handed to the sqlite driver as is: a file path or a file: URI.
	DSN string `yaml:"dsn" validate:"required"`
}

// RAGConfig sizes the two retrieval stages. RetrieveK must never be smaller
// than RerankK: the re-ranker only picks from what the vector search returned.
type RAGConfig struct {
	RetrieveK    int `yaml:"retrieve_k" validate:"gt=0,gtefield=RerankK"`
	RerankK      int `yaml:"rerank_k" validate:"gt=0"`
	PreviewChars int `yaml:"preview_chars" validate:"gt=0"`
}

type IngestConfig struct {
	Folder          string `yaml:"folder" validate:"required"`
	ParentChunkSize int    `yaml:"parent_chunk_size" validate:"gt=0"`
	ChildChunkSize  int    `yaml:"child_chunk_size" validate:"gt=0,ltefield=ParentChunkSize"`
	ChildOverlap    int    `yaml:"child_overlap" validate:"gte=0,ltfield=ChildChunkSize"`
	MetadataChars   int    `yaml:"metadata_chars" validate:"gt=0"`
	UpsertBatch     int    `yaml:"upsert_batch" validate:"gt=0"`
}

type EvalConfig struct {
	RetrieveK          int    `yaml:"retrieve_k" validate:"gt=0,gtefield=RerankK"`
	RerankK            int    `yaml:"rerank_k" validate:"gt=0"`
	CooldownSeconds    int    `yaml:"cooldown_seconds" validate:"gte=0"`
	MaxRetries         int    `yaml:"max_retries" validate:"gte=0"`
	BackoffSeconds     int    `yaml:"backoff_seconds" validate:"gte=0"`
	BackoffStepSeconds int    `yaml:"backoff_step_seconds" validate:"gte=0"`
	ContextChars       int    `yaml:"context_chars" validate:"gt=0"`
	ReportPath         string `yaml:"report_path" validate:"required"`
}

type WorkersConfig struct {
	Size int `yaml:"size" validate:"gt=0"`
}

type DiscordConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Token     string `yaml:"token" validate:"required_if=Enabled true"`
	ChannelID string `yaml:"channel_id,omitempty"`
	AdminID   string `yaml:"admin_id,omitempty"`
	// AskCooldownSeconds is the minimum spacing between two answered !ask
	// commands. 0 disables the throttle.
	AskCooldownSeconds int `yaml:"ask_cooldown_seconds" validate:"gte=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadConfig reads the YAML file at path on top of Default(). A missing file
// is not an error: the defaults (fed by the environment) are used instead.
// A .env file in the working directory is loaded first so ${VAR} references
// in the YAML resolve the same way the defaults do.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read configs file: %w", err)
		default:
			expanded := os.ExpandEnv(string(data))
			if err = yaml.Unmarshal([]byte(expanded), cfg); err != nil {
				return nil, fmt.Errorf("parse YAML: %w", err)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configs: %w", err)
	}
	return nil
}

func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c DiscordConfig) AskCooldown() time.Duration {
	return time.Duration(c.AskCooldownSeconds) * time.Second
}

func (c EvalConfig) Cooldown() time.Duration {
	return time.Duration(c.CooldownSeconds) * time.Second
}

// Backoff returns the wait before retry n (0-based): base, base+step, base+2*step...
func (c EvalConfig) Backoff(n uint) time.Duration {
	return time.Duration(c.BackoffSeconds+int(n)*c.BackoffStepSeconds) * time.Second
}
