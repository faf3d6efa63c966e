package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultTopK            = 10
	DefaultMaxPassages     = 3
	DefaultSimilarityFloor = 0.45
	DefaultAcceptThreshold = 0.6
	DefaultMemoryWindow    = 5
)

// Config is the CrescentBot configuration, stored as a TOML file.
// Zero values are replaced by defaults at load time, so a partial file
// is always valid.
type Config struct {
	// DataDir holds the knowledge base sources (JSON files and docs/).
	DataDir string `toml:"data_dir"`

	// IndexDir holds the persisted vector index bundle.
	IndexDir string `toml:"index_dir"`

	// MemoryDir holds the conversational memory database.
	MemoryDir string `toml:"memory_dir"`

	// PromptDir holds the user-editable prompt templates.
	PromptDir string `toml:"prompt_dir"`

	Chunking   ChunkingConfig   `toml:"chunking"`
	Retrieval  RetrievalConfig  `toml:"retrieval"`
	Enrichment EnrichmentConfig `toml:"enrichment"`
	Embedding  BackendConfig    `toml:"embedding"`
	LLM        BackendConfig    `toml:"llm"`
	Watch      WatchConfig      `toml:"watch"`
}

// ChunkingConfig holds the word budgets used at ingestion time.
type ChunkingConfig struct {
	// MaxTokens is the word budget for loose documents.
	MaxTokens int `toml:"max_tokens"`

	// QAMaxTokens is the word budget for structured Q&A entries.
	QAMaxTokens int `toml:"qa_max_tokens"`

	// Overlap is the word count shared between adjacent chunks.
	Overlap int `toml:"overlap"`
}

// RetrievalConfig holds the retrieval and acceptance thresholds.
type RetrievalConfig struct {
	// TopK is how many candidates the index returns per query.
	TopK int `toml:"top_k"`

	// MaxPassages caps how many passages enter the prompt context.
	MaxPassages int `toml:"max_passages"`

	// SimilarityFloor discards candidates scoring below it.
	SimilarityFloor float64 `toml:"similarity_floor"`

	// AcceptThreshold is the minimum best score for a grounded answer.
	AcceptThreshold float64 `toml:"accept_threshold"`

	// MemoryWindow is how many recent interactions inform a query.
	MemoryWindow int `toml:"memory_window"`
}

// EnrichmentConfig toggles the query enrichment stages.
type EnrichmentConfig struct {
	// Facets appends detected facets (department, level, semester) to
	// the retrieval query.
	Facets bool `toml:"facets"`

	// Memory appends hints from recent interactions to the retrieval
	// query.
	Memory bool `toml:"memory"`
}

// BackendConfig selects and configures a model backend.
type BackendConfig struct {
	// Backend is the provider name: "ollama" or "openai".
	Backend string `toml:"backend"`

	// BaseURL overrides the provider API base URL.
	BaseURL string `toml:"base_url"`

	// Model overrides the provider default model.
	Model string `toml:"model"`

	// APIKey authenticates hosted providers. Ignored by Ollama.
	APIKey string `toml:"api_key"`

	// TimeoutSeconds is the request timeout.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// WatchConfig controls the knowledge directory watcher.
type WatchConfig struct {
	// Enabled turns on change detection for the data directory.
	Enabled bool `toml:"enabled"`
}

// DefaultConfig returns the configuration used when no file exists.
// Paths are rooted under ~/.crescentbot.
func DefaultConfig() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("getting home directory: %w", err)
	}
	root := filepath.Join(home, ".crescentbot")

	cfg := Config{
		DataDir:   filepath.Join(root, "data"),
		IndexDir:  filepath.Join(root, "index"),
		MemoryDir: filepath.Join(root, "memory"),
		PromptDir: filepath.Join(root, "prompts"),
		Embedding: BackendConfig{Backend: "ollama"},
		LLM:       BackendConfig{Backend: "ollama"},
		Enrichment: EnrichmentConfig{
			Facets: true,
			Memory: true,
		},
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Load reads a TOML config file. A missing file yields the defaults;
// a present file has its zero values filled in.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig()
	} else if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	defaults, err := DefaultConfig()
	if err != nil {
		return Config{}, err
	}

	cfg := defaults
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Save writes the configuration to path with restricted permissions.
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// applyDefaults fills zero-valued numeric settings.
func (c *Config) applyDefaults() {
	if c.Retrieval.TopK == 0 {
		c.Retrieval.TopK = DefaultTopK
	}
	if c.Retrieval.MaxPassages == 0 {
		c.Retrieval.MaxPassages = DefaultMaxPassages
	}
	if c.Retrieval.SimilarityFloor == 0 {
		c.Retrieval.SimilarityFloor = DefaultSimilarityFloor
	}
	if c.Retrieval.AcceptThreshold == 0 {
		c.Retrieval.AcceptThreshold = DefaultAcceptThreshold
	}
	if c.Retrieval.MemoryWindow == 0 {
		c.Retrieval.MemoryWindow = DefaultMemoryWindow
	}
	if c.Embedding.Backend == "" {
		c.Embedding.Backend = "ollama"
	}
	if c.LLM.Backend == "" {
		c.LLM.Backend = "ollama"
	}
}
