package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the assistant.
type Config struct {
	LLM     LLMConfig     `mapstructure:"llm"`
	RAG     RAGConfig     `mapstructure:"rag"`
	Tools   ToolsConfig   `mapstructure:"tools"`
	Agent   AgentConfig   `mapstructure:"agent"`
	Gate    GateConfig    `mapstructure:"gate"`
	Storage StorageConfig `mapstructure:"storage"`
	Server  ServerConfig  `mapstructure:"server"`
}

// LLMConfig contains model provider settings.
type LLMConfig struct {
	APIKey         string        `mapstructure:"api_key"`
	BaseURL        string        `mapstructure:"base_url"`
	ChatModel      string        `mapstructure:"chat_model"`
	EmbeddingModel string        `mapstructure:"embedding_model"`
	Temperature    float64       `mapstructure:"temperature"`
	MaxTokens      int           `mapstructure:"max_tokens"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

func (l LLMConfig) Validate() error {
	if strings.TrimSpace(l.APIKey) == "" {
		return fmt.Errorf("llm.api_key required (or set OPENAI_API_KEY)")
	}
	if strings.TrimSpace(l.ChatModel) == "" {
		return fmt.Errorf("llm.chat_model required")
	}
	return nil
}

// RAGConfig controls corpus ingestion and retrieval.
type RAGConfig struct {
	CorpusDir         string `mapstructure:"corpus_dir"`
	ChunkTokens       int    `mapstructure:"chunk_tokens"`
	TokenizerEncoding string `mapstructure:"tokenizer_encoding"`
	TopK              int    `mapstructure:"top_k"`
}

func (r RAGConfig) Validate() error {
	if r.ChunkTokens <= 0 {
		return fmt.Errorf("rag.chunk_tokens must be > 0")
	}
	if r.TopK <= 0 {
		return fmt.Errorf("rag.top_k must be > 0")
	}
	return nil
}

// ToolsConfig contains per-tool settings.
type ToolsConfig struct {
	WebSearch WebSearchConfig `mapstructure:"web_search"`
	Arxiv     ArxivConfig     `mapstructure:"arxiv"`
}

// WebSearchConfig contains web search settings.
type WebSearchConfig struct {
	Provider     string `mapstructure:"provider"`
	SerperAPIKey string `mapstructure:"serper_api_key"`
	BraveAPIKey  string `mapstructure:"brave_api_key"`
	MaxResults   int    `mapstructure:"max_results"`
}

// APIKey returns the key for the configured provider.
func (w WebSearchConfig) APIKey() string {
	if w.Provider == "brave" {
		return w.BraveAPIKey
	}
	return w.SerperAPIKey
}

// Enabled reports whether a usable provider is configured.
func (w WebSearchConfig) Enabled() bool {
	return strings.TrimSpace(w.APIKey()) != ""
}

// ArxivConfig contains academic paper search settings.
type ArxivConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Endpoint   string `mapstructure:"endpoint"`
	MaxResults int    `mapstructure:"max_results"`
}

// AgentConfig contains reasoning loop settings.
type AgentConfig struct {
	MaxToolCycles int `mapstructure:"max_tool_cycles"`
}

func (a AgentConfig) Validate() error {
	if a.MaxToolCycles <= 0 {
		return fmt.Errorf("agent.max_tool_cycles must be > 0")
	}
	return nil
}

// GateConfig controls the helpfulness check on drafted answers.
type GateConfig struct {
	Enabled   bool `mapstructure:"enabled"`
	MaxRounds int  `mapstructure:"max_rounds"`
}

func (g GateConfig) Validate() error {
	if g.Enabled && g.MaxRounds < 1 {
		return fmt.Errorf("gate.max_rounds must be >= 1 when the gate is enabled")
	}
	return nil
}

// StorageConfig selects the checkpoint store backend.
type StorageConfig struct {
	Store string      `mapstructure:"store"` // inmemory or redis
	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig contains Redis connection settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (s StorageConfig) Validate() error {
	switch s.Store {
	case "", "inmemory":
		return nil
	case "redis":
		if strings.TrimSpace(s.Redis.Addr) == "" {
			return fmt.Errorf("storage.redis.addr required when storage.store is redis")
		}
		return nil
	default:
		return fmt.Errorf("unsupported storage.store: %s", s.Store)
	}
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// Validate checks the whole configuration. A missing model credential is the
// only fatal startup condition; everything else has a working default.
func (c *Config) Validate() error {
	if err := c.LLM.Validate(); err != nil {
		return err
	}
	if err := c.RAG.Validate(); err != nil {
		return err
	}
	if err := c.Agent.Validate(); err != nil {
		return err
	}
	if err := c.Gate.Validate(); err != nil {
		return err
	}
	return c.Storage.Validate()
}

// LoadConfig loads config from file and RAGENT_* environment variables.
// A missing config file is fine: defaults plus environment apply.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.chat_model", "gpt-4o-mini")
	v.SetDefault("llm.embedding_model", "text-embedding-3-small")
	v.SetDefault("llm.temperature", 0.0)
	v.SetDefault("llm.max_tokens", 2048)
	v.SetDefault("llm.timeout", time.Minute)
	v.SetDefault("rag.corpus_dir", "./data")
	v.SetDefault("rag.chunk_tokens", 750)
	v.SetDefault("rag.tokenizer_encoding", "cl100k_base")
	v.SetDefault("rag.top_k", 5)
	v.SetDefault("tools.web_search.provider", "serper")
	v.SetDefault("tools.web_search.max_results", 5)
	v.SetDefault("tools.arxiv.enabled", true)
	v.SetDefault("tools.arxiv.endpoint", "https://export.arxiv.org/api/query")
	v.SetDefault("tools.arxiv.max_results", 5)
	v.SetDefault("agent.max_tool_cycles", 8)
	v.SetDefault("gate.enabled", true)
	v.SetDefault("gate.max_rounds", 2)
	v.SetDefault("storage.store", "inmemory")
	v.SetDefault("server.address", ":10010")

	if path == "" {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("RAGENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if config.LLM.APIKey == "" {
		config.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	return &config, nil
}
