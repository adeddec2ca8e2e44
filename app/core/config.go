package core

import (
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/postpilot-ai/postpilot/app/core/srv"
	"github.com/postpilot-ai/postpilot/pkg/cache"
)

func MustLoadBaseConfig(path string) CoreConfig {
	if path == "" {
		return LoadBaseConfigFromENV()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	conf := &CoreConfig{}
	if err = toml.Unmarshal(raw, conf); err != nil {
		panic(err)
	}
	conf.RAG.ApplyDefaults()

	return *conf
}

func LoadBaseConfigFromENV() CoreConfig {
	var c CoreConfig
	c.FromENV()
	c.RAG.ApplyDefaults()
	return c
}

type CoreConfig struct {
	Addr     string       `toml:"addr"`
	Log      Log          `toml:"log"`
	Postgres PGConfig     `toml:"postgres"`
	Redis    cache.Config `toml:"redis"`

	AI  srv.AIConfig `toml:"ai"`
	RAG RAGConfig    `toml:"rag"`

	Prompt Prompt `toml:"prompt"`
}

// RAGConfig tunes the reply engine. Zero values fall back to the documented
// defaults, a config file only needs to name what it changes.
type RAGConfig struct {
	RateLimitIntervalMS int     `toml:"rate_limit_interval_ms"` // min spacing between paid model calls
	MemoryTokenBudget   int     `toml:"memory_token_budget"`
	StalenessCutoffSec  int     `toml:"staleness_cutoff_sec"`
	RetrievalK          int     `toml:"retrieval_k"`
	MinSimilarity       float64 `toml:"min_similarity"`
	MaxReplyTokens      int     `toml:"max_reply_tokens"`
	ModelTimeoutSec     int     `toml:"model_timeout_sec"` // outer deadline for one paid reply path
	FallbackReply       string  `toml:"fallback_reply"`
	AutoReplyDefault    bool    `toml:"autoreply_default"`
}

const DEFAULT_FALLBACK_REPLY = "Thanks for reaching out! We'll get back to you shortly."

func (c *RAGConfig) ApplyDefaults() {
	if c.RateLimitIntervalMS <= 0 {
		c.RateLimitIntervalMS = 2000
	}
	if c.MemoryTokenBudget <= 0 {
		c.MemoryTokenBudget = 200
	}
	if c.StalenessCutoffSec <= 0 {
		c.StalenessCutoffSec = 300
	}
	if c.RetrievalK <= 0 {
		c.RetrievalK = 1
	}
	if c.MinSimilarity <= 0 {
		c.MinSimilarity = 0.1
	}
	if c.MaxReplyTokens <= 0 {
		c.MaxReplyTokens = 150
	}
	if c.ModelTimeoutSec <= 0 {
		c.ModelTimeoutSec = 30
	}
	if c.FallbackReply == "" {
		c.FallbackReply = DEFAULT_FALLBACK_REPLY
	}
}

// Prompt overrides the built-in prompts. Empty fields keep the defaults.
type Prompt struct {
	Reply         string `toml:"reply"`
	MemorySummary string `toml:"memory_summary"`
	ExtractFacts  string `toml:"extract_facts"`
}

func (c *CoreConfig) FromENV() {
	c.Addr = os.Getenv("POSTPILOT_SERVICE_ADDRESS")
	c.Log.FromENV()
	c.Postgres.FromENV()
	c.Redis.FromENV()
}

type PGConfig struct {
	DSN string `toml:"dsn"`
}

func (m *PGConfig) FromENV() {
	m.DSN = os.Getenv("POSTPILOT_POSTGRESQL_DSN")
}

func (c PGConfig) FormatDSN() string {
	return c.DSN
}

type Log struct {
	Level string `toml:"level"`
	Path  string `toml:"path"`
}

func (l *Log) FromENV() {
	l.Level = os.Getenv("POSTPILOT_LOG_LEVEL")
	l.Path = os.Getenv("POSTPILOT_LOG_PATH")
}

func (l *Log) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}
