// Package config provides configuration for the pagesync tools.
//
// Service credentials (hosted store, embedding provider) always come from
// environment variables and are validated before any network or database
// connection is opened. The crawler additionally reads a YAML file for
// source and fetch settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingSupabaseURL = errors.New("SUPABASE_URL environment variable is required")
	ErrMissingSupabaseKey = errors.New("SUPABASE_SERVICE_ROLE_KEY environment variable is required")
	ErrMissingOpenAIKey   = errors.New("OPENAI_API_KEY environment variable is required")

	ErrMissingRoot           = errors.New("source.root is required")
	ErrMissingURLFile        = errors.New("source.url_file is required")
	ErrMissingDBPath         = errors.New("output.db_path is required")
	ErrInvalidMaxAttempts    = errors.New("fetch.max_attempts must be at least 1")
	ErrInvalidInitialDelay   = errors.New("fetch.initial_delay_ms must be non-negative")
	ErrInvalidBackoff        = errors.New("fetch.backoff_multiplier must be >= 1.0")
	ErrInvalidTimeout        = errors.New("fetch.timeout_sec must be at least 1")
	ErrInvalidLogLevel       = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrNoContentSelectors    = errors.New("extract.content_selectors must not be empty")
	ErrInvalidSkipSuffixExpr = errors.New("source.skip_suffix_pattern is invalid regex")
)

// Service holds environment-derived credentials and table names for the
// hosted store and the embedding provider.
type Service struct {
	SupabaseURL    string
	SupabaseKey    string
	OpenAIKey      string
	OpenAIBaseURL  string
	EmbeddingModel string
	PagesTable     string
	ChunksTable    string
}

// FromEnv reads the service configuration from environment variables.
// Validation is separate so callers can require only what they use.
func FromEnv() *Service {
	return &Service{
		SupabaseURL:    os.Getenv("SUPABASE_URL"),
		SupabaseKey:    os.Getenv("SUPABASE_SERVICE_ROLE_KEY"),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:  getEnv("OPENAI_API_BASE", ""),
		EmbeddingModel: getEnv("EMBED_MODEL", "text-embedding-3-small"),
		PagesTable:     getEnv("PAGES_TABLE", "pages"),
		ChunksTable:    getEnv("CHUNKS_TABLE", "pages_chunks"),
	}
}

// ValidateStore checks the credentials needed to reach the hosted store.
func (s *Service) ValidateStore() error {
	if s.SupabaseURL == "" {
		return ErrMissingSupabaseURL
	}

	if s.SupabaseKey == "" {
		return ErrMissingSupabaseKey
	}

	return nil
}

// ValidateEmbedding checks the credentials needed for embedding calls on
// top of the hosted-store credentials.
func (s *Service) ValidateEmbedding() error {
	if err := s.ValidateStore(); err != nil {
		return err
	}

	if s.OpenAIKey == "" {
		return ErrMissingOpenAIKey
	}

	return nil
}

// Crawler represents the crawler configuration file.
type Crawler struct {
	Source  SourceConfig  `yaml:"source"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Extract ExtractConfig `yaml:"extract"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// SourceConfig describes where URLs come from.
type SourceConfig struct {
	Root              string `yaml:"root"`
	Sitemap           string `yaml:"sitemap"`
	URLFile           string `yaml:"url_file"`
	SkipSuffixPattern string `yaml:"skip_suffix_pattern"`
}

// FetchConfig controls HTTP fetching and retry behavior.
type FetchConfig struct {
	MaxAttempts       int     `yaml:"max_attempts"`
	InitialDelayMs    int     `yaml:"initial_delay_ms"`
	MaxDelayMs        int     `yaml:"max_delay_ms"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
	TimeoutSec        int     `yaml:"timeout_sec"`
	DelayMs           int     `yaml:"delay_ms"`
	BufferSizeKb      int     `yaml:"buffer_size_kb"`
}

// ExtractConfig controls how page HTML is reduced to the main content.
type ExtractConfig struct {
	ContentSelectors []string `yaml:"content_selectors"`
	StripSelectors   []string `yaml:"strip_selectors"`
}

// OutputConfig describes the local store.
type OutputConfig struct {
	DBPath string `yaml:"db_path"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultCrawler returns a crawler configuration with sane fetch defaults.
// Source root, URL file and db path still need to be filled in.
func DefaultCrawler() *Crawler {
	return &Crawler{
		Source: SourceConfig{
			SkipSuffixPattern: `\.(pdf|png|jpe?g|gif|svg)$`,
		},
		Fetch: FetchConfig{
			MaxAttempts:       3,
			InitialDelayMs:    500,
			MaxDelayMs:        30000,
			BackoffMultiplier: 2.0,
			TimeoutSec:        30,
			DelayMs:           1000,
			BufferSizeKb:      4096,
		},
		Extract: ExtractConfig{
			ContentSelectors: []string{"main", "article", "body"},
		},
		Output: OutputConfig{
			DBPath: "pages.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadCrawler loads the crawler configuration from a YAML file.
func LoadCrawler(filepath string) (*Crawler, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultCrawler()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the crawler configuration.
func (c *Crawler) Validate() error {
	if c.Source.Root == "" {
		return ErrMissingRoot
	}

	if c.Source.URLFile == "" {
		return ErrMissingURLFile
	}

	if c.Output.DBPath == "" {
		return ErrMissingDBPath
	}

	if c.Fetch.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}

	if c.Fetch.InitialDelayMs < 0 {
		return ErrInvalidInitialDelay
	}

	if c.Fetch.BackoffMultiplier < 1.0 {
		return ErrInvalidBackoff
	}

	if c.Fetch.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if len(c.Extract.ContentSelectors) == 0 {
		return ErrNoContentSelectors
	}

	if c.Source.SkipSuffixPattern != "" {
		if _, err := regexp.Compile(c.Source.SkipSuffixPattern); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSkipSuffixExpr, err)
		}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	return nil
}

// RetryDelay calculates the exponential backoff delay before the given
// attempt number (1-based; the first attempt has no delay).
func (f *FetchConfig) RetryDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}

	delayMs := float64(f.InitialDelayMs)
	for i := 1; i < attempt; i++ {
		delayMs *= f.BackoffMultiplier
	}

	if f.MaxDelayMs > 0 && int(delayMs) > f.MaxDelayMs {
		delayMs = float64(f.MaxDelayMs)
	}

	return time.Duration(int(delayMs)) * time.Millisecond
}

// Timeout returns the per-request timeout.
func (f *FetchConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSec) * time.Second
}

// CrawlDelay returns the pause between page fetches.
func (f *FetchConfig) CrawlDelay() time.Duration {
	return time.Duration(f.DelayMs) * time.Millisecond
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

// GetEnvInt reads an integer environment variable with a default.
func GetEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}

	return def
}
