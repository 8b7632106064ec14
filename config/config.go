// Package config loads the resumatch application configuration from a YAML
// file, a .env file and RESUMATCH_* environment variables, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/poiesic/resumatch/ai"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "RESUMATCH_"

// DataConfig holds filesystem locations.
type DataConfig struct {
	ResumeDir string `yaml:"resume_dir"`
	IndexDir  string `yaml:"index_dir"`
	Backend   string `yaml:"backend"` // file, badger (default: file)
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"` // local, openai (default: local)
	Host      string `yaml:"host"`
	Model     string `yaml:"model"`
	Token     string `yaml:"token"`
	Dimension int    `yaml:"dimension"`
}

// SearchConfig holds ranking settings.
type SearchConfig struct {
	Candidates     int     `yaml:"candidates"`
	Results        int     `yaml:"results"`
	SemanticWeight float64 `yaml:"semantic_weight"`
	MinJobLength   int     `yaml:"min_job_length"`
}

// IngestionConfig holds ingestion pipeline settings.
type IngestionConfig struct {
	PoolSize      int      `yaml:"pool_size"` // 0 = runtime.NumCPU() / 2
	MinTextLength int      `yaml:"min_text_length"`
	Extensions    []string `yaml:"extensions"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	MaxUploadMB     int    `yaml:"max_upload_mb"`
	ReadTimeoutSec  int    `yaml:"read_timeout_sec"`
	WriteTimeoutSec int    `yaml:"write_timeout_sec"`
	ShutdownSec     int    `yaml:"shutdown_timeout_sec"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Data      DataConfig      `yaml:"data"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Search    SearchConfig    `yaml:"search"`
	Ingestion IngestionConfig `yaml:"ingestion"`
	Server    ServerConfig    `yaml:"server"`
	LogLevel  string          `yaml:"log_level"` // debug, info, warn, error (default: info)
}

// Default returns the built-in configuration.
func Default() *AppConfig {
	cfg := &AppConfig{}
	cfg.ApplyDefaults()
	return cfg
}

// Load reads a config from path, applies defaults and environment
// overrides, and validates the result. If the file does not exist the
// defaults are used. An empty path skips the file.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{}
	if path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.ApplyDefaults()
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadDotEnv loads variables from the given .env files (".env" when none
// are given) into the process environment. Missing files are ignored and
// variables already set are not overwritten.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ApplyDefaults fills empty fields with default values.
func (c *AppConfig) ApplyDefaults() {
	if c.Data.ResumeDir == "" {
		c.Data.ResumeDir = filepath.Join("data", "resumes")
	}
	if c.Data.IndexDir == "" {
		c.Data.IndexDir = "vectorstore"
	}
	if c.Data.Backend == "" {
		c.Data.Backend = BackendFile
	}

	def := ai.DefaultConfig()
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = def.Provider
	}
	if c.Embedding.Host == "" {
		c.Embedding.Host = def.EmbeddingHost
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = def.EmbeddingModel
	}
	if c.Embedding.Dimension <= 0 {
		c.Embedding.Dimension = def.Dimension
	}

	if c.Search.Candidates <= 0 {
		c.Search.Candidates = 10
	}
	if c.Search.Results <= 0 {
		c.Search.Results = 5
	}
	if c.Search.SemanticWeight == 0 {
		c.Search.SemanticWeight = 0.6
	}
	if c.Search.MinJobLength <= 0 {
		c.Search.MinJobLength = 10
	}

	if c.Ingestion.MinTextLength <= 0 {
		c.Ingestion.MinTextLength = 10
	}
	if len(c.Ingestion.Extensions) == 0 {
		c.Ingestion.Extensions = []string{".pdf", ".docx", ".txt", ".md"}
	}

	if c.Server.Addr == "" {
		c.Server.Addr = "127.0.0.1:5000"
	}
	if c.Server.MaxUploadMB <= 0 {
		c.Server.MaxUploadMB = 50
	}
	if c.Server.ReadTimeoutSec <= 0 {
		c.Server.ReadTimeoutSec = 30
	}
	if c.Server.WriteTimeoutSec <= 0 {
		c.Server.WriteTimeoutSec = 120
	}
	if c.Server.ShutdownSec <= 0 {
		c.Server.ShutdownSec = 10
	}

	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// ApplyEnv overrides fields from RESUMATCH_* variables found by lookup.
func (c *AppConfig) ApplyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"LOG_LEVEL":          &c.LogLevel,
		"RESUME_DIR":         &c.Data.ResumeDir,
		"INDEX_DIR":          &c.Data.IndexDir,
		"BACKEND":            &c.Data.Backend,
		"EMBEDDING_PROVIDER": &c.Embedding.Provider,
		"EMBEDDING_HOST":     &c.Embedding.Host,
		"EMBEDDING_MODEL":    &c.Embedding.Model,
		"EMBEDDING_TOKEN":    &c.Embedding.Token,
		"SERVER_ADDR":        &c.Server.Addr,
	}
	for name, field := range strs {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*field = v
		}
	}

	ints := map[string]*int{
		"EMBEDDING_DIMENSION": &c.Embedding.Dimension,
		"MAX_UPLOAD_MB":       &c.Server.MaxUploadMB,
		"POOL_SIZE":           &c.Ingestion.PoolSize,
	}
	for name, field := range ints {
		v, ok := lookup(EnvPrefix + name)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
		}
		*field = n
	}
	return nil
}

// Validate checks the configuration for correctness.
func (c *AppConfig) Validate() error {
	switch c.Data.Backend {
	case BackendFile, BackendBadger:
	default:
		return fmt.Errorf("data.backend must be %q or %q, got %q", BackendFile, BackendBadger, c.Data.Backend)
	}
	if c.Search.SemanticWeight < 0 || c.Search.SemanticWeight > 1 {
		return fmt.Errorf("search.semantic_weight must be between 0 and 1, got %v", c.Search.SemanticWeight)
	}
	if c.Ingestion.PoolSize < 0 {
		return fmt.Errorf("ingestion.pool_size must not be negative, got %d", c.Ingestion.PoolSize)
	}
	for _, ext := range c.Ingestion.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("ingestion.extensions entries must start with a dot, got %q", ext)
		}
	}
	if err := c.AIConfig().Validate(); err != nil {
		return fmt.Errorf("embedding: %w", err)
	}
	return nil
}

// AIConfig converts the embedding section into an ai.Config.
func (c *AppConfig) AIConfig() *ai.Config {
	cfg := ai.NewConfig(
		ai.WithProvider(c.Embedding.Provider),
		ai.WithHost(c.Embedding.Host),
		ai.WithEmbeddingModel(c.Embedding.Model),
		ai.WithToken(c.Embedding.Token),
		ai.WithDimension(c.Embedding.Dimension),
	)
	cfg.Normalize()
	return cfg
}

// MaxUploadBytes returns the upload limit in bytes.
func (c *AppConfig) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) << 20
}
