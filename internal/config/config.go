package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv  = "LINKSTASH_CONFIG"
	storagePathEnv = "LINKSTASH_DB"
	llmAPIKeyEnv   = "LLM_API_KEY"
	llmModelEnv    = "LLM_MODEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Storage    StorageConfig    `yaml:"storage"`
	Services   ServicesConfig   `yaml:"services"`
	LLM        LLMConfig        `yaml:"llm"`
	Enrichment EnrichmentConfig `yaml:"enrichment"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// StorageConfig describes the local article database.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// ServicesConfig groups the upstream extraction services.
type ServicesConfig struct {
	ScraperURL     string `yaml:"scraperUrl"`
	ReadabilityURL string `yaml:"readabilityUrl"`
	OEmbedURL      string `yaml:"oembedUrl"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

// Timeout returns the per-request deadline for the extraction services.
func (s ServicesConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// LLMConfig defines how to contact the chat-completion API. APIKey is
// the build-time fallback; the env var takes precedence at runtime.
type LLMConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
	KeyEnv   string `yaml:"keyEnv"`
}

// EnrichmentConfig tunes the background analysis worker.
type EnrichmentConfig struct {
	Enabled        bool `yaml:"enabled"`
	QueueSize      int  `yaml:"queueSize"`
	TimeoutSeconds int  `yaml:"timeoutSeconds"`
}

// Timeout returns the per-job deadline for background enrichment.
func (e EnrichmentConfig) Timeout() time.Duration {
	return time.Duration(e.TimeoutSeconds) * time.Second
}

// Load reads YAML configuration (if present) and applies environment
// overrides. A .env file in the working directory is honored.
func Load() Config {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(storagePathEnv); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv(llmAPIKeyEnv); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv(llmModelEnv); v != "" {
		c.LLM.Model = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Storage.Path != "" {
		base.Storage.Path = override.Storage.Path
	}

	if override.Services.ScraperURL != "" {
		base.Services.ScraperURL = override.Services.ScraperURL
	}
	if override.Services.ReadabilityURL != "" {
		base.Services.ReadabilityURL = override.Services.ReadabilityURL
	}
	if override.Services.OEmbedURL != "" {
		base.Services.OEmbedURL = override.Services.OEmbedURL
	}
	if override.Services.TimeoutSeconds != 0 {
		base.Services.TimeoutSeconds = override.Services.TimeoutSeconds
	}

	if override.LLM.Endpoint != "" {
		base.LLM.Endpoint = override.LLM.Endpoint
	}
	if override.LLM.Model != "" {
		base.LLM.Model = override.LLM.Model
	}
	if override.LLM.APIKey != "" {
		base.LLM.APIKey = override.LLM.APIKey
	}
	if override.LLM.KeyEnv != "" {
		base.LLM.KeyEnv = override.LLM.KeyEnv
	}

	if override.Enrichment.QueueSize != 0 {
		base.Enrichment.QueueSize = override.Enrichment.QueueSize
	}
	if override.Enrichment.TimeoutSeconds != 0 {
		base.Enrichment.TimeoutSeconds = override.Enrichment.TimeoutSeconds
	}
	base.Enrichment.Enabled = base.Enrichment.Enabled || override.Enrichment.Enabled

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Storage: StorageConfig{Path: "data/linkstash.db"},
		Services: ServicesConfig{
			ScraperURL:     "https://api.microlink.io",
			ReadabilityURL: "https://r.jina.ai",
			OEmbedURL:      "https://www.youtube.com/oembed",
			TimeoutSeconds: 20,
		},
		LLM: LLMConfig{
			Endpoint: "https://api.openai.com/v1/chat/completions",
			Model:    "gpt-4o-mini",
			KeyEnv:   llmAPIKeyEnv,
		},
		Enrichment: EnrichmentConfig{
			Enabled:        true,
			QueueSize:      16,
			TimeoutSeconds: 60,
		},
	}
}
