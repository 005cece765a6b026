package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

type LLMConfig struct {
	Provider       string   `toml:"provider"`
	Model          string   `toml:"model"`
	APIKey         string   `toml:"api_key"`
	BaseURL        string   `toml:"base_url"`
	FallbackModels []string `toml:"fallback_models"`
	Temperature    float64  `toml:"temperature"`
	MaxTokens      int      `toml:"max_tokens"`
}

type ConcurrencyConfig struct {
	AgentWorkers   int `toml:"agent_workers"`
	MaxInflightLLM int `toml:"max_inflight_llm"`
}

type AnalysisConfig struct {
	SampleSize int `toml:"sample_size"`
}

type AgentsConfig struct {
	Enabled []string `toml:"enabled"`
}

type Config struct {
	LLM         LLMConfig         `toml:"llm"`
	Concurrency ConcurrencyConfig `toml:"concurrency"`
	Analysis    AnalysisConfig    `toml:"analysis"`
	Agents      AgentsConfig      `toml:"agents"`
}

// DefaultFallbackModels are tried in order by the Gemini backend after the
// configured model hits a transient failure (rate limit, timeout, 5xx).
var DefaultFallbackModels = []string{
	"gemini-2.0-flash-lite",
	"gemini-2.0-flash",
	"gemini-2.5-flash",
	"gemini-2.5-pro",
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadOrDefault returns the config at path, or a usable default config when
// the file is absent. Env overrides are applied either way.
func LoadOrDefault(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		cfg = &Config{}
		cfg.applyDefaults()
	}
	cfg.ApplyEnvOverrides()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.2
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 1000
	}
	if len(c.LLM.FallbackModels) == 0 {
		c.LLM.FallbackModels = DefaultFallbackModels
	}
	if c.Concurrency.AgentWorkers == 0 {
		c.Concurrency.AgentWorkers = 4
	}
	if c.Concurrency.MaxInflightLLM == 0 {
		c.Concurrency.MaxInflightLLM = 8
	}
	if c.Analysis.SampleSize == 0 {
		c.Analysis.SampleSize = 1000
	}
}

// ApplyEnvOverrides lets deployments switch the reasoning backend without
// touching the config file.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_FALLBACK_MODELS"); v != "" {
		parts := strings.Split(v, ",")
		models := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				models = append(models, p)
			}
		}
		if len(models) > 0 {
			c.LLM.FallbackModels = models
		}
	}
	if v := os.Getenv("MAX_INFLIGHT_LLM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Concurrency.MaxInflightLLM = n
		}
	}
}
