// Package config loads folio configuration from a flat JSON file at
// $XDG_CONFIG_HOME/folio/config.json with FOLIO_* environment variables
// taking precedence over file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

type Config struct {
	Server     ServerConfig
	Knowledge  KnowledgeConfig
	Storage    StorageConfig
	Proxy      ProxyConfig
	Generation GenerationConfig
	Log        LogConfig
}

type ServerConfig struct {
	Port int
}

type KnowledgeConfig struct {
	// Path to the portfolio knowledge document.
	Path string
}

type StorageConfig struct {
	DataDir string
}

type ProxyConfig struct {
	OpenRouterAPIKey string
	Model            string
}

type GenerationConfig struct {
	Temperature float64
	MaxTokens   int
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 4600,
		},
		Knowledge: KnowledgeConfig{
			Path: filepath.Join(defaultDataDir(), "portfolio_knowledge.json"),
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Proxy: ProxyConfig{
			Model: "openai/gpt-4.1-mini",
		},
		Generation: GenerationConfig{
			Temperature: 0.5,
			MaxTokens:   800,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the config file and environment.
// A missing OpenRouter API key is a load error: the assistant cannot
// answer anything without its completion backend.
func Load() (Config, error) {
	return loadWith(newFileBackend(configFilePath()))
}

// LoadClient reads configuration for CLI commands that only talk to the
// local server. The API key is not required here.
func LoadClient() Config {
	cfg := defaults()
	applyBackend(&cfg, newFileBackend(configFilePath()))
	applyEnvOverrides(&cfg)
	return cfg
}

func loadWith(b *fileBackend) (Config, error) {
	cfg := defaults()

	applyBackend(&cfg, b)
	applyEnvOverrides(&cfg)

	if cfg.Proxy.OpenRouterAPIKey == "" {
		return Config{}, fmt.Errorf(
			"missing required config: OpenRouter API key. " +
				"Set it via environment variable FOLIO_OPENROUTER_API_KEY " +
				"or the proxy.openrouter_api_key config key")
	}

	return cfg, nil
}

// keySpec binds one flat config key to its env override and Config field.
// apply owns parsing; unparsable values keep the previous setting.
type keySpec struct {
	key   string
	env   string
	apply func(cfg *Config, v string)
}

var specs = []keySpec{
	{
		key: "server.port", env: "FOLIO_SERVER_PORT",
		apply: func(cfg *Config, v string) {
			if p, err := strconv.Atoi(v); err == nil {
				cfg.Server.Port = p
			}
		},
	},
	{
		key: "knowledge.path", env: "FOLIO_KNOWLEDGE_PATH",
		apply: func(cfg *Config, v string) { cfg.Knowledge.Path = v },
	},
	{
		key: "storage.data_dir", env: "FOLIO_DATA_DIR",
		apply: func(cfg *Config, v string) { cfg.Storage.DataDir = v },
	},
	{
		key: "proxy.openrouter_api_key", env: "FOLIO_OPENROUTER_API_KEY",
		apply: func(cfg *Config, v string) { cfg.Proxy.OpenRouterAPIKey = v },
	},
	{
		key: "proxy.model", env: "FOLIO_MODEL",
		apply: func(cfg *Config, v string) { cfg.Proxy.Model = v },
	},
	{
		key: "generation.temperature", env: "FOLIO_TEMPERATURE",
		apply: func(cfg *Config, v string) {
			if t, err := strconv.ParseFloat(v, 64); err == nil && t > 0 {
				cfg.Generation.Temperature = t
			}
		},
	},
	{
		key: "generation.max_tokens", env: "FOLIO_MAX_TOKENS",
		apply: func(cfg *Config, v string) {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				cfg.Generation.MaxTokens = n
			}
		},
	},
	{
		key: "log.level", env: "FOLIO_LOG_LEVEL",
		apply: func(cfg *Config, v string) { cfg.Log.Level = v },
	},
}

func applyBackend(cfg *Config, b *fileBackend) {
	for _, s := range specs {
		if v, ok := b.GetString(s.key); ok && v != "" {
			s.apply(cfg, v)
		}
	}
}

func applyEnvOverrides(cfg *Config) {
	for _, s := range specs {
		if v := os.Getenv(s.env); v != "" {
			s.apply(cfg, v)
		}
	}
}

func defaultDataDir() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".local", "share")
		} else {
			return "folio-data"
		}
	}
	return filepath.Join(dir, "folio")
}

func configFilePath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".config")
		} else {
			dir = "."
		}
	}
	return filepath.Join(dir, "folio", "config.json")
}
