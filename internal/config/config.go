// Package config loads the application configuration from an optional
// YAML file overlaid with ATTACHE_-prefixed environment variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Storage  StorageConfig  `koanf:"storage"`
	OpenAI   OpenAIConfig   `koanf:"openai"`
	Composio ComposioConfig `koanf:"composio"`
}

type ServerConfig struct {
	Port int `koanf:"port"`
}

type StorageConfig struct {
	Type   string       `koanf:"type"` // sqlite, memory
	SQLite SQLiteConfig `koanf:"sqlite"`
}

type SQLiteConfig struct {
	Path string `koanf:"path"`
}

type OpenAIConfig struct {
	APIKey           string `koanf:"api_key"`
	BaseURL          string `koanf:"base_url"`
	Model            string `koanf:"model"`
	MaxContextTokens int    `koanf:"max_context_tokens"`
}

type ComposioConfig struct {
	APIKey  string `koanf:"api_key"`
	BaseURL string `koanf:"base_url"`
	UserID  string `koanf:"user_id"`
}

// Load reads configuration from path (skipped when the file does not
// exist) and the environment. Environment variables win; double
// underscore separates nesting levels, so ATTACHE_OPENAI__API_KEY maps
// to openai.api_key.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config file: %w", err)
			}
		}
	}

	if err := k.Load(env.Provider("ATTACHE_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "ATTACHE_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	// Defaults
	if !k.Exists("server.port") {
		k.Set("server.port", 8080)
	}
	if !k.Exists("storage.type") {
		k.Set("storage.type", "sqlite")
	}
	if !k.Exists("storage.sqlite.path") {
		k.Set("storage.sqlite.path", "./data/attache.db")
	}
	if !k.Exists("openai.model") {
		k.Set("openai.model", "gpt-4o-mini")
	}
	if !k.Exists("openai.max_context_tokens") {
		k.Set("openai.max_context_tokens", 4096)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
