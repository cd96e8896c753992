// Package config resolves runtime configuration from defaults, an optional
// .sonda.yaml in the working directory, and environment variables, in that
// order.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is looked up in the working directory.
const ConfigFileName = ".sonda.yaml"

// Config holds the settings for a research session. API keys come from the
// environment only and are never read from or written to the config file.
type Config struct {
	Model         string  `yaml:"model"`
	MaxIterations int     `yaml:"max_iterations"`
	Temperature   float64 `yaml:"temperature"`
	Provider      string  `yaml:"provider"`
	OpenAIBaseURL string  `yaml:"openai_base_url"`

	OpenAIAPIKey string `yaml:"-"`
	ExaAPIKey    string `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Model:         "anthropic/claude-haiku-4.5",
		MaxIterations: 50,
		Temperature:   0,
		OpenAIBaseURL: "https://api.openai.com/v1",
	}
}

// Load resolves the configuration for the current working directory.
// The config file is optional; a missing file is not an error.
func Load() (*Config, error) {
	cfg := Default()

	if err := loadFromFile(cfg, ConfigFileName); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	loadFromEnv(cfg)
	return cfg, nil
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAIAPIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.OpenAIBaseURL = v
	}
	if v := os.Getenv("EXAAI_API_KEY"); v != "" {
		cfg.ExaAPIKey = v
	}
}
