package config

import (
	"os"
	"testing"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	tmpDir := t.TempDir()
	originalWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	t.Cleanup(func() { os.Chdir(originalWd) })
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_BASE_URL", "")
	t.Setenv("EXAAI_API_KEY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Model != "anthropic/claude-haiku-4.5" {
		t.Errorf("got model %q", cfg.Model)
	}
	if cfg.MaxIterations != 50 {
		t.Errorf("got max iterations %d, want 50", cfg.MaxIterations)
	}
	if cfg.OpenAIBaseURL != "https://api.openai.com/v1" {
		t.Errorf("got base URL %q", cfg.OpenAIBaseURL)
	}
}

func TestLoadFromFile(t *testing.T) {
	chdirTemp(t)
	t.Setenv("OPENAI_BASE_URL", "")

	yaml := "model: openai/gpt-5\nmax_iterations: 25\ntemperature: 0.7\n"
	if err := os.WriteFile(ConfigFileName, []byte(yaml), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Model != "openai/gpt-5" || cfg.MaxIterations != 25 || cfg.Temperature != 0.7 {
		t.Errorf("file values not applied: %+v", cfg)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	chdirTemp(t)

	if err := os.WriteFile(ConfigFileName, []byte("openai_base_url: https://file.example\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("OPENAI_BASE_URL", "https://env.example/v1")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("EXAAI_API_KEY", "exa-test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OpenAIBaseURL != "https://env.example/v1" {
		t.Errorf("env should win over file, got %q", cfg.OpenAIBaseURL)
	}
	if cfg.OpenAIAPIKey != "sk-test" || cfg.ExaAPIKey != "exa-test" {
		t.Errorf("API keys not read from env: %+v", cfg)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	chdirTemp(t)

	if err := os.WriteFile(ConfigFileName, []byte("model: [unclosed"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed config file")
	}
}
