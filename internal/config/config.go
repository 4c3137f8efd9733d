// Package config loads and merges the bot configuration the way the
// hosting product does it: a YAML file fetched from the organization's
// config repository, overridden by the repository's own file, overridden
// by environment variables.
package config

import (
	"context"
	"fmt"
	"log/slog"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// configPath is the in-repo location of the bot config file.
const configPath = ".github/ubiquibot-config.yml"

// orgConfigRepo is the organization-level repository holding the shared
// config file.
const orgConfigRepo = ".ubiquibot-config"

// FileFetcher retrieves a file's contents from a GitHub repository.
type FileFetcher interface {
	GetRepoFile(ctx context.Context, owner, repo, path string) ([]byte, error)
}

// envOverrides are credentials taken from the process environment; they
// win over any fetched config.
type envOverrides struct {
	OpenAIKey string `env:"OPENAI_API_KEY"`
	GeminiKey string `env:"GEMINI_API_KEY"`
	Provider  string `env:"ASKBOT_PROVIDER"`
	Model     string `env:"ASKBOT_MODEL"`
}

// Load assembles the effective configuration for owner/repo. A missing
// or unreadable config file at either level is logged and skipped; the
// result always starts from DefaultConfig.
func Load(ctx context.Context, fetcher FileFetcher, owner, repo string) (*Config, error) {
	cfg := DefaultConfig()

	if orgCfg, err := fetchConfig(ctx, fetcher, owner, orgConfigRepo); err != nil {
		slog.Debug("no organization config", "owner", owner, "error", err)
	} else if err := mergo.Merge(&cfg, orgCfg, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("merging organization config: %w", err)
	}

	if repoCfg, err := fetchConfig(ctx, fetcher, owner, repo); err != nil {
		slog.Debug("no repository config", "repo", owner+"/"+repo, "error", err)
	} else if err := mergo.Merge(&cfg, repoCfg, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("merging repository config: %w", err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// fetchConfig retrieves and parses one config file.
func fetchConfig(ctx context.Context, fetcher FileFetcher, owner, repo string) (Config, error) {
	var cfg Config
	data, err := fetcher.GetRepoFile(ctx, owner, repo, configPath)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s/%s:%s: %w", owner, repo, configPath, err)
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) error {
	var ov envOverrides
	if err := env.Parse(&ov); err != nil {
		return fmt.Errorf("parsing environment overrides: %w", err)
	}
	if ov.OpenAIKey != "" {
		cfg.Keys.OpenAI = ov.OpenAIKey
	}
	if ov.GeminiKey != "" {
		cfg.Keys.Gemini = ov.GeminiKey
	}
	if ov.Provider != "" {
		cfg.Provider = ov.Provider
	}
	if ov.Model != "" {
		cfg.Model = ov.Model
	}
	return nil
}
