package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	koanfjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"capsolver"
)

// Environment variables.
const (
	envAPIKey  = "CAPSOLVER_API_KEY"
	envBaseURL = "CAPSOLVER_BASE_URL"
	envHome    = "CAPSOLVER_HOME"
)

// appConfig holds the CLI configuration.
type appConfig struct {
	APIKey         string `json:"api_key"`
	BaseURL        string `json:"base_url,omitempty"`
	PollIntervalMs int    `json:"poll_interval_ms,omitempty"`
	PollTimeoutMs  int    `json:"poll_timeout_ms,omitempty"`
}

func defaultConfig() appConfig {
	return appConfig{
		BaseURL:        capsolver.DefaultBaseURL,
		PollIntervalMs: int(capsolver.DefaultPollInterval / time.Millisecond),
		PollTimeoutMs:  int(capsolver.DefaultPollTimeout / time.Millisecond),
	}
}

// defaultConfigPath returns config.json in CAPSOLVER_HOME or the current
// directory.
func defaultConfigPath() string {
	if home := strings.TrimSpace(os.Getenv(envHome)); home != "" {
		return filepath.Join(home, "config.json")
	}
	return "config.json"
}

// loadConfig loads configuration from path, then applies environment
// overrides. A missing file is not an error.
func loadConfig(path string) (appConfig, error) {
	cfg := defaultConfig()

	if _, err := os.Stat(path); err == nil {
		k := koanf.New(".")
		if err := k.Load(file.Provider(path), koanfjson.Parser()); err != nil {
			return appConfig{}, fmt.Errorf("load config: %w", err)
		}
		if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
			return appConfig{}, fmt.Errorf("unmarshal config: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return appConfig{}, fmt.Errorf("stat config: %w", err)
	}

	if v := strings.TrimSpace(os.Getenv(envAPIKey)); v != "" {
		cfg.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv(envBaseURL)); v != "" {
		cfg.BaseURL = v
	}

	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	if cfg.APIKey == "" {
		return appConfig{}, fmt.Errorf("api_key is required (set it in config or %s)", envAPIKey)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = capsolver.DefaultBaseURL
	}
	if cfg.PollIntervalMs < 0 {
		return appConfig{}, errors.New("poll_interval_ms must be >= 0")
	}
	return cfg, nil
}

// sessionConfig converts the file configuration into a session config.
func (c appConfig) sessionConfig() capsolver.Config {
	return capsolver.Config{
		APIKey:       c.APIKey,
		BaseURL:      c.BaseURL,
		PollInterval: time.Duration(c.PollIntervalMs) * time.Millisecond,
		PollTimeout:  time.Duration(c.PollTimeoutMs) * time.Millisecond,
	}
}
