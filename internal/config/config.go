// Package config resolves endpoint and storage configuration for the
// scorecard server. Defaults point at the staging platform; an optional
// YAML file under the data directory and SCORECARD_* environment
// variables override them, in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the optional override file inside the data directory.
const ConfigFile = "config.yaml"

// Config holds the full server configuration.
type Config struct {
	QuestionsURL    string `yaml:"questions_url"`
	SubmitURL       string `yaml:"submit_url"`
	SalesRequestURL string `yaml:"sales_request_url"`
	SalesProfileURL string `yaml:"sales_profile_url"`
	ReasonerURL     string `yaml:"reasoner_url"`
	ReasonerAPIKey  string `yaml:"reasoner_api_key"`
	SnapshotPath    string `yaml:"snapshot_path"`
	DataDir         string `yaml:"data_dir"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
}

// Default returns the built-in configuration.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		QuestionsURL:    "https://staging.platform.kube.money/api/v1/credit-score/questions",
		SubmitURL:       "https://staging.platform.kube.money/api/v1/credit-score/submit",
		SalesRequestURL: "https://staging.platform.kube.money/api/v1/sales-agent/request",
		SalesProfileURL: "https://staging.platform.kube.money/api/v1/sales-agent/profile",
		ReasonerURL:     "https://staging.platform.kube.money/api/v1/utility-model/complete",
		SnapshotPath:    filepath.Join("examples", "credit_score_questions.json"),
		DataDir:         filepath.Join(home, ".scorecard"),
		TimeoutSeconds:  10,
	}
}

// Load resolves the effective configuration: defaults, then the YAML
// file if present, then environment variables.
func Load() (Config, error) {
	cfg := Default()

	path := filepath.Join(cfg.DataDir, ConfigFile)
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv overlays SCORECARD_* environment variables.
func applyEnv(cfg *Config) {
	overrides := map[string]*string{
		"SCORECARD_QUESTIONS_URL":     &cfg.QuestionsURL,
		"SCORECARD_SUBMIT_URL":        &cfg.SubmitURL,
		"SCORECARD_SALES_REQUEST_URL": &cfg.SalesRequestURL,
		"SCORECARD_SALES_PROFILE_URL": &cfg.SalesProfileURL,
		"SCORECARD_REASONER_URL":      &cfg.ReasonerURL,
		"SCORECARD_REASONER_API_KEY":  &cfg.ReasonerAPIKey,
		"SCORECARD_SNAPSHOT_PATH":     &cfg.SnapshotPath,
		"SCORECARD_DATA_DIR":          &cfg.DataDir,
	}
	for key, target := range overrides {
		if v := os.Getenv(key); v != "" {
			*target = v
		}
	}
}

// Timeout returns the bounded duration for all outbound calls.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
