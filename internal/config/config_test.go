package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// isolateHome points the resolver at an empty home directory so the
// developer's real ~/.scorecard/config.yaml cannot leak into tests.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestDefault_StagingEndpoints(t *testing.T) {
	cfg := Default()

	if cfg.QuestionsURL != "https://staging.platform.kube.money/api/v1/credit-score/questions" {
		t.Errorf("QuestionsURL = %q", cfg.QuestionsURL)
	}
	if cfg.SubmitURL != "https://staging.platform.kube.money/api/v1/credit-score/submit" {
		t.Errorf("SubmitURL = %q", cfg.SubmitURL)
	}
	if cfg.TimeoutSeconds != 10 {
		t.Errorf("TimeoutSeconds = %d, want 10", cfg.TimeoutSeconds)
	}
}

func TestLoad_DefaultsWithoutFileOrEnv(t *testing.T) {
	home := isolateHome(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DataDir != filepath.Join(home, ".scorecard") {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.QuestionsURL != Default().QuestionsURL {
		t.Errorf("QuestionsURL = %q, want default", cfg.QuestionsURL)
	}
}

func TestLoad_YAMLFileOverridesDefaults(t *testing.T) {
	home := isolateHome(t)

	dir := filepath.Join(home, ".scorecard")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	file := "questions_url: http://localhost:9000/questions\ntimeout_seconds: 3\n"
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte(file), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.QuestionsURL != "http://localhost:9000/questions" {
		t.Errorf("QuestionsURL = %q", cfg.QuestionsURL)
	}
	if cfg.TimeoutSeconds != 3 {
		t.Errorf("TimeoutSeconds = %d, want 3", cfg.TimeoutSeconds)
	}
	// Untouched fields keep their defaults.
	if cfg.SubmitURL != Default().SubmitURL {
		t.Errorf("SubmitURL = %q, want default", cfg.SubmitURL)
	}
}

func TestLoad_EnvBeatsYAML(t *testing.T) {
	home := isolateHome(t)

	dir := filepath.Join(home, ".scorecard")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ConfigFile),
		[]byte("questions_url: http://from-yaml/questions\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SCORECARD_QUESTIONS_URL", "http://from-env/questions")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.QuestionsURL != "http://from-env/questions" {
		t.Errorf("QuestionsURL = %q, want env override", cfg.QuestionsURL)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	home := isolateHome(t)

	dir := filepath.Join(home, ".scorecard")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte("::nope"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("Load() succeeded on malformed YAML, want error")
	}
}

func TestTimeout_Bounds(t *testing.T) {
	if got := (Config{TimeoutSeconds: 5}).Timeout(); got != 5*time.Second {
		t.Errorf("Timeout() = %v, want 5s", got)
	}
	if got := (Config{}).Timeout(); got != 10*time.Second {
		t.Errorf("Timeout() = %v, want 10s fallback", got)
	}
}
