package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, yamlContent string) {
	t.Helper()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	originalDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("failed to change directory: %v", err)
	}
	t.Cleanup(func() {
		os.Chdir(originalDir)
	})
}

const baseYAML = `
port: "9000"
env: "test"
store:
  host: "db.example.com"
  port: 5432
  user: "testuser"
  database: "testdb"
ai:
  provider: "openai"
  model: "gemini-pro"
`

func TestLoad_ReadsYAML(t *testing.T) {
	writeConfig(t, baseYAML)
	t.Setenv("AUTH_TOKEN_SECRET", "test-secret")

	cfg, err := Load("v1.2.3")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("expected Port=9000, got %s", cfg.Port)
	}
	if cfg.Store.Host != "db.example.com" {
		t.Errorf("expected store host from YAML, got %s", cfg.Store.Host)
	}
	if cfg.Version != "v1.2.3" {
		t.Errorf("expected injected version, got %s", cfg.Version)
	}
	if cfg.Auth.TokenTTLMinutes != 480 {
		t.Errorf("expected default token TTL 480, got %d", cfg.Auth.TokenTTLMinutes)
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	writeConfig(t, baseYAML)
	t.Setenv("AUTH_TOKEN_SECRET", "test-secret")
	t.Setenv("PORT", "9999")
	t.Setenv("PGHOST", "override.example.com")

	cfg, err := Load("dev")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "9999" {
		t.Errorf("expected Port=9999 (from env), got %s", cfg.Port)
	}
	if cfg.Store.Host != "override.example.com" {
		t.Errorf("expected PGHOST override, got %s", cfg.Store.Host)
	}
}

func TestLoad_RequiresTokenSecret(t *testing.T) {
	writeConfig(t, baseYAML)
	os.Unsetenv("AUTH_TOKEN_SECRET")

	if _, err := Load("dev"); err == nil {
		t.Fatal("expected error when AUTH_TOKEN_SECRET is unset")
	}
}

func TestLoad_RejectsUnknownProvider(t *testing.T) {
	writeConfig(t, baseYAML+`
`)
	t.Setenv("AUTH_TOKEN_SECRET", "test-secret")
	t.Setenv("AI_PROVIDER", "mystery")

	if _, err := Load("dev"); err == nil {
		t.Fatal("expected error for unknown AI provider")
	}
}

func TestAIConfig_IsConfigured(t *testing.T) {
	cfg := AIConfig{Endpoint: "https://example.com", Model: "m"}
	if cfg.IsConfigured() {
		t.Error("expected unconfigured without API key")
	}
	cfg.APIKey = "key"
	if !cfg.IsConfigured() {
		t.Error("expected configured with endpoint, model and key")
	}
}

func TestStoreConfig_ConnectionString(t *testing.T) {
	cfg := StoreConfig{
		Host: "h", Port: 5432, User: "u", Password: "p",
		Database: "d", SSLMode: "disable",
	}
	got := cfg.ConnectionString()
	want := "host=h port=5432 user=u password=p dbname=d sslmode=disable"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
