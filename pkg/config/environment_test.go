package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnvironmentsMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadEnvironmentsFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Missing file must not error: %v", err)
	}
	if len(cfg.Environments) == 0 {
		t.Fatal("Expected default environments")
	}
	if cfg.Environments[0].Name != "Local" {
		t.Errorf("Expected first default environment 'Local', got %q", cfg.Environments[0].Name)
	}
}

func TestLoadEnvironmentsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "environments.yaml")
	content := `environments:
  - name: Prod
    url: https://dispatch.example.com
    api_token_env: PROD_TOKEN
selected: Prod
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	cfg, err := LoadEnvironmentsFromFile(path)
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}
	if len(cfg.Environments) != 1 {
		t.Fatalf("Expected 1 environment, got %d", len(cfg.Environments))
	}
	env := cfg.Environments[0]
	if env.Name != "Prod" || env.URL != "https://dispatch.example.com" || env.APITokenEnv != "PROD_TOKEN" {
		t.Errorf("Unexpected environment: %+v", env)
	}
	if cfg.Selected != "Prod" {
		t.Errorf("Expected selected 'Prod', got %q", cfg.Selected)
	}
}

func TestLoadEnvironmentsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "environments.yaml")
	if err := os.WriteFile(path, []byte("{not yaml"), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	if _, err := LoadEnvironmentsFromFile(path); err == nil {
		t.Fatal("Expected parse error for malformed file")
	}
}
