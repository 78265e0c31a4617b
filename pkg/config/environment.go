// Package config loads and saves the dispatch environment definitions the
// CLI can connect to.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Environment is one dispatch backend the CLI can point at. APITokenEnv
// names the environment variable holding the bearer token.
type Environment struct {
	Name        string `yaml:"name"`
	URL         string `yaml:"url"`
	APITokenEnv string `yaml:"api_token_env,omitempty"`
}

// Config holds the environment configurations.
type Config struct {
	Environments []Environment `yaml:"environments"`
	Selected     string        `yaml:"selected,omitempty"`
}

const configDirName = ".fleet-ops"

// LoadEnvironments loads environment configurations from the default
// location (~/.fleet-ops/environments.yaml).
func LoadEnvironments() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return LoadEnvironmentsFromFile(filepath.Join(homeDir, configDirName, "environments.yaml"))
}

// LoadEnvironmentsFromFile loads environment configurations from a
// specific file. A missing file yields the default set.
func LoadEnvironmentsFromFile(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return defaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &config, nil
}

// SaveEnvironments writes the environment configuration back to the
// default location.
func SaveEnvironments(config *Config) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, configDirName)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(configDir, "environments.yaml"), data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func defaultConfig() *Config {
	return &Config{
		Environments: []Environment{
			{
				Name:        "Local",
				URL:         "http://localhost:8000",
				APITokenEnv: "FLEET_OPS_API_TOKEN",
			},
			{
				Name:        "Staging",
				URL:         "https://dispatch-staging.airmesh.io",
				APITokenEnv: "FLEET_OPS_STAGING_TOKEN",
			},
		},
	}
}
