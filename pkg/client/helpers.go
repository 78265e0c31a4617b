package client

import (
	"os"
	"time"
)

// NewDispatchClient creates a Dispatch client with token authentication.
// Convenience wrapper around NewClient.
func NewDispatchClient(baseURL, apiToken string) (*Dispatch, error) {
	return NewClient(Config{
		BaseURL:  baseURL,
		APIToken: apiToken,
		Timeout:  30 * time.Second,
	})
}

// GetAPIToken retrieves an API token from the named environment variable.
func GetAPIToken(envVarName string) string {
	if envVarName == "" {
		return ""
	}
	return os.Getenv(envVarName)
}
