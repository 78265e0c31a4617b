// Package auth resolves the dispatch API bearer token.
package auth

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/term"

	"github.com/airmesh/fleet-ops/pkg/config"
)

// ResolveToken returns the API token for an environment: the environment
// variable named by the entry when set, otherwise an interactive prompt.
// An empty token is allowed for backends with auth disabled.
func ResolveToken(env *config.Environment) (string, error) {
	if env.APITokenEnv != "" {
		if token := os.Getenv(env.APITokenEnv); token != "" {
			return token, nil
		}
	}

	if os.Getenv("FLEET_OPS_SKIP_PROMPTS") == "true" {
		return "", nil
	}

	return PromptToken(fmt.Sprintf("API token for %s (blank for none): ", env.Name))
}

// PromptToken reads a token from the terminal without echo.
func PromptToken(message string) (string, error) {
	fmt.Print(message)
	tokenBytes, err := term.ReadPassword(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return string(tokenBytes), nil
}
