package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/airmesh/fleet-ops/pkg/auth"
	"github.com/airmesh/fleet-ops/pkg/client"
	"github.com/airmesh/fleet-ops/pkg/config"
	"github.com/airmesh/fleet-ops/pkg/logger"
	"github.com/airmesh/fleet-ops/pkg/simulation"
	"github.com/airmesh/fleet-ops/pkg/utils"

	// Import boards so their init() functions register them
	_ "github.com/airmesh/fleet-ops/cmd/opsboard"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an operations board",
	Long:  `Run an operations board interactively or with specified parameters`,
	RunE:  runBoard,
}

func init() {
	runCmd.Flags().StringP("board", "b", "", "board name to run")
}

func runBoard(cmd *cobra.Command, _ []string) error {
	envConfig, token, err := selectEnvironment()
	if err != nil {
		return fmt.Errorf("failed to select environment: %w", err)
	}

	dispatch, err := client.NewDispatchClient(envConfig.URL, token)
	if err != nil {
		return fmt.Errorf("failed to create dispatch client: %w", err)
	}

	logger.Progress("Testing connection to dispatch backend...")
	if err := dispatch.Ping(context.Background()); err != nil {
		return fmt.Errorf("failed to connect to dispatch backend: %w", err)
	}
	logger.Success("Connected to dispatch backend")

	boardName, err := selectBoard(cmd)
	if err != nil {
		return fmt.Errorf("failed to select board: %w", err)
	}

	board, err := simulation.DefaultRegistry.Get(boardName)
	if err != nil {
		return fmt.Errorf("failed to get board: %w", err)
	}

	boardInfos, err := utils.DiscoverBoards()
	if err != nil {
		return fmt.Errorf("failed to discover boards: %w", err)
	}

	var boardConfig *simulation.BoardConfig
	for _, info := range boardInfos {
		if info.Config.Name == boardName {
			boardConfig = &info.Config
			break
		}
	}
	if boardConfig == nil {
		return fmt.Errorf("board descriptor not found for %s", boardName)
	}

	params, err := utils.PromptForParameters(boardConfig.Parameters)
	if err != nil {
		return fmt.Errorf("failed to get parameters: %w", err)
	}

	if err := board.Configure(params); err != nil {
		return fmt.Errorf("failed to configure board: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Warn("\nReceived interrupt signal, stopping board...")
		if err := board.Stop(); err != nil {
			logger.Errorf("Failed to stop board: %v", err)
			return
		}
		cancel()
	}()

	logger.Progressf("Starting %s", board.Name())
	if err := board.Run(ctx, dispatch); err != nil && ctx.Err() == nil {
		return fmt.Errorf("board failed: %w", err)
	}

	logger.Success("Board shut down cleanly")
	return nil
}

func selectEnvironment() (*config.Environment, string, error) {
	// A URL flag bypasses environment selection entirely.
	if envURL != "" {
		env := &config.Environment{Name: "Custom", URL: envURL}
		token, err := auth.ResolveToken(env)
		return env, token, err
	}

	if dispatchURL := os.Getenv("FLEET_OPS_URL"); dispatchURL != "" {
		return &config.Environment{Name: "Environment", URL: dispatchURL},
			os.Getenv("FLEET_OPS_API_TOKEN"), nil
	}

	envConfig, err := config.LoadEnvironments()
	if err != nil {
		return nil, "", err
	}

	if envName != "" {
		for _, env := range envConfig.Environments {
			if env.Name == envName {
				token, err := auth.ResolveToken(&env)
				return &env, token, err
			}
		}
		return nil, "", fmt.Errorf("environment %s not found", envName)
	}

	// Interactive selection
	options := make([]string, len(envConfig.Environments)+1)
	for i, env := range envConfig.Environments {
		options[i] = env.Name
	}
	options[len(options)-1] = "Custom URL"

	var selected string
	prompt := &survey.Select{
		Message: "Select environment:",
		Options: options,
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return nil, "", err
	}

	if selected == "Custom URL" {
		var customURL string
		urlPrompt := &survey.Input{
			Message: "Enter dispatch API URL:",
			Default: "http://localhost:8000",
		}
		if err := survey.AskOne(urlPrompt, &customURL); err != nil {
			return nil, "", err
		}

		var token string
		tokenPrompt := &survey.Password{
			Message: "Enter API token (optional):",
		}
		if err := survey.AskOne(tokenPrompt, &token); err != nil {
			return nil, "", err
		}

		return &config.Environment{Name: "Custom", URL: customURL}, token, nil
	}

	for _, env := range envConfig.Environments {
		if env.Name == selected {
			token, err := auth.ResolveToken(&env)
			return &env, token, err
		}
	}

	return nil, "", fmt.Errorf("environment not found")
}

func selectBoard(cmd *cobra.Command) (string, error) {
	boardName, _ := cmd.Flags().GetString("board")
	if boardName != "" {
		return boardName, nil
	}

	boardInfos, err := utils.DiscoverBoards()
	if err != nil {
		return "", err
	}
	if len(boardInfos) == 0 {
		return "", fmt.Errorf("no boards found")
	}

	options := make([]string, len(boardInfos))
	descriptions := make(map[string]string)
	for i, info := range boardInfos {
		options[i] = info.Config.Name
		descriptions[info.Config.Name] = info.Config.Description
	}

	var selected string
	prompt := &survey.Select{
		Message: "Select board:",
		Options: options,
		Description: func(value string, index int) string {
			return descriptions[value]
		},
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", err
	}

	return selected, nil
}
