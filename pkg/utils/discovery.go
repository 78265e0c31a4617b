// Package utils holds the board discovery and interactive prompt helpers
// used by the CLI.
package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/airmesh/fleet-ops/pkg/simulation"
)

// BoardInfo describes a discovered board.
type BoardInfo struct {
	Path   string
	Config simulation.BoardConfig
}

// DiscoverBoards finds every board descriptor (simulation.yaml) under the
// repository's cmd directory.
func DiscoverBoards() ([]BoardInfo, error) {
	rootDir, err := findProjectRoot()
	if err != nil {
		return nil, err
	}

	var boards []BoardInfo
	err = filepath.Walk(filepath.Join(rootDir, "cmd"), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Name() != "simulation.yaml" {
			return nil
		}

		board, err := loadBoardConfig(path)
		if err != nil {
			// Keep scanning; one broken descriptor should not hide the rest.
			fmt.Printf("Warning: failed to load %s: %v\n", path, err)
			return nil
		}
		boards = append(boards, *board)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan for boards: %w", err)
	}

	return boards, nil
}

func loadBoardConfig(path string) (*BoardInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read board descriptor: %w", err)
	}

	var config simulation.BoardConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse board descriptor: %w", err)
	}

	return &BoardInfo{Path: filepath.Dir(path), Config: config}, nil
}

// findProjectRoot walks up from the working directory until it sees go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find project root (no go.mod found)")
		}
		dir = parent
	}
}
