// Package simulation defines the contract runnable operations boards
// implement and the registry the CLI selects them from.
package simulation

import (
	"context"

	"github.com/airmesh/fleet-ops/pkg/client"
)

// Simulation is a runnable board: a long-lived process fed by the dispatch
// backend.
type Simulation interface {
	// Name returns the board's registry name.
	Name() string

	// Description returns a one-line summary shown by `fleet-ops list`.
	Description() string

	// Configure validates and applies the provided parameters.
	Configure(params map[string]interface{}) error

	// Run executes the board against the dispatch backend until the
	// context is cancelled or Stop is called.
	Run(ctx context.Context, dispatch *client.Dispatch) error

	// Stop gracefully shuts the board down.
	Stop() error
}
