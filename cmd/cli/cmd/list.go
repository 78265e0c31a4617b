package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/airmesh/fleet-ops/pkg/utils"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available boards",
	Long:  `List all available operations boards with their descriptions`,
	RunE:  listBoards,
}

func listBoards(cmd *cobra.Command, args []string) error {
	boardInfos, err := utils.DiscoverBoards()
	if err != nil {
		return fmt.Errorf("failed to discover boards: %w", err)
	}

	if len(boardInfos) == 0 {
		fmt.Println("No boards found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tVERSION\tCATEGORY\tDESCRIPTION")
	_, _ = fmt.Fprintln(w, "----\t-------\t--------\t-----------")

	for _, info := range boardInfos {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			info.Config.Name,
			info.Config.Version,
			info.Config.Category,
			info.Config.Description,
		)
	}

	return w.Flush()
}
