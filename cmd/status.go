package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// StatusCmd implements `status`.
func StatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show counts by state, active workers, and the oldest pending job",
		RunE: func(cc *cobra.Command, args []string) error {
			st, err := app.Queue.Status()
			if err != nil {
				return fmt.Errorf("status: %w", err)
			}
			return json.NewEncoder(cc.OutOrStdout()).Encode(st)
		},
	}
}
