package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"queuectl/internal/model"
)

// ListCmd implements `list [--state ...]`, defaulting to pending.
func ListCmd(app *App) *cobra.Command {
	var state string
	c := &cobra.Command{
		Use:   "list",
		Short: "List jobs by state",
		RunE: func(cc *cobra.Command, args []string) error {
			jobs, err := app.Queue.ListByState(state)
			if err != nil {
				return fmt.Errorf("list jobs: %w", err)
			}
			if jobs == nil {
				jobs = []model.Job{} // never emit a bare `null`
			}
			return json.NewEncoder(cc.OutOrStdout()).Encode(jobs)
		},
	}
	c.Flags().StringVar(&state, "state", "pending", "pending|processing|completed|failed|dead")
	return c
}
