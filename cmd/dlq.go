package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"queuectl/internal/store"
)

// DLQCmd implements `dlq list` and `dlq retry <id>`.
func DLQCmd(app *App) *cobra.Command {
	dlqCmd := &cobra.Command{
		Use:   "dlq",
		Short: "Manage the Dead Letter Queue",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all DLQ entries",
		RunE: func(cc *cobra.Command, args []string) error {
			entries, err := app.Queue.DLQList()
			if err != nil {
				return fmt.Errorf("dlq list: %w", err)
			}
			return json.NewEncoder(cc.OutOrStdout()).Encode(entries)
		},
	}

	retryCmd := &cobra.Command{
		Use:   "retry <dlq-id>",
		Short: "Re-enqueue a DLQ entry as a fresh pending job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cc *cobra.Command, args []string) error {
			jobID, err := app.Queue.DLQRetry(args[0])
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("dlq entry %q not found", args[0])
				}
				return fmt.Errorf("dlq retry: %w", err)
			}
			fmt.Printf(`{"id":%q}`+"\n", jobID)
			return nil
		},
	}

	dlqCmd.AddCommand(listCmd, retryCmd)
	return dlqCmd
}
