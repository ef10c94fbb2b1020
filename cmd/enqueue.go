package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"queuectl/internal/queue"
)

// EnqueueCmd implements `enqueue`. It accepts either a single JSON
// argument (the teacher's original calling convention) or discrete
// flags; --command is the only required field either way.
func EnqueueCmd(app *App) *cobra.Command {
	var id, command, runAt string
	var maxRetries, priority int

	c := &cobra.Command{
		Use:   "enqueue [json]",
		Short: "Add a job to the queue",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cc *cobra.Command, args []string) error {
			var in queue.EnqueueInput

			if len(args) == 1 {
				var raw struct {
					ID         string `json:"id"`
					Command    string `json:"command"`
					MaxRetries *int   `json:"max_retries"`
					Priority   *int   `json:"priority"`
					RunAt      *string `json:"run_at"`
				}
				if err := json.Unmarshal([]byte(args[0]), &raw); err != nil {
					return fmt.Errorf("invalid job JSON: %w", err)
				}
				in = queue.EnqueueInput{
					ID: raw.ID, Command: raw.Command,
					MaxRetries: raw.MaxRetries, Priority: raw.Priority, RunAt: raw.RunAt,
				}
			} else {
				in = queue.EnqueueInput{ID: id, Command: command}
				if cc.Flags().Changed("max-retries") {
					in.MaxRetries = &maxRetries
				}
				if cc.Flags().Changed("priority") {
					in.Priority = &priority
				}
				if runAt != "" {
					in.RunAt = &runAt
				}
			}

			jobID, err := app.Queue.Enqueue(in)
			if err != nil {
				return err
			}
			fmt.Printf(`{"id":%q}`+"\n", jobID)
			return nil
		},
	}

	c.Flags().StringVar(&id, "id", "", "job id (generated if omitted)")
	c.Flags().StringVar(&command, "command", "", "shell command to run")
	c.Flags().IntVar(&maxRetries, "max-retries", 3, "maximum attempts before DLQ")
	c.Flags().IntVar(&priority, "priority", 0, "higher runs first")
	c.Flags().StringVar(&runAt, "run-at", "", "ISO-8601 earliest execution time")
	return c
}
