// Package cmd is the operator CLI front-end: argument parsing and
// JSON/pretty output over internal/queue and internal/supervisor.
// Grounded on the teacher's cobra command tree
// (_examples/Pranav1703-FlamAssignment/cmd), generalized from a
// single *storage.Store/*config.Config pair to the fuller App bundle
// the expanded spec needs.
package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"queuectl/internal/queue"
	"queuectl/internal/store"
)

// App bundles the dependencies every subcommand needs.
type App struct {
	Store        *store.Store
	Queue        *queue.Queue
	Log          *zap.Logger
	DataDir      string
	PollInterval time.Duration
	SingleRun    bool
	Port         int
}

var rootCmd = &cobra.Command{
	Use:   "queuectl",
	Short: "A durable, embedded background-job queue with a worker pool",
}

// Execute builds the command tree over app and runs it.
func Execute(app *App) error {
	rootCmd.AddCommand(EnqueueCmd(app))
	rootCmd.AddCommand(ListCmd(app))
	rootCmd.AddCommand(StatusCmd(app))
	rootCmd.AddCommand(WorkerCmd(app))
	rootCmd.AddCommand(DLQCmd(app))
	rootCmd.AddCommand(ConfigCmd(app))
	rootCmd.AddCommand(DashboardCmd(app, app.Port))
	return rootCmd.Execute()
}
