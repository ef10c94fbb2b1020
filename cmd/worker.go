package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"queuectl/internal/supervisor"
	"queuectl/internal/worker"
)

// WorkerCmd implements `worker start [--count N]`, `worker stop`, and
// the internal `worker run` entry point the supervisor spawns.
func WorkerCmd(app *App) *cobra.Command {
	workerCmd := &cobra.Command{
		Use:   "worker",
		Short: "Manage worker processes",
	}

	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start one or more worker processes",
		RunE: func(cc *cobra.Command, args []string) error {
			count, _ := cc.Flags().GetInt("count")
			pids, err := supervisor.Start(app.DataDir, count)
			if err != nil {
				return fmt.Errorf("start workers: %w", err)
			}
			fmt.Printf("started %d worker(s): %v\n", len(pids), pids)
			return nil
		},
	}
	startCmd.Flags().Int("count", 1, "number of workers to start")

	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Signal supervised worker processes to shut down gracefully",
		RunE: func(cc *cobra.Command, args []string) error {
			pids, err := supervisor.Stop(app.DataDir)
			if err != nil {
				return fmt.Errorf("stop workers: %w", err)
			}
			fmt.Printf("stopped %d worker(s): %v\n", len(pids), pids)
			return nil
		},
	}

	// `worker run` is not part of the operator-facing surface in
	// spec.md §6; it is the process supervisor.Start execs into. It
	// stays a real subcommand (rather than an env-var switch) so it
	// can also be invoked directly for tests and one-shot use with
	// SINGLE_RUN=1.
	runCmd := &cobra.Command{
		Use:    "run",
		Short:  "Run a single worker process until stopped",
		Hidden: true,
		RunE: func(cc *cobra.Command, args []string) error {
			return runWorker(app)
		},
	}

	workerCmd.AddCommand(startCmd, stopCmd, runCmd)
	return workerCmd
}

func runWorker(app *App) error {
	w := worker.New(app.Store, app.Log, app.PollInterval, app.SingleRun)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		app.Log.Info("received shutdown signal", zap.String("signal", sig.String()))
		w.RequestStop()
		cancel()
	}()

	return w.Run(ctx)
}
