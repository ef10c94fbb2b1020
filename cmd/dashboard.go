package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"queuectl/internal/dashboard"
)

// DashboardCmd implements `dashboard`, the HTTP status dashboard
// collaborator (spec.md §6). It listens on $PORT (default 8080).
func DashboardCmd(app *App, port int) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Serve the HTTP status dashboard",
		RunE: func(cc *cobra.Command, args []string) error {
			addr := fmt.Sprintf(":%d", port)
			app.Log.Info("dashboard listening", zap.String("addr", addr))
			return http.ListenAndServe(addr, dashboard.NewRouter(app.Queue, app.Log))
		},
	}
}
