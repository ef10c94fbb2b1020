package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func normalizeKey(k string) string {
	return strings.ReplaceAll(k, "-", "_")
}

// ConfigCmd implements `config get <key>` / `config set <key> <value>`
// over the in-database key/value store (spec.md §4.3), not the
// process-start environment configuration.
func ConfigCmd(app *App) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Read or write queue configuration (max_retries, backoff_base, ...)",
	}

	getCmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Print a config value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cc *cobra.Command, args []string) error {
			key := normalizeKey(args[0])
			value, err := app.Store.GetConfig(key)
			if err != nil {
				return fmt.Errorf("config get: %w", err)
			}
			if value == nil {
				fmt.Println("null")
				return nil
			}
			fmt.Println(*value)
			return nil
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cc *cobra.Command, args []string) error {
			key := normalizeKey(args[0])
			if err := app.Store.SetConfig(key, args[1]); err != nil {
				return fmt.Errorf("config set: %w", err)
			}
			fmt.Printf("%s = %s\n", key, args[1])
			return nil
		},
	}

	configCmd.AddCommand(getCmd, setCmd)
	return configCmd
}
