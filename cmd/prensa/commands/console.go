package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/prensa-cms/prensa/cmd/prensa/console"
	"github.com/prensa-cms/prensa/pkg/prensa/seed"
)

// consoleCmd starts the interactive menu console
var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Start the interactive menu console",
	Long: `Start the text-menu console on stdin/stdout.

Pick options by number; 0 always goes back. With the demo fixture
enabled the accounts admin/admin, user1/user1 and user2/user2 are
available.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConsole()
	},
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}

func runConsole() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	svc, err := cfg.BuildService()
	if err != nil {
		return fmt.Errorf("failed to build service: %w", err)
	}

	if cfg.SeedDemo {
		if _, err := seed.Load(context.Background(), svc, cfg.MediaDir); err != nil {
			return fmt.Errorf("failed to load demo fixture: %w", err)
		}
	}

	return console.New(svc, os.Stdin, os.Stdout).Run(context.Background())
}
