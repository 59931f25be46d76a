package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/duelbot/dexduels/internal/app"
	"github.com/duelbot/dexduels/internal/execution"
	"github.com/duelbot/dexduels/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var recoverCmd = &cobra.Command{
	Use:   "recover",
	Short: "Replay pending hedge orders and exit",
	Long: `Runs the startup recovery pass once, without starting the scan
loop: every order with status=New and action=Hedge is re-dispatched to its
venue, oldest first, and driven to a terminal status. The same pass runs
automatically at the start of 'dexduels run'.`,
	RunE: runRecover,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(recoverCmd)
}

func runRecover(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	store, err := app.SetupStore(cfg, logger)
	if err != nil {
		return fmt.Errorf("setup store: %w", err)
	}
	defer func() {
		_ = store.Close()
	}()

	registry, err := app.SetupVenues(cfg, logger)
	if err != nil {
		return fmt.Errorf("setup venues: %w", err)
	}

	recovery := execution.NewRecovery(registry, store, logger)

	err = recovery.Run(context.Background())
	if err != nil {
		return fmt.Errorf("recover pending hedges: %w", err)
	}

	fmt.Println("Recovery complete.")
	return nil
}
