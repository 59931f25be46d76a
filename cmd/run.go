package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/duelbot/dexduels/internal/app"
	"github.com/duelbot/dexduels/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the arbitrage bot",
	Long: `Starts the dexduels bot, which will:
1. Replay any hedge legs left pending by a previous run
2. Scan every venue duel and configured pair at a fixed interval
3. Execute the single best opportunity per cycle: arb leg first,
   hedge leg after the settlement delay

Paper mode (the default) trades against simulated venues.`,
	RunE: runBot,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(runCmd)
}

func runBot(cmd *cobra.Command, args []string) error {
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

	application, err := app.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}

	err = application.Run()
	if err != nil {
		return fmt.Errorf("run app: %w", err)
	}

	return nil
}
