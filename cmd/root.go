package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "dexduels",
	Short: "Cross-venue AMM arbitrage bot",
	Long: `dexduels pits AMM venues against each other: for every pair of
configured venues (a "duel") it compares achievable prices for the
configured trading pairs, and whenever the spread exceeds the profit
trigger it sells on the better-priced venue and immediately buys back on
the other.

Pending hedge legs from a previous run are replayed on startup before any
new scanning begins.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Optional: env vars win over .env values.
		_ = godotenv.Load()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
