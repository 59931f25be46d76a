package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/duelbot/dexduels/internal/app"
	"github.com/duelbot/dexduels/pkg/config"
	"github.com/duelbot/dexduels/pkg/types"
)

//nolint:gochecknoglobals // Cobra boilerplate
var quotesCmd = &cobra.Command{
	Use:   "quotes",
	Short: "Print current two-sided quotes for a pair on every venue",
	Long: `Fetches bid/ask for the configured trade size on every active venue
and prints them side by side, together with the spread each duel sees.

Example:
  dexduels quotes --base BCH --quote flexUSD --amount 0.5`,
	RunE: runQuotes,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(quotesCmd)
	quotesCmd.Flags().String("base", "", "Base symbol (default: configured BASE_SYMBOL)")
	quotesCmd.Flags().String("quote", "", "Quote symbol (default: first configured QUOTE_SYMBOLS entry)")
	quotesCmd.Flags().Float64P("amount", "a", 0, "Trade size in base units (default: BASE_QTY)")
}

func runQuotes(cmd *cobra.Command, args []string) error {
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

	base, _ := cmd.Flags().GetString("base")
	quote, _ := cmd.Flags().GetString("quote")
	amount, _ := cmd.Flags().GetFloat64("amount")

	if base == "" {
		base = cfg.BaseSymbol
	}
	if quote == "" {
		quote = cfg.QuoteSymbols[0]
	}
	if amount <= 0 {
		amount = cfg.BaseQty
	}
	pair := types.Pair{Base: base, Quote: quote}

	registry, err := app.SetupVenues(cfg, logger)
	if err != nil {
		return fmt.Errorf("setup venues: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Printf("Quotes for %s, size %g %s:\n\n", pair, amount, base)
	fmt.Printf("%-12s %14s %14s\n", "VENUE", "BID", "ASK")

	for _, v := range registry.Venues() {
		q, err := v.GetQuotes(ctx, pair, amount)
		if err != nil {
			fmt.Printf("%-12s %30s\n", v.Name(), "no quote: "+err.Error())
			continue
		}
		fmt.Printf("%-12s %14.6f %14.6f\n", v.Name(), q.Bid, q.Ask)
	}

	return nil
}
