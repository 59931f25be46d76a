package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/duelbot/dexduels/internal/app"
	"github.com/duelbot/dexduels/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List recent persisted orders",
	Long: `Queries the order store and prints the most recent orders, newest
first. Useful for spotting un-hedged arb fills after a crash: a Filled Arb
order whose hedge is missing or Cancelled needs operator attention.`,
	RunE: runOrders,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(ordersCmd)
	ordersCmd.Flags().IntP("limit", "n", 20, "Maximum number of orders to list")
}

func runOrders(cmd *cobra.Command, args []string) error {
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

	limit, _ := cmd.Flags().GetInt("limit")

	store, err := app.SetupStore(cfg, logger)
	if err != nil {
		return fmt.Errorf("setup store: %w", err)
	}
	defer func() {
		_ = store.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	orders, err := store.Recent(ctx, limit)
	if err != nil {
		return fmt.Errorf("query orders: %w", err)
	}

	if len(orders) == 0 {
		fmt.Println("No orders recorded.")
		return nil
	}

	fmt.Printf("%-10s %-6s %-10s %-16s %10s %-10s %-20s\n",
		"ID", "ACTION", "VENUE", "TRADE", "AMOUNT", "STATUS", "TIME")

	for _, o := range orders {
		intent := "in"
		if !o.ExactIn() {
			intent = "out"
		}
		fmt.Printf("%-10s %-6s %-10s %-16s %7.4f-%s %-10s %-20s\n",
			o.ID[:8],
			o.Action,
			o.Venue,
			o.SymIn+"->"+o.SymOut,
			o.Amount(), intent,
			o.Status,
			o.Timestamp.Format("2006-01-02 15:04:05"))
	}

	return nil
}
