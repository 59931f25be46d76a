package cmd

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/duelbot/dexduels/pkg/config"
	"github.com/duelbot/dexduels/pkg/wallet"
)

//nolint:gochecknoglobals // Cobra boilerplate
var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Check wallet balances for the configured tokens",
	Long: `Displays the trading wallet's native BCH balance plus the balance
of every token symbol the engine is configured to trade.`,
	RunE: runBalance,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(balanceCmd)
}

func runBalance(cmd *cobra.Command, args []string) error {
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

	if cfg.WalletPrivateKey == "" {
		return fmt.Errorf("WALLET_PRIVATE_KEY not set")
	}

	signer, err := wallet.NewSigner(cfg.WalletPrivateKey, cfg.ChainID, logger)
	if err != nil {
		return fmt.Errorf("create signer: %w", err)
	}

	client, err := wallet.NewClient(cfg.RPCURL, logger)
	if err != nil {
		return fmt.Errorf("create wallet client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	address := signer.Address()
	fmt.Printf("=== Wallet Balance Sheet ===\n\n")
	fmt.Printf("Address: %s\n\n", address.Hex())

	native, err := client.NativeBalance(ctx, address)
	if err != nil {
		return fmt.Errorf("get native balance: %w", err)
	}
	fmt.Printf("%-10s %s\n", "BCH", formatUnits(native))

	for _, sym := range cfg.TokenSymbols() {
		if sym == cfg.BaseSymbol {
			continue // native, printed above
		}
		addr := cfg.Tokens[sym]
		if addr == "" {
			fmt.Printf("%-10s no address configured\n", sym)
			continue
		}

		balance, err := client.TokenBalance(ctx, address, common.HexToAddress(addr))
		if err != nil {
			fmt.Printf("%-10s error: %v\n", sym, err)
			continue
		}
		fmt.Printf("%-10s %s\n", sym, formatUnits(balance))
	}

	return nil
}

func formatUnits(wei *big.Int) string {
	f := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(1e18))
	return f.Text('f', 6)
}
