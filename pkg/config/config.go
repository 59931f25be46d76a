package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// SmartBCH mainnet defaults. Every address can be overridden through the
// environment (ROUTER_<VENUE>, TOKEN_<SYMBOL>).
const (
	defaultRPCURL = "https://smartbch.greyh.at"

	benswapRouter  = "0xa194133ED572D86fe27796F2feADBAFc062cB9E0"
	mistswapRouter = "0x5d0bF8d8c8b054080E2131D8b260a5c6959411B8"

	wbchAddress    = "0x3743eC0673453E5009310C727Ba4eaF7b3a1cc04"
	flexUSDAddress = "0x7b2B3C5308ab5b2a1d9a94d20D35CCDf61e05b72"
)

// Config holds all application configuration.
type Config struct {
	// Application
	LogLevel string
	HTTPPort string

	// Pair universe
	BaseSymbol       string
	QuoteSymbols     []string
	NumeraireSymbol  string
	VenueNames       []string
	ConnectorSymbols []string // intermediate tokens considered for routing

	// Duel engine
	ScanInterval     time.Duration
	BaseQty          float64 // trade size in base units per pair
	TriggerProfitUSD float64 // profit trigger in numeraire units
	HedgeDelay       time.Duration

	// Execution
	ExecutionMode  string  // "paper" or "live"
	PaperBasePrice float64 // simulated USD price of the base asset in paper mode
	PaperSkewBPS   float64 // per-venue price divergence in paper mode

	// Chain
	RPCURL           string
	ChainID          int64
	WalletPrivateKey string
	Routers          map[string]string // venue name -> router address
	Tokens           map[string]string // symbol -> token address

	// Storage
	StorageMode  string // "postgres" or "memory"
	PostgresHost string
	PostgresPort string
	PostgresUser string
	PostgresPass string
	PostgresDB   string
	PostgresSSL  string
}

// LoadFromEnv loads configuration from environment variables with defaults.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		// Application defaults
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		HTTPPort: getEnvOrDefault("HTTP_PORT", "8080"),

		// Pair universe defaults
		BaseSymbol:       getEnvOrDefault("BASE_SYMBOL", "BCH"),
		QuoteSymbols:     getListOrDefault("QUOTE_SYMBOLS", []string{"flexUSD"}),
		NumeraireSymbol:  getEnvOrDefault("NUMERAIRE_SYMBOL", "flexUSD"),
		VenueNames:       getListOrDefault("DEXDUELS_VENUES", []string{"benswap", "mistswap"}),
		ConnectorSymbols: getListOrDefault("CONNECTOR_SYMBOLS", []string{"BCH", "flexUSD"}),

		// Duel engine defaults
		ScanInterval:     getDurationOrDefault("SCAN_INTERVAL", 30*time.Second),
		BaseQty:          getFloat64OrDefault("BASE_QTY", 0.1),
		TriggerProfitUSD: getFloat64OrDefault("TRIGGER_PROFIT_USD", 1.0),
		HedgeDelay:       getDurationOrDefault("HEDGE_DELAY", 5*time.Second),

		// Execution defaults
		ExecutionMode:  getEnvOrDefault("EXECUTION_MODE", "paper"),
		PaperBasePrice: getFloat64OrDefault("PAPER_BASE_PRICE", 300.0),
		PaperSkewBPS:   getFloat64OrDefault("PAPER_SKEW_BPS", 400.0),

		// Chain defaults
		RPCURL:           getEnvOrDefault("SBCH_RPC_URL", defaultRPCURL),
		ChainID:          int64(getIntOrDefault("SBCH_CHAIN_ID", 10000)),
		WalletPrivateKey: os.Getenv("WALLET_PRIVATE_KEY"),

		// Storage defaults
		StorageMode:  getEnvOrDefault("STORAGE_MODE", "memory"),
		PostgresHost: getEnvOrDefault("POSTGRES_HOST", "localhost"),
		PostgresPort: getEnvOrDefault("POSTGRES_PORT", "5432"),
		PostgresUser: getEnvOrDefault("POSTGRES_USER", "dexduels"),
		PostgresPass: getEnvOrDefault("POSTGRES_PASSWORD", "dexduels123"),
		PostgresDB:   getEnvOrDefault("POSTGRES_DB", "dexduels"),
		PostgresSSL:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
	}

	cfg.Routers = routerAddresses(cfg.VenueNames)
	cfg.Tokens = tokenAddresses(cfg)

	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Pairs expands the configured base/quote symbols into the pair universe.
func (c *Config) Pairs() [][2]string {
	pairs := make([][2]string, 0, len(c.QuoteSymbols))
	for _, quote := range c.QuoteSymbols {
		pairs = append(pairs, [2]string{c.BaseSymbol, quote})
	}
	return pairs
}

// Validate checks that configuration values are valid. Failures here are
// fatal at startup, before the scan loop begins.
func (c *Config) Validate() error {
	if c.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT cannot be empty")
	}

	if c.BaseSymbol == "" {
		return fmt.Errorf("BASE_SYMBOL cannot be empty")
	}

	if len(c.QuoteSymbols) == 0 {
		return fmt.Errorf("QUOTE_SYMBOLS cannot be empty")
	}

	if len(c.VenueNames) < 2 {
		return fmt.Errorf("DEXDUELS_VENUES needs at least 2 venues to duel, got %d", len(c.VenueNames))
	}

	if c.ScanInterval <= 0 {
		return fmt.Errorf("SCAN_INTERVAL must be positive, got %s", c.ScanInterval)
	}

	if c.BaseQty <= 0 {
		return fmt.Errorf("BASE_QTY must be positive, got %f", c.BaseQty)
	}

	if c.TriggerProfitUSD <= 0 {
		return fmt.Errorf("TRIGGER_PROFIT_USD must be positive, got %f", c.TriggerProfitUSD)
	}

	if c.ExecutionMode != "paper" && c.ExecutionMode != "live" {
		return fmt.Errorf("EXECUTION_MODE must be 'paper' or 'live', got %q", c.ExecutionMode)
	}

	if c.StorageMode != "memory" && c.StorageMode != "postgres" {
		return fmt.Errorf("STORAGE_MODE must be 'memory' or 'postgres', got %q", c.StorageMode)
	}

	if c.ExecutionMode == "live" {
		if c.WalletPrivateKey == "" {
			return fmt.Errorf("WALLET_PRIVATE_KEY must be set in live mode")
		}
		for _, name := range c.VenueNames {
			if c.Routers[name] == "" {
				return fmt.Errorf("no router address for venue %q, set ROUTER_%s", name, strings.ToUpper(name))
			}
		}
		for _, sym := range c.TokenSymbols() {
			if c.Tokens[sym] == "" {
				return fmt.Errorf("no token address for symbol %q, set TOKEN_%s", sym, strings.ToUpper(sym))
			}
		}
	}

	return nil
}

// TokenSymbols returns every symbol the engine may need an address for.
func (c *Config) TokenSymbols() []string {
	seen := map[string]bool{}
	syms := []string{}
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			syms = append(syms, s)
		}
	}
	add(c.BaseSymbol)
	for _, s := range c.QuoteSymbols {
		add(s)
	}
	add(c.NumeraireSymbol)
	for _, s := range c.ConnectorSymbols {
		add(s)
	}
	return syms
}

func routerAddresses(venues []string) map[string]string {
	routers := map[string]string{
		"benswap":  benswapRouter,
		"mistswap": mistswapRouter,
	}
	for _, name := range venues {
		override := os.Getenv("ROUTER_" + strings.ToUpper(name))
		if override != "" {
			routers[name] = override
		}
	}
	return routers
}

func tokenAddresses(c *Config) map[string]string {
	// BCH is native; the router adapters trade it as wrapped BCH.
	tokens := map[string]string{
		"BCH":     wbchAddress,
		"WBCH":    wbchAddress,
		"flexUSD": flexUSDAddress,
	}
	for _, sym := range c.TokenSymbols() {
		override := os.Getenv("TOKEN_" + strings.ToUpper(sym))
		if override != "" {
			tokens[sym] = override
		}
	}
	return tokens
}

func getEnvOrDefault(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}

	return out
}

func getIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getFloat64OrDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	floatVal, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}

	return floatVal
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}
