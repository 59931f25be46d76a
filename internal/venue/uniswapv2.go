package venue

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/duelbot/dexduels/pkg/cache"
	"github.com/duelbot/dexduels/pkg/types"
	"github.com/duelbot/dexduels/pkg/wallet"
)

const routerABIJSON = `[
	{"inputs":[{"name":"amountIn","type":"uint256"},{"name":"path","type":"address[]"}],"name":"getAmountsOut","outputs":[{"name":"amounts","type":"uint256[]"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"name":"amountOut","type":"uint256"},{"name":"path","type":"address[]"}],"name":"getAmountsIn","outputs":[{"name":"amounts","type":"uint256[]"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"name":"amountIn","type":"uint256"},{"name":"amountOutMin","type":"uint256"},{"name":"path","type":"address[]"},{"name":"to","type":"address"},{"name":"deadline","type":"uint256"}],"name":"swapExactTokensForTokens","outputs":[{"name":"amounts","type":"uint256[]"}],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[{"name":"amountOut","type":"uint256"},{"name":"amountInMax","type":"uint256"},{"name":"path","type":"address[]"},{"name":"to","type":"address"},{"name":"deadline","type":"uint256"}],"name":"swapTokensForExactTokens","outputs":[{"name":"amounts","type":"uint256[]"}],"stateMutability":"nonpayable","type":"function"}
]`

const (
	// 0.1% allowed slippage, 50s transaction deadline.
	slippage     = 0.001
	swapTTL      = 50 * time.Second
	routeTTL     = 5 * time.Minute
	swapGasLimit = 400000

	tokenDecimals = 18 // every token the bot trades on SmartBCH uses 18
)

// UniswapV2 is a venue backed by a UniswapV2-style router contract. Quoting
// walks getAmountsOut/getAmountsIn over candidate multi-hop paths; swaps
// submit signed transactions and wait for the receipt.
type UniswapV2 struct {
	name       string
	client     *ethclient.Client
	router     common.Address
	abi        abi.ABI
	tokens     map[string]common.Address // symbol -> token address
	connectors []string
	signer     *wallet.Signer
	routes     cache.Cache
	logger     *zap.Logger
}

// UniswapV2Config holds adapter configuration.
type UniswapV2Config struct {
	Name       string
	RouterAddr string
	RPCURL     string
	Tokens     map[string]string // symbol -> address, hex
	Connectors []string          // symbols considered as intermediate hops
	Signer     *wallet.Signer
	RouteCache cache.Cache
	Logger     *zap.Logger
}

// NewUniswapV2 dials the chain and prepares the router binding.
func NewUniswapV2(cfg *UniswapV2Config) (*UniswapV2, error) {
	client, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial RPC: %w", err)
	}

	parsedABI, err := abi.JSON(strings.NewReader(routerABIJSON))
	if err != nil {
		return nil, fmt.Errorf("parse router ABI: %w", err)
	}

	tokens := make(map[string]common.Address, len(cfg.Tokens))
	for sym, addr := range cfg.Tokens {
		if !common.IsHexAddress(addr) {
			return nil, fmt.Errorf("invalid address %q for token %s", addr, sym)
		}
		tokens[sym] = common.HexToAddress(addr)
	}

	cfg.Logger.Info("uniswapv2-venue-initialized",
		zap.String("venue", cfg.Name),
		zap.String("router", cfg.RouterAddr))

	return &UniswapV2{
		name:       cfg.Name,
		client:     client,
		router:     common.HexToAddress(cfg.RouterAddr),
		abi:        parsedABI,
		tokens:     tokens,
		connectors: cfg.Connectors,
		signer:     cfg.Signer,
		routes:     cfg.RouteCache,
		logger:     cfg.Logger,
	}, nil
}

// Name identifies the venue.
func (v *UniswapV2) Name() string {
	return v.name
}

// GetQuotes prices both directions for the probed amount: Bid is the quote
// proceeds of selling amount base, Ask the quote cost of buying it back.
func (v *UniswapV2) GetQuotes(ctx context.Context, pair types.Pair, amount float64) (types.Quote, error) {
	bid, _, err := v.bestAmountOut(ctx, pair.Base, pair.Quote, amount)
	if err != nil {
		return types.Quote{}, &types.QuoteError{Venue: v.name, Pair: pair, Err: err}
	}

	ask, _, err := v.bestAmountIn(ctx, pair.Quote, pair.Base, amount)
	if err != nil {
		return types.Quote{}, &types.QuoteError{Venue: v.name, Pair: pair, Err: err}
	}

	return types.Quote{Bid: bid, Ask: ask}, nil
}

// Swap attempts one trade. Every failure between here and the mined
// receipt is translated into Filled=false.
func (v *UniswapV2) Swap(ctx context.Context, req types.SwapRequest) types.SwapResult {
	txHash, err := v.swap(ctx, req)
	if err != nil {
		v.logger.Warn("swap-rejected",
			zap.String("venue", v.name),
			zap.String("sym-in", req.SymIn),
			zap.String("sym-out", req.SymOut),
			zap.Error(err))
		return types.SwapResult{Filled: false, TxHash: txHash, Detail: err.Error()}
	}

	v.logger.Info("swap-filled",
		zap.String("venue", v.name),
		zap.String("sym-in", req.SymIn),
		zap.String("sym-out", req.SymOut),
		zap.String("tx", txHash))

	return types.SwapResult{Filled: true, TxHash: txHash}
}

func (v *UniswapV2) swap(ctx context.Context, req types.SwapRequest) (string, error) {
	var (
		data []byte
		err  error
	)
	deadline := big.NewInt(time.Now().Add(swapTTL).Unix())

	if req.ExactIn() {
		quoted, path, qErr := v.bestAmountOut(ctx, req.SymIn, req.SymOut, req.AmountIn)
		if qErr != nil {
			return "", fmt.Errorf("quote exact-in: %w", qErr)
		}
		minOut := toUnits(quoted * (1 - slippage))
		data, err = v.abi.Pack("swapExactTokensForTokens",
			toUnits(req.AmountIn), minOut, path, v.signer.Address(), deadline)
	} else {
		quoted, path, qErr := v.bestAmountIn(ctx, req.SymIn, req.SymOut, req.AmountOut)
		if qErr != nil {
			return "", fmt.Errorf("quote exact-out: %w", qErr)
		}
		maxIn := toUnits(quoted * (1 + slippage))
		data, err = v.abi.Pack("swapTokensForExactTokens",
			toUnits(req.AmountOut), maxIn, path, v.signer.Address(), deadline)
	}
	if err != nil {
		return "", fmt.Errorf("pack swap call: %w", err)
	}

	nonce, err := v.client.PendingNonceAt(ctx, v.signer.Address())
	if err != nil {
		return "", fmt.Errorf("get nonce: %w", err)
	}

	gasPrice, err := v.client.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("suggest gas price: %w", err)
	}

	tx := ethtypes.NewTransaction(nonce, v.router, big.NewInt(0), swapGasLimit, gasPrice, data)

	signedTx, err := v.signer.SignTx(tx)
	if err != nil {
		return "", fmt.Errorf("sign tx: %w", err)
	}

	err = v.client.SendTransaction(ctx, signedTx)
	if err != nil {
		return "", fmt.Errorf("send tx: %w", err)
	}

	receipt, err := bind.WaitMined(ctx, v.client, signedTx)
	if err != nil {
		return signedTx.Hash().Hex(), fmt.Errorf("wait for tx: %w", err)
	}

	if receipt.Status != ethtypes.ReceiptStatusSuccessful {
		return receipt.TxHash.Hex(), fmt.Errorf("transaction reverted")
	}

	return receipt.TxHash.Hex(), nil
}

// bestAmountOut returns the highest output of symOut achievable for an
// exact amountIn of symIn, and the path that achieves it.
func (v *UniswapV2) bestAmountOut(ctx context.Context, symIn, symOut string, amountIn float64) (float64, []common.Address, error) {
	return v.bestRoute(ctx, symIn, symOut, amountIn, true)
}

// bestAmountIn returns the lowest input of symIn required for an exact
// amountOut of symOut, and the path that achieves it.
func (v *UniswapV2) bestAmountIn(ctx context.Context, symIn, symOut string, amountOut float64) (float64, []common.Address, error) {
	return v.bestRoute(ctx, symIn, symOut, amountOut, false)
}

func (v *UniswapV2) bestRoute(ctx context.Context, symIn, symOut string, amount float64, exactIn bool) (float64, []common.Address, error) {
	cacheKey := fmt.Sprintf("route:%s:%s:%s:%t", v.name, symIn, symOut, exactIn)

	if v.routes != nil {
		cached, found := v.routes.Get(cacheKey)
		if found {
			path := cached.([]common.Address)
			got, err := v.routeAmount(ctx, path, amount, exactIn)
			if err == nil {
				return got, path, nil
			}
			// Cached route went stale; fall through to a full search.
			v.routes.Delete(cacheKey)
		}
	}

	candidates, err := v.candidatePaths(symIn, symOut)
	if err != nil {
		return 0, nil, err
	}

	var (
		bestAmount float64
		bestPath   []common.Address
		lastErr    error
	)
	for _, path := range candidates {
		got, err := v.routeAmount(ctx, path, amount, exactIn)
		if err != nil {
			lastErr = err
			continue
		}
		better := bestPath == nil || (exactIn && got > bestAmount) || (!exactIn && got < bestAmount)
		if better {
			bestAmount, bestPath = got, path
		}
	}

	if bestPath == nil {
		return 0, nil, fmt.Errorf("no usable route %s->%s: %w", symIn, symOut, lastErr)
	}

	if v.routes != nil {
		v.routes.Set(cacheKey, bestPath, routeTTL)
	}

	return bestAmount, bestPath, nil
}

func (v *UniswapV2) routeAmount(ctx context.Context, path []common.Address, amount float64, exactIn bool) (float64, error) {
	method := "getAmountsIn"
	if exactIn {
		method = "getAmountsOut"
	}

	data, err := v.abi.Pack(method, toUnits(amount), path)
	if err != nil {
		return 0, fmt.Errorf("pack %s: %w", method, err)
	}

	result, err := v.client.CallContract(ctx, ethereum.CallMsg{To: &v.router, Data: data}, nil)
	if err != nil {
		return 0, fmt.Errorf("call %s: %w", method, err)
	}

	var amounts []*big.Int
	err = v.abi.UnpackIntoInterface(&amounts, method, result)
	if err != nil {
		return 0, fmt.Errorf("unpack %s: %w", method, err)
	}
	if len(amounts) != len(path) {
		return 0, fmt.Errorf("%s returned %d amounts for %d hops", method, len(amounts), len(path))
	}

	if exactIn {
		return fromUnits(amounts[len(amounts)-1]), nil
	}
	return fromUnits(amounts[0]), nil
}

// candidatePaths builds the routes considered for a trade: the direct pair
// plus every one- and two-connector detour with no repeated token, capped
// at three hops.
func (v *UniswapV2) candidatePaths(symIn, symOut string) ([][]common.Address, error) {
	in, ok := v.tokens[symIn]
	if !ok {
		return nil, fmt.Errorf("unknown token %s", symIn)
	}
	out, ok := v.tokens[symOut]
	if !ok {
		return nil, fmt.Errorf("unknown token %s", symOut)
	}
	if in == out {
		return nil, fmt.Errorf("identical tokens %s/%s", symIn, symOut)
	}

	paths := [][]common.Address{{in, out}}

	connectors := make([]common.Address, 0, len(v.connectors))
	for _, sym := range v.connectors {
		addr, ok := v.tokens[sym]
		if !ok || addr == in || addr == out {
			continue
		}
		connectors = append(connectors, addr)
	}

	for _, c := range connectors {
		paths = append(paths, []common.Address{in, c, out})
	}
	for _, c1 := range connectors {
		for _, c2 := range connectors {
			if c1 == c2 {
				continue
			}
			paths = append(paths, []common.Address{in, c1, c2, out})
		}
	}

	return paths, nil
}

var unitScale = new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(tokenDecimals), nil))

func toUnits(amount float64) *big.Int {
	scaled := new(big.Float).Mul(big.NewFloat(amount), unitScale)
	units, _ := scaled.Int(nil)
	return units
}

func fromUnits(units *big.Int) float64 {
	f, _ := new(big.Float).Quo(new(big.Float).SetInt(units), unitScale).Float64()
	return f
}
