package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

const erc20ABI = `[
	{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"stateMutability":"view","type":"function"}
]`

// Client reads wallet balances from the chain.
type Client struct {
	rpcURL string
	logger *zap.Logger
}

// NewClient creates a new wallet client.
func NewClient(rpcURL string, logger *zap.Logger) (*Client, error) {
	if rpcURL == "" {
		return nil, errors.New("rpcURL cannot be empty")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &Client{rpcURL: rpcURL, logger: logger}, nil
}

// NativeBalance fetches the native coin balance in wei.
func (c *Client) NativeBalance(ctx context.Context, address common.Address) (*big.Int, error) {
	client, err := ethclient.DialContext(ctx, c.rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial RPC: %w", err)
	}
	defer client.Close()

	balance, err := client.BalanceAt(ctx, address, nil)
	if err != nil {
		return nil, fmt.Errorf("get native balance: %w", err)
	}

	return balance, nil
}

// TokenBalance fetches an ERC20 balance in the token's smallest units.
func (c *Client) TokenBalance(ctx context.Context, address common.Address, token common.Address) (*big.Int, error) {
	client, err := ethclient.DialContext(ctx, c.rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial RPC: %w", err)
	}
	defer client.Close()

	parsedABI, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return nil, fmt.Errorf("parse ERC20 ABI: %w", err)
	}

	data, err := parsedABI.Pack("balanceOf", address)
	if err != nil {
		return nil, fmt.Errorf("pack balanceOf: %w", err)
	}

	result, err := client.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call balanceOf: %w", err)
	}

	var balance *big.Int
	err = parsedABI.UnpackIntoInterface(&balance, "balanceOf", result)
	if err != nil {
		return nil, fmt.Errorf("unpack balanceOf: %w", err)
	}

	return balance, nil
}
