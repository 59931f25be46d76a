package wallet

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
)

// Signer holds the bot's trading key and signs transactions for the
// configured chain. It is constructed once at startup and shared by every
// venue adapter; the engine itself never touches key material.
type Signer struct {
	key     *ecdsa.PrivateKey
	address common.Address
	chainID *big.Int
	logger  *zap.Logger
}

// NewSigner parses a hex private key and derives the wallet address.
func NewSigner(privateKeyHex string, chainID int64, logger *zap.Logger) (*Signer, error) {
	if privateKeyHex == "" {
		return nil, errors.New("private key cannot be empty")
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	publicKey, ok := key.Public().(*ecdsa.PublicKey)
	if !ok {
		return nil, errors.New("error casting public key to ECDSA")
	}
	address := crypto.PubkeyToAddress(*publicKey)

	logger.Info("signer-initialized",
		zap.String("address", address.Hex()),
		zap.Int64("chain-id", chainID))

	return &Signer{
		key:     key,
		address: address,
		chainID: big.NewInt(chainID),
		logger:  logger,
	}, nil
}

// Address returns the wallet address derived from the key.
func (s *Signer) Address() common.Address {
	return s.address
}

// ChainID returns the chain id transactions are signed for.
func (s *Signer) ChainID() *big.Int {
	return new(big.Int).Set(s.chainID)
}

// SignTx signs a transaction with the wallet key.
func (s *Signer) SignTx(tx *ethtypes.Transaction) (*ethtypes.Transaction, error) {
	signed, err := ethtypes.SignTx(tx, ethtypes.NewEIP155Signer(s.chainID), s.key)
	if err != nil {
		return nil, fmt.Errorf("sign tx: %w", err)
	}
	return signed, nil
}
