package ethereum

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// TxBackend is the part of the node API needed to build and broadcast transactions
type TxBackend interface {
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	LatestBaseFee(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}

// Transactor signs and broadcasts contract calls from a single local account
type Transactor struct {
	backend  TxBackend
	key      *ecdsa.PrivateKey
	from     common.Address
	chainID  *big.Int
	gasLimit uint64 // 0 means estimate

	// serializes nonce assignment so concurrent forms never reuse a nonce
	sendMu sync.Mutex
}

// NewTransactor creates a transactor for the account behind a hex private key
func NewTransactor(backend TxBackend, hexKey string, chainID *big.Int) (*Transactor, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	return &Transactor{
		backend: backend,
		key:     key,
		from:    crypto.PubkeyToAddress(key.PublicKey),
		chainID: chainID,
	}, nil
}

// From returns the address transactions are sent from
func (t *Transactor) From() common.Address {
	return t.from
}

// SetGasLimit fixes the gas limit instead of estimating it
func (t *Transactor) SetGasLimit(limit uint64) {
	t.gasLimit = limit
}

// Send signs a call to contract `to` with calldata and broadcasts it
func (t *Transactor) Send(ctx context.Context, to common.Address, data []byte) (*types.Transaction, error) {
	t.sendMu.Lock()
	defer t.sendMu.Unlock()

	nonce, err := t.backend.PendingNonceAt(ctx, t.from)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}

	gasLimit := t.gasLimit
	if gasLimit == 0 {
		estimated, err := t.backend.EstimateGas(ctx, ethereum.CallMsg{
			From: t.from,
			To:   &to,
			Data: data,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to estimate gas: %w", err)
		}
		gasLimit = estimated * 120 / 100 // Add 20% buffer
	}

	txData, err := t.buildTxData(ctx, nonce, to, gasLimit, data)
	if err != nil {
		return nil, err
	}

	signed, err := types.SignTx(types.NewTx(txData), types.LatestSignerForChainID(t.chainID), t.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := t.backend.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}

	return signed, nil
}

// buildTxData prefers an EIP-1559 transaction and falls back to a legacy one
// on chains without a base fee
func (t *Transactor) buildTxData(ctx context.Context, nonce uint64, to common.Address, gasLimit uint64, data []byte) (types.TxData, error) {
	baseFee, err := t.backend.LatestBaseFee(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get base fee: %w", err)
	}

	if baseFee == nil {
		gasPrice, err := t.backend.SuggestGasPrice(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get gas price: %w", err)
		}
		return &types.LegacyTx{
			Nonce:    nonce,
			To:       &to,
			Value:    big.NewInt(0),
			Gas:      gasLimit,
			GasPrice: gasPrice,
			Data:     data,
		}, nil
	}

	tip, err := t.backend.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas tip cap: %w", err)
	}

	// feeCap = 2*baseFee + tip leaves room for a few full blocks
	feeCap := new(big.Int).Add(new(big.Int).Mul(baseFee, big.NewInt(2)), tip)

	return &types.DynamicFeeTx{
		ChainID:   t.chainID,
		Nonce:     nonce,
		To:        &to,
		Value:     big.NewInt(0),
		Gas:       gasLimit,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Data:      data,
	}, nil
}
