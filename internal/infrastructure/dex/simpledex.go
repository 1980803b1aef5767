package dex

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/bimakw/simple-dex/internal/domain/entities"
)

// ErrNoSigner is returned by writes when no signing key is configured
var ErrNoSigner = errors.New("no signing key configured")

type readOnlySender struct{}

func (readOnlySender) Send(ctx context.Context, to common.Address, data []byte) (*types.Transaction, error) {
	return nil, ErrNoSigner
}

// ReadOnlySender returns a Sender that rejects every write
func ReadOnlySender() Sender {
	return readOnlySender{}
}

// SimpleDexClient reads from and writes to the SimpleDex pool and its tokens
type SimpleDexClient struct {
	backend  Backend
	sender   Sender
	resolver ContractResolver
}

// NewSimpleDexClient creates a new SimpleDex client
func NewSimpleDexClient(backend Backend, sender Sender, resolver ContractResolver) *SimpleDexClient {
	return &SimpleDexClient{
		backend:  backend,
		sender:   sender,
		resolver: resolver,
	}
}

// WriteContract encodes fn(args...) for the named contract, signs and broadcasts it.
// Amount arguments may be decimal strings; they are converted to uint256 here.
func (c *SimpleDexClient) WriteContract(ctx context.Context, contract entities.ContractName, fn entities.FunctionName, args ...any) (TxHandle, error) {
	contractABI, err := abiFor(contract)
	if err != nil {
		return nil, err
	}

	method, ok := contractABI.Methods[string(fn)]
	if !ok {
		return nil, fmt.Errorf("%s has no function %s", contract, fn)
	}

	encoded, err := encodeArgs(method, args)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", contract, fn, err)
	}

	data, err := contractABI.Pack(method.Name, encoded...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s.%s: %w", contract, fn, err)
	}

	target, err := c.resolver.Resolve(ctx, contract)
	if err != nil {
		return nil, err
	}

	tx, err := c.sender.Send(ctx, target.Address, data)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", contract, fn, err)
	}

	return &txHandle{hash: tx.Hash(), backend: c.backend}, nil
}

// GetPrice returns SimpleDex.getPrice(token)
func (c *SimpleDexClient) GetPrice(ctx context.Context, token common.Address) (*big.Int, error) {
	pool, err := c.resolver.Resolve(ctx, entities.ContractSimpleDex)
	if err != nil {
		return nil, err
	}

	data, err := SimpleDexABI.Pack("getPrice", token)
	if err != nil {
		return nil, fmt.Errorf("failed to pack getPrice: %w", err)
	}

	result, err := c.backend.CallContract(ctx, ethereum.CallMsg{
		To:   &pool.Address,
		Data: data,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get price: %w", err)
	}

	return unpackUint256(SimpleDexABI, "getPrice", result)
}

// BalancesOf returns balanceOf(owner) for each token, in order
func (c *SimpleDexClient) BalancesOf(ctx context.Context, owner common.Address, tokens ...common.Address) ([]*big.Int, error) {
	data, err := ERC20ABI.Pack("balanceOf", owner)
	if err != nil {
		return nil, fmt.Errorf("failed to pack balanceOf: %w", err)
	}

	calls := make([]ethereum.CallMsg, len(tokens))
	for i := range tokens {
		calls[i] = ethereum.CallMsg{To: &tokens[i], Data: data}
	}

	results, err := c.backend.Multicall(ctx, calls)
	if err != nil {
		return nil, fmt.Errorf("failed to get balances: %w", err)
	}

	balances := make([]*big.Int, len(results))
	for i, result := range results {
		balance, err := unpackUint256(ERC20ABI, "balanceOf", result)
		if err != nil {
			return nil, err
		}
		balances[i] = balance
	}

	return balances, nil
}

type txHandle struct {
	hash    common.Hash
	backend Backend
}

func (h *txHandle) Hash() common.Hash {
	return h.hash
}

func (h *txHandle) Wait(ctx context.Context) (*types.Receipt, error) {
	receipt, err := h.backend.WaitMined(ctx, h.hash)
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%s: %w", h.hash.Hex(), entities.ErrTransactionReverted)
	}
	return receipt, nil
}

func abiFor(contract entities.ContractName) (abi.ABI, error) {
	switch contract {
	case entities.ContractSimpleDex:
		return SimpleDexABI, nil
	case entities.ContractTokenA, entities.ContractTokenB:
		return ERC20ABI, nil
	default:
		return abi.ABI{}, fmt.Errorf("unknown contract %q", contract)
	}
}

// encodeArgs converts loosely typed arguments to the Go types the ABI packer expects
func encodeArgs(method abi.Method, args []any) ([]any, error) {
	if len(args) != len(method.Inputs) {
		return nil, fmt.Errorf("expected %d arguments, got %d", len(method.Inputs), len(args))
	}

	out := make([]any, len(args))
	for i, input := range method.Inputs {
		var err error
		switch input.Type.T {
		case abi.UintTy:
			out[i], err = toUint256(args[i])
		case abi.AddressTy:
			out[i], err = toAddress(args[i])
		default:
			out[i] = args[i]
		}
		if err != nil {
			return nil, fmt.Errorf("argument %s: %w", input.Name, err)
		}
	}

	return out, nil
}

func toUint256(v any) (*big.Int, error) {
	switch x := v.(type) {
	case string:
		return entities.ParseAmount(x)
	case *big.Int:
		if x == nil || x.Sign() < 0 {
			return nil, entities.ErrInvalidAmount
		}
		return x, nil
	case uint64:
		return new(big.Int).SetUint64(x), nil
	default:
		return nil, fmt.Errorf("%w: unsupported type %T", entities.ErrInvalidAmount, v)
	}
}

func toAddress(v any) (common.Address, error) {
	switch x := v.(type) {
	case common.Address:
		return x, nil
	case string:
		if !common.IsHexAddress(x) {
			return common.Address{}, fmt.Errorf("invalid address %q", x)
		}
		return common.HexToAddress(x), nil
	default:
		return common.Address{}, fmt.Errorf("unsupported address type %T", v)
	}
}

func unpackUint256(contractABI abi.ABI, method string, result []byte) (*big.Int, error) {
	values, err := contractABI.Unpack(method, result)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s: %w", method, err)
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("invalid %s response length", method)
	}
	value, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("invalid %s response type %T", method, values[0])
	}
	return value, nil
}
