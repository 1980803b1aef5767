package dex

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/bimakw/simple-dex/internal/domain/entities"
)

// TxHandle is a broadcast transaction that can be waited on
type TxHandle interface {
	Hash() common.Hash

	// Wait blocks until the transaction is mined. A reverted receipt is
	// reported as entities.ErrTransactionReverted.
	Wait(ctx context.Context) (*types.Receipt, error)
}

// ContractWriter submits state-changing calls to the deployed contracts
type ContractWriter interface {
	WriteContract(ctx context.Context, contract entities.ContractName, fn entities.FunctionName, args ...any) (TxHandle, error)
}

// ContractReader performs view calls against the deployed contracts
type ContractReader interface {
	GetPrice(ctx context.Context, token common.Address) (*big.Int, error)

	BalancesOf(ctx context.Context, owner common.Address, tokens ...common.Address) ([]*big.Int, error)
}

// ContractResolver turns contract names into addresses with code behind them
type ContractResolver interface {
	Resolve(ctx context.Context, name entities.ContractName) (entities.DeployedContract, error)

	Statuses(ctx context.Context) []entities.ContractStatus
}

// Backend is the node API used by the SimpleDex client
type Backend interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error)
	Multicall(ctx context.Context, calls []ethereum.CallMsg) ([][]byte, error)
	WaitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error)
}

// Sender signs and broadcasts calldata
type Sender interface {
	Send(ctx context.Context, to common.Address, data []byte) (*types.Transaction, error)
}

// CodeBackend reads deployed bytecode
type CodeBackend interface {
	CodeAt(ctx context.Context, account common.Address) ([]byte, error)
}
