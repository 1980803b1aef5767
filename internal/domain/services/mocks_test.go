package services

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/bimakw/simple-dex/internal/domain/entities"
	"github.com/bimakw/simple-dex/internal/infrastructure/dex"
)

var (
	dexAddress    = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	tokenAAddress = common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512")
	tokenBAddress = common.HexToAddress("0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0")
)

// WriteCall is one call seen by MockContractWriter
type WriteCall struct {
	Contract entities.ContractName
	Function entities.FunctionName
	Args     []any
}

// MockContractWriter is a mock implementation of dex.ContractWriter for testing
type MockContractWriter struct {
	mu       sync.Mutex
	calls    []WriteCall
	err      error
	waitErr  error
	block    chan struct{}
	started  chan struct{}
	sequence int
}

func NewMockContractWriter() *MockContractWriter {
	return &MockContractWriter{}
}

func (m *MockContractWriter) SetError(err error) {
	m.err = err
}

func (m *MockContractWriter) SetWaitError(err error) {
	m.waitErr = err
}

// Block makes Wait hang until Unblock; Started fires when a call arrives
func (m *MockContractWriter) Block() {
	m.block = make(chan struct{})
	m.started = make(chan struct{}, 1)
}

func (m *MockContractWriter) Unblock() {
	close(m.block)
}

func (m *MockContractWriter) Calls() []WriteCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]WriteCall(nil), m.calls...)
}

func (m *MockContractWriter) WriteContract(ctx context.Context, contract entities.ContractName, fn entities.FunctionName, args ...any) (dex.TxHandle, error) {
	m.mu.Lock()
	m.calls = append(m.calls, WriteCall{Contract: contract, Function: fn, Args: args})
	m.sequence++
	seq := m.sequence
	m.mu.Unlock()

	if m.started != nil {
		m.started <- struct{}{}
	}
	if m.err != nil {
		return nil, m.err
	}
	return &MockTxHandle{
		hash:  common.BigToHash(big.NewInt(int64(seq))),
		err:   m.waitErr,
		block: m.block,
	}, nil
}

// MockTxHandle is a mock implementation of dex.TxHandle
type MockTxHandle struct {
	hash  common.Hash
	err   error
	block chan struct{}
}

func (h *MockTxHandle) Hash() common.Hash {
	return h.hash
}

func (h *MockTxHandle) Wait(ctx context.Context) (*types.Receipt, error) {
	if h.block != nil {
		select {
		case <-h.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if h.err != nil {
		return nil, h.err
	}
	return &types.Receipt{Status: types.ReceiptStatusSuccessful, TxHash: h.hash}, nil
}

// MockResolver resolves a fixed set of contracts
type MockResolver struct {
	contracts map[entities.ContractName]common.Address
}

func NewMockResolver() *MockResolver {
	return &MockResolver{
		contracts: map[entities.ContractName]common.Address{
			entities.ContractSimpleDex: dexAddress,
			entities.ContractTokenA:    tokenAAddress,
			entities.ContractTokenB:    tokenBAddress,
		},
	}
}

func (m *MockResolver) Unresolve(name entities.ContractName) {
	delete(m.contracts, name)
}

func (m *MockResolver) Resolve(ctx context.Context, name entities.ContractName) (entities.DeployedContract, error) {
	addr, ok := m.contracts[name]
	if !ok {
		return entities.DeployedContract{}, fmt.Errorf("%s: %w", name, entities.ErrContractNotResolved)
	}
	return entities.DeployedContract{Name: name, Address: addr}, nil
}

func (m *MockResolver) Statuses(ctx context.Context) []entities.ContractStatus {
	var out []entities.ContractStatus
	for _, name := range entities.ContractNames {
		addr, ok := m.contracts[name]
		out = append(out, entities.ContractStatus{Name: name, Address: addr.Hex(), Resolved: ok})
	}
	return out
}

// MockContractReader is a mock implementation of dex.ContractReader
type MockContractReader struct {
	mu       sync.Mutex
	prices   map[common.Address]*big.Int
	balances map[common.Address]*big.Int
	errs     []error // returned by successive GetPrice calls before succeeding
	calls    int
}

func NewMockContractReader() *MockContractReader {
	return &MockContractReader{
		prices:   make(map[common.Address]*big.Int),
		balances: make(map[common.Address]*big.Int),
	}
}

func (m *MockContractReader) SetPrice(token common.Address, price int64) {
	m.prices[token] = big.NewInt(price)
}

func (m *MockContractReader) GetPriceCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockContractReader) GetPrice(ctx context.Context, token common.Address) (*big.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		return nil, err
	}
	price, ok := m.prices[token]
	if !ok {
		return big.NewInt(0), nil
	}
	return price, nil
}

func (m *MockContractReader) BalancesOf(ctx context.Context, owner common.Address, tokens ...common.Address) ([]*big.Int, error) {
	out := make([]*big.Int, len(tokens))
	for i, token := range tokens {
		if b, ok := m.balances[token]; ok {
			out[i] = b
		} else {
			out[i] = big.NewInt(0)
		}
	}
	return out, nil
}

// MockJournal keeps submissions in memory
type MockJournal struct {
	mu   sync.Mutex
	rows []entities.Submission
}

func (m *MockJournal) RecordSubmission(ctx context.Context, s *entities.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, *s)
	return nil
}

func (m *MockJournal) UpdateSubmission(ctx context.Context, s *entities.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == s.ID {
			m.rows[i] = *s
			return nil
		}
	}
	return fmt.Errorf("submission %s not found", s.ID)
}

func (m *MockJournal) ListSubmissions(ctx context.Context, limit int) ([]entities.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entities.Submission
	for i := len(m.rows) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.rows[i])
	}
	return out, nil
}

func (m *MockJournal) Rows() []entities.Submission {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entities.Submission(nil), m.rows...)
}
