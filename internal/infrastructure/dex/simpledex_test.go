package dex

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bimakw/simple-dex/internal/domain/entities"
)

var (
	dexAddr    = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	tokenAAddr = common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512")
	tokenBAddr = common.HexToAddress("0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0")
)

// MockBackend is a scripted node
type MockBackend struct {
	callResults map[common.Address][]byte
	callErr     error
	receipt     *types.Receipt
	code        map[common.Address][]byte
	codeCalls   int
}

func (m *MockBackend) CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	if m.callErr != nil {
		return nil, m.callErr
	}
	return m.callResults[*msg.To], nil
}

func (m *MockBackend) Multicall(ctx context.Context, calls []ethereum.CallMsg) ([][]byte, error) {
	out := make([][]byte, len(calls))
	for i, call := range calls {
		res, err := m.CallContract(ctx, call)
		if err != nil {
			return nil, err
		}
		out[i] = res
	}
	return out, nil
}

func (m *MockBackend) WaitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	return m.receipt, nil
}

func (m *MockBackend) CodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	m.codeCalls++
	return m.code[account], nil
}

// MockSender records calldata instead of signing it
type MockSender struct {
	to   common.Address
	data []byte
	sent int
	err  error
}

func (m *MockSender) Send(ctx context.Context, to common.Address, data []byte) (*types.Transaction, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.sent++
	m.to = to
	m.data = data
	return types.NewTx(&types.LegacyTx{Nonce: uint64(m.sent), To: &to, Data: data}), nil
}

func newTestClient(t *testing.T) (*SimpleDexClient, *MockBackend, *MockSender) {
	t.Helper()

	registry := entities.NewContractRegistry()
	registry.Register(entities.DeployedContract{Name: entities.ContractSimpleDex, Address: dexAddr})
	registry.Register(entities.DeployedContract{Name: entities.ContractTokenA, Address: tokenAAddr})
	registry.Register(entities.DeployedContract{Name: entities.ContractTokenB, Address: tokenBAddr})

	backend := &MockBackend{
		callResults: map[common.Address][]byte{},
		receipt:     &types.Receipt{Status: types.ReceiptStatusSuccessful},
		code: map[common.Address][]byte{
			dexAddr:    {0x60},
			tokenAAddr: {0x60},
			tokenBAddr: {0x60},
		},
	}
	sender := &MockSender{}

	return NewSimpleDexClient(backend, sender, NewResolver(registry, backend)), backend, sender
}

func TestWriteContractEncodesCalls(t *testing.T) {
	tests := []struct {
		name     string
		contract entities.ContractName
		fn       entities.FunctionName
		args     []any
		wantTo   common.Address
		want     func() ([]byte, error)
	}{
		{
			name:     "swapAforB",
			contract: entities.ContractSimpleDex,
			fn:       entities.FnSwapAforB,
			args:     []any{"5"},
			wantTo:   dexAddr,
			want:     func() ([]byte, error) { return SimpleDexABI.Pack("swapAforB", big.NewInt(5)) },
		},
		{
			name:     "swapBforA",
			contract: entities.ContractSimpleDex,
			fn:       entities.FnSwapBforA,
			args:     []any{"7"},
			wantTo:   dexAddr,
			want:     func() ([]byte, error) { return SimpleDexABI.Pack("swapBforA", big.NewInt(7)) },
		},
		{
			name:     "addLiquidity",
			contract: entities.ContractSimpleDex,
			fn:       entities.FnAddLiquidity,
			args:     []any{"10", "20"},
			wantTo:   dexAddr,
			want: func() ([]byte, error) {
				return SimpleDexABI.Pack("addLiquidity", big.NewInt(10), big.NewInt(20))
			},
		},
		{
			name:     "removeLiquidity",
			contract: entities.ContractSimpleDex,
			fn:       entities.FnRemoveLiquidity,
			args:     []any{"3", big.NewInt(4)},
			wantTo:   dexAddr,
			want: func() ([]byte, error) {
				return SimpleDexABI.Pack("removeLiquidity", big.NewInt(3), big.NewInt(4))
			},
		},
		{
			name:     "approve",
			contract: entities.ContractTokenB,
			fn:       entities.FnApprove,
			args:     []any{dexAddr, "100"},
			wantTo:   tokenBAddr,
			want:     func() ([]byte, error) { return ERC20ABI.Pack("approve", dexAddr, big.NewInt(100)) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _, sender := newTestClient(t)

			handle, err := client.WriteContract(context.Background(), tt.contract, tt.fn, tt.args...)
			require.NoError(t, err)
			assert.NotEqual(t, common.Hash{}, handle.Hash())

			want, err := tt.want()
			require.NoError(t, err)
			assert.Equal(t, tt.wantTo, sender.to)
			assert.Equal(t, want, sender.data)

			receipt, err := handle.Wait(context.Background())
			require.NoError(t, err)
			assert.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
		})
	}
}

func TestWriteContractRejectsBadInput(t *testing.T) {
	tests := []struct {
		name     string
		contract entities.ContractName
		fn       entities.FunctionName
		args     []any
		wantErr  error
	}{
		{"fractional amount", entities.ContractSimpleDex, entities.FnSwapAforB, []any{"1.5"}, entities.ErrInvalidAmount},
		{"negative amount", entities.ContractSimpleDex, entities.FnAddLiquidity, []any{"-1", "2"}, entities.ErrInvalidAmount},
		{"text amount", entities.ContractTokenA, entities.FnApprove, []any{dexAddr, "lots"}, entities.ErrInvalidAmount},
		{"wrong arity", entities.ContractSimpleDex, entities.FnAddLiquidity, []any{"1"}, nil},
		{"unknown function", entities.ContractSimpleDex, "drain", []any{}, nil},
		{"unknown contract", "Vault", entities.FnApprove, []any{dexAddr, "1"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _, sender := newTestClient(t)

			_, err := client.WriteContract(context.Background(), tt.contract, tt.fn, tt.args...)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Equal(t, 0, sender.sent)
		})
	}
}

func TestWriteContractReverted(t *testing.T) {
	client, backend, _ := newTestClient(t)
	backend.receipt = &types.Receipt{Status: types.ReceiptStatusFailed}

	handle, err := client.WriteContract(context.Background(), entities.ContractSimpleDex, entities.FnSwapAforB, "5")
	require.NoError(t, err)

	_, err = handle.Wait(context.Background())
	assert.ErrorIs(t, err, entities.ErrTransactionReverted)
}

func TestWriteContractSendError(t *testing.T) {
	client, _, sender := newTestClient(t)
	sender.err = errors.New("insufficient funds")

	_, err := client.WriteContract(context.Background(), entities.ContractSimpleDex, entities.FnSwapBforA, "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient funds")
}

func TestGetPrice(t *testing.T) {
	client, backend, _ := newTestClient(t)

	encoded, err := SimpleDexABI.Methods["getPrice"].Outputs.Pack(big.NewInt(2))
	require.NoError(t, err)
	backend.callResults[dexAddr] = encoded

	price, err := client.GetPrice(context.Background(), tokenAAddr)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(2), price)

	backend.callErr = errors.New("execution reverted")
	_, err = client.GetPrice(context.Background(), tokenAAddr)
	assert.Error(t, err)
}

func TestBalancesOf(t *testing.T) {
	client, backend, _ := newTestClient(t)

	outputs := ERC20ABI.Methods["balanceOf"].Outputs
	a, err := outputs.Pack(big.NewInt(11))
	require.NoError(t, err)
	b, err := outputs.Pack(big.NewInt(22))
	require.NoError(t, err)
	backend.callResults[tokenAAddr] = a
	backend.callResults[tokenBAddr] = b

	balances, err := client.BalancesOf(context.Background(), common.HexToAddress("0xabc"), tokenAAddr, tokenBAddr)
	require.NoError(t, err)
	require.Len(t, balances, 2)
	assert.Equal(t, big.NewInt(11), balances[0])
	assert.Equal(t, big.NewInt(22), balances[1])
}

func TestReadOnlySender(t *testing.T) {
	client, backend, _ := newTestClient(t)
	readOnly := NewSimpleDexClient(backend, ReadOnlySender(), client.resolver)

	_, err := readOnly.WriteContract(context.Background(), entities.ContractSimpleDex, entities.FnSwapAforB, "1")
	assert.ErrorIs(t, err, ErrNoSigner)
}
