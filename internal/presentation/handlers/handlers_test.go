package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bimakw/simple-dex/internal/domain/entities"
	"github.com/bimakw/simple-dex/internal/domain/services"
	"github.com/bimakw/simple-dex/internal/infrastructure/cache"
	"github.com/bimakw/simple-dex/internal/infrastructure/database"
	"github.com/bimakw/simple-dex/internal/infrastructure/dex"
)

var testAddresses = map[entities.ContractName]common.Address{
	entities.ContractSimpleDex: common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"),
	entities.ContractTokenA:    common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512"),
	entities.ContractTokenB:    common.HexToAddress("0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0"),
}

type stubChain struct {
	mu      sync.Mutex
	calls   []entities.FunctionName
	failing bool
	release chan struct{}
}

type stubHandle struct {
	hash    common.Hash
	failing bool
	release chan struct{}
}

func (h stubHandle) Hash() common.Hash { return h.hash }

func (h stubHandle) Wait(ctx context.Context) (*types.Receipt, error) {
	if h.release != nil {
		<-h.release
	}
	if h.failing {
		return nil, entities.ErrTransactionReverted
	}
	return &types.Receipt{Status: types.ReceiptStatusSuccessful}, nil
}

func (c *stubChain) Calls() []entities.FunctionName {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]entities.FunctionName(nil), c.calls...)
}

func (c *stubChain) SetFailing(failing bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failing = failing
}

func (c *stubChain) WriteContract(ctx context.Context, contract entities.ContractName, fn entities.FunctionName, args ...any) (dex.TxHandle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, fn)
	return stubHandle{
		hash:    common.BigToHash(big.NewInt(int64(len(c.calls)))),
		failing: c.failing,
		release: c.release,
	}, nil
}

func (c *stubChain) Resolve(ctx context.Context, name entities.ContractName) (entities.DeployedContract, error) {
	addr, ok := testAddresses[name]
	if !ok {
		return entities.DeployedContract{}, fmt.Errorf("%s: %w", name, entities.ErrContractNotResolved)
	}
	return entities.DeployedContract{Name: name, Address: addr}, nil
}

func (c *stubChain) Statuses(ctx context.Context) []entities.ContractStatus {
	var out []entities.ContractStatus
	for _, name := range entities.ContractNames {
		out = append(out, entities.ContractStatus{Name: name, Address: testAddresses[name].Hex(), Resolved: true})
	}
	return out
}

func (c *stubChain) GetPrice(ctx context.Context, token common.Address) (*big.Int, error) {
	if token == testAddresses[entities.ContractTokenA] {
		return big.NewInt(2), nil
	}
	return nil, errors.New("execution reverted")
}

func (c *stubChain) BalancesOf(ctx context.Context, owner common.Address, tokens ...common.Address) ([]*big.Int, error) {
	out := make([]*big.Int, len(tokens))
	for i := range tokens {
		out[i] = big.NewInt(int64(100 * (i + 1)))
	}
	return out, nil
}

type testServer struct {
	*httptest.Server
	chain *stubChain
}

func newTestServer(t *testing.T, owner *common.Address) *testServer {
	t.Helper()

	db, err := database.NewDatabase(database.MemoryPath, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	chain := &stubChain{}
	log := zap.NewNop()
	submitter := services.NewSubmitter(chain, chain, db, log, time.Second)
	sessions := services.NewSessionService(submitter, time.Minute, log)
	prices := services.NewPriceService(chain, chain, cache.NewInMemoryCache(), 31337, time.Minute, log)

	srv := httptest.NewServer(NewRouter(RouterDeps{
		Version:  "test",
		ChainID:  31337,
		Sessions: sessions,
		Prices:   prices,
		Accounts: services.NewAccountService(chain, chain, owner),
		History:  services.NewHistoryService(db, "https://explorer.example"),
		Resolver: chain,
		Logger:   log,
	}))
	t.Cleanup(srv.Close)

	return &testServer{Server: srv, chain: chain}
}

func (s *testServer) do(t *testing.T, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, s.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func (s *testServer) newSession(t *testing.T) string {
	t.Helper()
	resp, body := s.do(t, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return body["id"].(string)
}

func statusMessage(body map[string]any) string {
	status, _ := body["status"].(map[string]any)
	msg, _ := status["message"].(string)
	return msg
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := srv.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(31337), body["chainId"])
}

func TestSessionEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)
	id := srv.newSession(t)

	resp, body := srv.do(t, http.MethodGet, "/api/v1/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	swap := body["swap"].(map[string]any)
	assert.Equal(t, "TokenA", swap["fromToken"])
	assert.Equal(t, "TokenB", swap["toToken"])

	resp, _ = srv.do(t, http.MethodDelete, "/api/v1/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = srv.do(t, http.MethodGet, "/api/v1/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "session_not_found", body["error"])
}

func TestSwapEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)
	id := srv.newSession(t)

	resp, body := srv.do(t, http.MethodPut, "/api/v1/sessions/"+id+"/swap/selection", SelectionRequest{FromToken: "TokenB"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "TokenA", body["toToken"])

	resp, body = srv.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/swap", SwapRequest{Amount: "5"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Swapped 5 TokenB for TokenA", statusMessage(body))
	assert.Equal(t, []entities.FunctionName{entities.FnSwapBforA}, srv.chain.Calls())

	resp, body = srv.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/swap", SwapRequest{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Please fill in all fields.", statusMessage(body))

	resp, _ = srv.do(t, http.MethodPut, "/api/v1/sessions/"+id+"/swap/selection", SelectionRequest{FromToken: "DAI"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = srv.do(t, http.MethodPut, "/api/v1/sessions/"+id+"/swap/selection", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = srv.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/swap", map[string]int{"amount": 5})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestApproveAndLiquidityEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)
	id := srv.newSession(t)

	resp, body := srv.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/approve/TokenA", ApproveRequest{Amount: "100"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Approved 100 TokenA for spending", statusMessage(body))

	resp, _ = srv.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/approve/TokenC", ApproveRequest{Amount: "1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = srv.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/liquidity/add", LiquidityRequest{AmountA: "10", AmountB: "20"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Successfully added 10 of Token A and 20 of Token B to liquidity.", statusMessage(body))

	resp, body = srv.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/liquidity/remove", LiquidityRequest{AmountA: "1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Please fill in both amounts.", statusMessage(body))

	srv.chain.SetFailing(true)
	resp, body = srv.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/liquidity/remove", LiquidityRequest{AmountA: "1", AmountB: "2"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Failed to remove liquidity.", statusMessage(body))

	resp, body = srv.do(t, http.MethodGet, "/api/v1/transactions?limit=10", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	txs := body["transactions"].([]any)
	require.Len(t, txs, 3)
	newest := txs[0].(map[string]any)
	assert.Equal(t, "removeLiquidity", newest["function"])
	assert.Equal(t, "call_failed", newest["state"])
	assert.Contains(t, newest["explorerUrl"], "https://explorer.example/tx/0x")

	resp, _ = srv.do(t, http.MethodGet, "/api/v1/transactions?limit=-1", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSubmitInFlightConflict(t *testing.T) {
	srv := newTestServer(t, nil)
	srv.chain.release = make(chan struct{})
	id := srv.newSession(t)

	done := make(chan int)
	go func() {
		resp, _ := srv.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/liquidity/add", LiquidityRequest{AmountA: "1", AmountB: "2"})
		done <- resp.StatusCode
	}()

	require.Eventually(t, func() bool {
		return len(srv.chain.Calls()) == 1
	}, time.Second, 5*time.Millisecond)

	resp, body := srv.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/liquidity/add", LiquidityRequest{AmountA: "1", AmountB: "2"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "submission_in_flight", body["error"])

	close(srv.chain.release)
	assert.Equal(t, http.StatusOK, <-done)
}

func TestReadOnlyViews(t *testing.T) {
	owner := common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	srv := newTestServer(t, &owner)

	resp, body := srv.do(t, http.MethodGet, "/api/v1/prices", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "2 TKB", body["priceOfA"].(map[string]any)["display"])
	assert.Equal(t, "0 TKA", body["priceOfB"].(map[string]any)["display"])

	resp, body = srv.do(t, http.MethodGet, "/api/v1/contracts", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["contracts"], 3)

	resp, body = srv.do(t, http.MethodGet, "/api/v1/account", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, owner.Hex(), body["address"])
	assert.Len(t, body["balances"], 2)

	resp, body = srv.do(t, http.MethodGet, "/api/v1/links", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["links"], 3)
}

func TestAccountWithoutKey(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := srv.do(t, http.MethodGet, "/api/v1/account", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "no_account", body["error"])
}
