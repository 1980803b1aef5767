package entities

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// DeploymentConfig is one contract entry of a deployments file
type DeploymentConfig struct {
	Address string          `json:"address"`
	ABI     json.RawMessage `json:"abi,omitempty"`
}

// DeploymentsFile is the deployments JSON produced by the contract tooling,
// keyed by chain id and then by contract name:
//
//	{"31337": {"SimpleDex": {"address": "0x..."}, "TokenA": {...}}}
type DeploymentsFile map[string]map[string]DeploymentConfig

// ContractRegistry holds the known contract addresses indexed by name
type ContractRegistry struct {
	mu     sync.RWMutex
	byName map[ContractName]DeployedContract
}

// NewContractRegistry creates an empty registry
func NewContractRegistry() *ContractRegistry {
	return &ContractRegistry{
		byName: make(map[ContractName]DeployedContract),
	}
}

// LoadFromFile registers the contracts deployed on chainID from a deployments file
func (r *ContractRegistry) LoadFromFile(path string, chainID uint64) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read deployments file: %w", err)
	}

	var deployments DeploymentsFile
	if err := json.Unmarshal(data, &deployments); err != nil {
		return fmt.Errorf("failed to parse deployments file: %w", err)
	}

	chain, ok := deployments[strconv.FormatUint(chainID, 10)]
	if !ok {
		return fmt.Errorf("no deployments for chain %d in %s", chainID, path)
	}

	for name, dc := range chain {
		if !common.IsHexAddress(dc.Address) {
			return fmt.Errorf("contract %s has invalid address %q", name, dc.Address)
		}
		r.Register(DeployedContract{
			Name:    ContractName(name),
			Address: common.HexToAddress(dc.Address),
		})
	}

	return nil
}

// Register adds or replaces a contract in the registry
func (r *ContractRegistry) Register(c DeployedContract) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[c.Name] = c
}

// Lookup returns a contract by name
func (r *ContractRegistry) Lookup(name ContractName) (DeployedContract, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byName[name]
	return c, ok
}

// Count returns the number of registered contracts
func (r *ContractRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}
