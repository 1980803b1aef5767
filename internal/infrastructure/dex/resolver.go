package dex

import (
	"context"
	"fmt"
	"sync"

	"github.com/bimakw/simple-dex/internal/domain/entities"
)

// Resolver looks contracts up in the registry and confirms code is deployed
// at their address before handing them out. Confirmed contracts are cached.
type Resolver struct {
	registry *entities.ContractRegistry
	code     CodeBackend

	mu       sync.RWMutex
	resolved map[entities.ContractName]entities.DeployedContract
}

// NewResolver creates a resolver over a contract registry
func NewResolver(registry *entities.ContractRegistry, code CodeBackend) *Resolver {
	return &Resolver{
		registry: registry,
		code:     code,
		resolved: make(map[entities.ContractName]entities.DeployedContract),
	}
}

// Resolve returns the contract once its code has been observed on chain
func (r *Resolver) Resolve(ctx context.Context, name entities.ContractName) (entities.DeployedContract, error) {
	r.mu.RLock()
	c, ok := r.resolved[name]
	r.mu.RUnlock()
	if ok {
		return c, nil
	}

	c, ok = r.registry.Lookup(name)
	if !ok {
		return entities.DeployedContract{}, fmt.Errorf("%s: %w", name, entities.ErrContractNotResolved)
	}

	code, err := r.code.CodeAt(ctx, c.Address)
	if err != nil {
		return entities.DeployedContract{}, fmt.Errorf("%s: failed to get code: %w", name, err)
	}
	if len(code) == 0 {
		return entities.DeployedContract{}, fmt.Errorf("%s: no code at %s: %w", name, c.Address.Hex(), entities.ErrContractNotResolved)
	}

	r.mu.Lock()
	r.resolved[name] = c
	r.mu.Unlock()

	return c, nil
}

// Statuses reports the resolution state of every known contract
func (r *Resolver) Statuses(ctx context.Context) []entities.ContractStatus {
	statuses := make([]entities.ContractStatus, 0, len(entities.ContractNames))
	for _, name := range entities.ContractNames {
		status := entities.ContractStatus{Name: name}
		if c, ok := r.registry.Lookup(name); ok {
			status.Address = c.Address.Hex()
		}

		if _, err := r.Resolve(ctx, name); err != nil {
			status.Error = err.Error()
		} else {
			status.Resolved = true
		}
		statuses = append(statuses, status)
	}
	return statuses
}
