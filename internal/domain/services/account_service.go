package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/bimakw/simple-dex/internal/domain/entities"
	"github.com/bimakw/simple-dex/internal/infrastructure/dex"
)

// ErrNoAccount is returned when no signing key is configured
var ErrNoAccount = errors.New("no account configured")

// TokenBalance is the connected account's holding of one pool token
type TokenBalance struct {
	Token   entities.TokenSymbol `json:"token"`
	Ticker  string               `json:"ticker"`
	Address string               `json:"address"`
	Balance string               `json:"balance"`
}

// Account is the connected address and its pool token balances
type Account struct {
	Address  string         `json:"address"`
	Balances []TokenBalance `json:"balances"`
}

type AccountService struct {
	reader   dex.ContractReader
	resolver dex.ContractResolver
	owner    *common.Address
}

// NewAccountService creates an account view. owner is nil without a signing key.
func NewAccountService(reader dex.ContractReader, resolver dex.ContractResolver, owner *common.Address) *AccountService {
	return &AccountService{
		reader:   reader,
		resolver: resolver,
		owner:    owner,
	}
}

// Account returns the connected address with its TokenA and TokenB balances
func (s *AccountService) Account(ctx context.Context) (*Account, error) {
	if s.owner == nil {
		return nil, ErrNoAccount
	}

	tokens := []entities.TokenSymbol{entities.TokenA, entities.TokenB}
	addrs := make([]common.Address, len(tokens))
	for i, token := range tokens {
		c, err := s.resolver.Resolve(ctx, token.ContractName())
		if err != nil {
			return nil, err
		}
		addrs[i] = c.Address
	}

	balances, err := s.reader.BalancesOf(ctx, *s.owner, addrs...)
	if err != nil {
		return nil, fmt.Errorf("failed to read balances: %w", err)
	}

	account := &Account{Address: s.owner.Hex()}
	for i, token := range tokens {
		info, _ := entities.TokenInfo(token)
		account.Balances = append(account.Balances, TokenBalance{
			Token:   token,
			Ticker:  info.Ticker,
			Address: addrs[i].Hex(),
			Balance: balances[i].String(),
		})
	}
	return account, nil
}
