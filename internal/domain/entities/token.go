package entities

import "github.com/ethereum/go-ethereum/common"

// TokenSymbol identifies one of the two tokens traded by the pool
type TokenSymbol string

const (
	TokenA TokenSymbol = "TokenA"
	TokenB TokenSymbol = "TokenB"
)

// Valid reports whether s is one of the two pool tokens
func (s TokenSymbol) Valid() bool {
	return s == TokenA || s == TokenB
}

// Complement returns the other token of the pair.
// The empty symbol has no complement and is returned as is.
func (s TokenSymbol) Complement() TokenSymbol {
	switch s {
	case TokenA:
		return TokenB
	case TokenB:
		return TokenA
	default:
		return s
	}
}

// ContractName returns the deployment name of the token contract
func (s TokenSymbol) ContractName() ContractName {
	return ContractName(s)
}

type Token struct {
	Address  common.Address `json:"address"`
	Symbol   TokenSymbol    `json:"symbol"`
	Name     string         `json:"name"`
	Ticker   string         `json:"ticker"`
	Decimals uint8          `json:"decimals"`
}

// TokenAInfo describes the first pool token
var TokenAInfo = Token{
	Symbol:   TokenA,
	Name:     "Token A",
	Ticker:   "TKA",
	Decimals: 18,
}

// TokenBInfo describes the second pool token
var TokenBInfo = Token{
	Symbol:   TokenB,
	Name:     "Token B",
	Ticker:   "TKB",
	Decimals: 18,
}

// TokenInfo returns the static metadata of a pool token
func TokenInfo(s TokenSymbol) (Token, bool) {
	switch s {
	case TokenA:
		return TokenAInfo, true
	case TokenB:
		return TokenBInfo, true
	default:
		return Token{}, false
	}
}
