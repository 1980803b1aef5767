package dex

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const simpleDexABIJSON = `[
	{"type":"function","name":"addLiquidity","stateMutability":"nonpayable",
	 "inputs":[{"name":"amountA","type":"uint256"},{"name":"amountB","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"removeLiquidity","stateMutability":"nonpayable",
	 "inputs":[{"name":"amountA","type":"uint256"},{"name":"amountB","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"swapAforB","stateMutability":"nonpayable",
	 "inputs":[{"name":"amountAIn","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"swapBforA","stateMutability":"nonpayable",
	 "inputs":[{"name":"amountBIn","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"getPrice","stateMutability":"view",
	 "inputs":[{"name":"_token","type":"address"}],"outputs":[{"name":"","type":"uint256"}]}
]`

const erc20ABIJSON = `[
	{"type":"function","name":"approve","stateMutability":"nonpayable",
	 "inputs":[{"name":"spender","type":"address"},{"name":"value","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"balanceOf","stateMutability":"view",
	 "inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"allowance","stateMutability":"view",
	 "inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]}
]`

var (
	// SimpleDexABI is the interface of the SimpleDex pool contract
	SimpleDexABI = mustParseABI(simpleDexABIJSON)

	// ERC20ABI is the subset of ERC-20 used by the forms
	ERC20ABI = mustParseABI(erc20ABIJSON)
)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic("dex: invalid ABI: " + err.Error())
	}
	return parsed
}
