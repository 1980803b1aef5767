package entities

import (
	"github.com/ethereum/go-ethereum/common"
)

// ContractName is the deployment name a contract is looked up by
type ContractName string

const (
	ContractTokenA    ContractName = "TokenA"
	ContractTokenB    ContractName = "TokenB"
	ContractSimpleDex ContractName = "SimpleDex"
)

// ContractNames lists every contract the front-end talks to
var ContractNames = []ContractName{ContractTokenA, ContractTokenB, ContractSimpleDex}

// FunctionName is a state-changing contract function
type FunctionName string

const (
	FnApprove         FunctionName = "approve"
	FnAddLiquidity    FunctionName = "addLiquidity"
	FnRemoveLiquidity FunctionName = "removeLiquidity"
	FnSwapAforB       FunctionName = "swapAforB"
	FnSwapBforA       FunctionName = "swapBforA"
)

// DeployedContract is a resolved reference to an on-chain contract
type DeployedContract struct {
	Name    ContractName   `json:"name"`
	Address common.Address `json:"address"`
}

// ContractStatus describes where a contract reference is in its resolution
type ContractStatus struct {
	Name     ContractName `json:"name"`
	Address  string       `json:"address,omitempty"`
	Resolved bool         `json:"resolved"`
	Error    string       `json:"error,omitempty"`
}
