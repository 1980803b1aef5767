package entities

import "errors"

var (
	// ErrInvalidSelection is returned when both sides of a swap hold the same token
	ErrInvalidSelection = errors.New("invalid token selection")

	// ErrInvalidAmount is returned when an amount cannot be encoded as uint256
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrContractNotResolved is returned while a contract address is still pending
	ErrContractNotResolved = errors.New("contract not resolved")

	// ErrTransactionReverted is returned when a mined receipt reports failure
	ErrTransactionReverted = errors.New("transaction reverted")
)
