package entities

import "fmt"

// FormKind identifies one of the front-end forms
type FormKind string

const (
	FormSwap            FormKind = "swap"
	FormApprove         FormKind = "approve"
	FormAddLiquidity    FormKind = "add_liquidity"
	FormRemoveLiquidity FormKind = "remove_liquidity"
)

// FormState is the position of a form in its submit cycle
type FormState string

const (
	StateIdle             FormState = "idle"
	StateValidating       FormState = "validating"
	StateValidationFailed FormState = "validation_failed"
	StateSubmitting       FormState = "submitting"
	StateSuccess          FormState = "success"
	StateCallFailed       FormState = "call_failed"
)

var formTransitions = map[FormState][]FormState{
	StateIdle:             {StateValidating},
	StateValidating:       {StateValidationFailed, StateSubmitting, StateIdle},
	StateValidationFailed: {StateValidating},
	StateSubmitting:       {StateSuccess, StateCallFailed},
	StateSuccess:          {StateValidating},
	StateCallFailed:       {StateValidating},
}

// CanTransition reports whether a form may move from s to next.
// Validating -> Idle covers an attempt that turns out to be a no-op.
func (s FormState) CanTransition(next FormState) bool {
	for _, allowed := range formTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether the state ends a submit attempt
func (s FormState) Terminal() bool {
	switch s {
	case StateValidationFailed, StateSuccess, StateCallFailed:
		return true
	default:
		return false
	}
}

// Status is the user-visible feedback of a form
type Status struct {
	State   FormState `json:"state"`
	Message string    `json:"message"`
	TxHash  string    `json:"txHash,omitempty"`
}

const (
	MsgFillAllFields       = "Please fill in all fields."
	MsgFillBothAmounts     = "Please fill in both amounts."
	MsgInvalidSelection    = "Invalid contract selection."
	MsgSwapFailed          = "Swap failed."
	MsgAddLiquidityFailed  = "Failed to add liquidity."
	MsgRemoveLiquidityFail = "Failed to remove liquidity."
)

// SwappedMessage is the swap success status
func SwappedMessage(amount string, from, to TokenSymbol) string {
	return fmt.Sprintf("Swapped %s %s for %s", amount, from, to)
}

// ApprovedMessage is the approve success status
func ApprovedMessage(amount string, token TokenSymbol) string {
	return fmt.Sprintf("Approved %s %s for spending", amount, token)
}

// ApproveFailedMessage is the approve failure status
func ApproveFailedMessage(token TokenSymbol) string {
	return fmt.Sprintf("Failed to approve %s.", token)
}

// LiquidityAddedMessage is the add-liquidity success status
func LiquidityAddedMessage(amountA, amountB string) string {
	return fmt.Sprintf("Successfully added %s of %s and %s of %s to liquidity.",
		amountA, TokenAInfo.Name, amountB, TokenBInfo.Name)
}

// LiquidityRemovedMessage is the remove-liquidity success status
func LiquidityRemovedMessage(amountA, amountB string) string {
	return fmt.Sprintf("Removed %s of %s and %s of %s from liquidity.",
		amountA, TokenAInfo.Name, amountB, TokenBInfo.Name)
}
