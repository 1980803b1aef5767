package services

import (
	"context"

	"github.com/bimakw/simple-dex/internal/domain/entities"
)

// LiquidityForm adds liquidity to or removes it from the pool
type LiquidityForm struct {
	sessionID string
	kind      entities.FormKind
	submitter *Submitter
	slot      *formSlot
}

// NewAddLiquidityForm creates the add-liquidity form
func NewAddLiquidityForm(sessionID string, submitter *Submitter) *LiquidityForm {
	return &LiquidityForm{
		sessionID: sessionID,
		kind:      entities.FormAddLiquidity,
		submitter: submitter,
		slot:      newFormSlot(),
	}
}

// NewRemoveLiquidityForm creates the remove-liquidity form
func NewRemoveLiquidityForm(sessionID string, submitter *Submitter) *LiquidityForm {
	return &LiquidityForm{
		sessionID: sessionID,
		kind:      entities.FormRemoveLiquidity,
		submitter: submitter,
		slot:      newFormSlot(),
	}
}

func (f *LiquidityForm) Kind() entities.FormKind {
	return f.kind
}

func (f *LiquidityForm) Status() entities.Status {
	return f.slot.Status()
}

// Submit calls addLiquidity or removeLiquidity with both amounts
func (f *LiquidityForm) Submit(ctx context.Context, amountA, amountB string) (entities.Status, error) {
	if !f.slot.acquire() {
		return f.slot.Status(), ErrSubmissionInFlight
	}
	defer f.slot.release()

	f.slot.move(entities.StateValidating, "", "")

	if amountA == "" || amountB == "" {
		f.slot.move(entities.StateValidationFailed, entities.MsgFillBothAmounts, "")
		return f.slot.Status(), nil
	}

	call := contractCall{
		sessionID: f.sessionID,
		form:      f.kind,
		contract:  entities.ContractSimpleDex,
		args:      []any{amountA, amountB},
		display:   []string{amountA, amountB},
	}
	if f.kind == entities.FormAddLiquidity {
		call.fn = entities.FnAddLiquidity
		call.success = entities.LiquidityAddedMessage(amountA, amountB)
		call.failure = entities.MsgAddLiquidityFailed
	} else {
		call.fn = entities.FnRemoveLiquidity
		call.success = entities.LiquidityRemovedMessage(amountA, amountB)
		call.failure = entities.MsgRemoveLiquidityFail
	}

	f.submitter.submit(ctx, f.slot, call)

	return f.slot.Status(), nil
}
