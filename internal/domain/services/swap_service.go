package services

import (
	"context"
	"sync"

	"github.com/bimakw/simple-dex/internal/domain/entities"
)

// SwapForm trades one pool token for the other
type SwapForm struct {
	sessionID string
	submitter *Submitter
	slot      *formSlot

	mu        sync.Mutex
	selection entities.SwapSelection
}

// NewSwapForm creates a swap form selecting TokenA -> TokenB
func NewSwapForm(sessionID string, submitter *Submitter) *SwapForm {
	return &SwapForm{
		sessionID: sessionID,
		submitter: submitter,
		slot:      newFormSlot(),
		selection: entities.NewSwapSelection(),
	}
}

// SwapSnapshot is the visible state of the swap form
type SwapSnapshot struct {
	From    entities.TokenSymbol `json:"fromToken"`
	To      entities.TokenSymbol `json:"toToken"`
	Updates int                  `json:"selectionUpdates"`
	Status  entities.Status      `json:"status"`
}

func (f *SwapForm) Snapshot() SwapSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return SwapSnapshot{
		From:    f.selection.From(),
		To:      f.selection.To(),
		Updates: f.selection.Updates(),
		Status:  f.slot.Status(),
	}
}

// SelectFrom picks the token to sell; the other side follows
func (f *SwapForm) SelectFrom(token entities.TokenSymbol) (SwapSnapshot, error) {
	f.mu.Lock()
	_, err := f.selection.SelectFrom(token)
	f.mu.Unlock()
	return f.Snapshot(), err
}

// SelectTo picks the token to buy; the other side follows
func (f *SwapForm) SelectTo(token entities.TokenSymbol) (SwapSnapshot, error) {
	f.mu.Lock()
	_, err := f.selection.SelectTo(token)
	f.mu.Unlock()
	return f.Snapshot(), err
}

// Submit swaps amount of the selected "from" token
func (f *SwapForm) Submit(ctx context.Context, amount string) (entities.Status, error) {
	f.mu.Lock()
	from, to := f.selection.From(), f.selection.To()
	f.mu.Unlock()
	return f.SubmitPair(ctx, from, to, amount)
}

// SubmitPair swaps amount of from for to without consulting the selection
func (f *SwapForm) SubmitPair(ctx context.Context, from, to entities.TokenSymbol, amount string) (entities.Status, error) {
	if !f.slot.acquire() {
		return f.slot.Status(), ErrSubmissionInFlight
	}
	defer f.slot.release()

	f.slot.move(entities.StateValidating, "", "")

	if amount == "" || from == "" || to == "" {
		f.slot.move(entities.StateValidationFailed, entities.MsgFillAllFields, "")
		return f.slot.Status(), nil
	}

	fn, err := entities.SwapFunctionFor(from, to)
	if err != nil {
		f.slot.move(entities.StateValidationFailed, entities.MsgInvalidSelection, "")
		return f.slot.Status(), nil
	}

	f.submitter.submit(ctx, f.slot, contractCall{
		sessionID: f.sessionID,
		form:      entities.FormSwap,
		contract:  entities.ContractSimpleDex,
		fn:        fn,
		args:      []any{amount},
		display:   []string{amount},
		success:   entities.SwappedMessage(amount, from, to),
		failure:   entities.MsgSwapFailed,
	})

	return f.slot.Status(), nil
}
