package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/bimakw/simple-dex/internal/domain/entities"
)

// ApproveForm grants SimpleDex an allowance on either pool token.
// Each token has its own status; Latest mirrors whichever changed last.
type ApproveForm struct {
	sessionID string
	submitter *Submitter
	slots     map[entities.TokenSymbol]*formSlot

	mu     sync.Mutex
	latest string
}

// NewApproveForm creates an approve form
func NewApproveForm(sessionID string, submitter *Submitter) *ApproveForm {
	f := &ApproveForm{
		sessionID: sessionID,
		submitter: submitter,
		slots:     make(map[entities.TokenSymbol]*formSlot, 2),
	}
	for _, token := range []entities.TokenSymbol{entities.TokenA, entities.TokenB} {
		slot := newFormSlot()
		slot.onChange = f.setLatest
		f.slots[token] = slot
	}
	return f
}

// ApproveSnapshot is the visible state of the approve form
type ApproveSnapshot struct {
	TokenA entities.Status `json:"tokenA"`
	TokenB entities.Status `json:"tokenB"`
	Latest string          `json:"latest"`
}

func (f *ApproveForm) Snapshot() ApproveSnapshot {
	f.mu.Lock()
	latest := f.latest
	f.mu.Unlock()
	return ApproveSnapshot{
		TokenA: f.slots[entities.TokenA].Status(),
		TokenB: f.slots[entities.TokenB].Status(),
		Latest: latest,
	}
}

func (f *ApproveForm) setLatest(status entities.Status) {
	f.mu.Lock()
	f.latest = status.Message
	f.mu.Unlock()
}

// Submit approves amount of token for SimpleDex. An empty amount is ignored.
func (f *ApproveForm) Submit(ctx context.Context, token entities.TokenSymbol, amount string) (entities.Status, error) {
	slot, ok := f.slots[token]
	if !ok {
		return entities.Status{}, fmt.Errorf("%w: unknown token %q", entities.ErrInvalidSelection, token)
	}

	if !slot.acquire() {
		return slot.Status(), ErrSubmissionInFlight
	}
	defer slot.release()

	if amount == "" {
		return slot.Status(), nil
	}

	slot.move(entities.StateValidating, "", "")

	f.submitter.submit(ctx, slot, contractCall{
		sessionID: f.sessionID,
		form:      entities.FormApprove,
		contract:  token.ContractName(),
		fn:        entities.FnApprove,
		display:   []string{string(entities.ContractSimpleDex), amount},
		prepare: func(ctx context.Context) ([]any, error) {
			spender, err := f.submitter.resolver.Resolve(ctx, entities.ContractSimpleDex)
			if err != nil {
				return nil, fmt.Errorf("spender: %w", err)
			}
			return []any{spender.Address, amount}, nil
		},
		success: entities.ApprovedMessage(amount, token),
		failure: entities.ApproveFailedMessage(token),
	})

	return slot.Status(), nil
}
