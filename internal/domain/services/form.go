package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bimakw/simple-dex/internal/domain/entities"
	"github.com/bimakw/simple-dex/internal/infrastructure/dex"
)

// DefaultConfirmTimeout bounds how long a form waits for its transaction
const DefaultConfirmTimeout = 5 * time.Minute

// ErrSubmissionInFlight is returned when a form is submitted while its
// previous submission is still pending
var ErrSubmissionInFlight = errors.New("submission already in flight")

// Journal stores every contract write attempted by a form
type Journal interface {
	RecordSubmission(ctx context.Context, s *entities.Submission) error
	UpdateSubmission(ctx context.Context, s *entities.Submission) error
	ListSubmissions(ctx context.Context, limit int) ([]entities.Submission, error)
}

// Submitter runs the contract call of a validated form and turns its
// outcome into a status. It is shared by all forms of all sessions.
type Submitter struct {
	writer         dex.ContractWriter
	resolver       dex.ContractResolver
	journal        Journal
	log            *zap.Logger
	confirmTimeout time.Duration
	now            func() time.Time
}

// NewSubmitter creates a submitter. journal may be nil.
func NewSubmitter(writer dex.ContractWriter, resolver dex.ContractResolver, journal Journal, log *zap.Logger, confirmTimeout time.Duration) *Submitter {
	if confirmTimeout <= 0 {
		confirmTimeout = DefaultConfirmTimeout
	}
	return &Submitter{
		writer:         writer,
		resolver:       resolver,
		journal:        journal,
		log:            log.Named("forms"),
		confirmTimeout: confirmTimeout,
		now:            time.Now,
	}
}

// formSlot holds the status of one form (or one approve token)
type formSlot struct {
	mu       sync.Mutex
	status   entities.Status
	inFlight atomic.Bool
	onChange func(entities.Status)
}

func newFormSlot() *formSlot {
	return &formSlot{status: entities.Status{State: entities.StateIdle}}
}

func (s *formSlot) Status() entities.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *formSlot) acquire() bool {
	return s.inFlight.CompareAndSwap(false, true)
}

func (s *formSlot) release() {
	s.inFlight.Store(false)
}

// move advances the state machine. A message is only written by states
// that end an attempt; earlier messages stay visible until then.
func (s *formSlot) move(next entities.FormState, message, txHash string) {
	s.mu.Lock()
	if !s.status.State.CanTransition(next) {
		s.mu.Unlock()
		return
	}
	s.status.State = next
	if next == entities.StateValidating {
		s.status.TxHash = ""
	}
	if next.Terminal() {
		s.status.Message = message
		s.status.TxHash = txHash
	}
	status := s.status
	s.mu.Unlock()

	if next.Terminal() && s.onChange != nil {
		s.onChange(status)
	}
}

// contractCall is one validated write
type contractCall struct {
	sessionID string
	form      entities.FormKind
	contract  entities.ContractName
	fn        entities.FunctionName
	args      []any
	// display is what the journal records for args
	display []string
	// prepare resolves arguments that need the chain, such as a spender
	prepare func(ctx context.Context) ([]any, error)
	success string
	failure string
}

// submit sends the call and waits for its receipt. Call failures never
// escape: they are logged, journaled and shown as the failure status.
func (s *Submitter) submit(ctx context.Context, slot *formSlot, call contractCall) {
	slot.move(entities.StateSubmitting, "", "")

	now := s.now()
	sub := &entities.Submission{
		ID:        uuid.NewString(),
		SessionID: call.sessionID,
		Form:      call.form,
		Contract:  call.contract,
		Function:  call.fn,
		Args:      call.display,
		State:     entities.StateSubmitting,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// the write outlives the request that started it
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.confirmTimeout)
	defer cancel()

	s.record(wctx, sub)

	txHash, err := s.send(wctx, call)

	sub.TxHash = txHash
	sub.UpdatedAt = s.now()
	if err != nil {
		s.log.Error("contract call failed",
			zap.String("form", string(call.form)),
			zap.String("contract", string(call.contract)),
			zap.String("function", string(call.fn)),
			zap.Strings("args", call.display),
			zap.String("tx", txHash),
			zap.Error(err),
		)
		sub.State = entities.StateCallFailed
		sub.Message = call.failure
		sub.Error = err.Error()
		s.update(wctx, sub)
		slot.move(entities.StateCallFailed, call.failure, txHash)
		return
	}

	s.log.Info("contract call confirmed",
		zap.String("form", string(call.form)),
		zap.String("function", string(call.fn)),
		zap.String("tx", txHash),
	)
	sub.State = entities.StateSuccess
	sub.Message = call.success
	s.update(wctx, sub)
	slot.move(entities.StateSuccess, call.success, txHash)
}

func (s *Submitter) send(ctx context.Context, call contractCall) (string, error) {
	args := call.args
	if call.prepare != nil {
		prepared, err := call.prepare(ctx)
		if err != nil {
			return "", err
		}
		args = prepared
	}

	handle, err := s.writer.WriteContract(ctx, call.contract, call.fn, args...)
	if err != nil {
		return "", err
	}

	txHash := handle.Hash().Hex()
	if _, err := handle.Wait(ctx); err != nil {
		return txHash, err
	}
	return txHash, nil
}

func (s *Submitter) record(ctx context.Context, sub *entities.Submission) {
	if s.journal == nil {
		return
	}
	if err := s.journal.RecordSubmission(ctx, sub); err != nil {
		s.log.Warn("failed to journal submission", zap.String("id", sub.ID), zap.Error(err))
	}
}

func (s *Submitter) update(ctx context.Context, sub *entities.Submission) {
	if s.journal == nil {
		return
	}
	if err := s.journal.UpdateSubmission(ctx, sub); err != nil {
		s.log.Warn("failed to journal outcome", zap.String("id", sub.ID), zap.Error(err))
	}
}
