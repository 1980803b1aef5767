package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bimakw/simple-dex/internal/domain/entities"
)

func newTestSessionService(t *testing.T) (*SessionService, *time.Time) {
	t.Helper()
	fx := newFormFixture(t)
	s := NewSessionService(fx.submitter, 30*time.Minute, zap.NewNop())
	now := time.Unix(1_700_000_000, 0)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestSessionLifecycle(t *testing.T) {
	s, _ := newTestSessionService(t)

	session := s.Create()
	require.NotEmpty(t, session.ID)

	got, err := s.Get(session.ID)
	require.NoError(t, err)
	assert.Same(t, session, got)

	snap := s.Snapshot(got)
	assert.Equal(t, entities.TokenA, snap.Swap.From)
	assert.Equal(t, entities.TokenB, snap.Swap.To)
	assert.Equal(t, entities.StateIdle, snap.AddLiquidity.State)
	assert.Equal(t, entities.StateIdle, snap.Approve.TokenA.State)

	require.NoError(t, s.Delete(session.ID))
	_, err = s.Get(session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, s.Delete(session.ID), ErrSessionNotFound)
}

func TestSessionExpiry(t *testing.T) {
	s, now := newTestSessionService(t)

	idle := s.Create()
	active := s.Create()

	*now = now.Add(20 * time.Minute)
	_, err := s.Get(active.ID)
	require.NoError(t, err)

	*now = now.Add(15 * time.Minute)
	_, err = s.Get(idle.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 1, s.Count())

	_, err = s.Get(active.ID)
	assert.NoError(t, err)
}

func TestSessionFormsAreIndependent(t *testing.T) {
	s, _ := newTestSessionService(t)

	first := s.Create()
	second := s.Create()

	_, err := first.Swap.SelectFrom(entities.TokenB)
	require.NoError(t, err)
	_, err = first.AddLiquidity.Submit(context.Background(), "", "")
	require.NoError(t, err)

	assert.Equal(t, entities.TokenB, s.Snapshot(first).Swap.From)
	assert.Equal(t, entities.TokenA, s.Snapshot(second).Swap.From)
	assert.Equal(t, entities.MsgFillBothAmounts, s.Snapshot(first).AddLiquidity.Message)
	assert.Empty(t, s.Snapshot(second).AddLiquidity.Message)
}

func TestSessionSweeperStops(t *testing.T) {
	s, _ := newTestSessionService(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
