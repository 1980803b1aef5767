package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bimakw/simple-dex/internal/domain/entities"
)

// DefaultSessionTTL is how long an untouched session keeps its forms
const DefaultSessionTTL = 30 * time.Minute

// ErrSessionNotFound is returned for unknown or expired sessions
var ErrSessionNotFound = errors.New("session not found")

// Session is one client's set of forms
type Session struct {
	ID        string
	CreatedAt time.Time

	Swap            *SwapForm
	Approve         *ApproveForm
	AddLiquidity    *LiquidityForm
	RemoveLiquidity *LiquidityForm

	mu       sync.Mutex
	lastSeen time.Time
}

// SessionSnapshot is the visible state of every form of a session
type SessionSnapshot struct {
	ID              string          `json:"id"`
	CreatedAt       time.Time       `json:"createdAt"`
	ExpiresAt       time.Time       `json:"expiresAt"`
	Swap            SwapSnapshot    `json:"swap"`
	Approve         ApproveSnapshot `json:"approve"`
	AddLiquidity    entities.Status `json:"addLiquidity"`
	RemoveLiquidity entities.Status `json:"removeLiquidity"`
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

type SessionService struct {
	submitter *Submitter
	ttl       time.Duration
	log       *zap.Logger
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionService(submitter *Submitter, ttl time.Duration, log *zap.Logger) *SessionService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionService{
		submitter: submitter,
		ttl:       ttl,
		log:       log.Named("sessions"),
		now:       time.Now,
		sessions:  make(map[string]*Session),
	}
}

// Create opens a session with fresh forms
func (s *SessionService) Create() *Session {
	now := s.now()
	id := uuid.NewString()
	session := &Session{
		ID:              id,
		CreatedAt:       now,
		Swap:            NewSwapForm(id, s.submitter),
		Approve:         NewApproveForm(id, s.submitter),
		AddLiquidity:    NewAddLiquidityForm(id, s.submitter),
		RemoveLiquidity: NewRemoveLiquidityForm(id, s.submitter),
		lastSeen:        now,
	}

	s.mu.Lock()
	s.sessions[id] = session
	s.mu.Unlock()

	s.log.Debug("session created", zap.String("session", id))
	return session
}

// Get returns a live session and refreshes its TTL
func (s *SessionService) Get(id string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()

	now := s.now()
	if !ok || now.Sub(session.idleSince()) > s.ttl {
		return nil, ErrSessionNotFound
	}

	session.touch(now)
	return session, nil
}

// Delete discards a session and its form state
func (s *SessionService) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Snapshot renders the visible state of a session
func (s *SessionService) Snapshot(session *Session) SessionSnapshot {
	return SessionSnapshot{
		ID:              session.ID,
		CreatedAt:       session.CreatedAt,
		ExpiresAt:       session.idleSince().Add(s.ttl),
		Swap:            session.Swap.Snapshot(),
		Approve:         session.Approve.Snapshot(),
		AddLiquidity:    session.AddLiquidity.Status(),
		RemoveLiquidity: session.RemoveLiquidity.Status(),
	}
}

// Count returns the number of sessions held, expired or not
func (s *SessionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes sessions idle longer than the TTL and returns how many
func (s *SessionService) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if now.Sub(session.idleSince()) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps expired sessions until ctx is done
func (s *SessionService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.log.Info("expired sessions removed", zap.Int("count", n), zap.Int("remaining", s.Count()))
			}
		}
	}
}
