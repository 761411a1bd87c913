package conversation

import (
	"sync"

	"github.com/looplab/fsm"

	"pazlcollab/internal/domain"
)

// Session is one user's in-flight questionnaire: the accumulated draft plus
// the state machine that positions them in the flow.
type Session struct {
	Draft *domain.Draft
	flow  *fsm.FSM
}

// Current returns the session's current step identifier.
func (s *Session) Current() string {
	return s.flow.Current()
}

// Sessions holds in-flight questionnaires keyed by user. The map is shared
// between the update loop and the reconciliation loop (which evicts sessions
// for removed profiles), so all access goes through the lock.
type Sessions struct {
	mu sync.RWMutex
	m  map[int64]*Session
}

func NewSessions() *Sessions {
	return &Sessions{m: make(map[int64]*Session)}
}

// Create starts a fresh session for the user, replacing any existing one.
func (s *Sessions) Create(userID int64, locale string) *Session {
	sess := &Session{
		Draft: domain.NewDraft(userID, locale),
		flow:  newFlowFSM(),
	}
	s.mu.Lock()
	s.m[userID] = sess
	s.mu.Unlock()
	return sess
}

// Get returns the user's session, or nil when none is active.
func (s *Sessions) Get(userID int64) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m[userID]
}

// Delete evicts the user's session, reporting whether one existed.
func (s *Sessions) Delete(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.m[userID]
	delete(s.m, userID)
	return ok
}

// Active reports whether the user has an in-flight questionnaire.
func (s *Sessions) Active(userID int64) bool {
	return s.Get(userID) != nil
}
