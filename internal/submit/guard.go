package submit

import "sync"

// Guard prevents duplicate submissions from one user. A user moves through
// two phases: in-flight while a create is on the wire, and done once the
// store confirmed the write. Only Commit marks done, so a failed create
// leaves the user free to retry, and two racing submissions can never both
// reach the store.
type Guard struct {
	mu       sync.Mutex
	inflight map[int64]struct{}
	done     map[int64]struct{}
}

func NewGuard() *Guard {
	return &Guard{
		inflight: make(map[int64]struct{}),
		done:     make(map[int64]struct{}),
	}
}

// Begin reserves the user's submission slot. It fails when the user is
// already done or another submission is in flight.
func (g *Guard) Begin(userID int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.done[userID]; ok {
		return false
	}
	if _, ok := g.inflight[userID]; ok {
		return false
	}
	g.inflight[userID] = struct{}{}
	return true
}

// Commit marks the user's submission durable.
func (g *Guard) Commit(userID int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inflight, userID)
	g.done[userID] = struct{}{}
}

// Abort releases the in-flight reservation after a failed create.
func (g *Guard) Abort(userID int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inflight, userID)
}

// Forget clears the done mark, re-opening submission for a user whose stored
// profile was removed.
func (g *Guard) Forget(userID int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.done, userID)
	delete(g.inflight, userID)
}
