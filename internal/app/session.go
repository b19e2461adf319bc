package app

import (
	"sync"

	"github.com/contractgov/contract-api/internal/domain"
)

// SessionEvent is the kind of a session change
type SessionEvent int

const (
	SignedIn SessionEvent = iota + 1
	SignedOut
)

func (e SessionEvent) String() string {
	switch e {
	case SignedIn:
		return "signed_in"
	case SignedOut:
		return "signed_out"
	default:
		return "unknown"
	}
}

// SessionChange is delivered to subscribers when the session is set or cleared
type SessionChange struct {
	Event   SessionEvent
	Session *domain.SessionDTO
}

// SessionGate holds the current session and notifies subscribers of changes.
// It is safe for concurrent use.
type SessionGate struct {
	mu      sync.RWMutex
	current *domain.SessionDTO
	subs    map[int]chan SessionChange
	nextID  int
}

// NewSessionGate creates an empty gate
func NewSessionGate() *SessionGate {
	return &SessionGate{subs: make(map[int]chan SessionChange)}
}

// Current returns a copy of the active session, if any
func (g *SessionGate) Current() (*domain.SessionDTO, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.current == nil {
		return nil, false
	}
	s := *g.current
	return &s, true
}

// Token returns the access token of the active session or ""
func (g *SessionGate) Token() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.current == nil {
		return ""
	}
	return g.current.AccessToken
}

// Set replaces the active session and notifies subscribers
func (g *SessionGate) Set(session *domain.SessionDTO) {
	if session == nil {
		g.Clear()
		return
	}
	s := *session

	g.mu.Lock()
	defer g.mu.Unlock()
	g.current = &s
	g.broadcast(SessionChange{Event: SignedIn, Session: &s})
}

// Clear drops the active session. Subscribers are notified only if a session
// was present.
func (g *SessionGate) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == nil {
		return
	}
	g.current = nil
	g.broadcast(SessionChange{Event: SignedOut})
}

// Subscribe returns a channel of session changes and a function that removes
// the subscription and closes the channel. A subscriber that falls behind
// loses its oldest pending change, never the newest.
func (g *SessionGate) Subscribe(buffer int) (<-chan SessionChange, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan SessionChange, buffer)

	g.mu.Lock()
	id := g.nextID
	g.nextID++
	g.subs[id] = ch
	g.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.subs, id)
			g.mu.Unlock()
			close(ch)
		})
	}
}

// broadcast must be called with g.mu held
func (g *SessionGate) broadcast(change SessionChange) {
	for _, ch := range g.subs {
		select {
		case ch <- change:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- change:
		default:
		}
	}
}
