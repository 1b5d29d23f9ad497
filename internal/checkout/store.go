package checkout

import "sync"

// Store hands out wizard sessions keyed by user ID. Sessions live in
// process memory only; each customer owns exactly one and no state is
// shared between them. The store lock guards the map; the session carries
// its own lock for mutations.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Get returns the session for the given user, creating it on first use.
func (st *Store) Get(userID string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	if s, ok := st.sessions[userID]; ok {
		return s
	}
	s := NewSession()
	st.sessions[userID] = s
	return s
}

// Drop discards a user's session, e.g. on logout.
func (st *Store) Drop(userID string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, userID)
}
