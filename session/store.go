package session

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"quizzer-backend/logging"
)

// Store holds live sessions keyed by uuid. Sessions are in-memory only;
// results do not survive the process.
type Store struct {
	fetcher EntryFetcher
	log     *logging.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewStore(fetcher EntryFetcher, log *logging.Logger) *Store {
	return &Store{
		fetcher:  fetcher,
		log:      log,
		sessions: make(map[string]*Session),
	}
}

// Create registers a new session in setup state for the given entry
// selection.
func (st *Store) Create(entryIDs []string) *Session {
	id := uuid.NewString()
	s := New(id, entryIDs, st.fetcher, rand.New(rand.NewSource(time.Now().UnixNano())), st.log)
	st.mu.Lock()
	st.sessions[id] = s
	st.mu.Unlock()
	return s
}

func (st *Store) Get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	return s, ok
}
