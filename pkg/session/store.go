package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"cafe-site/pkg/models"
)

// Store keeps visitor sessions in memory. A session expires after ttl
// without being looked up.
type Store struct {
	sessions *cache.Cache
	opts     Options
}

// NewStore creates an empty session store
func NewStore(ttl time.Duration, opts Options) *Store {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Store{
		sessions: cache.New(ttl, 2*ttl),
		opts:     opts,
	}
}

// Get returns a live session and extends its lifetime
func (st *Store) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	cached, found := st.sessions.Get(id)
	if !found {
		return nil, false
	}
	s := cached.(*Session)
	st.sessions.Set(id, s, cache.DefaultExpiration)
	return s, true
}

// Create starts a session over a site snapshot
func (st *Store) Create(site models.Site) *Session {
	s := New(uuid.NewString(), site, st.opts)
	st.sessions.Set(s.ID, s, cache.DefaultExpiration)
	return s
}

// GetOrCreate returns the session with id, or a new one built from the
// site returned by load. created reports whether a new session was made.
func (st *Store) GetOrCreate(id string, load func() (models.Site, error)) (s *Session, created bool, err error) {
	if s, ok := st.Get(id); ok {
		return s, false, nil
	}
	site, err := load()
	if err != nil {
		return nil, false, err
	}
	return st.Create(site), true, nil
}

// Delete ends a session
func (st *Store) Delete(id string) {
	st.sessions.Delete(id)
}

// Len returns the number of live sessions
func (st *Store) Len() int {
	return st.sessions.ItemCount()
}
