package session

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"muze-kasif/internal/catalog"
	"muze-kasif/internal/logger"
	"muze-kasif/internal/metrics"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session: not found")

// Session pairs an orchestrator with the recorder it renders into.
type Session struct {
	ID       string
	Orch     *Orchestrator
	Rec      *Recorder
	Created  time.Time
	lastSeen atomic.Int64
}

func (s *Session) touch(now time.Time) { s.lastSeen.Store(now.UnixNano()) }

func (s *Session) LastSeen() time.Time { return time.Unix(0, s.lastSeen.Load()) }

// Store keeps sessions in memory, keyed by a random UUID.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	data     *catalog.Dataset
	opts     []Option
	now      func() time.Time
}

func NewStore(data *catalog.Dataset, opts ...Option) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		data:     data,
		opts:     opts,
		now:      time.Now,
	}
}

// Create starts a new session with the default filter.
func (s *Store) Create() *Session {
	rec := NewRecorder()
	sess := &Session{
		ID:      uuid.NewString(),
		Orch:    New(s.data, rec, rec, s.opts...),
		Rec:     rec,
		Created: s.now(),
	}
	sess.touch(sess.Created)
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	n := len(s.sessions)
	s.mu.Unlock()
	metrics.ActiveSessions.Set(float64(n))
	logger.L().Debug("session_create", "id", sess.ID, "active", n)
	return sess
}

// Get returns a session and marks it as used.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	sess.touch(s.now())
	return sess, nil
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	n := len(s.sessions)
	s.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	sess.Orch.Close()
	metrics.ActiveSessions.Set(float64(n))
	return nil
}

// Sweep drops sessions idle for longer than maxIdle and returns how many went.
func (s *Store) Sweep(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)
	var expired []*Session
	s.mu.Lock()
	for id, sess := range s.sessions {
		if sess.LastSeen().Before(cutoff) {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	n := len(s.sessions)
	s.mu.Unlock()
	for _, sess := range expired {
		sess.Orch.Close()
	}
	metrics.ActiveSessions.Set(float64(n))
	if len(expired) > 0 {
		logger.L().Info("session_sweep", "expired", len(expired), "active", n)
	}
	return len(expired)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
