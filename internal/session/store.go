package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// QuestionSource supplies the base questions of a new session. It must
// always return exactly QuestionCount items.
type QuestionSource interface {
	Generate(ctx context.Context, topic string) []string
}

type entry struct {
	mu     sync.Mutex
	sess   *Session
	closed bool
}

// Store keeps the running sessions keyed by id. Mutations of one session are
// serialized by that session's own lock; different sessions never contend
// beyond the brief map lookup.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry

	questions QuestionSource
	now       func() time.Time
	newID     func() string
}

type StoreOption func(*Store)

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the uuid-based id generator.
func WithIDGenerator(gen func() string) StoreOption {
	return func(s *Store) { s.newID = gen }
}

func NewStore(questions QuestionSource, opts ...StoreOption) *Store {
	s := &Store{
		sessions:  make(map[string]*entry),
		questions: questions,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create starts a new session with a fresh id and the question bank's
// questions for topic.
func (s *Store) Create(ctx context.Context, name, topic string) (*Session, error) {
	questions := s.questions.Generate(ctx, topic)
	if len(questions) != QuestionCount {
		return nil, ErrInvalidQuestion
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	for {
		if _, taken := s.sessions[id]; !taken {
			break
		}
		id = s.newID()
	}

	sess := newSession(id, name, topic, append([]string(nil), questions...), s.now())
	s.sessions[id] = &entry{sess: sess}
	return sess.Clone(), nil
}

// Get returns a snapshot of the session.
func (s *Store) Get(id string) (*Session, error) {
	e, ok := s.lookup(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrSessionNotFound
	}
	return e.sess.Clone(), nil
}

// Update runs fn with exclusive access to the session. fn may block (for
// example on a model call); other sessions are unaffected.
func (s *Store) Update(id string, fn func(*Session) error) error {
	e, ok := s.lookup(id)
	if !ok {
		return ErrSessionNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrSessionNotFound
	}
	return fn(e.sess)
}

// Close runs fn with exclusive access and removes the session when fn
// succeeds. It is the only way a session leaves the store apart from idle
// eviction. Anything queued behind it on the same id sees ErrSessionNotFound.
func (s *Store) Close(id string, fn func(*Session) error) error {
	e, ok := s.lookup(id)
	if !ok {
		return ErrSessionNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrSessionNotFound
	}
	if err := fn(e.sess); err != nil {
		return err
	}
	e.closed = true
	s.remove(id, e)
	return nil
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// RunJanitor evicts sessions idle for longer than ttl every interval until
// ctx is done. A ttl of 0 disables eviction.
func (s *Store) RunJanitor(ctx context.Context, ttl, interval time.Duration) {
	if ttl <= 0 {
		return
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.EvictOlderThan(ttl); n > 0 {
				log.Printf("evicted %d idle interview sessions", n)
			}
		}
	}
}

// EvictOlderThan removes sessions whose last activity is more than ttl ago
// and returns how many were removed. Sessions currently locked by a request
// are skipped.
func (s *Store) EvictOlderThan(ttl time.Duration) int {
	cutoff := s.now().Add(-ttl)

	s.mu.Lock()
	candidates := make(map[string]*entry, len(s.sessions))
	for id, e := range s.sessions {
		candidates[id] = e
	}
	s.mu.Unlock()

	evicted := 0
	for id, e := range candidates {
		if !e.mu.TryLock() {
			continue
		}
		if !e.closed && e.sess.LastActivity().Before(cutoff) {
			e.closed = true
			s.remove(id, e)
			evicted++
		}
		e.mu.Unlock()
	}
	return evicted
}

func (s *Store) lookup(id string) (*entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	return e, ok
}

func (s *Store) remove(id string, e *entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.sessions[id]; ok && cur == e {
		delete(s.sessions, id)
	}
}
