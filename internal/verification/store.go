// Package verification holds registrations that are waiting for their email
// address to be confirmed.
//
// A pending registration is keyed by email and carries the unsaved user, the
// code that was mailed to the address and the access token that gates the
// client's verification page. Entries expire after a fixed TTL. Expiry is
// tracked in a min-heap and evaluated against an injected clock, so tests can
// drive it with a fake clock instead of sleeping.
//
// Collaborators that may block (the mail transport and the database) are
// always invoked with the store unlocked. Every entry has a generation number;
// a slow operation that finishes after its entry was replaced, confirmed or
// expired observes a different generation and reports ErrNotFound.
package verification

import (
	"container/heap"
	"context"
	"errors"
	"sync"
	"time"

	"SportClubAPI/internal/model"

	"github.com/jonboulle/clockwork"
)

// DefaultTTL is how long a registration stays confirmable.
const DefaultTTL = 15 * time.Minute

var (
	// ErrNotFound is returned when no pending registration exists for an
	// email, including after it expired or was confirmed.
	ErrNotFound = errors.New("no pending registration")

	// ErrInvalidCode is returned when the submitted code does not match.
	ErrInvalidCode = errors.New("invalid verification code")

	// ErrBusy is returned when a confirmation for the same email is
	// already being persisted.
	ErrBusy = errors.New("verification already in progress")
)

// Pending is a registration waiting for its code.
type Pending struct {
	User  model.User
	Code  int
	Token int
}

type entry struct {
	email      string
	pending    Pending
	expires    time.Time
	gen        uint64
	index      int
	confirming bool
}

// Store is a TTL keyed cache of pending registrations. The zero value is not
// usable; create one with NewStore.
type Store struct {
	clock clockwork.Clock
	ttl   time.Duration

	mu      sync.Mutex
	entries map[string]*entry
	queue   expiryQueue
	gen     uint64

	wake chan struct{}
}

// NewStore returns a Store that expires entries ttl after they are put. A
// non-positive ttl selects DefaultTTL.
func NewStore(clock clockwork.Clock, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		clock:   clock,
		ttl:     ttl,
		entries: make(map[string]*entry),
		wake:    make(chan struct{}, 1),
	}
}

// TTL returns the lifetime of a pending registration.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// evictLocked drops every entry whose deadline is not after now. s.mu must
// be held.
func (s *Store) evictLocked(now time.Time) {
	for {
		next, ok := s.queue.peek()
		if !ok || next.After(now) {
			return
		}
		e := heap.Pop(&s.queue).(*entry)
		delete(s.entries, e.email)
		log.Debugf("Pending registration expired: %v", e.email)
	}
}

// removeLocked deletes e from the map and the heap. s.mu must be held.
func (s *Store) removeLocked(e *entry) {
	delete(s.entries, e.email)
	if e.index >= 0 {
		heap.Remove(&s.queue, e.index)
	}
}

// lookupLocked returns the live entry for email. s.mu must be held.
func (s *Store) lookupLocked(email string) *entry {
	s.evictLocked(s.clock.Now())
	return s.entries[email]
}

func (s *Store) notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Store) put(email string, p Pending) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.lookupLocked(email)
	if old != nil {
		s.removeLocked(old)
	}

	s.gen++
	e := &entry{
		email:   email,
		pending: p,
		expires: s.clock.Now().Add(s.ttl),
		gen:     s.gen,
	}
	s.entries[email] = e
	heap.Push(&s.queue, e)
	s.notify()

	return old != nil
}

// Put inserts or overwrites the pending registration for email and restarts
// its expiry. Any previous expiry for the key is discarded.
func (s *Store) Put(email string, p Pending) {
	s.put(email, p)
}

// RestartRegistration replaces whatever is pending for email with p and
// reports whether an earlier registration was overwritten. A token that was
// handed out for the overwritten registration stops granting access.
func (s *Store) RestartRegistration(email string, p Pending) bool {
	return s.put(email, p)
}

// Get returns a copy of the pending registration for email.
func (s *Store) Get(email string) (Pending, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.lookupLocked(email)
	if e == nil {
		return Pending{}, false
	}
	return e.pending, true
}

// Len returns the number of live entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictLocked(s.clock.Now())
	return len(s.entries)
}

// CheckAccess reports whether token is the access token issued for email.
func (s *Store) CheckAccess(email string, token int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.lookupLocked(email)
	return e != nil && e.pending.Token == token
}

// Resend asks send for a fresh code and stores it in place of the old one.
// The access token and the expiry are left untouched. send is called
// without holding the store lock.
func (s *Store) Resend(ctx context.Context, email string, send func(ctx context.Context, email string) (int, error)) (int, error) {
	s.mu.Lock()
	e := s.lookupLocked(email)
	if e == nil {
		s.mu.Unlock()
		return 0, ErrNotFound
	}
	gen := e.gen
	s.mu.Unlock()

	code, err := send(ctx, email)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e = s.lookupLocked(email)
	if e == nil || e.gen != gen {
		// Confirmed, expired or restarted while the email was in flight.
		return 0, ErrNotFound
	}
	e.pending.Code = code
	return code, nil
}

// Confirm checks code against the pending registration for email and, on a
// match, hands the unsaved user to persist. The entry is removed only once
// persist succeeds; a failed attempt of either kind leaves it in place so the
// client can retry.
func (s *Store) Confirm(ctx context.Context, email string, code int, persist func(ctx context.Context, u model.User) error) error {
	s.mu.Lock()
	e := s.lookupLocked(email)
	switch {
	case e == nil:
		s.mu.Unlock()
		return ErrNotFound
	case e.pending.Code != code:
		s.mu.Unlock()
		return ErrInvalidCode
	case e.confirming:
		s.mu.Unlock()
		return ErrBusy
	}
	e.confirming = true
	gen := e.gen
	user := e.pending.User
	s.mu.Unlock()

	err := persist(ctx, user)

	s.mu.Lock()
	defer s.mu.Unlock()

	e = s.entries[email]
	if e == nil || e.gen != gen {
		return err
	}
	if err != nil {
		e.confirming = false
		return err
	}
	s.removeLocked(e)
	return nil
}

// Run evicts expired entries as their deadlines pass until ctx is done.
// Lookups already ignore expired entries, so Run only bounds how long an
// abandoned registration stays in memory.
func (s *Store) Run(ctx context.Context) {
	for {
		s.mu.Lock()
		now := s.clock.Now()
		s.evictLocked(now)
		next, ok := s.queue.peek()
		s.mu.Unlock()

		wait := s.ttl
		if ok {
			wait = next.Sub(now)
		}
		timer := s.clock.NewTimer(wait)

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.Chan():
		case <-s.wake:
			timer.Stop()
		}
	}
}
