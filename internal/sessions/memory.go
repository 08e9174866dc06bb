package sessions

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	values  string
	expires time.Time
}

// MemoryDB is a process local DB. Sessions are lost on restart.
type MemoryDB struct {
	mu      sync.Mutex
	entries map[string]memEntry
	now     func() time.Time
}

var _ DB = (*MemoryDB)(nil)

func NewMemoryDB() *MemoryDB {
	return &MemoryDB{entries: make(map[string]memEntry), now: time.Now}
}

func (d *MemoryDB) Save(_ context.Context, sessionID string, s EncodedSession, ttl time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries[sessionID] = memEntry{values: s.Values, expires: d.now().Add(ttl)}
	return nil
}

func (d *MemoryDB) Del(_ context.Context, sessionID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.entries, sessionID)
	return nil
}

func (d *MemoryDB) Get(_ context.Context, sessionID string) (*EncodedSession, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.entries[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	if !d.now().Before(e.expires) {
		delete(d.entries, sessionID)
		return nil, ErrNotFound
	}
	return &EncodedSession{Values: e.values}, nil
}
