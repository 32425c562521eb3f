package services

import (
	"sync"
)

// SaveQueue serializes persistence of one invitation: at most one save is in
// flight per key, and saves queued behind it run strictly after it finishes.
// This closes the race between the editor's autosave timer and an explicit
// manual save, which previously allowed two writes to be in flight at once.
type SaveQueue struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

// NewSaveQueue builds an empty queue.
func NewSaveQueue() *SaveQueue {
	return &SaveQueue{locks: make(map[uint]*sync.Mutex)}
}

func (q *SaveQueue) lockFor(key uint) *sync.Mutex {
	q.mu.Lock()
	defer q.mu.Unlock()
	l, ok := q.locks[key]
	if !ok {
		l = &sync.Mutex{}
		q.locks[key] = l
	}
	return l
}

// Run executes save while holding the per-key slot. Callers block until
// their turn; the database row lock inside save then sees a consistent
// predecessor state.
func (q *SaveQueue) Run(key uint, save func() error) error {
	l := q.lockFor(key)
	l.Lock()
	defer l.Unlock()
	return save()
}
