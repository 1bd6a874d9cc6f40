package service

import "sync"

// documentLocks serializes mutations per document. Entries are reference
// counted and dropped once no goroutine holds or waits for them.
type documentLocks struct {
	mu    sync.Mutex
	locks map[string]*documentLock
}

type documentLock struct {
	mu   sync.Mutex
	refs int
}

func newDocumentLocks() *documentLocks {
	return &documentLocks{locks: make(map[string]*documentLock)}
}

// Lock blocks until the document lock is held and returns its release func.
func (l *documentLocks) Lock(docID string) func() {
	l.mu.Lock()
	lock, ok := l.locks[docID]
	if !ok {
		lock = &documentLock{}
		l.locks[docID] = lock
	}
	lock.refs++
	l.mu.Unlock()

	lock.mu.Lock()

	return func() {
		lock.mu.Unlock()

		l.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(l.locks, docID)
		}
		l.mu.Unlock()
	}
}

func (l *documentLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.locks)
}
