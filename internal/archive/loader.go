package archive

import "sync"

// Loader serializes commits of asynchronously fetched snapshots so that a
// slow response for an old key can never overwrite state fetched for a newer
// key. Begin registers the current target; Commit only succeeds while its
// ticket still matches that target.
type Loader[T any] struct {
	mu    sync.Mutex
	key   string
	gen   uint64
	value T
	set   bool
}

// Ticket identifies one in-flight fetch.
type Ticket struct {
	key string
	gen uint64
}

// Begin makes key the current target and returns a ticket for the fetch.
// Any ticket issued for a previous Begin is invalidated.
func (l *Loader[T]) Begin(key string) Ticket {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	l.key = key
	return Ticket{key: key, gen: l.gen}
}

// Commit stores value if the ticket is still current. It reports whether the
// value was accepted; a false return means a newer Begin superseded this
// fetch and the result must be discarded.
func (l *Loader[T]) Commit(t Ticket, value T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if t.gen != l.gen || t.key != l.key {
		return false
	}
	l.value = value
	l.set = true
	return true
}

// Current returns the last committed value along with its key.
func (l *Loader[T]) Current() (key string, value T, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.key, l.value, l.set
}
