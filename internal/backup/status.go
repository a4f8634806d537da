package backup

import (
	"sort"
	"sync"
	"time"
)

type State string

const (
	StateStarted   State = "started"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// Status is one backup lifecycle event.
type Status struct {
	Op    string
	State State
	At    time.Time
	Err   error
}

// StatusNotifier fans backup events out to subscribers. Build one per
// process and pass it to whoever needs it.
type StatusNotifier struct {
	mu   sync.Mutex
	next int
	subs map[int]func(Status)
}

func NewStatusNotifier() *StatusNotifier {
	return &StatusNotifier{subs: make(map[int]func(Status))}
}

// Subscribe registers fn and returns a function that removes it.
func (n *StatusNotifier) Subscribe(fn func(Status)) (unsubscribe func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.next
	n.next++
	n.subs[id] = fn
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs, id)
	}
}

// Publish calls every subscriber in subscription order. Subscribers may
// unsubscribe from inside the callback.
func (n *StatusNotifier) Publish(s Status) {
	n.mu.Lock()
	ids := make([]int, 0, len(n.subs))
	for id := range n.subs {
		ids = append(ids, id)
	}
	fns := make([]func(Status), 0, len(ids))
	sort.Ints(ids)
	for _, id := range ids {
		fns = append(fns, n.subs[id])
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}
