// File: journal.go
// Author: emuforge <dev@emuforge.io>
// License: Apache-2.0
//
// Bounded FIFO of recent registration outcomes.

package hostsched

import (
	"sync"

	"github.com/eapache/queue"
)

// journal keeps the most recent registration outcomes, newest last. The ring
// queue grows on demand and is trimmed back to capacity on every add.
type journal struct {
	mu    sync.Mutex
	queue *queue.Queue
	limit int
}

func newJournal(limit int) *journal {
	if limit < 1 {
		limit = 1
	}
	return &journal{queue: queue.New(), limit: limit}
}

func (j *journal) add(r Registration) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.queue.Add(r)
	for j.queue.Length() > j.limit {
		j.queue.Remove()
	}
}

// snapshot copies the journal oldest-first.
func (j *journal) snapshot() []Registration {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]Registration, 0, j.queue.Length())
	for i := 0; i < j.queue.Length(); i++ {
		out = append(out, j.queue.Get(i).(Registration))
	}
	return out
}

func (j *journal) clear() {
	j.mu.Lock()
	defer j.mu.Unlock()
	for j.queue.Length() > 0 {
		j.queue.Remove()
	}
}
