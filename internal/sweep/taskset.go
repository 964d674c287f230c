package sweep

import (
	"sync"
	"time"
)

// taskSet owns every timer a Sweeper schedules. Fired tasks remove
// themselves; cancelAll stops and forgets everything still pending, which
// is the resource-safety guarantee Stop is built on.
type taskSet struct {
	mu    sync.Mutex
	clock Clock
	next  int
	tasks map[int]Timer
}

func newTaskSet(clock Clock) *taskSet {
	return &taskSet{
		clock: clock,
		tasks: make(map[int]Timer),
	}
}

// schedule registers f to run after d.
func (ts *taskSet) schedule(d time.Duration, f func()) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	id := ts.next
	ts.next++
	ts.tasks[id] = ts.clock.AfterFunc(d, func() {
		ts.forget(id)
		f()
	})
}

// cancelAll stops every pending task and clears the set.
func (ts *taskSet) cancelAll() {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	for id, t := range ts.tasks {
		t.Stop()
		delete(ts.tasks, id)
	}
}

// pending returns the number of tasks not yet fired or cancelled.
func (ts *taskSet) pending() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return len(ts.tasks)
}

func (ts *taskSet) forget(id int) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	delete(ts.tasks, id)
}
