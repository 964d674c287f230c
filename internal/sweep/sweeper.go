// Package sweep drives a traveling highlight around an ordered segment
// sequence: each step activates the next segment, schedules its
// deactivation, and re-arms itself, producing a continuous glow that
// circles the ring until stopped.
//
// A Sweeper never mutates the segments it is given; its only outputs are
// the activate/deactivate callbacks, which an integration layer forwards
// to a renderer's per-feature state store.
package sweep

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/joeblew999/plat-ring/internal/geodesic"
)

// Callbacks receive segment state changes. Nil funcs are replaced with
// no-ops, so a consumer may subscribe to only one side.
type Callbacks struct {
	OnActivate   func(id int)
	OnDeactivate func(id int)
}

// Options configure sweep timing. ActiveDuration and StepDelay are both
// measured from step start and may overlap: an ActiveDuration longer than
// the StepDelay keeps several segments lit at once, which is the intended
// trailing-fade look.
type Options struct {
	ActiveDuration time.Duration
	StepDelay      time.Duration
	Clock          Clock // nil means SystemClock()
}

// Sweeper cycles the highlight over a fixed segment sequence. Callbacks
// run with the sweeper's lock held and must not call back into it.
type Sweeper struct {
	mu       sync.Mutex
	segments []geodesic.Segment
	cb       Callbacks
	opts     Options
	m        machine
	tasks    *taskSet
	active   map[int]bool
	gen      int
}

// New builds a sweeper over the given segment sequence. Non-positive
// durations are a wiring bug and rejected outright. An empty segment
// sequence is accepted; Start on it is a no-op.
func New(segments []geodesic.Segment, cb Callbacks, opts Options) (*Sweeper, error) {
	if opts.ActiveDuration <= 0 {
		return nil, fmt.Errorf("sweep: active duration must be positive, got %v", opts.ActiveDuration)
	}
	if opts.StepDelay <= 0 {
		return nil, fmt.Errorf("sweep: step delay must be positive, got %v", opts.StepDelay)
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	if cb.OnActivate == nil {
		cb.OnActivate = func(int) {}
	}
	if cb.OnDeactivate == nil {
		cb.OnDeactivate = func(int) {}
	}

	return &Sweeper{
		segments: segments,
		cb:       cb,
		opts:     opts,
		m:        machine{n: len(segments)},
		tasks:    newTaskSet(opts.Clock),
		active:   make(map[int]bool),
	}, nil
}

// Start begins the sweep at segment 0 and reports whether it started.
// Starting while already running is a no-op that keeps the current cursor,
// so duplicate trigger events cannot double the sweep speed.
func (s *Sweeper) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.m.start() {
		return false
	}
	s.stepLocked()
	return true
}

// Stop cancels every pending timer and deactivates every segment still
// lit, so no segment is ever left stuck active. Idempotent; a stopped
// sweeper can be started again from segment 0.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.m.stop() {
		return
	}
	// Invalidate callbacks from timers that already fired but are waiting
	// on the lock; cancelAll alone cannot stop those.
	s.gen++
	s.tasks.cancelAll()

	ids := make([]int, 0, len(s.active))
	for id := range s.active {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		delete(s.active, id)
		s.cb.OnDeactivate(id)
	}
}

// IsRunning reports whether a sweep is in progress.
func (s *Sweeper) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.running
}

// stepLocked performs one sweep step: activate the cursor's segment,
// schedule its deactivation, and re-arm the step timer. Caller holds s.mu.
func (s *Sweeper) stepLocked() {
	id := s.segments[s.m.step()].ID
	gen := s.gen

	s.active[id] = true
	s.cb.OnActivate(id)

	s.tasks.schedule(s.opts.ActiveDuration, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.gen != gen || !s.active[id] {
			return
		}
		delete(s.active, id)
		s.cb.OnDeactivate(id)
	})

	s.tasks.schedule(s.opts.StepDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.gen != gen || !s.m.running {
			return
		}
		s.stepLocked()
	})
}
