package sweep

import (
	"sync"
	"testing"
	"time"

	"github.com/joeblew999/plat-ring/internal/geodesic"
)

func makeSegments(n int) []geodesic.Segment {
	segments := make([]geodesic.Segment, n)
	for i := range segments {
		segments[i] = geodesic.Segment{ID: i}
	}
	return segments
}

type stateEvent struct {
	id     int
	active bool
}

// recorder captures the callback stream for assertions.
type recorder struct {
	mu     sync.Mutex
	events []stateEvent
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		OnActivate:   func(id int) { r.record(id, true) },
		OnDeactivate: func(id int) { r.record(id, false) },
	}
}

func (r *recorder) record(id int, active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, stateEvent{id: id, active: active})
}

func (r *recorder) snapshot() []stateEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]stateEvent(nil), r.events...)
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

func (r *recorder) activations() []int {
	var ids []int
	for _, e := range r.snapshot() {
		if e.active {
			ids = append(ids, e.id)
		}
	}
	return ids
}

// activeNow replays the event stream to the current active set.
func (r *recorder) activeNow() map[int]bool {
	active := make(map[int]bool)
	for _, e := range r.snapshot() {
		if e.active {
			active[e.id] = true
		} else {
			delete(active, e.id)
		}
	}
	return active
}

func newTestSweeper(t *testing.T, n int, active, step time.Duration) (*Sweeper, *recorder, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	rec := &recorder{}
	s, err := New(makeSegments(n), rec.callbacks(), Options{
		ActiveDuration: active,
		StepDelay:      step,
		Clock:          clock,
	})
	if err != nil {
		t.Fatal(err)
	}
	return s, rec, clock
}

func TestNewRejectsBadDurations(t *testing.T) {
	for _, opts := range []Options{
		{ActiveDuration: -time.Second, StepDelay: time.Second},
		{ActiveDuration: time.Second, StepDelay: -time.Second},
		{ActiveDuration: 0, StepDelay: time.Second},
		{ActiveDuration: time.Second, StepDelay: 0},
	} {
		if _, err := New(makeSegments(3), Callbacks{}, opts); err == nil {
			t.Errorf("New accepted %+v", opts)
		}
	}
}

func TestStartEmptySegmentsIsNoop(t *testing.T) {
	s, rec, clock := newTestSweeper(t, 0, 300*time.Millisecond, 100*time.Millisecond)

	if s.Start() {
		t.Error("Start reported success with no segments")
	}
	if s.IsRunning() {
		t.Error("sweeper running with no segments")
	}
	clock.Advance(time.Second)
	if got := len(rec.snapshot()); got != 0 {
		t.Errorf("%d events from an empty sweep", got)
	}
}

func TestSweepLiveness(t *testing.T) {
	const n = 4
	s, rec, clock := newTestSweeper(t, n, 300*time.Millisecond, 100*time.Millisecond)

	if !s.Start() {
		t.Fatal("Start failed")
	}
	// One full cycle plus one active duration: every segment must have
	// activated in cursor order and deactivated at least once.
	clock.Advance(n*100*time.Millisecond + 300*time.Millisecond)

	activations := rec.activations()
	if len(activations) < n {
		t.Fatalf("only %d activations after a full cycle", len(activations))
	}
	for i := 0; i < n; i++ {
		if activations[i] != i {
			t.Fatalf("activation order %v, want first cycle 0..%d", activations[:n], n-1)
		}
	}

	deactivated := make(map[int]bool)
	for _, e := range rec.snapshot() {
		if !e.active {
			deactivated[e.id] = true
		}
	}
	for i := 0; i < n; i++ {
		if !deactivated[i] {
			t.Errorf("segment %d never deactivated", i)
		}
	}
}

func TestOverlappingActiveSegments(t *testing.T) {
	// Active duration longer than the step delay: the glow trails over
	// several segments at once.
	s, rec, clock := newTestSweeper(t, 8, 250*time.Millisecond, 100*time.Millisecond)

	s.Start()
	clock.Advance(150 * time.Millisecond)

	active := rec.activeNow()
	if !active[0] || !active[1] {
		t.Errorf("active set at t=150ms = %v, want segments 0 and 1 both lit", active)
	}
}

func TestStopCompleteness(t *testing.T) {
	s, rec, clock := newTestSweeper(t, 8, 250*time.Millisecond, 100*time.Millisecond)

	s.Start()
	clock.Advance(150 * time.Millisecond) // segments 0 and 1 active
	s.Stop()

	if s.IsRunning() {
		t.Fatal("IsRunning after Stop")
	}
	if active := rec.activeNow(); len(active) != 0 {
		t.Fatalf("segments still active after Stop: %v", active)
	}

	// Nothing scheduled by the stopped sweep may ever fire again.
	before := len(rec.snapshot())
	clock.Advance(time.Hour)
	if after := len(rec.snapshot()); after != before {
		t.Errorf("%d callbacks fired after Stop", after-before)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	s, rec, clock := newTestSweeper(t, 4, 300*time.Millisecond, 100*time.Millisecond)

	s.Stop() // never started
	s.Start()
	clock.Advance(50 * time.Millisecond)
	s.Stop()
	before := len(rec.snapshot())
	s.Stop()

	if after := len(rec.snapshot()); after != before {
		t.Errorf("second Stop emitted %d extra events", after-before)
	}
}

func TestRestartProducesIdenticalSweep(t *testing.T) {
	s, rec, clock := newTestSweeper(t, 5, 300*time.Millisecond, 100*time.Millisecond)

	s.Start()
	clock.Advance(450 * time.Millisecond)
	first := rec.activations()
	s.Stop()

	rec.reset()
	if !s.Start() {
		t.Fatal("restart failed")
	}
	clock.Advance(450 * time.Millisecond)
	second := rec.activations()

	if len(first) == 0 || len(second) != len(first) {
		t.Fatalf("restart activation count %d, first run %d", len(second), len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("restart order %v, first run %v", second, first)
		}
	}
	if second[0] != 0 {
		t.Errorf("restart began at segment %d, want 0", second[0])
	}
}

func TestStartWhileRunningIsNoop(t *testing.T) {
	s, rec, clock := newTestSweeper(t, 4, 300*time.Millisecond, 100*time.Millisecond)

	s.Start()
	clock.Advance(250 * time.Millisecond)
	if s.Start() {
		t.Error("second Start reported success")
	}
	clock.Advance(150 * time.Millisecond)

	// A duplicate start must not reset the cursor or double the pace:
	// steps at t=0,100,200,300,400 activate 0,1,2,3,0.
	want := []int{0, 1, 2, 3, 0}
	got := rec.activations()
	if len(got) != len(want) {
		t.Fatalf("activations %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("activations %v, want %v", got, want)
		}
	}
}

func TestNoTimersLeakAcrossRestarts(t *testing.T) {
	s, _, clock := newTestSweeper(t, 4, 300*time.Millisecond, 100*time.Millisecond)

	for i := 0; i < 3; i++ {
		s.Start()
		clock.Advance(175 * time.Millisecond)
		s.Stop()
		if got := s.tasks.pending(); got != 0 {
			t.Fatalf("restart %d: %d timers survived Stop", i, got)
		}
	}
}
