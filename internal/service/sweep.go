package service

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/joeblew999/plat-ring/internal/db"
	"github.com/joeblew999/plat-ring/internal/geodesic"
	"github.com/joeblew999/plat-ring/internal/sweep"
)

// SweepService owns the live sweepers, one per ring. It translates
// sweeper callbacks into bus events for the SSE layer and records run
// history in DuckDB when a connection is attached.
type SweepService struct {
	mu       sync.Mutex
	rings    *RingService
	bus      *EventBus
	clock    sweep.Clock
	db       *sql.DB
	sweepers map[string]*sweep.Sweeper
}

// NewSweepService creates a sweep service over the given ring store.
func NewSweepService(rings *RingService) *SweepService {
	return &SweepService{
		rings:    rings,
		bus:      DefaultBus,
		sweepers: make(map[string]*sweep.Sweeper),
	}
}

// AttachDB enables sweep run history recording.
func (s *SweepService) AttachDB(conn *sql.DB) {
	s.mu.Lock()
	s.db = conn
	s.mu.Unlock()
}

// Geometry builds the ring set for a ring ID from its current config.
func (s *SweepService) Geometry(id string) (*geodesic.RingSet, error) {
	cfg, ok := s.rings.Get(id)
	if !ok {
		return nil, fmt.Errorf("ring %q not found", id)
	}
	return geodesic.Build(cfg.Geometry())
}

// Start begins the sweep for a ring. Starting a ring that is already
// sweeping is a no-op. The sweeper is rebuilt from the current config on
// every fresh start, so config edits take effect on the next start.
func (s *SweepService) Start(id string) error {
	cfg, ok := s.rings.Get(id)
	if !ok {
		return fmt.Errorf("ring %q not found", id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sw, exists := s.sweepers[id]; exists && sw.IsRunning() {
		return nil
	}

	rs, err := geodesic.Build(cfg.Geometry())
	if err != nil {
		return err
	}

	sw, err := sweep.New(rs.Segments, Callbacks(id, s.bus), sweep.Options{
		ActiveDuration: cfg.ActiveDuration(),
		StepDelay:      cfg.StepDelay(),
		Clock:          s.clock,
	})
	if err != nil {
		return err
	}

	s.sweepers[id] = sw
	sw.Start()

	s.bus.Publish(Event{Ring: id, Action: ActionSweepStarted})
	db.RecordSweep(s.db, id, ActionSweepStarted)
	return nil
}

// Stop ends the sweep for a ring. Stopping a ring that is not sweeping is
// a safe no-op. Every segment still highlighted is deactivated before
// Stop returns.
func (s *SweepService) Stop(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sw, exists := s.sweepers[id]
	if !exists || !sw.IsRunning() {
		return nil
	}
	sw.Stop()

	s.bus.Publish(Event{Ring: id, Action: ActionSweepStopped})
	db.RecordSweep(s.db, id, ActionSweepStopped)
	return nil
}

// StopAll stops every live sweep; used on server shutdown.
func (s *SweepService) StopAll() {
	s.mu.Lock()
	ids := make([]string, 0, len(s.sweepers))
	for id := range s.sweepers {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	for _, id := range ids {
		s.Stop(id)
	}
}

// IsRunning reports whether a ring's sweep is live.
func (s *SweepService) IsRunning(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sw, exists := s.sweepers[id]
	return exists && sw.IsRunning()
}

// Running returns the set of ring IDs with a live sweep.
func (s *SweepService) Running() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []string
	for id, sw := range s.sweepers {
		if sw.IsRunning() {
			ids = append(ids, id)
		}
	}
	return ids
}

// Callbacks returns sweeper callbacks that publish segment feature-state
// events for one ring on the bus.
func Callbacks(ring string, bus *EventBus) sweep.Callbacks {
	return sweep.Callbacks{
		OnActivate: func(id int) {
			bus.Publish(Event{Ring: ring, Action: ActionSegment, Segment: id, Active: true})
		},
		OnDeactivate: func(id int) {
			bus.Publish(Event{Ring: ring, Action: ActionSegment, Segment: id, Active: false})
		},
	}
}
