package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joeblew999/plat-ring/internal/db"
	"github.com/joeblew999/plat-ring/internal/geodesic"
)

// RingService manages ring configurations, persisted as a JSON file in
// the data directory. With a DB attached, every create and update also
// archives a GeoJSON snapshot of the resulting geometry.
type RingService struct {
	dataDir string
	rings   map[string]RingConfig
	db      *sql.DB
	mu      sync.RWMutex
}

// AttachDB enables geometry snapshot archiving.
func (s *RingService) AttachDB(conn *sql.DB) {
	s.mu.Lock()
	s.db = conn
	s.mu.Unlock()
}

// archive stores the ring's GeoJSON in the archive table, best-effort.
func (s *RingService) archive(ring RingConfig) {
	if s.db == nil {
		return
	}
	rs, err := geodesic.Build(ring.Geometry())
	if err != nil {
		return
	}
	data, err := json.Marshal(rs.FeatureCollection())
	if err != nil {
		return
	}
	db.ArchiveRing(s.db, ring.ID, ring.Name, string(data))
}

// NewRingService creates a new ring service.
func NewRingService(dataDir string) *RingService {
	s := &RingService{
		dataDir: dataDir,
		rings:   make(map[string]RingConfig),
	}
	s.loadFromDisk()
	return s
}

// List returns all ring configurations.
func (s *RingService) List() map[string]RingConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]RingConfig, len(s.rings))
	for k, v := range s.rings {
		result[k] = v
	}
	return result
}

// Get returns a ring by ID.
func (s *RingService) Get(id string) (RingConfig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ring, ok := s.rings[id]
	return ring, ok
}

// Create adds a new ring configuration. Sampling and timing fields left
// at zero are filled with the documented defaults before validation.
func (s *RingService) Create(ring RingConfig) (RingConfig, error) {
	ring.applyDefaults()
	if err := ring.Geometry().Validate(); err != nil {
		return RingConfig{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if ring.ID == "" {
		ring.ID = generateID(ring.Name)
	}
	if _, exists := s.rings[ring.ID]; exists {
		return RingConfig{}, fmt.Errorf("ring with ID %q already exists", ring.ID)
	}

	s.rings[ring.ID] = ring
	if err := s.saveToDisk(); err != nil {
		return RingConfig{}, err
	}

	s.archive(ring)
	DefaultBus.Publish(Event{Ring: ring.ID, Action: ActionCreated})
	return ring, nil
}

// Update replaces a ring configuration by ID. Segment geometry is never
// mutated in place; a changed config means the next sweep start builds a
// fresh ring set.
func (s *RingService) Update(id string, ring RingConfig) (RingConfig, error) {
	ring.applyDefaults()
	if err := ring.Geometry().Validate(); err != nil {
		return RingConfig{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.rings[id]; !exists {
		return RingConfig{}, fmt.Errorf("ring %q not found", id)
	}

	ring.ID = id
	s.rings[id] = ring
	if err := s.saveToDisk(); err != nil {
		return RingConfig{}, err
	}

	s.archive(ring)
	DefaultBus.Publish(Event{Ring: id, Action: ActionUpdated})
	return ring, nil
}

// Delete removes a ring by ID.
func (s *RingService) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.rings[id]; !exists {
		return fmt.Errorf("ring %q not found", id)
	}

	delete(s.rings, id)
	if err := s.saveToDisk(); err != nil {
		return err
	}

	DefaultBus.Publish(Event{Ring: id, Action: ActionDeleted})
	return nil
}

// configFile returns the path to the rings config file.
func (s *RingService) configFile() string {
	return filepath.Join(s.dataDir, "rings.json")
}

// loadFromDisk loads ring configurations from disk.
func (s *RingService) loadFromDisk() {
	data, err := os.ReadFile(s.configFile())
	if err != nil {
		return // File doesn't exist yet, start empty
	}

	var rings map[string]RingConfig
	if err := json.Unmarshal(data, &rings); err != nil {
		return // Invalid JSON, start empty
	}

	s.rings = rings
}

// saveToDisk persists ring configurations to disk.
func (s *RingService) saveToDisk() error {
	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s.rings, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.configFile(), data, 0644)
}

// generateID creates a URL-safe ID from a name.
func generateID(name string) string {
	id := strings.ToLower(name)
	id = strings.ReplaceAll(id, " ", "_")
	var result strings.Builder
	for _, r := range id {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			result.WriteRune(r)
		}
	}
	return result.String()
}
