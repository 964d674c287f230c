package service

import (
	"testing"
)

func validRing() RingConfig {
	return RingConfig{
		Name:        "Lake Whitney",
		CenterLon:   -97.405,
		CenterLat:   31.98,
		OuterRadius: 18000,
		Width:       600,
	}
}

func TestRingServiceCRUD(t *testing.T) {
	s := NewRingService(t.TempDir())

	created, err := s.Create(validRing())
	if err != nil {
		t.Fatal("create:", err)
	}
	if created.ID != "lake_whitney" {
		t.Errorf("generated ID = %q, want lake_whitney", created.ID)
	}

	got, ok := s.Get(created.ID)
	if !ok {
		t.Fatal("created ring not found")
	}
	if got.Name != "Lake Whitney" {
		t.Errorf("name = %q, want Lake Whitney", got.Name)
	}

	got.OuterRadius = 20000
	updated, err := s.Update(created.ID, got)
	if err != nil {
		t.Fatal("update:", err)
	}
	if updated.OuterRadius != 20000 {
		t.Errorf("outerRadius = %g, want 20000", updated.OuterRadius)
	}

	if err := s.Delete(created.ID); err != nil {
		t.Fatal("delete:", err)
	}
	if _, ok := s.Get(created.ID); ok {
		t.Error("deleted ring still present")
	}
}

func TestRingServiceAppliesDefaults(t *testing.T) {
	s := NewRingService(t.TempDir())

	created, err := s.Create(validRing())
	if err != nil {
		t.Fatal(err)
	}
	if created.SegmentCount != 32 {
		t.Errorf("segmentCount = %d, want 32", created.SegmentCount)
	}
	if created.CircleSteps != 120 {
		t.Errorf("circleSteps = %d, want 120", created.CircleSteps)
	}
	if created.ArcSteps != 16 {
		t.Errorf("arcSteps = %d, want 16", created.ArcSteps)
	}
	if created.ActiveMs != 900 || created.StepMs != 150 {
		t.Errorf("timing = %d/%d ms, want 900/150", created.ActiveMs, created.StepMs)
	}
}

func TestRingServiceKeepsExplicitValues(t *testing.T) {
	s := NewRingService(t.TempDir())

	ring := validRing()
	ring.SegmentCount = 12
	ring.StepMs = 40

	created, err := s.Create(ring)
	if err != nil {
		t.Fatal(err)
	}
	if created.SegmentCount != 12 || created.StepMs != 40 {
		t.Errorf("explicit values overwritten: %d segments, %d ms", created.SegmentCount, created.StepMs)
	}
}

func TestRingServiceRejectsInvalidGeometry(t *testing.T) {
	s := NewRingService(t.TempDir())

	bad := validRing()
	bad.OuterRadius = -100
	if _, err := s.Create(bad); err == nil {
		t.Error("negative outer radius accepted")
	}

	bad = validRing()
	bad.Width = -1
	if _, err := s.Create(bad); err == nil {
		t.Error("negative width accepted")
	}
}

func TestRingServiceRejectsDuplicateID(t *testing.T) {
	s := NewRingService(t.TempDir())

	if _, err := s.Create(validRing()); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Create(validRing()); err == nil {
		t.Error("duplicate ring accepted")
	}
}

func TestRingServicePersistsAcrossReload(t *testing.T) {
	dir := t.TempDir()

	first := NewRingService(dir)
	created, err := first.Create(validRing())
	if err != nil {
		t.Fatal(err)
	}

	second := NewRingService(dir)
	got, ok := second.Get(created.ID)
	if !ok {
		t.Fatal("ring not loaded from disk")
	}
	if got.OuterRadius != 18000 {
		t.Errorf("reloaded outerRadius = %g, want 18000", got.OuterRadius)
	}
}
