// Package service contains business logic for the plat-ring platform.
package service

import (
	"time"

	"github.com/paulmach/orb"

	"github.com/joeblew999/plat-ring/internal/geodesic"
)

// RingConfig is one named ring site: where it sits, how it is sampled,
// and how its sweep is timed. Huma reads the tags for OpenAPI docs and
// validation; the service fills zero-valued sampling fields from the
// documented defaults on create.
type RingConfig struct {
	ID           string  `json:"id,omitempty" doc:"Unique ring identifier" example:"lake_whitney"`
	Name         string  `json:"name" required:"true" minLength:"1" maxLength:"100" doc:"Display name" example:"Lake Whitney"`
	CenterLon    float64 `json:"centerLon" required:"true" minimum:"-180" maximum:"180" doc:"Center longitude (WGS84 degrees)" example:"-97.405"`
	CenterLat    float64 `json:"centerLat" required:"true" minimum:"-90" maximum:"90" doc:"Center latitude (WGS84 degrees)" example:"31.98"`
	OuterRadius  float64 `json:"outerRadius" required:"true" exclusiveMinimum:"0" doc:"Outer radius in meters" example:"18000"`
	Width        float64 `json:"width" required:"true" minimum:"0" doc:"Ring width in meters; inner radius is outer minus width, clamped at 0" example:"600"`
	SegmentCount int     `json:"segmentCount,omitempty" minimum:"1" maximum:"360" default:"32" doc:"Number of angular segments"`
	CircleSteps  int     `json:"circleSteps,omitempty" minimum:"3" maximum:"1024" default:"120" doc:"Sampling steps for the buffer and band circles"`
	ArcSteps     int     `json:"arcSteps,omitempty" minimum:"1" maximum:"256" default:"16" doc:"Sampling steps per segment arc"`
	ActiveMs     int     `json:"activeMs,omitempty" minimum:"1" default:"900" doc:"How long each segment stays highlighted (ms)"`
	StepMs       int     `json:"stepMs,omitempty" minimum:"1" default:"150" doc:"Delay between sweep steps (ms)"`
	Fill         string  `json:"fill,omitempty" default:"#22d3ee" doc:"Fill color (CSS)"`
	Stroke       string  `json:"stroke,omitempty" default:"#0891b2" doc:"Stroke color (CSS)"`
}

// applyDefaults fills zero-valued sampling and timing fields with the
// documented defaults. Explicit values are never touched.
func (c *RingConfig) applyDefaults() {
	if c.SegmentCount == 0 {
		c.SegmentCount = geodesic.DefaultSegmentCount
	}
	if c.CircleSteps == 0 {
		c.CircleSteps = geodesic.DefaultCircleSteps
	}
	if c.ArcSteps == 0 {
		c.ArcSteps = geodesic.DefaultArcSteps
	}
	if c.ActiveMs == 0 {
		c.ActiveMs = 900
	}
	if c.StepMs == 0 {
		c.StepMs = 150
	}
	if c.Fill == "" {
		c.Fill = "#22d3ee"
	}
	if c.Stroke == "" {
		c.Stroke = "#0891b2"
	}
}

// Geometry converts the config to geodesic builder parameters.
func (c RingConfig) Geometry() geodesic.Config {
	return geodesic.Config{
		Center:       orb.Point{c.CenterLon, c.CenterLat},
		OuterRadius:  c.OuterRadius,
		Width:        c.Width,
		SegmentCount: c.SegmentCount,
		CircleSteps:  c.CircleSteps,
		ArcSteps:     c.ArcSteps,
	}
}

// ActiveDuration returns the per-segment highlight duration.
func (c RingConfig) ActiveDuration() time.Duration {
	return time.Duration(c.ActiveMs) * time.Millisecond
}

// StepDelay returns the delay between sweep steps.
func (c RingConfig) StepDelay() time.Duration {
	return time.Duration(c.StepMs) * time.Millisecond
}
