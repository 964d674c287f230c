package geodesic

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Recommended sampling parameters. Callers opt in explicitly; nothing in
// this package substitutes them silently.
const (
	DefaultCircleSteps  = 120
	DefaultArcSteps     = 16
	DefaultSegmentCount = 32
)

// Segment is one angular slice of the annulus: outer arc forward, inner
// arc backward, closed. ID is the stable join key a renderer's
// feature-state store and the sweep scheduler both use.
type Segment struct {
	ID         int
	StartAngle float64 // radians, sweep parameter in [0, 2π)
	EndAngle   float64
	Boundary   orb.Ring
}

// SliceSegments divides the annulus into segmentCount equal angular
// slices. Segment i covers [2πi/n, 2π(i+1)/n); together the slices tile
// the full circle with no gaps or overlaps and visually reconstruct the
// same annulus Annulus would draw whole. Each boundary ring has
// 2·(stepsPerArc+1)+1 points.
func SliceSegments(center orb.Point, innerRadius, outerRadius float64, segmentCount, stepsPerArc int) ([]Segment, error) {
	if segmentCount < 1 {
		return nil, fmt.Errorf("geodesic: segment count must be at least 1, got %d", segmentCount)
	}
	if innerRadius > outerRadius {
		return nil, fmt.Errorf("geodesic: inner radius %g exceeds outer radius %g", innerRadius, outerRadius)
	}

	segments := make([]Segment, 0, segmentCount)
	for i := 0; i < segmentCount; i++ {
		start := 2 * math.Pi * float64(i) / float64(segmentCount)
		end := 2 * math.Pi * float64(i+1) / float64(segmentCount)

		outerArc, err := Arc(center, outerRadius, start, end, stepsPerArc)
		if err != nil {
			return nil, err
		}
		innerArc, err := Arc(center, innerRadius, end, start, stepsPerArc)
		if err != nil {
			return nil, err
		}

		ring := make(orb.Ring, 0, 2*(stepsPerArc+1)+1)
		ring = append(ring, outerArc...)
		ring = append(ring, innerArc...)
		ring = append(ring, ring[0])

		segments = append(segments, Segment{
			ID:         i,
			StartAngle: start,
			EndAngle:   end,
			Boundary:   ring,
		})
	}
	return segments, nil
}

// Config holds the geographic parameters for one ring set. All fields are
// required; Validate rejects anything that would produce degenerate
// geometry.
type Config struct {
	Center       orb.Point
	OuterRadius  float64 // meters
	Width        float64 // meters; inner radius = OuterRadius - Width, clamped at 0
	SegmentCount int
	CircleSteps  int // sampling resolution for the buffer disc and band
	ArcSteps     int // sampling resolution per segment arc
}

// InnerRadius returns the band's inner radius, clamped at zero so a width
// wider than the outer radius degrades to a filled disc instead of
// inverted geometry.
func (c Config) InnerRadius() float64 {
	return math.Max(c.OuterRadius-c.Width, 0)
}

// Validate checks the configuration, returning the first problem found.
func (c Config) Validate() error {
	if c.Center[0] < -180 || c.Center[0] > 180 || c.Center[1] < -90 || c.Center[1] > 90 {
		return fmt.Errorf("geodesic: center %v out of range", c.Center)
	}
	if c.OuterRadius <= 0 {
		return fmt.Errorf("geodesic: outer radius must be positive, got %g", c.OuterRadius)
	}
	if c.Width < 0 {
		return fmt.Errorf("geodesic: width must not be negative, got %g", c.Width)
	}
	if c.SegmentCount < 1 {
		return fmt.Errorf("geodesic: segment count must be at least 1, got %d", c.SegmentCount)
	}
	if c.CircleSteps < 3 {
		return fmt.Errorf("geodesic: circle steps must be at least 3, got %d", c.CircleSteps)
	}
	if c.ArcSteps < 1 {
		return fmt.Errorf("geodesic: arc steps must be at least 1, got %d", c.ArcSteps)
	}
	return nil
}

// RingSet is the static geometry for one site, built once per session and
// immutable afterwards.
type RingSet struct {
	Config   Config
	Buffer   orb.Polygon // filled disc at the outer radius
	Band     orb.Polygon // annulus between inner and outer radius
	Segments []Segment
}

// Build computes a full ring set from the configuration.
func Build(cfg Config) (*RingSet, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	buffer, err := Disc(cfg.Center, cfg.OuterRadius, cfg.CircleSteps)
	if err != nil {
		return nil, err
	}
	band, err := Annulus(cfg.Center, cfg.InnerRadius(), cfg.OuterRadius, cfg.CircleSteps)
	if err != nil {
		return nil, err
	}
	segments, err := SliceSegments(cfg.Center, cfg.InnerRadius(), cfg.OuterRadius, cfg.SegmentCount, cfg.ArcSteps)
	if err != nil {
		return nil, err
	}

	return &RingSet{
		Config:   cfg,
		Buffer:   buffer,
		Band:     band,
		Segments: segments,
	}, nil
}

// FeatureCollection encodes the ring set as GeoJSON. Segment features
// carry their integer ID as the feature id so a renderer can address
// per-segment feature state without inspecting properties.
func (rs *RingSet) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	buffer := geojson.NewFeature(rs.Buffer)
	buffer.Properties["kind"] = "buffer"
	buffer.Properties["radius"] = rs.Config.OuterRadius
	fc.Append(buffer)

	band := geojson.NewFeature(rs.Band)
	band.Properties["kind"] = "band"
	band.Properties["innerRadius"] = rs.Config.InnerRadius()
	band.Properties["outerRadius"] = rs.Config.OuterRadius
	fc.Append(band)

	for _, seg := range rs.Segments {
		f := geojson.NewFeature(orb.Polygon{seg.Boundary})
		f.ID = seg.ID
		f.Properties["kind"] = "segment"
		f.Properties["segment"] = seg.ID
		f.Properties["startAngle"] = seg.StartAngle
		f.Properties["endAngle"] = seg.EndAngle
		fc.Append(f)
	}
	return fc
}
