// Package geodesic builds ring and segment polygons around a geographic
// site using spherical-earth offsets, so shapes stay visually circular at
// any latitude.
//
// Angle conventions: bearings are radians clockwise from true north. The
// circle and arc samplers take a sweep angle that increases
// counter-clockwise (viewed from above), so sampled rings satisfy the
// RFC 7946 right-hand rule for outer boundaries without post-processing.
package geodesic

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// EarthRadius is the WGS84 semi-major axis in meters. Same constant orb's
// geo package uses, so distances measured back with orb agree with what
// this package projects.
const EarthRadius = 6378137.0

// Destination returns the point at distanceMeters from center along
// bearingRad (radians clockwise from north), using the spherical
// destination-point formula. Accurate to a few meters for distances up to
// tens of kilometers; a zero distance returns center unchanged.
func Destination(center orb.Point, distanceMeters, bearingRad float64) orb.Point {
	delta := distanceMeters / EarthRadius

	lon1 := center[0] * math.Pi / 180
	lat1 := center[1] * math.Pi / 180

	sinLat1, cosLat1 := math.Sincos(lat1)
	sinDelta, cosDelta := math.Sincos(delta)
	sinBearing, cosBearing := math.Sincos(bearingRad)

	lat2 := math.Asin(sinLat1*cosDelta + cosLat1*sinDelta*cosBearing)
	lon2 := lon1 + math.Atan2(
		sinBearing*sinDelta*cosLat1,
		cosDelta-sinLat1*math.Sin(lat2),
	)

	return orb.Point{lon2 * 180 / math.Pi, lat2 * 180 / math.Pi}
}

// Circle samples a closed ring of steps+1 points at the given radius.
// The first and last points are identical, and vertices run
// counter-clockwise viewed from above. steps must be at least 3.
func Circle(center orb.Point, radiusMeters float64, steps int) (orb.Ring, error) {
	if radiusMeters < 0 {
		return nil, fmt.Errorf("geodesic: negative radius %g", radiusMeters)
	}
	if steps < 3 {
		return nil, fmt.Errorf("geodesic: circle needs at least 3 steps, got %d", steps)
	}

	ring := make(orb.Ring, 0, steps+1)
	for i := 0; i < steps; i++ {
		sweep := 2 * math.Pi * float64(i) / float64(steps)
		ring = append(ring, Destination(center, radiusMeters, -sweep))
	}
	// Close with an exact copy of the first point rather than resampling
	// at 2π, which would differ in the last few bits.
	ring = append(ring, ring[0])
	return ring, nil
}

// Arc samples steps+1 points at radiusMeters between two sweep angles.
// The result is open (not a closed ring); endAngle may be smaller than
// startAngle to traverse the arc backwards.
func Arc(center orb.Point, radiusMeters, startAngle, endAngle float64, steps int) ([]orb.Point, error) {
	if radiusMeters < 0 {
		return nil, fmt.Errorf("geodesic: negative radius %g", radiusMeters)
	}
	if steps < 1 {
		return nil, fmt.Errorf("geodesic: arc needs at least 1 step, got %d", steps)
	}

	pts := make([]orb.Point, 0, steps+1)
	span := endAngle - startAngle
	for i := 0; i <= steps; i++ {
		sweep := startAngle + span*float64(i)/float64(steps)
		pts = append(pts, Destination(center, radiusMeters, -sweep))
	}
	return pts, nil
}

// Annulus builds a ring-shaped polygon between two radii: the outer
// boundary counter-clockwise, the inner boundary reversed so it reads as
// a hole. An inner radius of zero is valid and collapses the hole to a
// point, leaving a filled disc.
func Annulus(center orb.Point, innerRadius, outerRadius float64, steps int) (orb.Polygon, error) {
	if innerRadius > outerRadius {
		return nil, fmt.Errorf("geodesic: inner radius %g exceeds outer radius %g", innerRadius, outerRadius)
	}

	outer, err := Circle(center, outerRadius, steps)
	if err != nil {
		return nil, err
	}
	inner, err := Circle(center, innerRadius, steps)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(inner)-1; i < j; i, j = i+1, j-1 {
		inner[i], inner[j] = inner[j], inner[i]
	}

	return orb.Polygon{outer, inner}, nil
}

// Disc builds a filled circle polygon at the given radius.
func Disc(center orb.Point, radiusMeters float64, steps int) (orb.Polygon, error) {
	ring, err := Circle(center, radiusMeters, steps)
	if err != nil {
		return nil, err
	}
	return orb.Polygon{ring}, nil
}
