package geodesic

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// signedArea is the planar shoelace sum in lon/lat space. Positive means
// counter-clockwise viewed from above.
func signedArea(ring orb.Ring) float64 {
	var sum float64
	for i := 0; i < len(ring)-1; i++ {
		sum += ring[i][0]*ring[i+1][1] - ring[i+1][0]*ring[i][1]
	}
	return sum / 2
}

func TestDestinationZeroDistance(t *testing.T) {
	center := orb.Point{-97.405, 31.98}
	for _, bearing := range []float64{0, 1, math.Pi, 5, -2.5} {
		got := Destination(center, 0, bearing)
		if math.Abs(got[0]-center[0]) > 1e-9 || math.Abs(got[1]-center[1]) > 1e-9 {
			t.Errorf("Destination(center, 0, %g) = %v, want %v", bearing, got, center)
		}
	}
}

func TestDestinationDistanceRoundTrip(t *testing.T) {
	center := orb.Point{-97.405, 31.98}
	for _, dist := range []float64{100, 5000, 18000, 50000} {
		for _, bearing := range []float64{0, math.Pi / 3, math.Pi, 4.9} {
			got := Destination(center, dist, bearing)
			measured := geo.DistanceHaversine(center, got)
			if math.Abs(measured-dist) > dist*1e-3+0.5 {
				t.Errorf("Destination(%g m, %g rad): measured back %g m", dist, bearing, measured)
			}
		}
	}
}

func TestDestinationBearingNorth(t *testing.T) {
	center := orb.Point{10, 45}
	got := Destination(center, 10000, 0)

	if got[1] <= center[1] {
		t.Errorf("bearing 0 should move north: lat %g -> %g", center[1], got[1])
	}
	if math.Abs(got[0]-center[0]) > 1e-6 {
		t.Errorf("bearing 0 should hold longitude: lon %g -> %g", center[0], got[0])
	}
}

func TestDestinationNearPole(t *testing.T) {
	center := orb.Point{0, 89}
	got := Destination(center, 1000, 1.0)
	if math.IsNaN(got[0]) || math.IsNaN(got[1]) {
		t.Fatalf("Destination near pole produced NaN: %v", got)
	}
}

func TestCircleClosed(t *testing.T) {
	center := orb.Point{-97.405, 31.98}
	for _, steps := range []int{3, 16, 120} {
		ring, err := Circle(center, 18000, steps)
		if err != nil {
			t.Fatalf("Circle(steps=%d): %v", steps, err)
		}
		if len(ring) != steps+1 {
			t.Fatalf("Circle(steps=%d): %d points, want %d", steps, len(ring), steps+1)
		}
		if ring[0] != ring[len(ring)-1] {
			t.Errorf("Circle(steps=%d): not closed, first %v last %v", steps, ring[0], ring[len(ring)-1])
		}
	}
}

func TestCircleCounterClockwise(t *testing.T) {
	ring, err := Circle(orb.Point{-97.405, 31.98}, 18000, 64)
	if err != nil {
		t.Fatal(err)
	}
	if area := signedArea(ring); area <= 0 {
		t.Errorf("circle winding is clockwise (signed area %g), want counter-clockwise", area)
	}
}

func TestCircleRejectsBadParams(t *testing.T) {
	center := orb.Point{0, 0}
	if _, err := Circle(center, -1, 16); err == nil {
		t.Error("negative radius accepted")
	}
	if _, err := Circle(center, 100, 2); err == nil {
		t.Error("2 steps accepted")
	}
}

func TestCircleRadiusAccuracy(t *testing.T) {
	center := orb.Point{-97.405, 31.98}
	ring, err := Circle(center, 18000, 32)
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range ring {
		d := geo.DistanceHaversine(center, p)
		if math.Abs(d-18000) > 20 {
			t.Fatalf("vertex %d is %g m from center, want 18000 m", i, d)
		}
	}
}

func TestAnnulusWinding(t *testing.T) {
	poly, err := Annulus(orb.Point{-97.405, 31.98}, 17400, 18000, 64)
	if err != nil {
		t.Fatal(err)
	}
	if len(poly) != 2 {
		t.Fatalf("annulus has %d rings, want 2", len(poly))
	}
	if area := signedArea(poly[0]); area <= 0 {
		t.Errorf("outer boundary clockwise (signed area %g)", area)
	}
	if area := signedArea(poly[1]); area >= 0 {
		t.Errorf("inner boundary counter-clockwise (signed area %g), want clockwise hole", area)
	}
}

func TestAnnulusDegenerateDisc(t *testing.T) {
	center := orb.Point{-97.405, 31.98}
	poly, err := Annulus(center, 0, 18000, 32)
	if err != nil {
		t.Fatal(err)
	}
	for _, ring := range poly {
		for _, p := range ring {
			if math.IsNaN(p[0]) || math.IsNaN(p[1]) {
				t.Fatalf("NaN coordinate in degenerate annulus: %v", p)
			}
		}
	}
	for i, p := range poly[1] {
		if math.Abs(p[0]-center[0]) > 1e-9 || math.Abs(p[1]-center[1]) > 1e-9 {
			t.Fatalf("inner boundary point %d = %v, want collapsed to center %v", i, p, center)
		}
	}
}

func TestAnnulusRejectsInvertedRadii(t *testing.T) {
	if _, err := Annulus(orb.Point{0, 0}, 200, 100, 32); err == nil {
		t.Error("inner > outer accepted")
	}
}
