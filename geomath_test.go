package kml2ofds

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestNearestPointOnPolyline(t *testing.T) {
	line := orb.LineString{{0, 0}, {10, 0}}
	p := orb.Point{5, 0.05}
	proj := nearestPointOnPolyline(p, line)
	if proj.Point != (orb.Point{5, 0}) {
		t.Errorf("Nearest point should be [5 0], but got %v", proj.Point)
	}
	if proj.Segment != 0 {
		t.Errorf("Segment should be 0, but got %d", proj.Segment)
	}
	if proj.T != 0.5 {
		t.Errorf("Fraction should be 0.5, but got %f", proj.T)
	}
	if proj.Distance != 0.05 {
		t.Errorf("Distance should be 0.05, but got %f", proj.Distance)
	}
}

func TestNearestPointTieLowestSegment(t *testing.T) {
	// Point above the shared vertex of two collinear segments: both segments
	// are equidistant, the lower index must win
	line := orb.LineString{{0, 0}, {1, 0}, {2, 0}}
	proj := nearestPointOnPolyline(orb.Point{1, 1}, line)
	if proj.Segment != 0 {
		t.Errorf("Tie should resolve to segment 0, but got %d", proj.Segment)
	}
	if proj.T != 1.0 {
		t.Errorf("Fraction should be 1.0, but got %f", proj.T)
	}
}

func TestNearestPointClampedToSegment(t *testing.T) {
	line := orb.LineString{{0, 0}, {10, 0}}
	proj := nearestPointOnPolyline(orb.Point{-3, 4}, line)
	if proj.Point != (orb.Point{0, 0}) {
		t.Errorf("Nearest point should clamp to [0 0], but got %v", proj.Point)
	}
	if proj.Distance != 5.0 {
		t.Errorf("Distance should be 5.0, but got %f", proj.Distance)
	}
}

func TestSplitPolylineAtMiddle(t *testing.T) {
	line := orb.LineString{{0, 0}, {10, 0}}
	head, tail, ok := splitPolylineAt(line, 0, 0.5)
	if !ok {
		t.Error("Split should succeed")
		return
	}
	if len(head) != 2 || head[0] != (orb.Point{0, 0}) || head[1] != (orb.Point{5, 0}) {
		t.Errorf("Head should be [[0 0] [5 0]], but got %v", head)
	}
	if len(tail) != 2 || tail[0] != (orb.Point{5, 0}) || tail[1] != (orb.Point{10, 0}) {
		t.Errorf("Tail should be [[5 0] [10 0]], but got %v", tail)
	}
}

func TestSplitPolylineAtVertex(t *testing.T) {
	line := orb.LineString{{0, 0}, {5, 0}, {10, 0}}
	head, tail, ok := splitPolylineAt(line, 1, 0.0)
	if !ok {
		t.Error("Split at interior vertex should succeed")
		return
	}
	if len(head) != 2 || head[1] != (orb.Point{5, 0}) {
		t.Errorf("Head should end at [5 0], but got %v", head)
	}
	if len(tail) != 2 || tail[0] != (orb.Point{5, 0}) {
		t.Errorf("Tail should start at [5 0], but got %v", tail)
	}
}

func TestSplitPolylineDegenerate(t *testing.T) {
	line := orb.LineString{{0, 0}, {5, 0}, {10, 0}}
	if _, _, ok := splitPolylineAt(line, 0, 0.0); ok {
		t.Error("Split at first vertex should report no valid split")
	}
	if _, _, ok := splitPolylineAt(line, 1, 1.0); ok {
		t.Error("Split at last vertex should report no valid split")
	}
	if _, _, ok := splitPolylineAt(line, 5, 0.5); ok {
		t.Error("Split with segment out of range should report no valid split")
	}
}

func TestWithinTolerance(t *testing.T) {
	a := orb.Point{0, 0}
	b := orb.Point{0, 0.05}
	if !withinTolerance(a, b, 0.1) {
		t.Errorf("Points %v and %v should be within tolerance 0.1", a, b)
	}
	if withinTolerance(a, b, 0.01) {
		t.Errorf("Points %v and %v should not be within tolerance 0.01", a, b)
	}
}

func TestCollapseDuplicatePoints(t *testing.T) {
	line := orb.LineString{{0, 0}, {0, 0}, {1, 1}, {1, 1}, {1, 1}, {2, 2}}
	out := collapseDuplicatePoints(line)
	if len(out) != 3 {
		t.Errorf("Collapsed line should have 3 points, but got %d", len(out))
	}
	if out[0] != (orb.Point{0, 0}) || out[1] != (orb.Point{1, 1}) || out[2] != (orb.Point{2, 2}) {
		t.Errorf("Collapsed line should be [[0 0] [1 1] [2 2]], but got %v", out)
	}
}

func TestGreatCircleDistance(t *testing.T) {
	// One degree of latitude along a meridian
	p := orb.Point{0, 0}
	q := orb.Point{0, 1}
	res := 111.194697 // kilometers
	gcd := greatCircleDistance(p, q)
	if math.Abs(gcd-res) > 0.001 {
		t.Errorf("Great circle dist should be %f, but got %f", res, gcd)
	}
}

func TestGetSphericalLength(t *testing.T) {
	line := orb.LineString{{0, 0}, {0, 1}, {0, 2}}
	res := 222389.395 // meters
	length := getSphericalLength(line)
	if math.Abs(length-res) > 2.0 {
		t.Errorf("Length should be %f, but got %f", res, length)
	}
	if getSphericalLength(orb.LineString{{0, 0}}) != 0 {
		t.Error("Length of single-point line should be 0")
	}
}

func TestRoundCoordinate(t *testing.T) {
	if v := roundCoordinate(10.0001, 3); v != 10.0 {
		t.Errorf("Rounded value should be 10.0, but got %f", v)
	}
	if v := roundCoordinate(1.23456, 2); v != 1.23 {
		t.Errorf("Rounded value should be 1.23, but got %f", v)
	}
	if v := roundCoordinate(5.4321, 0); v != 5.0 {
		t.Errorf("Rounded value should be 5.0, but got %f", v)
	}
}
