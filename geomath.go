package kml2ofds

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

const (
	earthRadius = 6370.986884258304
	pi180       = math.Pi / 180.0
)

// projection is the result of projecting a point onto a polyline.
// Segment is the index of the polyline segment holding the nearest point,
// T is the fractional position on that segment (0 at segment start, 1 at its end).
type projection struct {
	Point    orb.Point
	Segment  int
	T        float64
	Distance float64
}

// degreesToRadians deg = r * pi / 180
func degreesToRadians(d float64) float64 {
	return d * pi180
}

// greatCircleDistance returns distance between two geo-points (kilometers)
func greatCircleDistance(p, q orb.Point) float64 {
	lat1 := degreesToRadians(p.Lat())
	lon1 := degreesToRadians(p.Lon())
	lat2 := degreesToRadians(q.Lat())
	lon2 := degreesToRadians(q.Lon())
	diffLat := lat2 - lat1
	diffLon := lon2 - lon1
	a := math.Pow(math.Sin(diffLat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(diffLon/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return c * earthRadius
}

// getSphericalLength returns length for given line (meters)
func getSphericalLength(line orb.LineString) float64 {
	totalLength := 0.0
	if len(line) < 2 {
		return totalLength
	}
	for i := 1; i < len(line); i++ {
		totalLength += greatCircleDistance(line[i-1], line[i])
	}
	return totalLength * 1000.0
}

// findDistance returns distance between two points (assuming they are Euclidean: Lon == X, Lat == Y)
func findDistance(p, q orb.Point) float64 {
	return planar.Distance(p, q)
}

// withinTolerance reports whether two points are no further than tol apart
func withinTolerance(p, q orb.Point, tol float64) bool {
	return findDistance(p, q) <= tol
}

// pointOnSegmentByFraction returns a point on given segment using known fraction
func pointOnSegmentByFraction(p, q orb.Point, fraction float64) orb.Point {
	return orb.Point{
		(1-fraction)*p.X() + fraction*q.X(),
		(1-fraction)*p.Y() + fraction*q.Y(),
	}
}

// projectOnSegment projects point p onto segment (a, b).
// Returned fraction is clamped to [0, 1] so the nearest point never leaves the segment.
func projectOnSegment(p, a, b orb.Point) (orb.Point, float64) {
	dx := b.X() - a.X()
	dy := b.Y() - a.Y()
	segLenSq := dx*dx + dy*dy
	if segLenSq == 0 {
		return a, 0.0
	}
	t := ((p.X()-a.X())*dx + (p.Y()-a.Y())*dy) / segLenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return pointOnSegmentByFraction(a, b, t), t
}

// nearestPointOnPolyline projects p onto every segment of the polyline and keeps
// the closest hit. Equidistant segments resolve to the lowest segment index.
func nearestPointOnPolyline(p orb.Point, line orb.LineString) projection {
	best := projection{Segment: -1, Distance: math.Inf(1)}
	for i := 1; i < len(line); i++ {
		pt, t := projectOnSegment(p, line[i-1], line[i])
		d := findDistance(p, pt)
		if d < best.Distance {
			best = projection{Point: pt, Segment: i - 1, T: t, Distance: d}
		}
	}
	return best
}

// splitPolylineAt cuts the polyline at fraction t of segment with given index.
// Both returned polylines share the cut point as endpoint. Returns ok=false
// when the cut point coincides with the first or last vertex of the whole
// polyline (no valid split); cutting exactly at an interior vertex is fine.
func splitPolylineAt(line orb.LineString, segment int, t float64) (orb.LineString, orb.LineString, bool) {
	if len(line) < 2 || segment < 0 || segment > len(line)-2 {
		return nil, nil, false
	}
	cut := pointOnSegmentByFraction(line[segment], line[segment+1], t)
	if cut == line[0] || cut == line[len(line)-1] {
		return nil, nil, false
	}

	head := make(orb.LineString, 0, segment+2)
	head = append(head, line[:segment+1]...)
	if cut != line[segment] {
		head = append(head, cut)
	}

	tail := make(orb.LineString, 0, len(line)-segment)
	if cut != line[segment+1] {
		tail = append(tail, cut)
	}
	tail = append(tail, line[segment+1:]...)

	if len(head) < 2 || len(tail) < 2 {
		return nil, nil, false
	}
	return head, tail, true
}

// collapseDuplicatePoints removes consecutive repeated coordinates. Returns new slice.
func collapseDuplicatePoints(line orb.LineString) orb.LineString {
	if len(line) == 0 {
		return orb.LineString{}
	}
	out := orb.LineString{line[0]}
	for i := 1; i < len(line); i++ {
		if line[i] != out[len(out)-1] {
			out = append(out, line[i])
		}
	}
	return out
}

// roundCoordinate rounds value to the given number of decimal places
func roundCoordinate(v float64, precision int) float64 {
	pow := math.Pow(10, float64(precision))
	return math.Round(v*pow) / pow
}
