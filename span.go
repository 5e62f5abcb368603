package kml2ofds

import (
	"github.com/paulmach/orb"
)

// SpanID is a stable span identifier (UUIDv5 in OFDS output)
type SpanID string

// Span is a line feature of the final topology, bounded by exactly two nodes.
// The polyline's first point matches the start node's coordinate and its last
// point the end node's coordinate.
type Span struct {
	ID           SpanID
	Name         string
	Geom         orb.LineString
	StartNodeID  NodeID
	EndNodeID    NodeID
	LengthMeters float64
	Attributes   map[string]string
}

// workingSpan is a pre-split span: one simple polyline carrying the raw line's
// name and attributes. It is an internal working value, not a final entity.
type workingSpan struct {
	name       string
	geom       orb.LineString
	attributes map[string]string
}

// normalizeSpans flattens raw lines into working spans, one per part. Parts
// with fewer than 2 distinct coordinates are dropped with a warning;
// consecutive duplicate coordinates are collapsed so no zero-length segments
// survive into snapping/splitting.
func normalizeSpans(lines []RawLine) ([]*workingSpan, []Warning) {
	spans := []*workingSpan{}
	warnings := []Warning{}
	for i := range lines {
		line := &lines[i]
		for _, part := range line.Parts {
			geom := collapseDuplicatePoints(part)
			if len(geom) < 2 {
				at := orb.Point{}
				if len(geom) > 0 {
					at = geom[0]
				}
				warnings = append(warnings, Warning{
					Kind:    WarnDegeneratePart,
					Feature: line.Name,
					Geom:    at,
					Message: "line part has fewer than 2 distinct coordinates, dropped",
				})
				continue
			}
			spans = append(spans, &workingSpan{
				name:       line.Name,
				geom:       geom,
				attributes: copyAttributes(line.Attributes),
			})
		}
	}
	return spans, warnings
}
