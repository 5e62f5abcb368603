package kml2ofds

import (
	"fmt"
	"math"
	"sort"

	"github.com/paulmach/orb"
)

// UnterminatedSpanError signals a sub-span that cannot be bounded by nodes at
// both ends: the route has no node at a terminus and nothing snapped onto it
// there. This breaks the core invariant of the output topology, so the run
// aborts instead of patching the data.
type UnterminatedSpanError struct {
	SpanName string
	Geom     orb.Point
}

func (e *UnterminatedSpanError) Error() string {
	return fmt.Sprintf("span '%s' has no node at terminus (lon: %f | lat: %f)", e.SpanName, e.Geom.Lon(), e.Geom.Lat())
}

// splitSpan is a sub-span produced by splitting: a piece of a working span
// bounded by two known nodes, referenced by index into the node slice.
type splitSpan struct {
	name       string
	geom       orb.LineString
	attributes map[string]string
	startNode  int
	endNode    int
}

// splitSpans cuts every working span at each of its incident nodes. Incident
// nodes are processed in ascending (segment, t) order, node index breaking
// ties, so the decomposition is total-ordered and deterministic. Cuts falling
// within tolerance of the current piece's endpoints are discarded: they would
// produce zero-length sub-spans. Every resulting sub-span is assigned its
// bounding nodes; termini resolve against the full node set since the node
// bounding a span's end may have snapped onto a different span.
func splitSpans(spans []*workingSpan, nodes []*Node, incidences [][]incidence, tolerance float64) ([]*splitSpan, error) {
	result := []*splitSpan{}
	for spanIdx, span := range spans {
		incident := append([]incidence{}, incidences[spanIdx]...)
		sort.Slice(incident, func(i, j int) bool {
			if incident[i].segment != incident[j].segment {
				return incident[i].segment < incident[j].segment
			}
			if incident[i].t != incident[j].t {
				return incident[i].t < incident[j].t
			}
			return incident[i].nodeIdx < incident[j].nodeIdx
		})

		pieces := []orb.LineString{}
		boundaries := []int{}
		current := span.geom
		for _, inc := range incident {
			node := nodes[inc.nodeIdx]
			// Re-project onto the remaining tail: earlier cuts shifted
			// segment indices, the original (segment, t) only orders nodes.
			proj := nearestPointOnPolyline(node.Geom, current)
			if proj.Segment < 0 {
				continue
			}
			if withinTolerance(proj.Point, current[0], tolerance) || withinTolerance(proj.Point, current[len(current)-1], tolerance) {
				continue
			}
			head, tail, ok := splitPolylineAt(current, proj.Segment, proj.T)
			if !ok {
				continue
			}
			// Pin the cut vertex to the node's exact coordinate
			head[len(head)-1] = node.Geom
			tail[0] = node.Geom
			pieces = append(pieces, head)
			boundaries = append(boundaries, inc.nodeIdx)
			current = tail
		}
		pieces = append(pieces, current)

		startNode := nodeAtPoint(nodes, pieces[0][0], tolerance)
		if startNode < 0 {
			return nil, &UnterminatedSpanError{SpanName: span.name, Geom: pieces[0][0]}
		}
		last := pieces[len(pieces)-1]
		endNode := nodeAtPoint(nodes, last[len(last)-1], tolerance)
		if endNode < 0 {
			return nil, &UnterminatedSpanError{SpanName: span.name, Geom: last[len(last)-1]}
		}

		for k, piece := range pieces {
			sub := &splitSpan{
				name:       span.name,
				geom:       piece,
				attributes: copyAttributes(span.attributes),
				startNode:  startNode,
				endNode:    endNode,
			}
			if k > 0 {
				sub.startNode = boundaries[k-1]
			}
			if k < len(pieces)-1 {
				sub.endNode = boundaries[k]
			}
			result = append(result, sub)
		}
	}
	return result, nil
}

// nodeAtPoint returns the index of the node closest to pt within tolerance,
// or -1 when no node qualifies. Equal distances keep the lowest node index.
func nodeAtPoint(nodes []*Node, pt orb.Point, tolerance float64) int {
	bestIdx := -1
	bestDist := math.Inf(1)
	for i, node := range nodes {
		if node.Unresolved {
			continue
		}
		d := findDistance(node.Geom, pt)
		if d <= tolerance && d < bestDist {
			bestIdx = i
			bestDist = d
		}
	}
	return bestIdx
}
