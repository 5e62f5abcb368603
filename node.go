package kml2ofds

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// NodeID is a stable node identifier (UUIDv5 in OFDS output)
type NodeID string

// Node is a canonical deduplicated point feature of the final topology.
// Its coordinate is adjusted exactly once, by the snapping stage; after that
// the node is immutable.
type Node struct {
	ID         NodeID
	Name       string
	Geom       orb.Point
	Attributes map[string]string
	// Unresolved marks a node that could not be snapped onto any span
	// (there were no spans to snap to). It is kept in the output but takes
	// no part in splitting.
	Unresolved bool
}

// dedupKey identifies duplicate point features: same name and same location
// once coordinates are rounded to the configured precision
type dedupKey struct {
	name string
	lon  float64
	lat  float64
}

// deduplicateNodes collapses raw points sharing a dedup key into single nodes.
// Nodes come out in the order their key was first seen, placed at the rounded
// coordinate of the group's first member. Attributes of later duplicates are
// merged last-wins; a merge that overwrote a differing value is reported as an
// informational warning.
func deduplicateNodes(points []RawPoint, precision int) ([]*Node, []Warning, error) {
	if precision < 0 {
		return nil, nil, errors.Errorf("dedup precision must be a non-negative number of decimal places, got %d", precision)
	}
	seen := make(map[dedupKey]*Node)
	nodes := make([]*Node, 0, len(points))
	warnings := []Warning{}

	for i := range points {
		pt := &points[i]
		key := dedupKey{
			name: pt.Name,
			lon:  roundCoordinate(pt.Geom.Lon(), precision),
			lat:  roundCoordinate(pt.Geom.Lat(), precision),
		}
		existing, ok := seen[key]
		if !ok {
			node := &Node{
				Name:       pt.Name,
				Geom:       orb.Point{key.lon, key.lat},
				Attributes: copyAttributes(pt.Attributes),
			}
			seen[key] = node
			nodes = append(nodes, node)
			continue
		}
		// Sorted keys keep the warning order reproducible
		keys := make([]string, 0, len(pt.Attributes))
		for k := range pt.Attributes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			v := pt.Attributes[k]
			if prev, had := existing.Attributes[k]; had && prev != v {
				warnings = append(warnings, Warning{
					Kind:    WarnAttributeMerge,
					Feature: pt.Name,
					Geom:    existing.Geom,
					Message: "duplicate point carries conflicting attribute '" + k + "', last value wins",
				})
			}
			existing.Attributes[k] = v
		}
	}
	return nodes, warnings, nil
}

func copyAttributes(attrs map[string]string) map[string]string {
	out := make(map[string]string, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}
