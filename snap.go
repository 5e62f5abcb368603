package kml2ofds

// incidence records that a node lies on a span at a specific position after
// snapping: segment index plus fraction along that segment.
type incidence struct {
	nodeIdx  int
	segment  int
	t        float64
	distance float64
}

// snapNodes places every node onto the nearest span. Nodes already within
// snapTolerance of a span are micro-snapped to the exact nearest point; nodes
// further away are still relocated to the globally nearest span, with an
// off-span warning. Either way the node becomes incident to that span.
//
// The input nodes are not mutated: relocated nodes are fresh values, so the
// stage stays composable and testable in isolation. A node that cannot be
// resolved at all (no spans in the dataset survived normalization) is flagged
// Unresolved, warned about, and excluded from incidence.
//
// Returned incidences are grouped per span, indexed like the spans slice.
func snapNodes(nodes []*Node, spans []*workingSpan, snapTolerance float64, index spanIndex) ([]*Node, [][]incidence, []Warning) {
	snapped := make([]*Node, len(nodes))
	incidences := make([][]incidence, len(spans))
	warnings := []Warning{}

	for i, node := range nodes {
		spanIdx, proj, ok := index.nearestSpan(node.Geom)
		if !ok {
			unresolved := *node
			unresolved.Unresolved = true
			snapped[i] = &unresolved
			warnings = append(warnings, Warning{
				Kind:    WarnUnresolvableNode,
				Feature: node.Name,
				Geom:    node.Geom,
				Message: "no span to snap the node onto, node kept but excluded from topology",
			})
			continue
		}
		if proj.Distance > snapTolerance {
			warnings = append(warnings, Warning{
				Kind:    WarnOffSpanSnap,
				Feature: node.Name,
				Geom:    node.Geom,
				Message: "node lies beyond snap tolerance of every span, relocated to the nearest one",
			})
		}
		relocated := *node
		relocated.Geom = proj.Point
		snapped[i] = &relocated
		incidences[spanIdx] = append(incidences[spanIdx], incidence{
			nodeIdx:  i,
			segment:  proj.Segment,
			t:        proj.T,
			distance: proj.Distance,
		})
	}
	return snapped, incidences, warnings
}
