package kml2ofds

import (
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// spanIndex answers the nearest-span query used by snapping. Implementations
// must agree on observable behavior: the globally closest span wins and ties
// resolve to the lowest span index in normalization order.
type spanIndex interface {
	nearestSpan(p orb.Point) (int, projection, bool)
}

// bruteForceIndex scans every span. O(nodes x spans) overall, fine at the
// expected scale of a few thousand features.
type bruteForceIndex struct {
	spans []*workingSpan
}

func newBruteForceIndex(spans []*workingSpan) *bruteForceIndex {
	return &bruteForceIndex{spans: spans}
}

func (index *bruteForceIndex) nearestSpan(p orb.Point) (int, projection, bool) {
	bestIdx := -1
	best := projection{Distance: math.Inf(1)}
	for i, span := range index.spans {
		proj := nearestPointOnPolyline(p, span.geom)
		if proj.Segment >= 0 && proj.Distance < best.Distance {
			bestIdx = i
			best = proj
		}
	}
	if bestIdx < 0 {
		return -1, projection{}, false
	}
	return bestIdx, best, true
}

// rtreeEntry wraps a span and its bounding box for the R-tree
type rtreeEntry struct {
	idx  int
	span *workingSpan
	rect rtreego.Rect
}

func (e *rtreeEntry) Bounds() rtreego.Rect {
	return e.rect
}

// rtreeIndex finds candidate spans through an R-tree over span bounding boxes,
// then refines with exact projections. A bounding-box hit is only a candidate:
// the nearest bbox does not have to belong to the nearest geometry, so the
// seed distance defines a search window that provably contains every span
// closer than the seed.
type rtreeIndex struct {
	spans []*workingSpan
	tree  *rtreego.Rtree
}

func newRTreeIndex(spans []*workingSpan) *rtreeIndex {
	tree := rtreego.NewTree(2, 8, 32)
	for i, span := range spans {
		minX, minY := math.Inf(1), math.Inf(1)
		maxX, maxY := math.Inf(-1), math.Inf(-1)
		for _, pt := range span.geom {
			minX = math.Min(minX, pt.X())
			minY = math.Min(minY, pt.Y())
			maxX = math.Max(maxX, pt.X())
			maxY = math.Max(maxY, pt.Y())
		}
		rect, err := rtreego.NewRect(
			rtreego.Point{minX, minY},
			[]float64{math.Max(maxX-minX, 1e-12), math.Max(maxY-minY, 1e-12)},
		)
		if err != nil {
			continue
		}
		tree.Insert(&rtreeEntry{idx: i, span: span, rect: rect})
	}
	return &rtreeIndex{spans: spans, tree: tree}
}

func (index *rtreeIndex) nearestSpan(p orb.Point) (int, projection, bool) {
	if len(index.spans) == 0 {
		return -1, projection{}, false
	}
	seed := index.tree.NearestNeighbor(rtreego.Point{p.X(), p.Y()})
	entry, ok := seed.(*rtreeEntry)
	if !ok {
		return -1, projection{}, false
	}
	seedProj := nearestPointOnPolyline(p, entry.span.geom)

	// Window sized by the seed's exact distance: any span whose geometry is
	// closer than the seed must have a bounding box intersecting it.
	radius := seedProj.Distance + 1e-12
	window, err := rtreego.NewRect(
		rtreego.Point{p.X() - radius, p.Y() - radius},
		[]float64{2 * radius, 2 * radius},
	)
	if err != nil {
		return entry.idx, seedProj, true
	}

	bestIdx := entry.idx
	best := seedProj
	for _, candidate := range index.tree.SearchIntersect(window) {
		ce := candidate.(*rtreeEntry)
		proj := nearestPointOnPolyline(p, ce.span.geom)
		if proj.Segment < 0 {
			continue
		}
		if proj.Distance < best.Distance || (proj.Distance == best.Distance && ce.idx < bestIdx) {
			bestIdx = ce.idx
			best = proj
		}
	}
	return bestIdx, best, true
}
