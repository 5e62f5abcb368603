package kml2ofds

import (
	"fmt"

	"github.com/paulmach/orb"
)

// RawPoint is a point feature as extracted from the source map file:
// an access point, manhole, POP or other physical node candidate.
type RawPoint struct {
	Name       string
	Geom       orb.Point
	Attributes map[string]string
}

// RawLine is a line feature as extracted from the source map file: a fibre
// route. Parts holds one polyline per contiguous piece; multi-geometry
// placemarks produce several parts under a single name.
type RawLine struct {
	Name       string
	Parts      []orb.LineString
	Attributes map[string]string
}

// WarningKind classifies recoverable per-entity problems found during a run
type WarningKind uint16

const (
	WarnDegeneratePart = WarningKind(iota + 1)
	WarnAttributeMerge
	WarnOffSpanSnap
	WarnUnresolvableNode
)

func (iotaIdx WarningKind) String() string {
	return [...]string{"degenerate_part", "attribute_merge", "off_span_snap", "unresolvable_node"}[iotaIdx-1]
}

// Warning is a non-fatal per-entity problem. The run continues; warnings are
// collected on the resulting Network for the caller to report.
type Warning struct {
	Kind    WarningKind
	Feature string
	Geom    orb.Point
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s | feature: '%s' | lon: %f | lat: %f | %s", w.Kind, w.Feature, w.Geom.Lon(), w.Geom.Lat(), w.Message)
}
