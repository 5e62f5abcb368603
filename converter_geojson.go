package kml2ofds

import (
	"encoding/json"
	"os"
	"strings"

	geojson "github.com/paulmach/go.geojson"
	"github.com/pkg/errors"
)

// networkProperty is the OFDS 'network' object stamped onto every feature
func (net *Network) networkProperty() map[string]interface{} {
	links := make([]map[string]interface{}, len(net.Links))
	for i, link := range net.Links {
		links[i] = map[string]interface{}{
			"rel":  link.Rel,
			"href": link.Href,
		}
	}
	return map[string]interface{}{
		"id":    net.ID,
		"name":  net.Name,
		"links": links,
	}
}

// NodesGeoJSON returns the OFDS nodes FeatureCollection
func (net *Network) NodesGeoJSON() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, node := range net.Nodes {
		feature := geojson.NewPointFeature([]float64{node.Geom.Lon(), node.Geom.Lat()})
		feature.SetProperty("id", string(node.ID))
		feature.SetProperty("name", node.Name)
		feature.SetProperty("featureType", "node")
		feature.SetProperty("network", net.networkProperty())
		if node.Unresolved {
			feature.SetProperty("unresolved", true)
		}
		for k, v := range node.Attributes {
			feature.SetProperty(k, v)
		}
		fc.AddFeature(feature)
	}
	return fc
}

// SpansGeoJSON returns the OFDS spans FeatureCollection. Each span feature
// carries resolved 'start' and 'end' node objects.
func (net *Network) SpansGeoJSON() *geojson.FeatureCollection {
	nodesByID := make(map[NodeID]*Node, len(net.Nodes))
	for _, node := range net.Nodes {
		nodesByID[node.ID] = node
	}
	fc := geojson.NewFeatureCollection()
	for _, span := range net.Spans {
		coords := make([][]float64, len(span.Geom))
		for i, pt := range span.Geom {
			coords[i] = []float64{pt.Lon(), pt.Lat()}
		}
		feature := geojson.NewLineStringFeature(coords)
		feature.SetProperty("id", string(span.ID))
		feature.SetProperty("name", span.Name)
		feature.SetProperty("featureType", "span")
		feature.SetProperty("network", net.networkProperty())
		feature.SetProperty("length", span.LengthMeters)
		feature.SetProperty("start", nodeEndpointProperty(nodesByID[span.StartNodeID]))
		feature.SetProperty("end", nodeEndpointProperty(nodesByID[span.EndNodeID]))
		for k, v := range span.Attributes {
			feature.SetProperty(k, v)
		}
		fc.AddFeature(feature)
	}
	return fc
}

func nodeEndpointProperty(node *Node) map[string]interface{} {
	if node == nil {
		return nil
	}
	return map[string]interface{}{
		"id":   string(node.ID),
		"name": node.Name,
		"location": map[string]interface{}{
			"type":        "Point",
			"coordinates": []float64{node.Geom.Lon(), node.Geom.Lat()},
		},
	}
}

// ExportToGeoJSON writes two OFDS GeoJSON files next to the given filename:
// '<name>_nodes.geojson' and '<name>_spans.geojson'
func (net *Network) ExportToGeoJSON(fname string) error {
	fnameParts := strings.Split(fname, ".geojson")
	fnameNodes := fnameParts[0] + "_nodes.geojson"
	fnameSpans := fnameParts[0] + "_spans.geojson"

	err := writeFeatureCollection(fnameNodes, net.NodesGeoJSON())
	if err != nil {
		return errors.Wrap(err, "Can't export nodes")
	}
	err = writeFeatureCollection(fnameSpans, net.SpansGeoJSON())
	if err != nil {
		return errors.Wrap(err, "Can't export spans")
	}
	return nil
}

func writeFeatureCollection(fname string, fc *geojson.FeatureCollection) error {
	data, err := json.Marshal(fc)
	if err != nil {
		return errors.Wrap(err, "Can't marshal feature collection")
	}
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()
	_, err = file.Write(data)
	if err != nil {
		return errors.Wrap(err, "Can't write file")
	}
	return nil
}
