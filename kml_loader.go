package kml2ofds

import (
	"encoding/xml"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// KMLConfiguration controls which placemarks are extracted from a KML file
type KMLConfiguration struct {
	// IgnorePlacemarks holds regular expressions; a placemark whose name
	// matches any of them is skipped entirely
	IgnorePlacemarks []string
}

type kmlRoot struct {
	XMLName   xml.Name      `xml:"kml"`
	Documents []kmlDocument `xml:"Document"`
}

type kmlDocument struct {
	Name       string         `xml:"name"`
	Documents  []kmlDocument  `xml:"Document"`
	Folders    []kmlFolder    `xml:"Folder"`
	Placemarks []kmlPlacemark `xml:"Placemark"`
}

type kmlFolder struct {
	Name       string         `xml:"name"`
	Folders    []kmlFolder    `xml:"Folder"`
	Placemarks []kmlPlacemark `xml:"Placemark"`
}

type kmlPlacemark struct {
	Name          string            `xml:"name"`
	Point         *kmlGeometry      `xml:"Point"`
	LineString    *kmlGeometry      `xml:"LineString"`
	MultiGeometry *kmlMultiGeometry `xml:"MultiGeometry"`
	ExtendedData  *kmlExtendedData  `xml:"ExtendedData"`
}

type kmlGeometry struct {
	Coordinates string `xml:"coordinates"`
}

type kmlMultiGeometry struct {
	Points      []kmlGeometry `xml:"Point"`
	LineStrings []kmlGeometry `xml:"LineString"`
}

type kmlExtendedData struct {
	Data       []kmlData       `xml:"Data"`
	SchemaData []kmlSchemaData `xml:"SchemaData"`
}

type kmlData struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value"`
}

type kmlSchemaData struct {
	SimpleData []kmlSimpleData `xml:"SimpleData"`
}

type kmlSimpleData struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

// ImportFromKMLFile reads a KML map file and extracts raw point and line
// features from every Document and nested Folder. Placemarks matching an
// ignore pattern are dropped; so are duplicated line features (same name and
// identical geometry). Elevation values in coordinate tuples are discarded.
func ImportFromKMLFile(fileName string, cfg *KMLConfiguration) ([]RawPoint, []RawLine, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, nil, errors.Wrap(err, "Can't read KML file")
	}
	return importFromKMLData(data, cfg)
}

func importFromKMLData(data []byte, cfg *KMLConfiguration) ([]RawPoint, []RawLine, error) {
	if cfg == nil {
		cfg = &KMLConfiguration{}
	}
	ignore := make([]*regexp.Regexp, 0, len(cfg.IgnorePlacemarks))
	for _, pattern := range cfg.IgnorePlacemarks {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "Bad ignore pattern '%s'", pattern)
		}
		ignore = append(ignore, re)
	}

	root := kmlRoot{}
	err := xml.Unmarshal(data, &root)
	if err != nil {
		return nil, nil, errors.Wrap(err, "Can't parse KML")
	}

	loader := &kmlLoader{ignore: ignore, seenLines: make(map[string]bool)}
	for i := range root.Documents {
		loader.walkDocument(&root.Documents[i])
	}
	return loader.points, loader.lines, nil
}

type kmlLoader struct {
	ignore    []*regexp.Regexp
	points    []RawPoint
	lines     []RawLine
	seenLines map[string]bool
}

func (loader *kmlLoader) walkDocument(doc *kmlDocument) {
	for i := range doc.Documents {
		loader.walkDocument(&doc.Documents[i])
	}
	for i := range doc.Folders {
		loader.walkFolder(&doc.Folders[i])
	}
	for i := range doc.Placemarks {
		loader.processPlacemark(&doc.Placemarks[i])
	}
}

func (loader *kmlLoader) walkFolder(folder *kmlFolder) {
	for i := range folder.Folders {
		loader.walkFolder(&folder.Folders[i])
	}
	for i := range folder.Placemarks {
		loader.processPlacemark(&folder.Placemarks[i])
	}
}

func (loader *kmlLoader) processPlacemark(pm *kmlPlacemark) {
	name := strings.TrimSpace(pm.Name)
	if name == "" {
		name = "Default Name"
	}
	for _, re := range loader.ignore {
		if re.MatchString(name) {
			return
		}
	}
	attributes := extractAttributes(pm.ExtendedData)

	if pm.Point != nil {
		if line := parseCoordinates(pm.Point.Coordinates); len(line) > 0 {
			loader.points = append(loader.points, RawPoint{Name: name, Geom: line[0], Attributes: attributes})
		}
	}
	if pm.LineString != nil {
		loader.addLine(name, []orb.LineString{parseCoordinates(pm.LineString.Coordinates)}, attributes)
	}
	if pm.MultiGeometry != nil {
		for _, point := range pm.MultiGeometry.Points {
			if line := parseCoordinates(point.Coordinates); len(line) > 0 {
				loader.points = append(loader.points, RawPoint{Name: name, Geom: line[0], Attributes: attributes})
			}
		}
		parts := make([]orb.LineString, 0, len(pm.MultiGeometry.LineStrings))
		for _, ls := range pm.MultiGeometry.LineStrings {
			parts = append(parts, parseCoordinates(ls.Coordinates))
		}
		if len(parts) > 0 {
			loader.addLine(name, parts, attributes)
		}
	}
}

func (loader *kmlLoader) addLine(name string, parts []orb.LineString, attributes map[string]string) {
	key := name + "|" + fmt.Sprintf("%v", parts)
	if loader.seenLines[key] {
		return
	}
	loader.seenLines[key] = true
	loader.lines = append(loader.lines, RawLine{Name: name, Parts: parts, Attributes: attributes})
}

func extractAttributes(extended *kmlExtendedData) map[string]string {
	attributes := map[string]string{}
	if extended == nil {
		return attributes
	}
	for _, data := range extended.Data {
		attributes[data.Name] = strings.TrimSpace(data.Value)
	}
	for _, schema := range extended.SchemaData {
		for _, simple := range schema.SimpleData {
			attributes[simple.Name] = strings.TrimSpace(simple.Value)
		}
	}
	return attributes
}

// parseCoordinates parses a KML coordinates block: whitespace-separated
// 'lon,lat[,elevation]' tuples. Malformed tuples are skipped.
func parseCoordinates(text string) orb.LineString {
	line := orb.LineString{}
	for _, token := range strings.Fields(text) {
		parts := strings.Split(token, ",")
		if len(parts) < 2 {
			continue
		}
		lon, errLon := strconv.ParseFloat(parts[0], 64)
		lat, errLat := strconv.ParseFloat(parts[1], 64)
		if errLon != nil || errLat != nil {
			continue
		}
		line = append(line, orb.Point{lon, lat})
	}
	return line
}
