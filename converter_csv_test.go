package kml2ofds

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb/encoding/wkt"
)

func readCSVFile(t *testing.T, fname string) [][]string {
	t.Helper()
	file, err := os.Open(fname)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	reader := csv.NewReader(file)
	reader.Comma = ';'
	records, err := reader.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return records
}

func TestExportNodesToCSV(t *testing.T) {
	net := buildScenarioNetwork(t)
	dir := t.TempDir()
	if err := net.ExportToCSV(filepath.Join(dir, "net.csv")); err != nil {
		t.Error(err)
		return
	}
	records := readCSVFile(t, filepath.Join(dir, "net_nodes.csv"))
	if len(records) != len(net.Nodes)+1 {
		t.Errorf("Should be %d rows including header, but got %d", len(net.Nodes)+1, len(records))
		return
	}
	header := []string{"id", "name", "network_id", "unresolved", "geom"}
	for i := range header {
		if records[0][i] != header[i] {
			t.Errorf("Header column %d should be '%s', but got '%s'", i, header[i], records[0][i])
		}
	}
	for i, row := range records[1:] {
		node := net.Nodes[i]
		if row[0] != string(node.ID) {
			t.Errorf("Row %d id should be '%s', but got '%s'", i, node.ID, row[0])
		}
		if row[2] != net.ID {
			t.Errorf("Row %d should carry network id '%s', but got '%s'", i, net.ID, row[2])
		}
		pt, err := wkt.UnmarshalPoint(row[4])
		if err != nil {
			t.Errorf("Row %d geom should be WKT point, but got '%s'", i, row[4])
			continue
		}
		if pt != node.Geom {
			t.Errorf("Row %d geom should round-trip %v, but got %v", i, node.Geom, pt)
		}
	}
}

func TestExportSpansToCSV(t *testing.T) {
	net := buildScenarioNetwork(t)
	dir := t.TempDir()
	if err := net.ExportToCSV(filepath.Join(dir, "net.csv")); err != nil {
		t.Error(err)
		return
	}
	records := readCSVFile(t, filepath.Join(dir, "net_spans.csv"))
	if len(records) != len(net.Spans)+1 {
		t.Errorf("Should be %d rows including header, but got %d", len(net.Spans)+1, len(records))
		return
	}
	header := []string{"id", "name", "start_node", "end_node", "network_id", "length_meters", "geom"}
	for i := range header {
		if records[0][i] != header[i] {
			t.Errorf("Header column %d should be '%s', but got '%s'", i, header[i], records[0][i])
		}
	}
	for i, row := range records[1:] {
		span := net.Spans[i]
		if row[0] != string(span.ID) || row[2] != string(span.StartNodeID) || row[3] != string(span.EndNodeID) {
			t.Errorf("Row %d should reference span '%s' and its endpoint nodes", i, span.ID)
		}
		line, err := wkt.UnmarshalLineString(row[6])
		if err != nil {
			t.Errorf("Row %d geom should be WKT linestring, but got '%s'", i, row[6])
			continue
		}
		if len(line) != len(span.Geom) {
			t.Errorf("Row %d geom should have %d points, but got %d", i, len(span.Geom), len(line))
			continue
		}
		if line[0] != span.Geom[0] || line[len(line)-1] != span.Geom[len(span.Geom)-1] {
			t.Errorf("Row %d geom should round-trip %v, but got %v", i, span.Geom, line)
		}
	}
}
