package kml2ofds

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/paulmach/orb/encoding/wkt"
	"github.com/pkg/errors"
)

// ExportToCSV writes the topology as two semicolon-separated CSV files with a
// WKT geometry column: '<name>_nodes.csv' and '<name>_spans.csv'. Intended
// for eyeballing a run in a spreadsheet or GIS tool rather than for exchange.
func (net *Network) ExportToCSV(fname string) error {
	fnameParts := strings.Split(fname, ".csv")
	fnameNodes := fnameParts[0] + "_nodes.csv"
	fnameSpans := fnameParts[0] + "_spans.csv"

	err := net.exportNodesToCSV(fnameNodes)
	if err != nil {
		return errors.Wrap(err, "Can't export nodes")
	}
	err = net.exportSpansToCSV(fnameSpans)
	if err != nil {
		return errors.Wrap(err, "Can't export spans")
	}
	return nil
}

func (net *Network) exportNodesToCSV(fname string) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()
	writer.Comma = ';'

	err = writer.Write([]string{"id", "name", "network_id", "unresolved", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}
	for _, node := range net.Nodes {
		err = writer.Write([]string{
			string(node.ID),
			node.Name,
			net.ID,
			fmt.Sprintf("%t", node.Unresolved),
			wkt.MarshalString(node.Geom),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write node")
		}
	}
	return nil
}

func (net *Network) exportSpansToCSV(fname string) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()
	writer.Comma = ';'

	err = writer.Write([]string{"id", "name", "start_node", "end_node", "network_id", "length_meters", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}
	for _, span := range net.Spans {
		err = writer.Write([]string{
			string(span.ID),
			span.Name,
			string(span.StartNodeID),
			string(span.EndNodeID),
			net.ID,
			fmt.Sprintf("%f", span.LengthMeters),
			wkt.MarshalString(span.Geom),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write span")
		}
	}
	return nil
}
