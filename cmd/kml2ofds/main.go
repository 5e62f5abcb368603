package main

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/manypossibilities/kml2ofds"
)

var (
	profilePath = flag.String("profile", "", "Path to a TOML network profile. Flags below override profile values")
	kmlFileName = flag.String("file", "", "Filename of source *.kml file")
	out         = flag.String("out", "network.geojson", "Output filename base. E.g.: 'map.geojson' produces 'map_nodes.geojson' and 'map_spans.geojson'")
	networkName = flag.String("name", "", "Network name stamped onto every output feature")
	precision   = flag.Int("precision", -1, "Decimal places for node deduplication (required unless set in profile)")
	tolerance   = flag.Float64("tolerance", 0, "Snap tolerance in coordinate units (required unless set in profile)")
	format      = flag.String("format", "geojson", "Format of output. Expected values: geojson / csv / both")
	useRTree    = flag.Bool("rtree", false, "Index spans with an R-tree for the nearest-span search")
)

func main() {
	flag.Parse()
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "kml2ofds",
	})

	cfg := kml2ofds.Config{
		DedupPrecision: *precision,
		SnapTolerance:  *tolerance,
		NetworkName:    *networkName,
		UseRTreeIndex:  *useRTree,
	}
	kmlCfg := kml2ofds.KMLConfiguration{}
	fileName := *kmlFileName
	outName := *out

	if *profilePath != "" {
		profile, err := kml2ofds.LoadProfile(*profilePath)
		if err != nil {
			logger.Fatal("Can't load network profile", "error", err)
		}
		fromProfile := profile.Config()
		fromProfile.UseRTreeIndex = *useRTree
		if *precision >= 0 {
			fromProfile.DedupPrecision = *precision
		}
		if *tolerance > 0 {
			fromProfile.SnapTolerance = *tolerance
		}
		if *networkName != "" {
			fromProfile.NetworkName = *networkName
		}
		cfg = fromProfile
		kmlCfg.IgnorePlacemarks = profile.IgnorePlacemarks
		if fileName == "" {
			fileName = profile.KMLFileName
		}
		if profile.OutputNamePrefix != "" && *out == "network.geojson" {
			outName = profile.OutputNamePrefix + ".geojson"
		}
		if profile.OutputDirectory != "" && *out == "network.geojson" {
			if err := os.MkdirAll(profile.OutputDirectory, 0755); err != nil {
				logger.Fatal("Can't create output directory", "dir", profile.OutputDirectory, "error", err)
			}
			outName = filepath.Join(profile.OutputDirectory, outName)
		}
	}
	if fileName == "" {
		logger.Fatal("No input file. Set -file or kml_file_name in the profile")
	}

	st := time.Now()
	points, lines, err := kml2ofds.ImportFromKMLFile(fileName, &kmlCfg)
	if err != nil {
		logger.Fatal("Can't import KML", "file", fileName, "error", err)
	}
	logger.Info("Imported KML", "file", fileName, "points", len(points), "lines", len(lines), "elapsed", time.Since(st))

	st = time.Now()
	net, err := kml2ofds.BuildTopology(points, lines, cfg)
	if err != nil {
		logger.Fatal("Can't build topology", "error", err)
	}
	logger.Info("Built topology", "nodes", len(net.Nodes), "spans", len(net.Spans), "elapsed", time.Since(st))
	for _, warning := range net.Warnings {
		logger.Warn(warning.String())
	}

	switch strings.ToLower(*format) {
	case "geojson":
		err = net.ExportToGeoJSON(outName)
	case "csv":
		err = net.ExportToCSV(strings.Replace(outName, ".geojson", ".csv", 1))
	case "both":
		err = net.ExportToGeoJSON(outName)
		if err == nil {
			err = net.ExportToCSV(strings.Replace(outName, ".geojson", ".csv", 1))
		}
	default:
		logger.Fatal("Unknown output format", "format", *format)
	}
	if err != nil {
		logger.Fatal("Can't export network", "error", err)
	}
	logger.Info("Complete", "out", outName)
}
