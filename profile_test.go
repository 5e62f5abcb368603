package kml2ofds

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleProfile = `
kml_file_name = "acme_fibre.kml"
network_name = "Acme Fibre"
network_id = "acme-1"
ignore_placemarks = ["^Test ", "DELETED$"]
output_name_prefix = "acme"
output_directory = "output"
dedup_precision = 4
snap_tolerance = 0.0001

[[network_links]]
rel = "describedby"
href = "https://example.com/network-schema.json"
`

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.toml")
	if err := os.WriteFile(path, []byte(sampleProfile), 0644); err != nil {
		t.Fatal(err)
	}
	profile, err := LoadProfile(path)
	if err != nil {
		t.Error(err)
		return
	}
	if profile.KMLFileName != "acme_fibre.kml" {
		t.Errorf("KML file name should be 'acme_fibre.kml', but got '%s'", profile.KMLFileName)
	}
	if len(profile.IgnorePlacemarks) != 2 {
		t.Errorf("Should be 2 ignore patterns, but got %d", len(profile.IgnorePlacemarks))
	}
	if profile.OutputNamePrefix != "acme" || profile.OutputDirectory != "output" {
		t.Errorf("Output location should be 'output'/'acme', but got '%s'/'%s'", profile.OutputDirectory, profile.OutputNamePrefix)
	}
	cfg := profile.Config()
	if cfg.DedupPrecision != 4 || cfg.SnapTolerance != 0.0001 {
		t.Errorf("Config should carry precision 4 and tolerance 0.0001, but got %d and %f", cfg.DedupPrecision, cfg.SnapTolerance)
	}
	if cfg.NetworkID != "acme-1" || cfg.NetworkName != "Acme Fibre" {
		t.Errorf("Config should carry the network identity, but got '%s'/'%s'", cfg.NetworkID, cfg.NetworkName)
	}
	if len(cfg.Links) != 1 || cfg.Links[0].Href != "https://example.com/network-schema.json" {
		t.Errorf("Config should carry the network links, but got %v", cfg.Links)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Profile-derived config should validate, but got %v", err)
	}
}

func TestLoadProfileRequiresKMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.toml")
	if err := os.WriteFile(path, []byte("network_name = \"X\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadProfile(path); err == nil {
		t.Error("Profile without kml_file_name should fail")
	}
}
