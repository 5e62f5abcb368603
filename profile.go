package kml2ofds

import (
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Profile is a per-network conversion profile loaded from a TOML file.
// It bundles the source file, the network identity stamped onto output
// features and the pipeline tuning for that particular operator's map.
type Profile struct {
	KMLFileName      string        `toml:"kml_file_name"`
	NetworkName      string        `toml:"network_name"`
	NetworkID        string        `toml:"network_id"`
	NetworkLinks     []NetworkLink `toml:"network_links"`
	IgnorePlacemarks []string      `toml:"ignore_placemarks"`
	OutputNamePrefix string        `toml:"output_name_prefix"`
	OutputDirectory  string        `toml:"output_directory"`
	DedupPrecision   int           `toml:"dedup_precision"`
	SnapTolerance    float64       `toml:"snap_tolerance"`
}

// LoadProfile reads a network profile from a TOML file
func LoadProfile(fileName string) (*Profile, error) {
	profile := Profile{}
	_, err := toml.DecodeFile(fileName, &profile)
	if err != nil {
		return nil, errors.Wrap(err, "Can't read network profile")
	}
	if profile.KMLFileName == "" {
		return nil, errors.New("network profile must set kml_file_name")
	}
	return &profile, nil
}

// Config derives the pipeline configuration from the profile
func (profile *Profile) Config() Config {
	return Config{
		DedupPrecision: profile.DedupPrecision,
		SnapTolerance:  profile.SnapTolerance,
		NetworkID:      profile.NetworkID,
		NetworkName:    profile.NetworkName,
		Links:          profile.NetworkLinks,
	}
}
