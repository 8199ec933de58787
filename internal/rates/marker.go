package rates

import (
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

const (
	// BuildIDField is the marker field holding the version identifier.
	BuildIDField = "buildID"
	// FileNameField is the marker field naming the companion data file.
	FileNameField = "FileName"
)

// DefaultBuildID is the sentinel version used when no build ID is known.
const DefaultBuildID = ""

// Marker is the parsed content of a build marker file.
type Marker struct {
	BuildID     string
	FileName    string
	HasFileName bool
}

// ParseMarker extracts the build ID and optional data filename from a marker
// document. Missing fields are not errors; only invalid JSON is.
func ParseMarker(raw []byte) (Marker, error) {
	const op = "rates.ParseMarker"

	if !gjson.ValidBytes(raw) {
		return Marker{}, errors.Wrap(ErrMalformedMarker, op)
	}

	m := Marker{BuildID: DefaultBuildID}
	if v := gjson.GetBytes(raw, BuildIDField); v.Type == gjson.String {
		m.BuildID = v.Str
	}
	if v := gjson.GetBytes(raw, FileNameField); v.Type == gjson.String && v.Str != "" {
		m.FileName = v.Str
		m.HasFileName = true
	}
	return m, nil
}

// ReadMarker locates dir/name and parses it as a build marker.
func ReadMarker(loc Locator, dir, name string) (Marker, error) {
	const op = "rates.ReadMarker"

	raw, err := loc.ReadAll(dir, name)
	if err != nil {
		return Marker{}, errors.Wrap(err, op)
	}
	m, err := ParseMarker(raw)
	if err != nil {
		return Marker{}, errors.Wrap(err, op)
	}
	return m, nil
}
