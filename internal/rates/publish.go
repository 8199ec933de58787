package rates

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// PublishRequest describes a new build to stage into a polled directory.
type PublishRequest struct {
	Dir        string
	MarkerName string
	// BuildID is generated when empty.
	BuildID string
	// DataName defaults to "rates-<BuildID>.json".
	DataName string
	Data     []byte
}

type markerDoc struct {
	BuildID  string `json:"buildID"`
	FileName string `json:"FileName"`
}

// Publish validates req.Data, writes it as the data file and then rewrites
// the marker to point at it. Both writes are atomic renames, and the data
// file lands before the marker, so a concurrent poller sees either the old
// build or the complete new one.
func Publish(req PublishRequest) (Marker, error) {
	const op = "rates.Publish"

	if req.Dir == "" || req.MarkerName == "" {
		return Marker{}, errors.Errorf("%s: directory and marker name are required", op)
	}
	if _, err := ParseRateTable(req.Data); err != nil {
		return Marker{}, errors.Wrap(err, op)
	}

	buildID := strings.TrimSpace(req.BuildID)
	if buildID == "" {
		buildID = uuid.NewString()
	}
	dataName := req.DataName
	if dataName == "" {
		dataName = "rates-" + buildID + ".json"
	}
	if filepath.Base(dataName) != dataName || dataName == req.MarkerName {
		return Marker{}, errors.Errorf("%s: invalid data file name %q", op, dataName)
	}

	if err := writeBytesAtomically(filepath.Join(req.Dir, dataName), req.Data); err != nil {
		return Marker{}, errors.Wrapf(err, "%s: write data file", op)
	}

	doc, err := json.Marshal(markerDoc{BuildID: buildID, FileName: dataName})
	if err != nil {
		return Marker{}, errors.Wrap(err, op)
	}
	if err := writeBytesAtomically(filepath.Join(req.Dir, req.MarkerName), doc); err != nil {
		return Marker{}, errors.Wrapf(err, "%s: write marker", op)
	}

	return Marker{BuildID: buildID, FileName: dataName, HasFileName: true}, nil
}
