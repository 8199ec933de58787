package rates

import "github.com/pkg/errors"

// Payload is a loaded data file: the raw bytes as read and the table parsed
// from them.
type Payload struct {
	FileName string
	Raw      []byte
	Table    RateTable
}

// Loader reads rate data files through a Locator.
type Loader struct {
	loc Locator
}

// NewLoader returns a Loader reading through loc.
func NewLoader(loc Locator) *Loader {
	return &Loader{loc: loc}
}

// Load reads dir/name and parses it as a rate table. It fails with
// ErrNotFound or ErrMalformedData.
func (l *Loader) Load(dir, name string) (Payload, error) {
	const op = "rates.Loader.Load"

	raw, err := l.loc.ReadAll(dir, name)
	if err != nil {
		return Payload{}, errors.Wrap(err, op)
	}
	table, err := ParseRateTable(raw)
	if err != nil {
		return Payload{}, errors.Wrapf(err, "%s: %s", op, name)
	}
	return Payload{FileName: name, Raw: raw, Table: table}, nil
}
