package rates

import (
	"encoding/json"
	"math"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// EmptyTableJSON is the canonical rendering of an empty rate table.
const EmptyTableJSON = "{}"

// RateTable maps a currency pair key such as "CAD_USD" to its rate.
type RateTable map[string]float64

// Clone returns an independent copy of t.
func (t RateTable) Clone() RateTable {
	out := make(RateTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// JSON renders t canonically: keys sorted, "{}" when empty.
func (t RateTable) JSON() (string, error) {
	if len(t) == 0 {
		return EmptyTableJSON, nil
	}
	b, err := json.Marshal(map[string]float64(t))
	if err != nil {
		return "", errors.Wrap(err, "rates.RateTable.JSON")
	}
	return string(b), nil
}

// ParseRateTable parses raw as a flat JSON object whose values are all
// finite numbers. Anything else yields ErrMalformedData.
func ParseRateTable(raw []byte) (RateTable, error) {
	const op = "rates.ParseRateTable"

	if !gjson.ValidBytes(raw) {
		return nil, errors.Wrapf(ErrMalformedData, "%s: invalid json", op)
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return nil, errors.Wrapf(ErrMalformedData, "%s: not an object", op)
	}

	table := make(RateTable)
	var bad error
	doc.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.Number {
			bad = errors.Wrapf(ErrMalformedData, "%s: value for %q is not a number", op, key.String())
			return false
		}
		f := value.Float()
		if math.IsInf(f, 0) || math.IsNaN(f) {
			bad = errors.Wrapf(ErrMalformedData, "%s: value for %q is out of range", op, key.String())
			return false
		}
		table[key.String()] = f
		return true
	})
	if bad != nil {
		return nil, bad
	}
	return table, nil
}
