package parse

import (
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
)

// A row of a headerless two column override file, e.g.
// stop_directions.csv or stop_munis.csv: stop code, then value.
type OverrideCSV struct {
	Code  string `csv:"code"`
	Value string `csv:"value"`
}

// Parses an override file into a map from stop code to value. A code
// repeated with a different value is an error.
func ParseOverrides(data io.Reader) (map[string]string, error) {
	useLazyCSVReader()

	rows := []*OverrideCSV{}
	if err := gocsv.UnmarshalWithoutHeaders(data, &rows); err != nil {
		return nil, fmt.Errorf("unmarshaling overrides csv: %w", err)
	}

	overrides := make(map[string]string, len(rows))
	for i, row := range rows {
		code := strings.TrimSpace(row.Code)
		if code == "" {
			return nil, fmt.Errorf("empty stop code (row %d)", i+1)
		}
		if prev, found := overrides[code]; found && prev != row.Value {
			return nil, fmt.Errorf("conflicting values for stop code '%s' (row %d)", code, i+1)
		}
		overrides[code] = row.Value
	}

	return overrides, nil
}
