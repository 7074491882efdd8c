package parse

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"tresjolie.dev/transit/model"
)

type LineCSV struct {
	Name        string `csv:"line_name"`
	Description string `csv:"line_desc"`
}

func ParseLinesCSV(data io.Reader) ([]model.Line, error) {
	useLazyCSVReader()

	lineCsv := []*LineCSV{}
	if err := gocsv.Unmarshal(data, &lineCsv); err != nil {
		return nil, fmt.Errorf("unmarshaling lines csv: %w", err)
	}

	seen := map[string]bool{}
	lines := make([]model.Line, 0, len(lineCsv))
	for i, l := range lineCsv {
		if l.Name == "" {
			return nil, fmt.Errorf("empty line_name (row %d)", i+1)
		}
		if seen[l.Name] {
			return nil, fmt.Errorf("repeated line_name '%s'", l.Name)
		}
		seen[l.Name] = true

		lines = append(lines, model.Line{Name: l.Name, Description: l.Description})
	}

	return lines, nil
}
