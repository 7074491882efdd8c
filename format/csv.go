// Package format writes stops and lines out as CSV, JSON, SQL and
// source code snippets, and renders reconciliation reports.
package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"tresjolie.dev/transit/model"
	"tresjolie.dev/transit/parse"
)

// Writes stops.csv with a header. The output reads back with
// parse.ParseStopsCSV.
func WriteStopsCSV(w io.Writer, stops []model.Stop) error {
	rows := make([]*parse.StopCSV, 0, len(stops))
	for _, s := range stops {
		row := &parse.StopCSV{
			Code:         s.Code,
			Name:         s.Name,
			Lat:          formatCoord(s.Lat),
			Lon:          formatCoord(s.Lon),
			Lines:        strings.Join(s.Lines, " "),
			Municipality: s.Municipality,
			Zone:         s.Zone,
		}
		if s.Direction != nil {
			row.Direction = *s.Direction
		}
		rows = append(rows, row)
	}

	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("marshaling stops csv: %w", err)
	}
	return nil
}

// Writes lines.csv with a header.
func WriteLinesCSV(w io.Writer, lines []model.Line) error {
	rows := make([]*parse.LineCSV, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, &parse.LineCSV{Name: l.Name, Description: l.Description})
	}

	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("marshaling lines csv: %w", err)
	}
	return nil
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
