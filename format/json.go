package format

import (
	"encoding/json"
	"fmt"
	"io"

	"tresjolie.dev/transit/model"
	"tresjolie.dev/transit/parse"
)

// Writes the stops and lines document read by parse.ParseDataset.
// Unknown directions are left out.
func WriteDataset(w io.Writer, dataset *model.Dataset) error {
	doc := parse.DatasetJSON{
		Stops: make([]parse.StopJSON, 0, len(dataset.Stops)),
		Lines: make([]parse.LineJSON, 0, len(dataset.Lines)),
	}

	for _, s := range dataset.Stops {
		s := s.Clone()
		lines := s.Lines
		if lines == nil {
			lines = []string{}
		}
		doc.Stops = append(doc.Stops, parse.StopJSON{
			Code:         &s.Code,
			Name:         &s.Name,
			Latitude:     &s.Lat,
			Longitude:    &s.Lon,
			Direction:    s.Direction,
			Lines:        lines,
			Municipality: &s.Municipality,
			Zone:         &s.Zone,
		})
	}
	for _, l := range dataset.Lines {
		doc.Lines = append(doc.Lines, parse.LineJSON{Name: l.Name, Description: l.Description})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding dataset: %w", err)
	}
	return nil
}
