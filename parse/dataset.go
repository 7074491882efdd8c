package parse

import (
	"encoding/json"
	"fmt"
	"io"

	"tresjolie.dev/transit/model"
	"tresjolie.dev/transit/reconcile"
)

// The stops and lines JSON document. Optional values are pointers so
// absent fields can be detected.
type DatasetJSON struct {
	Stops []StopJSON `json:"stops"`
	Lines []LineJSON `json:"lines"`
}

type StopJSON struct {
	Code         *string  `json:"code"`
	Name         *string  `json:"name"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	Direction    *string  `json:"direction,omitempty"`
	Lines        []string `json:"lines"`
	Municipality *string  `json:"municipality"`
	Zone         *string  `json:"zone"`
}

type LineJSON struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Parses a stops and lines document. The set name is used in errors
// about individual stops.
func ParseDataset(set string, data io.Reader) (*model.Dataset, error) {
	doc := DatasetJSON{}
	if err := json.NewDecoder(data).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding dataset: %w", err)
	}

	dataset := &model.Dataset{
		Stops: make([]model.Stop, 0, len(doc.Stops)),
		Lines: make([]model.Line, 0, len(doc.Lines)),
	}

	for i, s := range doc.Stops {
		stop, err := s.toStop(set, i)
		if err != nil {
			return nil, err
		}
		dataset.Stops = append(dataset.Stops, stop)
	}

	for i, l := range doc.Lines {
		if l.Name == "" {
			return nil, fmt.Errorf("line %d has no name", i)
		}
		dataset.Lines = append(dataset.Lines, model.Line{Name: l.Name, Description: l.Description})
	}

	return dataset, nil
}

func (s StopJSON) toStop(set string, i int) (model.Stop, error) {
	code := ""
	if s.Code != nil {
		code = *s.Code
	}

	missing := func(field string) error {
		return &reconcile.MissingFieldError{Set: set, Index: i, Code: code, Field: field}
	}

	switch {
	case code == "":
		return model.Stop{}, missing("code")
	case s.Name == nil || *s.Name == "":
		return model.Stop{}, missing("name")
	case s.Latitude == nil:
		return model.Stop{}, missing("latitude")
	case s.Longitude == nil:
		return model.Stop{}, missing("longitude")
	}

	stop := model.Stop{
		Code:  code,
		Name:  *s.Name,
		Lat:   *s.Latitude,
		Lon:   *s.Longitude,
		Lines: append([]string{}, s.Lines...),
	}
	if s.Direction != nil {
		stop.Direction = model.Dir(*s.Direction)
	}
	if s.Municipality != nil {
		stop.Municipality = *s.Municipality
	}
	if s.Zone != nil {
		stop.Zone = *s.Zone
	}

	return stop, nil
}
