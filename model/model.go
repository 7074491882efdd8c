package model

import (
	"fmt"
	"strings"
)

// Holds all external facing types and constants.

// A transit stop, keyed by Code.
//
// Code looks numeric but is kept as a string so leading zeros
// survive. A nil Direction means the running direction is unknown,
// which is different from a blank one.
type Stop struct {
	Code         string
	Name         string
	Lat          float64
	Lon          float64
	Direction    *string
	Lines        []string
	Municipality string
	Zone         string
}

// Structural equality. Lines are compared in order.
func (s Stop) Equal(other Stop) bool {
	if s.Code != other.Code ||
		s.Name != other.Name ||
		s.Lat != other.Lat ||
		s.Lon != other.Lon ||
		s.Municipality != other.Municipality ||
		s.Zone != other.Zone {
		return false
	}
	if !equalDirection(s.Direction, other.Direction) {
		return false
	}
	return equalLines(s.Lines, other.Lines)
}

// Returns a deep copy of the stop.
func (s Stop) Clone() Stop {
	c := s
	if s.Direction != nil {
		dir := *s.Direction
		c.Direction = &dir
	}
	if s.Lines != nil {
		c.Lines = append([]string{}, s.Lines...)
	}
	return c
}

// Value of the given field, rendered as a string. Direction renders
// as "" when unknown, Lines as a space separated list.
func (s Stop) Value(f Field) string {
	switch f {
	case FieldName:
		return s.Name
	case FieldLat:
		return fmt.Sprintf("%g", s.Lat)
	case FieldLon:
		return fmt.Sprintf("%g", s.Lon)
	case FieldDirection:
		if s.Direction == nil {
			return ""
		}
		return *s.Direction
	case FieldLines:
		return strings.Join(s.Lines, " ")
	case FieldMunicipality:
		return s.Municipality
	case FieldZone:
		return s.Zone
	}
	return ""
}

func (s Stop) String() string {
	return fmt.Sprintf("Stop: code=%s name=%q latitude=%.5f longitude=%.5f", s.Code, s.Name, s.Lat, s.Lon)
}

func equalDirection(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Convenience for building optional directions.
func Dir(s string) *string {
	return &s
}

// A transit line, keyed by Name.
type Line struct {
	Name        string
	Description string
}

// Stops and lines as collected from the Journeys API.
type Dataset struct {
	Stops []Stop
	Lines []Line
}

// The Stop fields that take part in reconciliation. Code is the key
// and is never diffed.
type Field int

const (
	FieldName Field = iota
	FieldLat
	FieldLon
	FieldDirection
	FieldLines
	FieldMunicipality
	FieldZone
)

// All diffable fields, in record order.
var AllFields = []Field{
	FieldName,
	FieldLat,
	FieldLon,
	FieldDirection,
	FieldLines,
	FieldMunicipality,
	FieldZone,
}

var fieldNames = map[Field]string{
	FieldName:         "name",
	FieldLat:          "latitude",
	FieldLon:          "longitude",
	FieldDirection:    "direction",
	FieldLines:        "lines",
	FieldMunicipality: "municipality",
	FieldZone:         "zone",
}

func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// Parses a field name as printed by Field.String(). A few short
// aliases used by the older data files are accepted too.
func ParseField(name string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "name":
		return FieldName, nil
	case "latitude", "lat":
		return FieldLat, nil
	case "longitude", "lon":
		return FieldLon, nil
	case "direction", "dir":
		return FieldDirection, nil
	case "lines":
		return FieldLines, nil
	case "municipality", "muni":
		return FieldMunicipality, nil
	case "zone":
		return FieldZone, nil
	}
	return 0, fmt.Errorf("unknown field '%s'", name)
}
