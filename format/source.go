package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"tresjolie.dev/transit/model"
)

// Flavors of generated stop listings.
type Flavor string

const (
	FlavorCSV    Flavor = "csv"
	FlavorJava   Flavor = "java"
	FlavorCSharp Flavor = "csharp"
	FlavorObjC   Flavor = "objc"
	FlavorSQL    Flavor = "sql"
)

var Flavors = []Flavor{FlavorCSV, FlavorJava, FlavorCSharp, FlavorObjC, FlavorSQL}

func ParseFlavor(s string) (Flavor, error) {
	for _, f := range Flavors {
		if string(f) == strings.ToLower(s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown source flavor '%s'", s)
}

// Arguments, in order: id, code, name, latitude, longitude, direction,
// lines, municipality, zone.
var sourceTemplates = map[Flavor]string{
	FlavorJava:   `stops.add(new Stop(%d, "%s", "%s", %s, %s, "%s", "%s", "%s", "%s"));`,
	FlavorCSharp: `stopsDb.Stops.InsertOnSubmit(new Stop() { ID = %d, Code = "%s", Name = "%s", Latitude = %s, Longitude = %s, Direction = "%s", Lines = "%s", Municipality = "%s", Zone = "%s" });`,
	FlavorObjC:   `[[BMStop alloc] initWithDictionary:@{ @"stopID": @(%d), @"stopCode": @"%s", @"stopName": @"%s", @"stopLatitude": @(%s), @"stopLongitude": @(%s), @"stopDirection": @"%s", @"stopLines": @"%s", @"stopMuni": @"%s", @"stopZone": @"%s" }],`,
	FlavorSQL:    `INSERT INTO stops_tre VALUES (%d, "%s", "%s", %s, %s, "%s", "%s", "%s", "%s");`,
}

// Headerless row of the csv flavor.
type sourceCSV struct {
	ID           int    `csv:"stop_id"`
	Code         string `csv:"stop_code"`
	Name         string `csv:"stop_name"`
	Lat          string `csv:"stop_lat"`
	Lon          string `csv:"stop_lon"`
	Direction    string `csv:"stop_dir"`
	Lines        string `csv:"stop_lines"`
	Municipality string `csv:"stop_muni"`
	Zone         string `csv:"stop_zone"`
}

// Writes one line of source per stop. The numeric value of the stop
// code is used as id, so codes must be numeric.
func WriteSource(w io.Writer, flavor Flavor, stops []model.Stop) error {
	if flavor == FlavorCSV {
		return writeSourceCSV(w, stops)
	}

	tmpl, found := sourceTemplates[flavor]
	if !found {
		return fmt.Errorf("unknown source flavor '%s'", flavor)
	}
	quote := quoteBackslash
	if flavor == FlavorSQL {
		quote = quoteDouble
	}

	for _, s := range stops {
		id, err := stopID(s)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, tmpl+"\n",
			id,
			quote(s.Code),
			quote(s.Name),
			formatCoord(s.Lat),
			formatCoord(s.Lon),
			quote(s.Value(model.FieldDirection)),
			quote(s.Value(model.FieldLines)),
			quote(s.Municipality),
			quote(s.Zone))
		if err != nil {
			return err
		}
	}

	return nil
}

func writeSourceCSV(w io.Writer, stops []model.Stop) error {
	rows := make([]*sourceCSV, 0, len(stops))
	for _, s := range stops {
		id, err := stopID(s)
		if err != nil {
			return err
		}
		rows = append(rows, &sourceCSV{
			ID:           id,
			Code:         s.Code,
			Name:         s.Name,
			Lat:          strconv.FormatFloat(s.Lat, 'f', 5, 64),
			Lon:          strconv.FormatFloat(s.Lon, 'f', 5, 64),
			Direction:    s.Value(model.FieldDirection),
			Lines:        s.Value(model.FieldLines),
			Municipality: s.Municipality,
			Zone:         s.Zone,
		})
	}

	if err := gocsv.MarshalWithoutHeaders(rows, w); err != nil {
		return fmt.Errorf("marshaling stops: %w", err)
	}
	return nil
}

func stopID(s model.Stop) (int, error) {
	id, err := strconv.Atoi(s.Code)
	if err != nil {
		return 0, fmt.Errorf("stop code '%s' is not numeric", s.Code)
	}
	return id, nil
}

func quoteBackslash(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

func quoteDouble(s string) string {
	return strings.ReplaceAll(s, `"`, `""`)
}
