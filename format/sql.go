package format

import (
	"fmt"
	"io"
	"strings"

	"tresjolie.dev/transit/model"
)

const DefaultTable = "stops_tre"

// Columns: stop_id, stop_code, stop_name, stop_latitude,
// stop_longitude, stop_dir, stop_lines, stop_muni, stop_zone.
const sqlTemplate = "INSERT INTO %s VALUES (%d, '%s', '%s', %s, %s, '%s', '%s', '%s', '%s');\n"

// Writes an INSERT statement per stop into the given table.
func WriteSQL(w io.Writer, table string, stops []model.Stop) error {
	if table == "" {
		table = DefaultTable
	}

	for _, s := range stops {
		id, err := stopID(s)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, sqlTemplate,
			table,
			id,
			sqlQuote(s.Code),
			sqlQuote(s.Name),
			formatCoord(s.Lat),
			formatCoord(s.Lon),
			sqlQuote(s.Value(model.FieldDirection)),
			sqlQuote(s.Value(model.FieldLines)),
			sqlQuote(s.Municipality),
			sqlQuote(s.Zone))
		if err != nil {
			return err
		}
	}

	return nil
}

func sqlQuote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
