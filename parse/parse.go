package parse

import (
	"io"

	"github.com/gocarina/gocsv"
	"github.com/spkg/bom"
)

// Data files are hand edited in spreadsheets, so expect sloppy
// quoting and the occasional BOM.
func useLazyCSVReader() {
	// LazyCSVReader required (at least) to survive sloppy use of
	// quotes. The BOM reader strips unicode BOMs if present.
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		return gocsv.LazyCSVReader(bom.NewReader(in))
	})
}
