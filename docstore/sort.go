package docstore

import (
	"sort"

	"tresjolie.dev/transit/model"
)

func sortStops(stops []model.Stop) {
	sort.Slice(stops, func(i, j int) bool {
		return stops[i].Code < stops[j].Code
	})
}
