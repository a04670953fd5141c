package model

import (
	"sort"
	"strconv"
)

// SizeStats aggregates the size_sqm attribute for one grouping bucket.
type SizeStats struct {
	Count     int `json:"count"`
	TotalSqm  int `json:"total_sqm"`
	MinSqm    int `json:"min_sqm"`
	MaxSqm    int `json:"max_sqm"`
	AvgSqm    int `json:"avg_sqm"`
	WithCoord int `json:"with_coordinates"`
}

// Summary holds the aggregations shown in the analytics view and written
// to the summary report workbook.
type Summary struct {
	Total           int                  `json:"total"`
	WithCoordinates int                  `json:"with_coordinates"`
	ByPropertyType  map[string]SizeStats `json:"by_property_type"`
	ByCity          map[string]SizeStats `json:"by_city"`
}

// Summarize computes the dataset aggregations grouped by property type
// and city.
func (d *Dataset) Summarize() Summary {
	s := Summary{
		Total:          len(d.Records),
		ByPropertyType: make(map[string]SizeStats),
		ByCity:         make(map[string]SizeStats),
	}
	for i := range d.Records {
		r := &d.Records[i]
		if r.HasCoordinates() {
			s.WithCoordinates++
		}
		size, _ := strconv.Atoi(r.Attributes["size_sqm"])

		ptype := r.Attributes["property_type"]
		if ptype == "" {
			ptype = "Unknown"
		}
		s.ByPropertyType[ptype] = accumulate(s.ByPropertyType[ptype], size, r.HasCoordinates())

		city := r.City
		if city == "" {
			city = "Unknown"
		}
		s.ByCity[city] = accumulate(s.ByCity[city], size, r.HasCoordinates())
	}
	return s
}

func accumulate(st SizeStats, size int, hasCoord bool) SizeStats {
	if st.Count == 0 || size < st.MinSqm {
		st.MinSqm = size
	}
	if size > st.MaxSqm {
		st.MaxSqm = size
	}
	st.Count++
	st.TotalSqm += size
	st.AvgSqm = st.TotalSqm / st.Count
	if hasCoord {
		st.WithCoord++
	}
	return st
}

// SortedKeys returns map keys in stable alphabetical order for
// deterministic report output.
func SortedKeys(m map[string]SizeStats) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
