package model

import (
	"strconv"
	"strings"
	"time"
)

// Filter narrows a resolution run to matching properties. Zero values mean
// "no constraint". The database adapter pushes these into its query; the
// other adapters apply them post-fetch via Matches.
type Filter struct {
	PropertyType string     `json:"property_type,omitempty"`
	City         string     `json:"city,omitempty"`
	MinSize      int        `json:"min_size,omitempty"`
	MaxSize      int        `json:"max_size,omitempty"`
	UpdatedAfter *time.Time `json:"updated_after,omitempty"`
}

// IsZero reports whether the filter constrains nothing.
func (f Filter) IsZero() bool {
	return f.PropertyType == "" && f.City == "" && f.MinSize == 0 && f.MaxSize == 0 && f.UpdatedAfter == nil
}

// Matches reports whether a normalized record satisfies the filter.
// Size is read from the record's attributes; records without a parseable
// size pass the size constraints.
func (f Filter) Matches(r Record) bool {
	if f.PropertyType != "" && !strings.EqualFold(r.Attributes["property_type"], f.PropertyType) {
		return false
	}
	if f.City != "" && !strings.EqualFold(r.City, f.City) {
		return false
	}
	if f.MinSize > 0 || f.MaxSize > 0 {
		if size, err := strconv.Atoi(r.Attributes["size_sqm"]); err == nil {
			if f.MinSize > 0 && size < f.MinSize {
				return false
			}
			if f.MaxSize > 0 && size > f.MaxSize {
				return false
			}
		}
	}
	return true
}

// Apply returns the subset of records satisfying the filter, preserving order.
func (f Filter) Apply(records []Record) []Record {
	if f.IsZero() {
		return records
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}
