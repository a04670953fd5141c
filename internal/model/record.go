// Package model defines the unified property record schema shared by all
// data sources.
package model

import (
	"time"

	"github.com/rotisserie/eris"
)

// Source identifies which origin produced a record or dataset.
type Source int

const (
	// SourceDatabase is the primary relational store.
	SourceDatabase Source = iota + 1
	// SourceScraped is the public listings website.
	SourceScraped
	// SourceSynthetic is the seeded sample generator.
	SourceSynthetic
)

// String returns the human-readable source name.
func (s Source) String() string {
	switch s {
	case SourceDatabase:
		return "database"
	case SourceScraped:
		return "scraped"
	case SourceSynthetic:
		return "synthetic"
	default:
		return "unknown"
	}
}

// ParseSource converts a string into a Source.
func ParseSource(s string) (Source, error) {
	switch s {
	case "database":
		return SourceDatabase, nil
	case "scraped":
		return SourceScraped, nil
	case "synthetic":
		return SourceSynthetic, nil
	default:
		return 0, eris.Errorf("unknown source: %q (valid: database, scraped, synthetic)", s)
	}
}

// MarshalJSON encodes the source as its string name.
func (s Source) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON decodes a source from its string name.
func (s *Source) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}
	parsed, err := ParseSource(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Record is one property with a unified schema regardless of origin.
// Latitude and Longitude are either both set or both nil; once set they
// are never changed.
type Record struct {
	ID         string            `json:"id"`
	Name       string            `json:"name,omitempty"`
	Address    string            `json:"address"`
	City       string            `json:"city,omitempty"`
	Country    string            `json:"country,omitempty"`
	PostalCode string            `json:"postal_code,omitempty"`
	Latitude   *float64          `json:"latitude,omitempty"`
	Longitude  *float64          `json:"longitude,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Source     Source            `json:"source"`

	// EnrichFailed marks records whose coordinate lookup was attempted
	// and missed. They remain in the dataset without coordinates.
	EnrichFailed bool `json:"enrich_failed,omitempty"`
}

// HasCoordinates reports whether the coordinate pair is set.
func (r *Record) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// SetCoordinates sets the coordinate pair. It is a no-op when the pair is
// already set: coordinates are immutable for the record's lifetime.
func (r *Record) SetCoordinates(lat, lon float64) {
	if r.HasCoordinates() {
		return
	}
	r.Latitude = &lat
	r.Longitude = &lon
}

// Validate checks the record invariants: a non-empty address and a
// complete-or-absent coordinate pair.
func (r *Record) Validate() error {
	if r.Address == "" {
		return eris.New("record: empty address")
	}
	if (r.Latitude == nil) != (r.Longitude == nil) {
		return eris.Errorf("record %s: partial coordinate pair", r.ID)
	}
	return nil
}

// Dataset is the resolved output of one pipeline run: an ordered sequence
// of records sharing a single provenance tag. It is immutable once built.
type Dataset struct {
	RunID      string    `json:"run_id"`
	Source     Source    `json:"source"`
	ResolvedAt time.Time `json:"resolved_at"`
	Records    []Record  `json:"records"`
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.Records) }
