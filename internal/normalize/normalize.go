// Package normalize maps source-specific raw records into the unified
// record schema, validating required fields as it goes.
package normalize

import (
	_ "embed"
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/norden-group/locintel-cli/internal/model"
	"github.com/norden-group/locintel-cli/internal/source"
)

//go:embed mappings.yaml
var mappingsYAML []byte

// ValidationError reports why a single raw record could not be
// normalized. It drops the record; it never fails the batch.
type ValidationError struct {
	RawID  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "normalize: record " + e.RawID + ": " + e.Reason
}

// mapping describes how one source's raw fields map onto the unified
// schema. Attributes maps target attribute names to raw field names.
type mapping struct {
	ID           string            `yaml:"id"`
	Name         string            `yaml:"name"`
	Address      string            `yaml:"address"`
	City         string            `yaml:"city"`
	Country      string            `yaml:"country"`
	PostalCode   string            `yaml:"postal_code"`
	Latitude     string            `yaml:"latitude"`
	Longitude    string            `yaml:"longitude"`
	SplitAddress bool              `yaml:"split_address"`
	Attributes   map[string]string `yaml:"attributes"`
}

var postalRe = regexp.MustCompile(`\b\d{5}\b`)

// Normalizer converts raw records into model.Record per-source.
type Normalizer struct {
	mappings map[string]mapping
	titler   cases.Caser
}

// New loads the embedded field-mapping tables.
func New() (*Normalizer, error) {
	var mappings map[string]mapping
	if err := yaml.Unmarshal(mappingsYAML, &mappings); err != nil {
		return nil, eris.Wrap(err, "normalize: parse mappings")
	}
	return &Normalizer{
		mappings: mappings,
		titler:   cases.Title(language.English),
	}, nil
}

// Normalize converts one raw record. It returns a ValidationError when the
// address is missing or an attribute is malformed.
func (n *Normalizer) Normalize(raw source.RawRecord, src model.Source) (model.Record, error) {
	m, ok := n.mappings[src.String()]
	if !ok {
		return model.Record{}, eris.Errorf("normalize: no mapping for source %s", src)
	}

	rec := model.Record{
		ID:         raw[m.ID],
		Name:       raw[m.Name],
		Address:    strings.TrimSpace(raw[m.Address]),
		City:       strings.TrimSpace(raw[m.City]),
		Country:    strings.TrimSpace(raw[m.Country]),
		PostalCode: strings.TrimSpace(raw[m.PostalCode]),
		Attributes: make(map[string]string, len(m.Attributes)),
		Source:     src,
	}

	if rec.Address == "" {
		return model.Record{}, &ValidationError{RawID: rec.ID, Reason: "missing address"}
	}
	if m.SplitAddress {
		splitAddress(&rec)
	}

	for target, rawKey := range m.Attributes {
		v := strings.TrimSpace(raw[rawKey])
		if v == "" {
			continue
		}
		switch target {
		case "property_type":
			rec.Attributes[target] = n.titler.String(v)
		case "size_sqm", "year_built", "last_renovation":
			iv, err := strconv.Atoi(v)
			if err != nil {
				return model.Record{}, &ValidationError{RawID: rec.ID, Reason: "malformed " + target + ": " + v}
			}
			rec.Attributes[target] = strconv.Itoa(iv)
		default:
			rec.Attributes[target] = v
		}
	}

	if err := setCoordinates(&rec, raw[m.Latitude], raw[m.Longitude]); err != nil {
		return model.Record{}, err
	}

	return rec, nil
}

// Batch normalizes each raw record in order, dropping the ones that fail
// validation. It returns the survivors and the drop count; an all-dropped
// batch simply comes back empty.
func (n *Normalizer) Batch(raws []source.RawRecord, src model.Source) ([]model.Record, int) {
	records := make([]model.Record, 0, len(raws))
	var dropped int
	for _, raw := range raws {
		rec, err := n.Normalize(raw, src)
		if err != nil {
			dropped++
			zap.L().Warn("normalize: dropping record",
				zap.String("source", src.String()),
				zap.Error(err),
			)
			continue
		}
		records = append(records, rec)
	}
	return records, dropped
}

// setCoordinates parses the raw coordinate pair. Both absent leaves the
// record unplotted; a partial or unparseable pair is a ValidationError so
// the invariant "both or neither" holds for every normalized record.
func setCoordinates(rec *model.Record, rawLat, rawLon string) error {
	rawLat, rawLon = strings.TrimSpace(rawLat), strings.TrimSpace(rawLon)
	if rawLat == "" && rawLon == "" {
		return nil
	}
	if rawLat == "" || rawLon == "" {
		return &ValidationError{RawID: rec.ID, Reason: "partial coordinate pair"}
	}
	lat, errLat := strconv.ParseFloat(rawLat, 64)
	lon, errLon := strconv.ParseFloat(rawLon, 64)
	if errLat != nil || errLon != nil {
		return &ValidationError{RawID: rec.ID, Reason: "malformed coordinates: " + rawLat + "," + rawLon}
	}
	rec.SetCoordinates(lat, lon)
	return nil
}

// splitAddress breaks a scraped one-line address ("Street 1, Malmö,
// Sweden") into street, city, and country, and pulls a postal code out of
// the text when present.
func splitAddress(rec *model.Record) {
	full := rec.Address
	parts := strings.Split(full, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	rec.Address = parts[0]
	if len(parts) > 1 && rec.City == "" {
		rec.City = parts[1]
	}
	if len(parts) > 2 && rec.Country == "" {
		rec.Country = parts[len(parts)-1]
	}
	if rec.PostalCode == "" {
		if m := postalRe.FindString(full); m != "" {
			rec.PostalCode = m
		}
	}
}
