package source

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/norden-group/locintel-cli/internal/model"
)

// syntheticCity seeds generated records with a plausible location.
type syntheticCity struct {
	name    string
	country string
	lat     float64
	lon     float64
}

var syntheticCities = []syntheticCity{
	{"Stockholm", "Sweden", 59.3293, 18.0686},
	{"Gothenburg", "Sweden", 57.7089, 11.9746},
	{"Malmö", "Sweden", 55.6050, 13.0038},
	{"Copenhagen", "Denmark", 55.6761, 12.5683},
	{"Helsinki", "Finland", 60.1699, 24.9384},
	{"Oslo", "Norway", 59.9139, 10.7522},
}

var syntheticTypes = []string{"Office", "Retail", "Industrial", "Residential"}

// SyntheticAdapter generates a fixed-size batch of plausible sample
// records from a seeded RNG. It never fails and never returns an empty
// batch, which makes it the terminal link of the fallback chain. All
// generated records carry coordinates.
type SyntheticAdapter struct {
	count int
	seed  int64
}

// NewSyntheticAdapter creates a generator producing count records per
// fetch. The seed makes successive runs reproducible; zero seeds from the
// current time.
func NewSyntheticAdapter(count int, seed int64) *SyntheticAdapter {
	if count <= 0 {
		count = 50
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &SyntheticAdapter{count: count, seed: seed}
}

// Name implements Adapter.
func (a *SyntheticAdapter) Name() string { return "synthetic" }

// Source implements Adapter.
func (a *SyntheticAdapter) Source() model.Source { return model.SourceSynthetic }

// Fetch implements Adapter. Filters narrow the city and type pools when
// they match a known value; a filter matching nothing is ignored so the
// batch is never empty.
func (a *SyntheticAdapter) Fetch(_ context.Context, filter model.Filter) ([]RawRecord, error) {
	cities := filterCities(filter.City)
	types := filterTypes(filter.PropertyType)
	sizeLo, sizeHi := sizeRange(filter)

	rng := rand.New(rand.NewSource(a.seed))
	records := make([]RawRecord, 0, a.count)
	for i := 1; i <= a.count; i++ {
		city := cities[rng.Intn(len(cities))]
		yearBuilt := 1950 + rng.Intn(70)

		raw := RawRecord{
			"id":            strconv.Itoa(i),
			"name":          fmt.Sprintf("Sample Property %d", i),
			"property_type": types[rng.Intn(len(types))],
			"address":       fmt.Sprintf("Sample Street %d, %d", i, 1+rng.Intn(99)),
			"city":          city.name,
			"country":       city.country,
			"postal_code":   strconv.Itoa(10000 + rng.Intn(89999)),
			"latitude":      strconv.FormatFloat(city.lat+jitter(rng), 'f', 6, 64),
			"longitude":     strconv.FormatFloat(city.lon+jitter(rng), 'f', 6, 64),
			"size_sqm":      strconv.Itoa(sizeLo + rng.Intn(sizeHi-sizeLo+1)),
			"year_built":    strconv.Itoa(yearBuilt),
		}
		if rng.Float64() > 0.3 {
			raw["last_renovation"] = strconv.Itoa(yearBuilt + rng.Intn(2024-yearBuilt))
		}
		records = append(records, raw)
	}
	return records, nil
}

// jitter offsets a base coordinate by up to ±0.05 degrees.
func jitter(rng *rand.Rand) float64 {
	return (rng.Float64() - 0.5) * 0.1
}

func filterCities(city string) []syntheticCity {
	if city != "" {
		for _, c := range syntheticCities {
			if strings.EqualFold(c.name, city) {
				return []syntheticCity{c}
			}
		}
		zap.L().Debug("synthetic adapter: unknown city in filter, using all", zap.String("city", city))
	}
	return syntheticCities
}

// sizeRange clamps the generated size window to the filter's bounds. A
// one-sided bound outside the default window collapses the window onto
// it; a contradictory min/max pair is ignored like any other
// unmatchable filter.
func sizeRange(filter model.Filter) (lo, hi int) {
	lo, hi = 100, 9999
	if filter.MinSize > 0 {
		lo = filter.MinSize
	}
	if filter.MaxSize > 0 {
		hi = filter.MaxSize
	}
	if lo > hi {
		switch {
		case filter.MinSize > 0 && filter.MaxSize > 0:
			return 100, 9999
		case filter.MinSize > 0:
			hi = lo
		default:
			lo = hi
		}
	}
	return lo, hi
}

func filterTypes(ptype string) []string {
	if ptype != "" {
		for _, t := range syntheticTypes {
			if strings.EqualFold(t, ptype) {
				return []string{t}
			}
		}
	}
	return syntheticTypes
}
