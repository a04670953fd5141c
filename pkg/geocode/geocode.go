// Package geocode resolves postal addresses to coordinates via OSM
// Nominatim (primary) with a static city-centroid fallback.
package geocode

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Query is the address to resolve. City and Country alone are enough for
// the centroid fallback.
type Query struct {
	Street     string
	City       string
	Country    string
	PostalCode string
}

// OneLine formats the query as a single comma-separated address.
func (q Query) OneLine() string {
	parts := []string{q.Street, q.PostalCode, q.City, q.Country}
	var nonEmpty []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, ", ")
}

// Result holds the lookup output. Matched=false is a miss, not an error.
type Result struct {
	Latitude  float64
	Longitude float64
	Source    string // "nominatim" or "citytable"
	Quality   string // "exact" or "approximate"
	Matched   bool
}

// Provider is a single geocoding backend.
type Provider interface {
	Name() string
	Available() bool
	Geocode(ctx context.Context, q Query) (*Result, error)
}

// Cascade tries providers in order until one matches.
type Cascade struct {
	providers []Provider
}

// NewCascade creates a Cascade over the given providers.
func NewCascade(providers ...Provider) *Cascade {
	return &Cascade{providers: providers}
}

// Geocode tries each provider in order. Provider errors are logged and
// the next provider is tried; if every provider misses, an unmatched
// result is returned with a nil error.
func (c *Cascade) Geocode(ctx context.Context, q Query) (*Result, error) {
	for _, p := range c.providers {
		if !p.Available() {
			continue
		}
		result, err := p.Geocode(ctx, q)
		if err != nil {
			zap.L().Debug("geocode: provider error, trying next",
				zap.String("provider", p.Name()),
				zap.Error(err),
			)
			continue
		}
		if result != nil && result.Matched {
			return result, nil
		}
	}
	return &Result{Matched: false, Source: "cascade"}, nil
}
