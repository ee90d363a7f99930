package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// Geocoder resolves city names to coordinates.
type Geocoder struct {
	source GeocodingSource
	logger *slog.Logger
}

// NewGeocoder creates a Geocoder backed by source.
func NewGeocoder(source GeocodingSource, logger *slog.Logger) *Geocoder {
	return &Geocoder{
		source: source,
		logger: logger.With("component", "geocoder"),
	}
}

// Resolve looks up city, optionally qualified by country. found is false when
// the upstream answered with no matches; that is not an error. The country only
// shapes the query: the first match is returned as is.
func (g *Geocoder) Resolve(ctx context.Context, city, country string) (loc Location, found bool, err error) {
	query := strings.TrimSpace(city)
	if c := strings.TrimSpace(country); c != "" {
		query = query + "," + c
	}

	raw, err := g.source.Geocode(ctx, query, 1)
	if err != nil {
		return Location{}, false, fmt.Errorf("%w: %v", ErrGeocodingFailure, err)
	}

	var matches []struct {
		Name string   `json:"name"`
		Lat  *float64 `json:"lat"`
		Lon  *float64 `json:"lon"`
	}
	if err := json.Unmarshal(raw, &matches); err != nil {
		return Location{}, false, fmt.Errorf("%w: decode response: %v", ErrGeocodingFailure, err)
	}
	if len(matches) == 0 {
		g.logger.Debug("no geocoding match", "query", query)
		return Location{}, false, nil
	}

	first := matches[0]
	if first.Lat == nil || first.Lon == nil {
		return Location{}, false, fmt.Errorf("%w: match %q has no coordinates", ErrGeocodingFailure, first.Name)
	}

	return Location{
		Name:      first.Name,
		Latitude:  *first.Lat,
		Longitude: *first.Lon,
	}, true, nil
}
