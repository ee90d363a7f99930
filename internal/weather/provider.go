package weather

import (
	"context"
	"time"
)

// Upstream is the weather data source. Each method makes one keyed GET
// request and returns the raw JSON body; a non-success status is an error.
type Upstream interface {
	// Current returns current conditions for the coordinates.
	Current(ctx context.Context, lat, lon float64) ([]byte, error)
	// TimeMachine returns historical conditions at the given instant.
	TimeMachine(ctx context.Context, lat, lon float64, at time.Time) ([]byte, error)
	// OneCall returns the daily forecast, index 0 being today (UTC).
	OneCall(ctx context.Context, lat, lon float64) ([]byte, error)
}

// GeocodingSource resolves a free-text query to a JSON array of matches.
type GeocodingSource interface {
	Geocode(ctx context.Context, query string, limit int) ([]byte, error)
}
