package weather

import "errors"

// Failure kinds. Every error returned by Geocoder and Service wraps exactly one
// of these, so callers can branch with errors.Is.
var (
	ErrGeocodingFailure          = errors.New("geocoding request failed")
	ErrUpstreamUnavailable       = errors.New("weather upstream unavailable")
	ErrUnsupportedDateRange      = errors.New("unsupported date range")
	ErrForecastUnavailable       = errors.New("forecast not available for requested date")
	ErrMalformedUpstreamResponse = errors.New("malformed upstream response")
)

// kindOf returns a short label for the failure kind wrapped by err.
func kindOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrGeocodingFailure):
		return "geocoding_failure"
	case errors.Is(err, ErrUpstreamUnavailable):
		return "upstream_unavailable"
	case errors.Is(err, ErrUnsupportedDateRange):
		return "unsupported_date_range"
	case errors.Is(err, ErrForecastUnavailable):
		return "forecast_unavailable"
	case errors.Is(err, ErrMalformedUpstreamResponse):
		return "malformed_response"
	default:
		return "error"
	}
}

// FailureKind returns the failure kind sentinel wrapped by err, or nil when
// err wraps none of them. Its text is safe to show outside the process.
func FailureKind(err error) error {
	for _, kind := range []error{
		ErrGeocodingFailure,
		ErrUpstreamUnavailable,
		ErrUnsupportedDateRange,
		ErrForecastUnavailable,
		ErrMalformedUpstreamResponse,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
