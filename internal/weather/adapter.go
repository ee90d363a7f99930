package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
)

const (
	historyWindowDays  = 5
	forecastWindowDays = 7
)

// Adapter serves one date class: it issues the matching upstream call and
// normalizes that endpoint's JSON shape into Metrics.
type Adapter interface {
	Class() DateClass
	Fetch(ctx context.Context, up Upstream, loc Location) ([]byte, error)
	Normalize(raw []byte) (Metrics, error)
}

// SelectAdapter classifies date against today and returns the adapter for
// it. Dates outside the historical or forecast windows are rejected here,
// before any upstream call is made.
func SelectAdapter(date *Date, today Date) (Adapter, error) {
	switch Classify(date, today) {
	case ClassPast:
		age := today.DaysAfter(*date)
		if age > historyWindowDays {
			return nil, fmt.Errorf("%w: historical data only covers the last %d days", ErrUnsupportedDateRange, historyWindowDays)
		}
		return HistoricalAdapter{Date: *date}, nil
	case ClassFuture:
		lead := date.DaysAfter(today)
		if lead > forecastWindowDays {
			return nil, fmt.Errorf("%w: forecast only covers %d days ahead", ErrUnsupportedDateRange, forecastWindowDays)
		}
		return ForecastAdapter{Index: lead}, nil
	default:
		return CurrentAdapter{}, nil
	}
}

type conditionPayload struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

// reading holds the fields every endpoint reports, after the path-specific
// nesting has been unwrapped. Nil means absent upstream.
type reading struct {
	temp      *float64
	feelsLike *float64
	pressure  *float64
	humidity  *float64
	windSpeed *float64
	weather   []conditionPayload
}

// metrics applies the field fallbacks: feels-like defaults to temperature,
// the rest to zero. Temperature and the weather array are required.
func (r reading) metrics() (Metrics, error) {
	if r.temp == nil {
		return Metrics{}, fmt.Errorf("%w: temperature missing", ErrMalformedUpstreamResponse)
	}
	if len(r.weather) == 0 {
		return Metrics{}, fmt.Errorf("%w: weather array missing or empty", ErrMalformedUpstreamResponse)
	}

	m := Metrics{
		Temperature: *r.temp,
		FeelsLike:   *r.temp,
		Condition:   r.weather[0].Main,
		Description: r.weather[0].Description,
	}
	if r.feelsLike != nil {
		m.FeelsLike = *r.feelsLike
	}
	if r.pressure != nil {
		m.Pressure = int(math.Round(*r.pressure))
	}
	if r.humidity != nil {
		m.Humidity = int(math.Round(*r.humidity))
	}
	if r.windSpeed != nil {
		m.WindSpeed = *r.windSpeed
	}
	return m, nil
}

func decode(raw []byte, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedUpstreamResponse, err)
	}
	return nil
}

// CurrentAdapter reads the flat main/wind/weather[0] shape of the
// current-conditions endpoint.
type CurrentAdapter struct{}

func (CurrentAdapter) Class() DateClass { return ClassToday }

func (CurrentAdapter) Fetch(ctx context.Context, up Upstream, loc Location) ([]byte, error) {
	return up.Current(ctx, loc.Latitude, loc.Longitude)
}

func (CurrentAdapter) Normalize(raw []byte) (Metrics, error) {
	var payload struct {
		Main *struct {
			Temp      *float64 `json:"temp"`
			FeelsLike *float64 `json:"feels_like"`
			Pressure  *float64 `json:"pressure"`
			Humidity  *float64 `json:"humidity"`
		} `json:"main"`
		Wind *struct {
			Speed *float64 `json:"speed"`
		} `json:"wind"`
		Weather []conditionPayload `json:"weather"`
	}
	if err := decode(raw, &payload); err != nil {
		return Metrics{}, err
	}
	if payload.Main == nil {
		return Metrics{}, fmt.Errorf("%w: main block missing", ErrMalformedUpstreamResponse)
	}

	r := reading{
		temp:      payload.Main.Temp,
		feelsLike: payload.Main.FeelsLike,
		pressure:  payload.Main.Pressure,
		humidity:  payload.Main.Humidity,
		weather:   payload.Weather,
	}
	if payload.Wind != nil {
		r.windSpeed = payload.Wind.Speed
	}
	return r.metrics()
}

// pointPayload is one observation in the time-machine response.
type pointPayload struct {
	Temp      *float64           `json:"temp"`
	FeelsLike *float64           `json:"feels_like"`
	Pressure  *float64           `json:"pressure"`
	Humidity  *float64           `json:"humidity"`
	WindSpeed *float64           `json:"wind_speed"`
	Weather   []conditionPayload `json:"weather"`
}

// HistoricalAdapter reads data[0] (or the legacy current object) of the
// time-machine endpoint, queried at midnight UTC of Date.
type HistoricalAdapter struct {
	Date Date
}

func (HistoricalAdapter) Class() DateClass { return ClassPast }

func (a HistoricalAdapter) Fetch(ctx context.Context, up Upstream, loc Location) ([]byte, error) {
	return up.TimeMachine(ctx, loc.Latitude, loc.Longitude, a.Date.Time())
}

func (HistoricalAdapter) Normalize(raw []byte) (Metrics, error) {
	var payload struct {
		Data    []pointPayload `json:"data"`
		Current *pointPayload  `json:"current"`
	}
	if err := decode(raw, &payload); err != nil {
		return Metrics{}, err
	}

	var point *pointPayload
	switch {
	case payload.Data != nil:
		if len(payload.Data) == 0 {
			return Metrics{}, fmt.Errorf("%w: data array is empty", ErrMalformedUpstreamResponse)
		}
		point = &payload.Data[0]
	case payload.Current != nil:
		point = payload.Current
	default:
		return Metrics{}, fmt.Errorf("%w: neither data nor current present", ErrMalformedUpstreamResponse)
	}

	return reading{
		temp:      point.Temp,
		feelsLike: point.FeelsLike,
		pressure:  point.Pressure,
		humidity:  point.Humidity,
		windSpeed: point.WindSpeed,
		weather:   point.Weather,
	}.metrics()
}

// ForecastAdapter reads daily[Index] of the one-call endpoint, where Index
// is the number of days between today and the requested date.
type ForecastAdapter struct {
	Index int
}

func (ForecastAdapter) Class() DateClass { return ClassFuture }

func (ForecastAdapter) Fetch(ctx context.Context, up Upstream, loc Location) ([]byte, error) {
	return up.OneCall(ctx, loc.Latitude, loc.Longitude)
}

func (a ForecastAdapter) Normalize(raw []byte) (Metrics, error) {
	type dayValue struct {
		Day *float64 `json:"day"`
	}
	var payload struct {
		Daily []struct {
			Temp      *dayValue          `json:"temp"`
			FeelsLike *dayValue          `json:"feels_like"`
			Pressure  *float64           `json:"pressure"`
			Humidity  *float64           `json:"humidity"`
			WindSpeed *float64           `json:"wind_speed"`
			Weather   []conditionPayload `json:"weather"`
		} `json:"daily"`
	}
	if err := decode(raw, &payload); err != nil {
		return Metrics{}, err
	}
	if a.Index < 0 || len(payload.Daily) <= a.Index {
		return Metrics{}, fmt.Errorf("%w: %d daily entries, need index %d", ErrForecastUnavailable, len(payload.Daily), a.Index)
	}

	day := payload.Daily[a.Index]
	r := reading{
		pressure:  day.Pressure,
		humidity:  day.Humidity,
		windSpeed: day.WindSpeed,
		weather:   day.Weather,
	}
	if day.Temp != nil {
		r.temp = day.Temp.Day
	}
	if day.FeelsLike != nil {
		r.feelsLike = day.FeelsLike.Day
	}
	return r.metrics()
}
