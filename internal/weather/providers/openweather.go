package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
)

const (
	DefaultGeocodingURL = "https://api.openweathermap.org/geo/1.0/direct"
	DefaultCurrentURL   = "https://api.openweathermap.org/data/2.5/weather"
	DefaultOneCallURL   = "https://api.openweathermap.org/data/3.0/onecall"
)

// OpenWeatherConfig holds the credential and endpoints of an OpenWeatherClient.
// Empty URLs fall back to the public OpenWeatherMap endpoints.
type OpenWeatherConfig struct {
	APIKey       string
	GeocodingURL string
	CurrentURL   string
	OneCallURL   string
	Breaker      BreakerConfig
}

// OpenWeatherClient makes keyed GET requests to the OpenWeatherMap geocoding,
// current weather, time machine and one-call endpoints. It implements
// weather.Upstream and weather.GeocodingSource.
type OpenWeatherClient struct {
	apiKey       string
	geocodingURL string
	currentURL   string
	oneCallURL   string
	client       *http.Client

	// one breaker per endpoint: a failing forecast must not block geocoding
	breakers map[string]*gobreaker.CircuitBreaker
}

var endpoints = []string{"geocode", "current", "timemachine", "onecall"}

func NewOpenWeatherClient(client *http.Client, cfg OpenWeatherConfig) *OpenWeatherClient {
	c := &OpenWeatherClient{
		apiKey:       cfg.APIKey,
		geocodingURL: cfg.GeocodingURL,
		currentURL:   cfg.CurrentURL,
		oneCallURL:   cfg.OneCallURL,
		client:       client,
		breakers:     make(map[string]*gobreaker.CircuitBreaker, len(endpoints)),
	}
	for _, endpoint := range endpoints {
		c.breakers[endpoint] = newCircuitBreaker("openweather-"+endpoint, cfg.Breaker)
	}
	if c.geocodingURL == "" {
		c.geocodingURL = DefaultGeocodingURL
	}
	if c.currentURL == "" {
		c.currentURL = DefaultCurrentURL
	}
	if c.oneCallURL == "" {
		c.oneCallURL = DefaultOneCallURL
	}
	return c
}

// Geocode calls the direct geocoding endpoint with q=query.
func (c *OpenWeatherClient) Geocode(ctx context.Context, query string, limit int) ([]byte, error) {
	values := url.Values{}
	values.Set("q", query)
	values.Set("limit", strconv.Itoa(limit))
	return c.get(ctx, "geocode", c.geocodingURL, values)
}

// Current calls the current weather endpoint in metric units.
func (c *OpenWeatherClient) Current(ctx context.Context, lat, lon float64) ([]byte, error) {
	values := coordinates(lat, lon)
	values.Set("units", "metric")
	return c.get(ctx, "current", c.currentURL, values)
}

// TimeMachine calls the one-call time machine endpoint for the instant at.
func (c *OpenWeatherClient) TimeMachine(ctx context.Context, lat, lon float64, at time.Time) ([]byte, error) {
	values := coordinates(lat, lon)
	values.Set("dt", strconv.FormatInt(at.Unix(), 10))
	values.Set("units", "metric")
	return c.get(ctx, "timemachine", c.oneCallURL+"/timemachine", values)
}

// OneCall calls the one-call endpoint, keeping only the daily forecast.
func (c *OpenWeatherClient) OneCall(ctx context.Context, lat, lon float64) ([]byte, error) {
	values := coordinates(lat, lon)
	values.Set("units", "metric")
	values.Set("exclude", "current,minutely,hourly,alerts")
	return c.get(ctx, "onecall", c.oneCallURL, values)
}

func (c *OpenWeatherClient) get(ctx context.Context, endpoint, base string, values url.Values) ([]byte, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("openweather %w", errNoAPIKey)
	}
	values.Set("appid", c.apiKey)

	req, err := http.NewRequest(http.MethodGet, base+"?"+values.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", endpoint, err)
	}
	return doRequest(ctx, c.client, c.breakers[endpoint], endpoint, req)
}

func coordinates(lat, lon float64) url.Values {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(lat, 'f', 6, 64))
	values.Set("lon", strconv.FormatFloat(lon, 'f', 6, 64))
	return values
}
