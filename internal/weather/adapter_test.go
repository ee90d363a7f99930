package weather

import (
	"errors"
	"testing"
)

func TestSelectAdapter(t *testing.T) {
	today := Date{Year: 2025, Month: 10, Day: 10}
	day := func(offset int) *Date {
		d := DateOf(today.Time().AddDate(0, 0, offset))
		return &d
	}

	tests := []struct {
		name      string
		date      *Date
		wantClass DateClass
		wantErr   error
		validate  func(*testing.T, Adapter)
	}{
		{name: "no date", date: nil, wantClass: ClassToday},
		{name: "today", date: day(0), wantClass: ClassToday},
		{
			name:      "yesterday",
			date:      day(-1),
			wantClass: ClassPast,
			validate: func(t *testing.T, a Adapter) {
				if got := a.(HistoricalAdapter).Date; got != *day(-1) {
					t.Errorf("HistoricalAdapter.Date = %v, want %v", got, *day(-1))
				}
			},
		},
		{name: "five days ago", date: day(-5), wantClass: ClassPast},
		{name: "six days ago", date: day(-6), wantErr: ErrUnsupportedDateRange},
		{
			name:      "tomorrow",
			date:      day(1),
			wantClass: ClassFuture,
			validate: func(t *testing.T, a Adapter) {
				if got := a.(ForecastAdapter).Index; got != 1 {
					t.Errorf("ForecastAdapter.Index = %d, want 1", got)
				}
			},
		},
		{name: "seven days ahead", date: day(7), wantClass: ClassFuture},
		{name: "eight days ahead", date: day(8), wantErr: ErrUnsupportedDateRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := SelectAdapter(tt.date, today)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("SelectAdapter() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("SelectAdapter() unexpected error = %v", err)
			}
			if a.Class() != tt.wantClass {
				t.Errorf("SelectAdapter() class = %v, want %v", a.Class(), tt.wantClass)
			}
			if tt.validate != nil {
				tt.validate(t, a)
			}
		})
	}
}

func TestCurrentAdapterNormalize(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Metrics
		wantErr error
	}{
		{
			name: "full response",
			raw: `{"main":{"temp":12.5,"feels_like":11.1,"pressure":1012,"humidity":70},
				"wind":{"speed":4.6},"weather":[{"main":"Rain","description":"light rain"}]}`,
			want: Metrics{Temperature: 12.5, FeelsLike: 11.1, Pressure: 1012, Humidity: 70, WindSpeed: 4.6, Condition: "Rain", Description: "light rain"},
		},
		{
			name: "missing wind and feels_like",
			raw:  `{"main":{"temp":3,"pressure":1001,"humidity":88},"weather":[{"main":"Snow","description":"snow"}]}`,
			want: Metrics{Temperature: 3, FeelsLike: 3, Pressure: 1001, Humidity: 88, Condition: "Snow", Description: "snow"},
		},
		{
			name:    "missing main block",
			raw:     `{"wind":{"speed":1},"weather":[{"main":"Clear","description":"clear sky"}]}`,
			wantErr: ErrMalformedUpstreamResponse,
		},
		{
			name:    "empty weather array",
			raw:     `{"main":{"temp":3},"weather":[]}`,
			wantErr: ErrMalformedUpstreamResponse,
		},
		{
			name:    "not json",
			raw:     `<html>`,
			wantErr: ErrMalformedUpstreamResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CurrentAdapter{}.Normalize([]byte(tt.raw))
			checkNormalize(t, got, err, tt.want, tt.wantErr)
		})
	}
}

func TestHistoricalAdapterNormalize(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Metrics
		wantErr error
	}{
		{
			name: "data array",
			raw: `{"lat":41.3,"lon":69.2,"data":[{"dt":1728000000,"temp":18.2,"feels_like":17.9,"pressure":1018,
				"humidity":40,"wind_speed":3.1,"weather":[{"main":"Clouds","description":"few clouds"}]}]}`,
			want: Metrics{Temperature: 18.2, FeelsLike: 17.9, Pressure: 1018, Humidity: 40, WindSpeed: 3.1, Condition: "Clouds", Description: "few clouds"},
		},
		{
			name: "legacy current object with missing optionals",
			raw:  `{"current":{"temp":-2,"weather":[{"main":"Snow","description":"heavy snow"}]}}`,
			want: Metrics{Temperature: -2, FeelsLike: -2, Condition: "Snow", Description: "heavy snow"},
		},
		{
			name:    "missing weather array",
			raw:     `{"data":[{"temp":18.2,"pressure":1018,"humidity":40}]}`,
			wantErr: ErrMalformedUpstreamResponse,
		},
		{
			name:    "empty data array",
			raw:     `{"data":[]}`,
			wantErr: ErrMalformedUpstreamResponse,
		},
		{
			name:    "no observation at all",
			raw:     `{"lat":41.3}`,
			wantErr: ErrMalformedUpstreamResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HistoricalAdapter{}.Normalize([]byte(tt.raw))
			checkNormalize(t, got, err, tt.want, tt.wantErr)
		})
	}
}

func TestForecastAdapterNormalize(t *testing.T) {
	const daily = `{"daily":[
		{"temp":{"day":20,"min":12},"feels_like":{"day":19.5},"pressure":1016,"humidity":55,"wind_speed":5.5,
		 "weather":[{"main":"Clear","description":"clear sky"}]},
		{"temp":{"day":22.4},"pressure":1009.6,"humidity":61,
		 "weather":[{"main":"Clouds","description":"broken clouds"}]},
		{"temp":{"day":15},"weather":[]}
	]}`

	tests := []struct {
		name    string
		index   int
		raw     string
		want    Metrics
		wantErr error
	}{
		{
			name:  "first day",
			index: 0,
			raw:   daily,
			want:  Metrics{Temperature: 20, FeelsLike: 19.5, Pressure: 1016, Humidity: 55, WindSpeed: 5.5, Condition: "Clear", Description: "clear sky"},
		},
		{
			name:  "missing feels_like and wind",
			index: 1,
			raw:   daily,
			want:  Metrics{Temperature: 22.4, FeelsLike: 22.4, Pressure: 1010, Humidity: 61, Condition: "Clouds", Description: "broken clouds"},
		},
		{name: "empty weather", index: 2, raw: daily, wantErr: ErrMalformedUpstreamResponse},
		{name: "not enough days", index: 3, raw: daily, wantErr: ErrForecastUnavailable},
		{name: "no daily array", index: 1, raw: `{"timezone":"UTC"}`, wantErr: ErrForecastUnavailable},
		{
			name:    "missing day temperature",
			index:   0,
			raw:     `{"daily":[{"feels_like":{"day":3},"weather":[{"main":"Rain","description":"rain"}]}]}`,
			wantErr: ErrMalformedUpstreamResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ForecastAdapter{Index: tt.index}.Normalize([]byte(tt.raw))
			checkNormalize(t, got, err, tt.want, tt.wantErr)
		})
	}
}

func checkNormalize(t *testing.T, got Metrics, err error, want Metrics, wantErr error) {
	t.Helper()
	if wantErr != nil {
		if !errors.Is(err, wantErr) {
			t.Fatalf("Normalize() error = %v, want %v", err, wantErr)
		}
		return
	}
	if err != nil {
		t.Fatalf("Normalize() unexpected error = %v", err)
	}
	if got != want {
		t.Errorf("Normalize() = %+v, want %+v", got, want)
	}
}
