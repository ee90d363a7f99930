package weather

import (
	"encoding/json"
	"testing"
)

func TestReportJSON(t *testing.T) {
	m := Metrics{Temperature: 12.5, FeelsLike: 11, Pressure: 1012, Humidity: 70, WindSpeed: 4.6, Condition: "Rain", Description: "light rain"}
	report := NewReport(Location{Name: "Tashkent"}, "tashkent", Date{Year: 2025, Month: 10, Day: 9}, m)

	b, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(b, &fields); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	for _, key := range []string{"city", "date", "temp", "feelsLike", "pressure", "humidity", "windSpeed", "main", "description", "advice"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("report JSON is missing %q: %s", key, b)
		}
	}
	if len(fields) != 10 {
		t.Errorf("report JSON has %d fields, want 10: %s", len(fields), b)
	}
	if fields["date"] != "2025-10-09" {
		t.Errorf("date = %v, want 2025-10-09", fields["date"])
	}
	if fields["city"] != "Tashkent" {
		t.Errorf("city = %v, want Tashkent", fields["city"])
	}

	var decoded Report
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("Unmarshal(Report) error = %v", err)
	}
	if decoded != report {
		t.Errorf("decoded = %+v, want %+v", decoded, report)
	}
}

func TestNewReportFallsBackToCallerCity(t *testing.T) {
	report := NewReport(Location{}, "Springfield", Date{Year: 2025, Month: 1, Day: 1}, Metrics{Temperature: 5})
	if report.City != "Springfield" {
		t.Errorf("City = %q, want Springfield", report.City)
	}
	if report.Advice != Advise(report.Metrics) {
		t.Errorf("Advice = %q, want %q", report.Advice, Advise(report.Metrics))
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2025-10-09", want: Date{Year: 2025, Month: 10, Day: 9}},
		{in: "2024-02-29", want: Date{Year: 2024, Month: 2, Day: 29}},
		{in: "2025-02-29", wantErr: true},
		{in: "09-10-2025", wantErr: true},
		{in: "2025-10-09T00:00:00Z", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	today := Date{Year: 2025, Month: 12, Day: 31}
	yesterday := Date{Year: 2025, Month: 12, Day: 30}
	tomorrow := Date{Year: 2026, Month: 1, Day: 1}

	tests := []struct {
		name string
		date *Date
		want DateClass
	}{
		{"nil", nil, ClassToday},
		{"today", &today, ClassToday},
		{"yesterday", &yesterday, ClassPast},
		{"tomorrow across year end", &tomorrow, ClassFuture},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.date, today); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDaysAfter(t *testing.T) {
	today := Date{Year: 2025, Month: 3, Day: 1}

	tests := []struct {
		date Date
		want int
	}{
		{Date{Year: 2025, Month: 3, Day: 1}, 0},
		{Date{Year: 2025, Month: 2, Day: 28}, -1},
		{Date{Year: 2025, Month: 2, Day: 24}, -5},
		{Date{Year: 2025, Month: 3, Day: 8}, 7},
	}

	for _, tt := range tests {
		if got := tt.date.DaysAfter(today); got != tt.want {
			t.Errorf("%v.DaysAfter(%v) = %d, want %d", tt.date, today, got, tt.want)
		}
	}
}
