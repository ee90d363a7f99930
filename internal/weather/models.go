package weather

import (
	"encoding/json"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Location is a geocoded place. City/Country are not kept; Name is the
// canonical display name returned by the geocoder.
type Location struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Metrics is the normalized weather reading, regardless of which upstream
// endpoint produced it.
type Metrics struct {
	Temperature float64 `json:"temp"`      // °C
	FeelsLike   float64 `json:"feelsLike"` // °C
	Pressure    int     `json:"pressure"`  // hPa
	Humidity    int     `json:"humidity"`  // percent
	WindSpeed   float64 `json:"windSpeed"` // m/s
	Condition   string  `json:"main"`
	Description string  `json:"description"`
}

// Report is the record returned to callers. Metrics fields are flattened into
// the JSON object.
type Report struct {
	City string `json:"city"`
	Date Date   `json:"date"`
	Metrics
	Advice string `json:"advice"`
}

// NewReport builds a report for loc. The caller-supplied city is used only
// when the geocoder returned no display name.
func NewReport(loc Location, city string, date Date, m Metrics) Report {
	name := loc.Name
	if name == "" {
		name = city
	}
	return Report{
		City:    name,
		Date:    date,
		Metrics: m,
		Advice:  Advise(m),
	}
}

// Date is a calendar day in UTC.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the UTC calendar day containing t.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses an ISO-8601 calendar date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", s)
	}
	return DateOf(t), nil
}

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// DaysAfter returns the number of whole days from o to d (negative when d
// is earlier).
func (d Date) DaysAfter(o Date) int {
	return int(d.Time().Sub(o.Time()) / (24 * time.Hour))
}

func (d Date) String() string {
	return d.Time().Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DateClass places a requested date relative to today (UTC).
type DateClass int

const (
	ClassToday DateClass = iota
	ClassPast
	ClassFuture
)

func (c DateClass) String() string {
	switch c {
	case ClassPast:
		return "past"
	case ClassFuture:
		return "future"
	default:
		return "today"
	}
}

// Classify returns the class of date relative to today. A nil date is today.
func Classify(date *Date, today Date) DateClass {
	switch {
	case date == nil || *date == today:
		return ClassToday
	case date.Time().Before(today.Time()):
		return ClassPast
	default:
		return ClassFuture
	}
}
