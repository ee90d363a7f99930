package weather

import "strings"

const (
	adviceFreezing = "Very cold, dress warmly with a scarf and gloves."
	adviceCool     = "Cool weather, wear a jacket."
	adviceMild     = "A light jacket or sweater is sufficient."
	adviceWarm     = "Warm weather, light clothing is fine."
	adviceHot      = "Very hot, hydrate and seek shade."

	adviceStrongWind = "Strong wind, cover your head."
	adviceBreeze     = "Light breeze."

	adviceHumid = "High humidity, carry an umbrella."
	adviceDry   = "Dry air, stay hydrated."

	adviceLowPressure  = "Low pressure, rest if you feel unwell."
	adviceHighPressure = "High pressure, caution for heart conditions."
)

const highPressureHpa = 1020

// Advise returns guidance for m: exactly one temperature phrase, then at most
// one phrase each for wind, humidity and pressure, space separated.
func Advise(m Metrics) string {
	phrases := []string{temperatureAdvice(m.Temperature)}

	switch {
	case m.WindSpeed > 10:
		phrases = append(phrases, adviceStrongWind)
	case m.WindSpeed > 5:
		phrases = append(phrases, adviceBreeze)
	}

	switch {
	case m.Humidity > 80:
		phrases = append(phrases, adviceHumid)
	case m.Humidity < 30:
		phrases = append(phrases, adviceDry)
	}

	switch {
	case m.Pressure < 1000:
		phrases = append(phrases, adviceLowPressure)
	case m.Pressure > highPressureHpa:
		phrases = append(phrases, adviceHighPressure)
	}

	return strings.TrimSpace(strings.Join(phrases, " "))
}

func temperatureAdvice(t float64) string {
	switch {
	case t <= 0:
		return adviceFreezing
	case t <= 10:
		return adviceCool
	case t <= 20:
		return adviceMild
	case t <= 30:
		return adviceWarm
	default:
		return adviceHot
	}
}
