package classify

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"eolo-server/internal/modules/weather/types"
)

type skyPhrases struct {
	keywords []string
	clear    string
	partly   string
	overcast string
}

var spanishSky = skyPhrases{
	keywords: []string{"lluvia", "tormenta", "nieve", "niebla"},
	clear:    "Cielo despejado y soleado",
	partly:   "Parcialmente nublado",
	overcast: "Cielo mayormente cubierto",
}

var englishSky = skyPhrases{
	keywords: []string{"rain", "storm", "snow", "fog", "mist"},
	clear:    "Clear and sunny sky",
	partly:   "Partly cloudy",
	overcast: "Mostly overcast sky",
}

// FriendlyDescription keeps the provider description when it mentions
// significant weather and otherwise describes the sky from cloudiness.
func FriendlyDescription(description string, cloudiness *int, lang language.Tag) string {
	sky := englishSky
	if base, _ := lang.Base(); base.String() == "es" {
		sky = spanishSky
	}

	capitalized := Capitalize(description, lang)
	if containsAny(strings.ToLower(capitalized), sky.keywords) || cloudiness == nil {
		return capitalized
	}
	switch c := *cloudiness; {
	case c <= 10:
		return sky.clear
	case c <= 40:
		return sky.partly
	default:
		return sky.overcast
	}
}

// Capitalize upper-cases the first letter and lower-cases the rest.
func Capitalize(s string, lang language.Tag) string {
	if s == "" {
		return s
	}
	lower := cases.Lower(lang).String(s)
	_, size := utf8.DecodeRuneInString(lower)
	return cases.Upper(lang).String(lower[:size]) + lower[size:]
}

// TemperatureColor maps a temperature to a CSS color name.
func TemperatureColor(temperature *int, units types.MeasurementSystem) string {
	if temperature == nil {
		return "black"
	}
	freezing, mild, warm := 0.0, 20.0, 30.0
	if units == types.Imperial {
		freezing, mild, warm = 32, 68, 86
	}
	switch t := float64(*temperature); {
	case t <= freezing:
		return "blue"
	case t <= mild:
		return "cyan"
	case t <= warm:
		return "orange"
	default:
		return "red"
	}
}
