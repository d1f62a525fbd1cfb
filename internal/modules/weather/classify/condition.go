package classify

import (
	"eolo-server/internal/modules/weather/types"
)

const (
	KeyVeryWet           = "very_wet"
	KeyVeryWindy         = "very_windy"
	KeyVeryHot           = "very_hot"
	KeyVeryCold          = "very_cold"
	KeyVeryUncomfortable = "very_uncomfortable"
	KeyNormal            = "normal"
)

var conditions = map[string]types.Condition{
	KeyVeryWet:           {Key: KeyVeryWet, Label: "Muy mojado / Very Wet", Icon: "💧🟦🟦🟦💧"},
	KeyVeryWindy:         {Key: KeyVeryWindy, Label: "Mucho viento / Very Windy", Icon: "🌬️⬛⬜⬛🌬️"},
	KeyVeryHot:           {Key: KeyVeryHot, Label: "Muy caliente / Very Hot", Icon: "🔥🟥🟧🟥🔥"},
	KeyVeryCold:          {Key: KeyVeryCold, Label: "Muy frio / Very Cold", Icon: "❄️🟦⬜🟦❄️"},
	KeyVeryUncomfortable: {Key: KeyVeryUncomfortable, Label: "Muy incomodo / Very Uncomfortable", Icon: "😓🟨🟧🟨😓"},
	KeyNormal:            {Key: KeyNormal, Label: "Normal / Normal", Icon: "🙂⬜⬜⬜🙂"},
}

// Thresholds are the per-unit-system limits used by Condition. All
// comparisons against them are strict.
type Thresholds struct {
	Wet           float64
	Windy         float64
	Hot           float64
	Cold          float64
	Uncomfortable float64
	Humid         float64
}

var (
	MetricThresholds   = Thresholds{Wet: 10, Windy: 50, Hot: 35, Cold: 0, Uncomfortable: 30, Humid: 70}
	ImperialThresholds = Thresholds{Wet: 0.4, Windy: 31, Hot: 95, Cold: 32, Uncomfortable: 86, Humid: 70}
)

func ThresholdsFor(units types.MeasurementSystem) Thresholds {
	if units == types.Imperial {
		return ImperialThresholds
	}
	return MetricThresholds
}

// Condition evaluates the rules in priority order; the first match wins.
func Condition(r types.Reading, units types.MeasurementSystem) types.Condition {
	th := ThresholdsFor(units)

	if r.Precipitation > th.Wet {
		return conditions[KeyVeryWet]
	}
	if r.Wind != nil && float64(*r.Wind) > th.Windy {
		return conditions[KeyVeryWindy]
	}
	if r.Temperature != nil {
		temp := float64(*r.Temperature)
		if temp > th.Hot {
			return conditions[KeyVeryHot]
		}
		if temp < th.Cold {
			return conditions[KeyVeryCold]
		}
		if r.Humidity != nil && temp > th.Uncomfortable && float64(*r.Humidity) > th.Humid {
			return conditions[KeyVeryUncomfortable]
		}
	}
	return conditions[KeyNormal]
}
