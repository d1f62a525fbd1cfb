package classify

import (
	"strings"

	"eolo-server/internal/modules/weather/countries"
	"eolo-server/internal/modules/weather/types"
)

type keywordRule struct {
	keywords []string
	phrase   func(countries.AdvicePhrases) string
}

// Checked in order before any temperature rule.
var weatherKeywordRules = []keywordRule{
	{keywords: []string{"tormenta", "storm"}, phrase: func(p countries.AdvicePhrases) string { return p.Storm }},
	{keywords: []string{"lluvia", "rain", "llovizna", "drizzle"}, phrase: func(p countries.AdvicePhrases) string { return p.Rain }},
	{keywords: []string{"nieve", "snow"}, phrase: func(p countries.AdvicePhrases) string { return p.Snow }},
	{keywords: []string{"niebla", "fog", "mist"}, phrase: func(p countries.AdvicePhrases) string { return p.Fog }},
}

// Checked after the temperature rules.
var skyKeywordRules = []keywordRule{
	{keywords: []string{"despejado", "clear"}, phrase: func(p countries.AdvicePhrases) string { return p.Clear }},
	{keywords: []string{"nubes", "clouds", "nublado"}, phrase: func(p countries.AdvicePhrases) string { return p.Cloudy }},
}

func adviceTemperatures(units types.MeasurementSystem) (hot, cold float64) {
	if units == types.Imperial {
		return 86, 50
	}
	return 30, 10
}

// Advice picks the tip of the day: description keywords first, then
// temperature, then sky keywords, then the default phrase.
func Advice(description string, temperature *int, units types.MeasurementSystem, phrases countries.AdvicePhrases) string {
	desc := strings.ToLower(description)

	if p, ok := matchRules(desc, weatherKeywordRules, phrases); ok {
		return p
	}
	if temperature != nil {
		hot, cold := adviceTemperatures(units)
		temp := float64(*temperature)
		if temp > hot {
			return phrases.Hot
		}
		if temp < cold {
			return phrases.Cold
		}
	}
	if p, ok := matchRules(desc, skyKeywordRules, phrases); ok {
		return p
	}
	return phrases.Default
}

func matchRules(desc string, rules []keywordRule, phrases countries.AdvicePhrases) (string, bool) {
	for _, rule := range rules {
		if containsAny(desc, rule.keywords) {
			return rule.phrase(phrases), true
		}
	}
	return "", false
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
