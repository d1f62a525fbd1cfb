// Package classify turns a weather reading into the labels, phrases and
// colors shown to the user. Every function is pure; configuration (unit
// system, phrase tables, language) is passed in explicitly.
package classify

import (
	"strings"
)

// NormalizeCity trims city and appends ", <countryCode>" when it carries no
// region or country qualifier (no comma).
func NormalizeCity(city, countryCode string) string {
	city = strings.TrimSpace(city)
	if !strings.Contains(city, ",") {
		city += ", " + countryCode
	}
	return city
}

// PlaceName returns the part of a normalized query before the first comma.
func PlaceName(query string) string {
	name, _, _ := strings.Cut(query, ",")
	return strings.TrimSpace(name)
}
