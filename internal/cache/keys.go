package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"strings"
)

// CurrentKey identifies a current-conditions request. Place is either a
// normalized city query or "lat,lon".
func CurrentKey(place, lang, units string) string {
	return makeKey("current", canonicalPlace(place), strings.ToLower(lang), units)
}

func ForecastKey(lat, lon float64, units string) string {
	return makeKey("forecast", canonicalCoord(lat), canonicalCoord(lon), units)
}

// CoordPlace renders coordinates for CurrentKey.
func CoordPlace(lat, lon float64) string {
	return canonicalCoord(lat) + "," + canonicalCoord(lon)
}

func canonicalPlace(place string) string {
	return strings.ToLower(strings.Join(strings.Fields(place), " "))
}

// Four decimals is about 11 m, finer than either provider resolves.
func canonicalCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func makeKey(parts ...string) string {
	joined := strings.Join(parts, "|")
	h := sha1.Sum([]byte(joined))
	return hex.EncodeToString(h[:])
}
