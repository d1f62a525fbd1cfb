package classify

import (
	"fmt"

	"eolo-server/internal/modules/weather/countries"
)

const (
	onsetWindowHours = 12
	onsetThreshold   = 40.0
)

// PrecipitationOnset reports how soon rain is expected from hourly
// precipitation probabilities (percent). Only the first 12 hours count and
// the first hour above 40% wins. An empty series yields "".
func PrecipitationOnset(probabilities []float64, phrases countries.PrecipitationPhrases) string {
	if len(probabilities) == 0 {
		return ""
	}
	window := probabilities
	if len(window) > onsetWindowHours {
		window = window[:onsetWindowHours]
	}
	for i, p := range window {
		if p <= onsetThreshold {
			continue
		}
		switch i {
		case 0:
			return phrases.RainNow
		case 1:
			return phrases.RainInOneHour
		default:
			return fmt.Sprintf(phrases.RainInHours, i)
		}
	}
	return phrases.NoRain
}
