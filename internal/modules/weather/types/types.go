package types

import "time"

// MeasurementSystem is the unit convention used for displayed values.
type MeasurementSystem string

const (
	Metric   MeasurementSystem = "metric"
	Imperial MeasurementSystem = "imperial"
)

func (m MeasurementSystem) Valid() bool {
	return m == Metric || m == Imperial
}

// TemperatureUnit is the forecast provider's name for the temperature unit.
func (m MeasurementSystem) TemperatureUnit() string {
	if m == Imperial {
		return "fahrenheit"
	}
	return "celsius"
}

// Reading is the flat record of current conditions for one location.
// Pointer fields are nil when the provider did not report a usable value.
type Reading struct {
	City          string    `json:"city"`
	Temperature   *int      `json:"temperature"`
	Precipitation float64   `json:"precipitation"`
	Wind          *int      `json:"wind"`
	Humidity      *int      `json:"humidity"`
	Description   string    `json:"description"`
	Cloudiness    *int      `json:"cloudiness"`
	Time          string    `json:"time"`
	MeasuredAt    time.Time `json:"measuredAt"`
	Lat           *float64  `json:"lat,omitempty"`
	Lon           *float64  `json:"lon,omitempty"`
}

// HasCoordinates reports whether both coordinates are known.
func (r Reading) HasCoordinates() bool {
	return r.Lat != nil && r.Lon != nil
}

type DailyForecast struct {
	Date        time.Time `json:"date"`
	WeatherCode int       `json:"weatherCode"`
	TempMax     float64   `json:"tempMax"`
	TempMin     float64   `json:"tempMin"`
}

// ForecastSeries holds up to 5 days of daily values and up to 24 hourly
// precipitation probabilities (percent).
type ForecastSeries struct {
	Daily                    []DailyForecast `json:"daily"`
	PrecipitationProbability []float64       `json:"precipitationProbability"`
	TemperatureUnit          string          `json:"temperatureUnit"`
}

type Condition struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

type ForecastDay struct {
	Day     string `json:"day"`
	Icon    string `json:"icon"`
	TempMax int    `json:"tempMax"`
	TempMin int    `json:"tempMin"`
}

// Report is the complete result of one lookup.
type Report struct {
	Country          string            `json:"country"`
	Query            string            `json:"query"`
	Place            string            `json:"place"`
	Units            MeasurementSystem `json:"units"`
	Reading          Reading           `json:"reading"`
	Condition        Condition         `json:"condition"`
	Color            string            `json:"color"`
	Advice           string            `json:"advice"`
	Description      string            `json:"description"`
	PrecipitationMsg string            `json:"precipitationMessage,omitempty"`
	Forecast         []ForecastDay     `json:"forecast,omitempty"`
	Warnings         []string          `json:"warnings,omitempty"`
}

// Lookup is one persisted lookup-log entry.
type Lookup struct {
	ID          int64             `json:"id"`
	Query       string            `json:"query"`
	City        string            `json:"city"`
	Country     string            `json:"country"`
	Units       MeasurementSystem `json:"units"`
	Condition   string            `json:"condition"`
	Temperature *int              `json:"temperature"`
	Lat         *float64          `json:"lat,omitempty"`
	Lon         *float64          `json:"lon,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}
