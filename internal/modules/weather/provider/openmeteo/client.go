// Package openmeteo fetches the daily forecast and hourly precipitation
// probabilities from the Open-Meteo forecast endpoint.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"eolo-server/internal/modules/weather/provider"
	"eolo-server/internal/modules/weather/types"
)

const DefaultBaseURL = "https://api.open-meteo.com/v1/forecast"

const (
	forecastDays  = 5
	forecastHours = 24
)

type Query struct {
	Lat   float64
	Lon   float64
	Units types.MeasurementSystem
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{baseURL: baseURL, httpClient: provider.NewHTTPClient(timeout)}
}

type response struct {
	Daily struct {
		Time        []string  `json:"time"`
		WeatherCode []int     `json:"weathercode"`
		TempMax     []float64 `json:"temperature_2m_max"`
		TempMin     []float64 `json:"temperature_2m_min"`
	} `json:"daily"`
	Hourly struct {
		PrecipitationProbability []*float64 `json:"precipitation_probability"`
	} `json:"hourly"`
}

func (c *Client) Forecast(ctx context.Context, q Query) (types.ForecastSeries, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return types.ForecastSeries{}, fmt.Errorf("parse base url: %w", err)
	}

	params := u.Query()
	params.Set("latitude", strconv.FormatFloat(q.Lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(q.Lon, 'f', -1, 64))
	params.Set("daily", "weathercode,temperature_2m_max,temperature_2m_min")
	params.Set("hourly", "precipitation_probability")
	params.Set("forecast_days", strconv.Itoa(forecastDays))
	params.Set("forecast_hours", strconv.Itoa(forecastHours))
	params.Set("timezone", "auto")
	params.Set("temperature_unit", q.Units.TemperatureUnit())
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return types.ForecastSeries{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return types.ForecastSeries{}, fmt.Errorf("%w: %v", provider.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return types.ForecastSeries{}, fmt.Errorf("%w: HTTP %d", provider.ErrProviderUnavailable, resp.StatusCode)
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return types.ForecastSeries{}, fmt.Errorf("%w: decode: %v", provider.ErrInvalidPayload, err)
	}

	return toSeries(body, q.Units)
}

func toSeries(body response, units types.MeasurementSystem) (types.ForecastSeries, error) {
	d := body.Daily
	n := min(len(d.Time), len(d.WeatherCode), len(d.TempMax), len(d.TempMin), forecastDays)

	series := types.ForecastSeries{
		Daily:           make([]types.DailyForecast, 0, n),
		TemperatureUnit: units.TemperatureUnit(),
	}
	for i := range n {
		date, err := time.Parse(time.DateOnly, d.Time[i])
		if err != nil {
			return types.ForecastSeries{}, fmt.Errorf("%w: daily time %q: %v", provider.ErrInvalidPayload, d.Time[i], err)
		}
		series.Daily = append(series.Daily, types.DailyForecast{
			Date:        date,
			WeatherCode: d.WeatherCode[i],
			TempMax:     d.TempMax[i],
			TempMin:     d.TempMin[i],
		})
	}

	// Hours the model has no value for count as 0%.
	probs := body.Hourly.PrecipitationProbability
	if len(probs) > forecastHours {
		probs = probs[:forecastHours]
	}
	series.PrecipitationProbability = make([]float64, len(probs))
	for i, p := range probs {
		if p != nil {
			series.PrecipitationProbability[i] = *p
		}
	}
	return series, nil
}
