// Package openweather fetches current conditions from the OpenWeatherMap
// current-weather endpoint and flattens them into a types.Reading.
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"eolo-server/internal/modules/weather/provider"
	"eolo-server/internal/modules/weather/types"
)

const DefaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

const (
	msToKmh = 3.6
	mmPerIn = 25.4
)

// Query selects a location either by name or by coordinates.
type Query struct {
	City  string
	Lat   *float64
	Lon   *float64
	Lang  string
	Units types.MeasurementSystem
}

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: provider.NewHTTPClient(timeout),
	}
}

// response keeps loosely typed leaves so that a missing or non-numeric
// value degrades to "unavailable" instead of failing the whole decode.
type response struct {
	Name  string `json:"name"`
	Dt    int64  `json:"dt"`
	Zone  int    `json:"timezone"`
	Coord *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp     any `json:"temp"`
		Humidity any `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed any `json:"speed"`
	} `json:"wind"`
	Rain struct {
		OneHour any `json:"1h"`
	} `json:"rain"`
	Clouds struct {
		All any `json:"all"`
	} `json:"clouds"`
}

func (c *Client) Current(ctx context.Context, q Query) (types.Reading, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return types.Reading{}, fmt.Errorf("parse base url: %w", err)
	}

	params := u.Query()
	if q.Lat != nil && q.Lon != nil {
		params.Set("lat", strconv.FormatFloat(*q.Lat, 'f', -1, 64))
		params.Set("lon", strconv.FormatFloat(*q.Lon, 'f', -1, 64))
	} else {
		params.Set("q", q.City)
	}
	params.Set("appid", c.apiKey)
	params.Set("units", string(q.Units))
	params.Set("lang", q.Lang)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return types.Reading{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return types.Reading{}, fmt.Errorf("%w: %v", provider.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return types.Reading{}, fmt.Errorf("%w: HTTP %d: %s", provider.ErrProviderUnavailable, resp.StatusCode, apiMessage(resp.Body))
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return types.Reading{}, fmt.Errorf("%w: decode: %v", provider.ErrInvalidPayload, err)
	}
	if len(body.Weather) == 0 {
		return types.Reading{}, fmt.Errorf("%w: no weather entry", provider.ErrInvalidPayload)
	}

	return toReading(body, q.Units), nil
}

func toReading(body response, units types.MeasurementSystem) types.Reading {
	r := types.Reading{
		City:        body.Name,
		Description: body.Weather[0].Description,
	}

	if v, ok := provider.Number(body.Main.Temp); ok {
		t := provider.RoundInt(v)
		r.Temperature = &t
	}

	speed, _ := provider.Number(body.Wind.Speed)
	if units == types.Metric {
		speed *= msToKmh
	}
	wind := provider.RoundInt(speed)
	r.Wind = &wind

	rain, _ := provider.Number(body.Rain.OneHour)
	if units == types.Imperial {
		rain = provider.RoundTo(rain/mmPerIn, 2)
	}
	r.Precipitation = rain

	if v, ok := provider.Number(body.Main.Humidity); ok {
		h := provider.RoundInt(v)
		r.Humidity = &h
	}
	if v, ok := provider.Number(body.Clouds.All); ok {
		c := provider.RoundInt(v)
		r.Cloudiness = &c
	}

	zone := time.FixedZone("", body.Zone)
	r.MeasuredAt = time.Unix(body.Dt, 0).In(zone)
	r.Time = r.MeasuredAt.Format(time.TimeOnly)

	if body.Coord != nil {
		lat, lon := body.Coord.Lat, body.Coord.Lon
		r.Lat, r.Lon = &lat, &lon
	}
	return r
}

func apiMessage(body io.Reader) string {
	var apiErr struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(body, 4096)).Decode(&apiErr); err != nil || apiErr.Message == "" {
		return "unable to decode body"
	}
	return apiErr.Message
}
