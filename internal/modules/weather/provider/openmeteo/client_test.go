package openmeteo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eolo-server/internal/modules/weather/provider"
	"eolo-server/internal/modules/weather/types"
)

const forecastBody = `{
	"daily_units": {"temperature_2m_max": "°C"},
	"daily": {
		"time": ["2026-01-05", "2026-01-06", "2026-01-07", "2026-01-08", "2026-01-09"],
		"weathercode": [0, 3, 61, 95, 45],
		"temperature_2m_max": [31.4, 30.2, 28.9, 27.5, 29.0],
		"temperature_2m_min": [21.6, 20.1, 19.8, 19.0, 20.5]
	},
	"hourly": {
		"time": ["2026-01-05T00:00", "2026-01-05T01:00", "2026-01-05T02:00"],
		"precipitation_probability": [5, null, 65]
	}
}`

func TestForecast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		want := map[string]string{
			"latitude":         "19.85",
			"longitude":        "-90.53",
			"daily":            "weathercode,temperature_2m_max,temperature_2m_min",
			"hourly":           "precipitation_probability",
			"forecast_days":    "5",
			"forecast_hours":   "24",
			"timezone":         "auto",
			"temperature_unit": "fahrenheit",
		}
		for k, v := range want {
			if got := q.Get(k); got != v {
				t.Errorf("%s = %q; want %q", k, got, v)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(forecastBody))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	got, err := c.Forecast(context.Background(), Query{Lat: 19.85, Lon: -90.53, Units: types.Imperial})
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}

	if len(got.Daily) != 5 {
		t.Fatalf("len(Daily) = %d; want 5", len(got.Daily))
	}
	first := got.Daily[0]
	if first.Date.Format(time.DateOnly) != "2026-01-05" || first.WeatherCode != 0 || first.TempMax != 31.4 || first.TempMin != 21.6 {
		t.Errorf("Daily[0] = %+v", first)
	}
	if got.Daily[3].WeatherCode != 95 {
		t.Errorf("Daily[3].WeatherCode = %d; want 95", got.Daily[3].WeatherCode)
	}

	wantProbs := []float64{5, 0, 65}
	if len(got.PrecipitationProbability) != len(wantProbs) {
		t.Fatalf("probabilities = %v; want %v", got.PrecipitationProbability, wantProbs)
	}
	for i, p := range wantProbs {
		if got.PrecipitationProbability[i] != p {
			t.Errorf("probability[%d] = %v; want %v", i, got.PrecipitationProbability[i], p)
		}
	}
	if got.TemperatureUnit != "fahrenheit" {
		t.Errorf("TemperatureUnit = %q", got.TemperatureUnit)
	}
}

func TestForecast_errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"bad request", http.StatusBadRequest, `{"error":true,"reason":"Latitude must be in range"}`, provider.ErrProviderUnavailable},
		{"server error", http.StatusBadGateway, ``, provider.ErrProviderUnavailable},
		{"not json", http.StatusOK, `not json`, provider.ErrInvalidPayload},
		{"bad date", http.StatusOK, `{"daily":{"time":["tomorrow"],"weathercode":[0],"temperature_2m_max":[1],"temperature_2m_min":[0]}}`, provider.ErrInvalidPayload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, time.Second).Forecast(context.Background(), Query{Units: types.Metric})
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v; want %v", err, tt.want)
			}
		})
	}
}

func TestForecast_emptyHourly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"daily":{}}`))
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL, time.Second).Forecast(context.Background(), Query{Units: types.Metric})
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}
	if len(got.Daily) != 0 || len(got.PrecipitationProbability) != 0 {
		t.Errorf("got %+v; want empty series", got)
	}
}
