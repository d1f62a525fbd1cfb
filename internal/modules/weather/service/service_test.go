package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"eolo-server/internal/modules/weather/provider"
	"eolo-server/internal/modules/weather/provider/openmeteo"
	"eolo-server/internal/modules/weather/provider/openweather"
	"eolo-server/internal/modules/weather/types"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

type fakeCurrent struct {
	mu      sync.Mutex
	calls   int
	queries []openweather.Query
	reading types.Reading
	err     error
}

func (f *fakeCurrent) Current(_ context.Context, q openweather.Query) (types.Reading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.queries = append(f.queries, q)
	return f.reading, f.err
}

type fakeForecast struct {
	calls  int
	series types.ForecastSeries
	err    error
}

func (f *fakeForecast) Forecast(_ context.Context, _ openmeteo.Query) (types.ForecastSeries, error) {
	f.calls++
	return f.series, f.err
}

type fakeRepo struct {
	inserted []types.Lookup
	err      error
}

func (f *fakeRepo) InsertLookup(_ context.Context, l types.Lookup) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.inserted = append(f.inserted, l)
	return int64(len(f.inserted)), nil
}

func (f *fakeRepo) RecentLookups(_ context.Context, limit int) ([]types.Lookup, error) {
	return f.inserted, nil
}

func (f *fakeRepo) RecentLookupsByCountry(_ context.Context, country string, limit int) ([]types.Lookup, error) {
	var out []types.Lookup
	for _, l := range f.inserted {
		if l.Country == country {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakePublisher struct {
	topics []string
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, countryCode string, v any) error {
	f.topics = append(f.topics, countryCode)
	if _, ok := v.(types.Report); !ok {
		return fmt.Errorf("unexpected payload %T", v)
	}
	return f.err
}

func campecheReading() types.Reading {
	return types.Reading{
		City:          "Campeche",
		Temperature:   intPtr(31),
		Precipitation: 0,
		Wind:          intPtr(12),
		Humidity:      intPtr(75),
		Description:   "nubes dispersas",
		Cloudiness:    intPtr(30),
		Time:          "15:00:00",
		Lat:           floatPtr(19.85),
		Lon:           floatPtr(-90.53),
	}
}

func fiveDaySeries() types.ForecastSeries {
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC) // Monday
	var daily []types.DailyForecast
	for i, code := range []int{0, 2, 61, 95, 45} {
		daily = append(daily, types.DailyForecast{Date: start.AddDate(0, 0, i), WeatherCode: code, TempMax: 31.6, TempMin: 20.4})
	}
	probs := make([]float64, 24)
	probs[3] = 60
	return types.ForecastSeries{Daily: daily, PrecipitationProbability: probs, TemperatureUnit: "celsius"}
}

type harness struct {
	svc       *Service
	current   *fakeCurrent
	forecast  *fakeForecast
	repo      *fakeRepo
	publisher *fakePublisher
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		current:   &fakeCurrent{reading: campecheReading()},
		forecast:  &fakeForecast{series: fiveDaySeries()},
		repo:      &fakeRepo{},
		publisher: &fakePublisher{},
	}
	h.svc = NewService(Deps{
		Current:        h.current,
		Forecast:       h.forecast,
		Repository:     h.repo,
		Publisher:      h.publisher,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		CacheTTL:       10 * time.Minute,
		DefaultCountry: "mx",
	})
	return h
}

func TestLookup_fullReport(t *testing.T) {
	h := newHarness(t)

	r, err := h.svc.Lookup(context.Background(), LookupRequest{Country: "mx", City: " Campeche "})
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}

	q := h.current.queries[0]
	if q.City != "Campeche, MX" || q.Lang != "es" || q.Units != types.Metric {
		t.Errorf("provider query = %+v", q)
	}
	if r.Query != "Campeche, MX" || r.Place != "Campeche" || r.Country != "mx" {
		t.Errorf("Query/Place/Country = %q/%q/%q", r.Query, r.Place, r.Country)
	}
	if r.Condition.Key != "very_uncomfortable" {
		t.Errorf("Condition = %q; want very_uncomfortable", r.Condition.Key)
	}
	if r.Color != "red" {
		t.Errorf("Color = %q; want red", r.Color)
	}
	if r.Description != "Parcialmente nublado" {
		t.Errorf("Description = %q", r.Description)
	}
	if r.PrecipitationMsg != "Se espera lluvia en aproximadamente 3 horas." {
		t.Errorf("PrecipitationMsg = %q", r.PrecipitationMsg)
	}
	if len(r.Forecast) != 5 {
		t.Fatalf("len(Forecast) = %d; want 5", len(r.Forecast))
	}
	if d := r.Forecast[0]; d.Day != "Lun" || d.Icon != "☀️" || d.TempMax != 32 || d.TempMin != 20 {
		t.Errorf("Forecast[0] = %+v", d)
	}
	if len(r.Warnings) != 0 {
		t.Errorf("Warnings = %v; want none", r.Warnings)
	}

	if len(h.repo.inserted) != 1 {
		t.Fatalf("persisted %d lookups; want 1", len(h.repo.inserted))
	}
	if l := h.repo.inserted[0]; l.City != "Campeche" || l.Condition != "very_uncomfortable" || l.Country != "mx" {
		t.Errorf("persisted lookup = %+v", l)
	}
	if len(h.publisher.topics) != 1 || h.publisher.topics[0] != "MX" {
		t.Errorf("published = %v; want [MX]", h.publisher.topics)
	}
}

func TestLookup_defaultCountry(t *testing.T) {
	h := newHarness(t)
	r, err := h.svc.Lookup(context.Background(), LookupRequest{City: "Mérida"})
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if r.Country != "mx" || r.Units != types.Metric {
		t.Errorf("Country/Units = %q/%q", r.Country, r.Units)
	}
}

func TestLookup_imperialCountry(t *testing.T) {
	h := newHarness(t)
	h.current.reading.Temperature = intPtr(88)
	h.current.reading.Humidity = intPtr(40)

	r, err := h.svc.Lookup(context.Background(), LookupRequest{Country: "us", City: "Austin, TX"})
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if q := h.current.queries[0]; q.City != "Austin, TX" || q.Lang != "en" || q.Units != types.Imperial {
		t.Errorf("provider query = %+v", q)
	}
	if r.Color != "red" || r.Advice != "It's very hot! Stay hydrated and seek shade. 💧" {
		t.Errorf("Color/Advice = %q/%q", r.Color, r.Advice)
	}
	if r.Forecast[0].Day != "Mon" {
		t.Errorf("Forecast[0].Day = %q; want Mon", r.Forecast[0].Day)
	}
}

func TestLookup_validation(t *testing.T) {
	h := newHarness(t)

	if _, err := h.svc.Lookup(context.Background(), LookupRequest{Country: "mx", City: "   "}); !errors.Is(err, ErrNoCity) {
		t.Errorf("blank city err = %v; want ErrNoCity", err)
	}
	if _, err := h.svc.Lookup(context.Background(), LookupRequest{Country: "fr", City: "Paris"}); !errors.Is(err, ErrUnknownCountry) {
		t.Errorf("unknown country err = %v; want ErrUnknownCountry", err)
	}
	if h.current.calls != 0 {
		t.Errorf("provider called %d times for invalid requests", h.current.calls)
	}
}

func TestLookup_coordinates(t *testing.T) {
	h := newHarness(t)
	r, err := h.svc.Lookup(context.Background(), LookupRequest{Country: "mx", Lat: floatPtr(19.85), Lon: floatPtr(-90.53)})
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	q := h.current.queries[0]
	if q.Lat == nil || *q.Lat != 19.85 || q.City != "" {
		t.Errorf("provider query = %+v", q)
	}
	if r.Place != "Campeche" {
		t.Errorf("Place = %q; want provider city name", r.Place)
	}
}

func TestLookup_providerErrors(t *testing.T) {
	for _, want := range []error{ErrProviderUnavailable, ErrInvalidPayload} {
		t.Run(want.Error(), func(t *testing.T) {
			h := newHarness(t)
			h.current.err = fmt.Errorf("%w: boom", want)

			_, err := h.svc.Lookup(context.Background(), LookupRequest{Country: "mx", City: "Campeche"})
			if !errors.Is(err, want) {
				t.Errorf("err = %v; want %v", err, want)
			}
			if len(h.repo.inserted) != 0 || len(h.publisher.topics) != 0 {
				t.Error("failed lookups must not be recorded")
			}
		})
	}
}

func TestLookup_forecastFailureIsWarning(t *testing.T) {
	h := newHarness(t)
	h.forecast.err = fmt.Errorf("%w: HTTP 503", provider.ErrProviderUnavailable)

	r, err := h.svc.Lookup(context.Background(), LookupRequest{Country: "mx", City: "Campeche"})
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if len(r.Warnings) != 1 || r.Warnings[0] != "No se pudo obtener el pronóstico del tiempo." {
		t.Errorf("Warnings = %v", r.Warnings)
	}
	if r.Forecast != nil || r.PrecipitationMsg != "" {
		t.Errorf("forecast fields should be empty: %+v / %q", r.Forecast, r.PrecipitationMsg)
	}
	if len(h.repo.inserted) != 1 {
		t.Error("lookup should still be persisted")
	}
}

func TestLookup_noCoordinatesSkipsForecast(t *testing.T) {
	h := newHarness(t)
	h.current.reading.Lat, h.current.reading.Lon = nil, nil

	r, err := h.svc.Lookup(context.Background(), LookupRequest{Country: "mx", City: "Campeche"})
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if h.forecast.calls != 0 {
		t.Errorf("forecast called %d times", h.forecast.calls)
	}
	if len(r.Warnings) != 0 {
		t.Errorf("Warnings = %v", r.Warnings)
	}
}

func TestLookup_cacheAvoidsSecondCall(t *testing.T) {
	h := newHarness(t)
	for range 2 {
		if _, err := h.svc.Lookup(context.Background(), LookupRequest{Country: "mx", City: "Campeche"}); err != nil {
			t.Fatalf("Lookup: %v", err)
		}
	}
	if h.current.calls != 1 || h.forecast.calls != 1 {
		t.Errorf("provider calls = %d/%d; want 1/1", h.current.calls, h.forecast.calls)
	}
	// Every lookup is still recorded.
	if len(h.repo.inserted) != 2 {
		t.Errorf("persisted %d lookups; want 2", len(h.repo.inserted))
	}

	// A different unit system is a different request.
	if _, err := h.svc.Lookup(context.Background(), LookupRequest{Country: "us", City: "Campeche, MX"}); err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if h.current.calls != 2 {
		t.Errorf("provider calls = %d; want 2", h.current.calls)
	}
}

func TestLookup_cacheDisabled(t *testing.T) {
	h := newHarness(t)
	h.svc.cacheTTL = 0
	for range 2 {
		if _, err := h.svc.Lookup(context.Background(), LookupRequest{Country: "mx", City: "Campeche"}); err != nil {
			t.Fatalf("Lookup: %v", err)
		}
	}
	if h.current.calls != 2 {
		t.Errorf("provider calls = %d; want 2", h.current.calls)
	}
}

func TestLookup_recordFailuresAreNonFatal(t *testing.T) {
	h := newHarness(t)
	h.repo.err = errors.New("disk full")
	h.publisher.err = errors.New("broker down")

	if _, err := h.svc.Lookup(context.Background(), LookupRequest{Country: "mx", City: "Campeche"}); err != nil {
		t.Fatalf("Lookup: %v", err)
	}
}

func TestLookup_withoutPublisher(t *testing.T) {
	h := newHarness(t)
	h.svc.publisher = nil
	if _, err := h.svc.Lookup(context.Background(), LookupRequest{Country: "mx", City: "Campeche"}); err != nil {
		t.Fatalf("Lookup: %v", err)
	}
}

func TestRecentLookups(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.svc.Lookup(ctx, LookupRequest{Country: "mx", City: "Campeche"})
	h.svc.Lookup(ctx, LookupRequest{Country: "us", City: "Austin"})

	all, err := h.svc.RecentLookups(ctx, "", 20)
	if err != nil || len(all) != 2 {
		t.Fatalf("RecentLookups = %d, %v; want 2", len(all), err)
	}
	us, err := h.svc.RecentLookups(ctx, "US", 20)
	if err != nil || len(us) != 1 || us[0].Country != "us" {
		t.Fatalf("RecentLookups(US) = %+v, %v", us, err)
	}
	if _, err := h.svc.RecentLookups(ctx, "fr", 20); !errors.Is(err, ErrUnknownCountry) {
		t.Errorf("err = %v; want ErrUnknownCountry", err)
	}
}
