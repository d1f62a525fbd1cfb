package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eolo-server/internal/cache"
	"eolo-server/internal/metrics"
	"eolo-server/internal/modules/weather/classify"
	"eolo-server/internal/modules/weather/countries"
	"eolo-server/internal/modules/weather/provider"
	"eolo-server/internal/modules/weather/provider/openmeteo"
	"eolo-server/internal/modules/weather/provider/openweather"
	"eolo-server/internal/modules/weather/repository"
	"eolo-server/internal/modules/weather/types"
)

var (
	ErrNoCity         = errors.New("no city given")
	ErrUnknownCountry = errors.New("unknown country")

	ErrProviderUnavailable = provider.ErrProviderUnavailable
	ErrInvalidPayload      = provider.ErrInvalidPayload
)

type CurrentFetcher interface {
	Current(ctx context.Context, q openweather.Query) (types.Reading, error)
}

type ForecastFetcher interface {
	Forecast(ctx context.Context, q openmeteo.Query) (types.ForecastSeries, error)
}

// ReportPublisher fans finished reports out to other consumers.
type ReportPublisher interface {
	Publish(ctx context.Context, countryCode string, v any) error
}

// LookupRequest selects a location by city name or by coordinates. An
// empty Country means the configured default.
type LookupRequest struct {
	Country string
	City    string
	Lat     *float64
	Lon     *float64
}

func (r LookupRequest) hasCoordinates() bool {
	return r.Lat != nil && r.Lon != nil
}

type Deps struct {
	Current        CurrentFetcher
	Forecast       ForecastFetcher
	Repository     repository.LookupRepository
	Publisher      ReportPublisher
	Metrics        *metrics.Metrics
	Logger         *slog.Logger
	CacheTTL       time.Duration
	DefaultCountry string
}

type Service struct {
	current        CurrentFetcher
	forecast       ForecastFetcher
	repository     repository.LookupRepository
	publisher      ReportPublisher
	metrics        *metrics.Metrics
	logger         *slog.Logger
	defaultCountry string

	cacheTTL      time.Duration
	currentCache  *cache.Cache[types.Reading]
	forecastCache *cache.Cache[types.ForecastSeries]

	now func() time.Time
}

func NewService(d Deps) *Service {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	defaultCountry := d.DefaultCountry
	if defaultCountry == "" {
		defaultCountry = "mx"
	}
	return &Service{
		current:        d.Current,
		forecast:       d.Forecast,
		repository:     d.Repository,
		publisher:      d.Publisher,
		metrics:        d.Metrics,
		logger:         logger,
		defaultCountry: defaultCountry,
		cacheTTL:       d.CacheTTL,
		currentCache:   cache.New[types.Reading](d.CacheTTL, d.Metrics.CacheObserver("current")),
		forecastCache:  cache.New[types.ForecastSeries](d.CacheTTL, d.Metrics.CacheObserver("forecast")),
		now:            time.Now,
	}
}

// Bundle resolves a country key, falling back to the default country when
// key is empty.
func (s *Service) Bundle(key string) (countries.Bundle, error) {
	if strings.TrimSpace(key) == "" {
		key = s.defaultCountry
	}
	b, ok := countries.Get(key)
	if !ok {
		return countries.Bundle{}, fmt.Errorf("%w: %q", ErrUnknownCountry, key)
	}
	return b, nil
}

// Lookup fetches, classifies and records the weather for one location.
// Forecast, persistence and publish failures never fail the lookup.
func (s *Service) Lookup(ctx context.Context, req LookupRequest) (types.Report, error) {
	bundle, err := s.Bundle(req.Country)
	if err != nil {
		return types.Report{}, err
	}

	q := openweather.Query{Lang: bundle.Lang(), Units: bundle.Units}
	var query, place, cachePlace string
	if req.hasCoordinates() {
		q.Lat, q.Lon = req.Lat, req.Lon
		cachePlace = cache.CoordPlace(*req.Lat, *req.Lon)
		query = cachePlace
	} else {
		if strings.TrimSpace(req.City) == "" {
			return types.Report{}, ErrNoCity
		}
		query = classify.NormalizeCity(req.City, bundle.CountryCode)
		place = classify.PlaceName(query)
		q.City = query
		cachePlace = query
	}

	reading, err := cachedLoad(ctx, s, s.currentCache, cache.CurrentKey(cachePlace, q.Lang, string(q.Units)), "openweather",
		func(ctx context.Context) (types.Reading, error) { return s.current.Current(ctx, q) })
	if err != nil {
		s.logger.Warn("current weather lookup failed", "query", query, "country", bundle.Key, "error", err)
		return types.Report{}, err
	}
	if place == "" {
		place = reading.City
	}

	report := types.Report{
		Country:     bundle.Key,
		Query:       query,
		Place:       place,
		Units:       bundle.Units,
		Reading:     reading,
		Condition:   classify.Condition(reading, bundle.Units),
		Color:       classify.TemperatureColor(reading.Temperature, bundle.Units),
		Advice:      classify.Advice(reading.Description, reading.Temperature, bundle.Units, bundle.Advice),
		Description: classify.FriendlyDescription(reading.Description, reading.Cloudiness, bundle.Language),
	}

	if reading.HasCoordinates() {
		s.addForecast(ctx, &report, bundle)
	}

	s.record(ctx, report, bundle)
	s.metrics.Lookup(bundle.Key, report.Condition.Key)
	return report, nil
}

func (s *Service) addForecast(ctx context.Context, report *types.Report, bundle countries.Bundle) {
	lat, lon := *report.Reading.Lat, *report.Reading.Lon
	fq := openmeteo.Query{Lat: lat, Lon: lon, Units: bundle.Units}

	series, err := cachedLoad(ctx, s, s.forecastCache, cache.ForecastKey(lat, lon, string(bundle.Units)), "openmeteo",
		func(ctx context.Context) (types.ForecastSeries, error) { return s.forecast.Forecast(ctx, fq) })
	if err != nil {
		s.logger.Warn("forecast lookup failed", "lat", lat, "lon", lon, "error", err)
		report.Warnings = append(report.Warnings, bundle.ForecastWarning)
		return
	}

	report.PrecipitationMsg = classify.PrecipitationOnset(series.PrecipitationProbability, bundle.Precipitation)
	report.Forecast = make([]types.ForecastDay, 0, len(series.Daily))
	for _, d := range series.Daily {
		report.Forecast = append(report.Forecast, types.ForecastDay{
			Day:     bundle.ShortWeekday(d.Date),
			Icon:    classify.WeatherCodeIcon(d.WeatherCode),
			TempMax: provider.RoundInt(d.TempMax),
			TempMin: provider.RoundInt(d.TempMin),
		})
	}
}

// record persists the lookup and publishes the report. Both are best effort.
func (s *Service) record(ctx context.Context, report types.Report, bundle countries.Bundle) {
	if s.repository != nil {
		l := types.Lookup{
			Query:       report.Query,
			City:        report.Place,
			Country:     bundle.Key,
			Units:       bundle.Units,
			Condition:   report.Condition.Key,
			Temperature: report.Reading.Temperature,
			Lat:         report.Reading.Lat,
			Lon:         report.Reading.Lon,
			CreatedAt:   s.now(),
		}
		if _, err := s.repository.InsertLookup(ctx, l); err != nil {
			s.logger.Error("failed to persist lookup", "query", report.Query, "error", err)
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, bundle.CountryCode, report); err != nil {
			s.metrics.PublishFailed()
			s.logger.Warn("failed to publish report", "country", bundle.CountryCode, "error", err)
		}
	}
}

// RecentLookups lists the latest lookups, optionally for one country only.
func (s *Service) RecentLookups(ctx context.Context, country string, limit int) ([]types.Lookup, error) {
	if s.repository == nil {
		return []types.Lookup{}, nil
	}
	if country == "" {
		return s.repository.RecentLookups(ctx, limit)
	}
	b, err := s.Bundle(country)
	if err != nil {
		return nil, err
	}
	return s.repository.RecentLookupsByCountry(ctx, b.Key, limit)
}

func cachedLoad[T any](ctx context.Context, s *Service, c *cache.Cache[T], key, providerName string, load func(context.Context) (T, error)) (T, error) {
	timed := func(ctx context.Context) (T, error) {
		start := time.Now()
		v, err := load(ctx)
		s.metrics.ProviderRequest(providerName, time.Since(start), err == nil)
		return v, err
	}
	if s.cacheTTL <= 0 {
		return timed(ctx)
	}
	return c.GetOrLoad(ctx, key, timed)
}
