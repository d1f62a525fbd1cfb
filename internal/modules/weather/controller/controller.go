package controller

import (
	"context"
	"net/http"
	"time"

	"eolo-server/internal/modules/weather/countries"
	"eolo-server/internal/modules/weather/service"
	"eolo-server/internal/modules/weather/types"
)

// LookupService is the part of service.Service the handlers need.
type LookupService interface {
	Bundle(key string) (countries.Bundle, error)
	Lookup(ctx context.Context, req service.LookupRequest) (types.Report, error)
	RecentLookups(ctx context.Context, country string, limit int) ([]types.Lookup, error)
}

type WeatherController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type weatherControllerImpl struct {
	service LookupService
	now     func() time.Time
}

func NewWeatherController(service LookupService) WeatherController {
	return &weatherControllerImpl{service: service, now: time.Now}
}

func (c *weatherControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", c.handleIndex)
	mux.HandleFunc("GET /weather", c.handleWeatherPage)
	mux.HandleFunc("GET /partials/report", c.handleReportPartial)

	mux.HandleFunc("GET /api/v1/countries", c.handleCountries)
	mux.HandleFunc("GET /api/v1/weather", c.handleWeather)
	mux.HandleFunc("GET /api/v1/lookups", c.handleLookups)
}
