package weather

import (
	"database/sql"
	"log/slog"
	"net/http"

	"eolo-server/internal/config"
	"eolo-server/internal/metrics"
	"eolo-server/internal/modules/weather/controller"
	"eolo-server/internal/modules/weather/provider/openmeteo"
	"eolo-server/internal/modules/weather/provider/openweather"
	"eolo-server/internal/modules/weather/repository"
	"eolo-server/internal/modules/weather/service"
)

// RegisterFeature builds the lookup stack on top of db and mounts its routes
// on mux. publisher may be nil when report publishing is disabled.
func RegisterFeature(mux *http.ServeMux, db *sql.DB, cfg config.Config, m *metrics.Metrics, publisher service.ReportPublisher, logger *slog.Logger) *service.Service {
	weatherService := service.NewService(service.Deps{
		Current:        openweather.NewClient(cfg.OpenWeatherAPIKey, cfg.OpenWeatherURL, cfg.ProviderTimeout),
		Forecast:       openmeteo.NewClient(cfg.OpenMeteoURL, cfg.ProviderTimeout),
		Repository:     repository.NewRepository(db),
		Publisher:      publisher,
		Metrics:        m,
		Logger:         logger,
		CacheTTL:       cfg.CacheTTL,
		DefaultCountry: cfg.DefaultCountry,
	})
	weatherController := controller.NewWeatherController(weatherService)
	weatherController.RegisterRoutes(mux)
	return weatherService
}
