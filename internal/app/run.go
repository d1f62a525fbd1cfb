package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"eolo-server/internal/config"
	db "eolo-server/internal/db"
	httpapi "eolo-server/internal/httpapi"
	"eolo-server/internal/metrics"
	weather "eolo-server/internal/modules/weather"
	"eolo-server/internal/modules/weather/service"
	weatherviews "eolo-server/internal/modules/weather/views"
	"eolo-server/internal/mqtt"
)

func Run(ctx context.Context, cfg config.Config) error {
	slog.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"staticDir", cfg.StaticDir,
		"defaultCountry", cfg.DefaultCountry,
		"providerTimeout", cfg.ProviderTimeout,
		"cacheTTL", cfg.CacheTTL,
		"dbDriver", cfg.Driver,
		"sqlitePath", cfg.Path,
		"dbMaxOpenConns", cfg.MaxOpenConns,
		"dbMaxIdleConns", cfg.MaxIdleConns,
		"dbConnMaxLifetime", cfg.ConnMaxLifetime,
		"mqttBroker", cfg.MQTTBroker,
		"mqttPort", cfg.MQTTPort,
		"mqttTopicPrefix", cfg.MQTTTopicPrefix,
	)
	logger := slog.Default()

	dbConn, err := db.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := db.Close(dbConn)
		if closeErr != nil {
			slog.Error("db close", "error", closeErr)
		}
	}()

	if err := db.Migrate(ctx, dbConn); err != nil {
		return err
	}

	var ok int
	err = dbConn.QueryRowContext(ctx, `SELECT 1`).Scan(&ok)
	if err != nil {
		return err
	}
	if ok != 1 {
		return errors.New("database connection failed")
	}
	slog.Info("database connection successful")

	if err := weatherviews.LoadTemplates(); err != nil {
		return err
	}

	m := metrics.New()

	// Interfaces stay nil (not typed-nil pointers) when publishing is off.
	var (
		publisher  service.ReportPublisher
		mqttStatus httpapi.ConnectionStatus
		mqttClient *mqtt.Publisher
	)
	if cfg.MQTTEnabled() {
		mqttClient = mqtt.NewPublisher(cfg, logger)
		// Short timeout so a missing broker doesn't block startup; paho keeps retrying.
		connectCtx, connectCancel := context.WithTimeout(ctx, 5*time.Second)
		err = mqttClient.Connect(connectCtx)
		connectCancel()
		if err != nil {
			slog.Warn("mqtt connection failed (continuing, reports will be dropped until it connects)", "error", err)
		}
		publisher, mqttStatus = mqttClient, mqttClient
	} else {
		slog.Info("mqtt disabled, reports will not be published")
	}

	mux := httpapi.NewMux(dbConn, cfg.StaticDir, m, mqttStatus)
	weatherService := weather.RegisterFeature(mux, dbConn, cfg, m, publisher, logger)
	if _, err := weatherService.Bundle(""); err != nil {
		return fmt.Errorf("DEFAULT_COUNTRY: %w", err)
	}

	srv := httpapi.NewServer(cfg, mux, m)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	slog.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err = <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if mqttClient != nil {
		slog.Info("mqtt disconnecting")
		mqttClient.Disconnect()
	}

	return ctx.Err()
}
