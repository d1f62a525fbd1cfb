package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppEnv   string
	LogLevel slog.Level
	HTTPAddr string

	// StaticDir is the absolute path to the directory served at /static/.
	// Set via STATIC_DIR (relative paths are resolved against the process working directory at startup).
	StaticDir string

	OpenWeatherAPIKey string
	OpenWeatherURL    string
	OpenMeteoURL      string
	ProviderTimeout   time.Duration
	CacheTTL          time.Duration
	DefaultCountry    string

	Driver          string
	DSN             string
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogSQL          bool

	// MQTTBroker is the broker host. Empty disables report publishing.
	MQTTBroker      string
	MQTTPort        int
	MQTTClientID    string
	MQTTTopicPrefix string
}

// MQTTEnabled reports whether a broker was configured.
func (c Config) MQTTEnabled() bool {
	return c.MQTTBroker != ""
}

func LoadFromEnv() (Config, error) {
	appEnv := envString("APP_ENV", "dev")
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	level, err := parseLogLevel(envString("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}

	staticDir := envString("STATIC_DIR", "static")
	staticDir, err = filepath.Abs(staticDir)
	if err != nil {
		return Config{}, fmt.Errorf("STATIC_DIR %q: %w", staticDir, err)
	}

	apiKey := envString("OPENWEATHER_API_KEY", "")
	if apiKey == "" {
		return Config{}, fmt.Errorf("OPENWEATHER_API_KEY is required")
	}

	providerTimeout, err := envDuration("PROVIDER_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}
	if providerTimeout <= 0 {
		return Config{}, fmt.Errorf("invalid PROVIDER_TIMEOUT %q (must be positive)", providerTimeout)
	}
	cacheTTL, err := envDuration("CACHE_TTL", "10m")
	if err != nil {
		return Config{}, err
	}
	if cacheTTL < 0 {
		return Config{}, fmt.Errorf("invalid CACHE_TTL %q (must not be negative)", cacheTTL)
	}

	maxOpenConns, err := envInt("DB_MAX_OPEN_CONNS", "1")
	if err != nil {
		return Config{}, err
	}
	maxIdleConns, err := envInt("DB_MAX_IDLE_CONNS", "1")
	if err != nil {
		return Config{}, err
	}
	connMaxLifetime, err := envDuration("DB_CONN_MAX_LIFETIME", "0s")
	if err != nil {
		return Config{}, err
	}
	logSQL, err := envBool("DB_LOG_SQL", "false")
	if err != nil {
		return Config{}, err
	}

	mqttPort, err := envInt("MQTT_PORT", "1883")
	if err != nil {
		return Config{}, err
	}
	if mqttPort <= 0 || mqttPort > 65535 {
		return Config{}, fmt.Errorf("invalid MQTT_PORT %d (allowed: 1-65535)", mqttPort)
	}

	return Config{
		AppEnv:    appEnv,
		LogLevel:  level,
		HTTPAddr:  envString("HTTP_ADDR", ":8080"),
		StaticDir: staticDir,

		OpenWeatherAPIKey: apiKey,
		OpenWeatherURL:    envString("OPENWEATHER_URL", ""),
		OpenMeteoURL:      envString("OPENMETEO_URL", ""),
		ProviderTimeout:   providerTimeout,
		CacheTTL:          cacheTTL,
		DefaultCountry:    strings.ToLower(envString("DEFAULT_COUNTRY", "mx")),

		Driver:          envString("DB_DRIVER", "sqlite3"),
		DSN:             envString("DB_DSN", ""),
		Path:            envString("SQLITE_PATH", "data/eolo.db"),
		MaxOpenConns:    maxOpenConns,
		MaxIdleConns:    maxIdleConns,
		ConnMaxLifetime: connMaxLifetime,
		LogSQL:          logSQL,

		MQTTBroker:      envString("MQTT_BROKER", ""),
		MQTTPort:        mqttPort,
		MQTTClientID:    envString("MQTT_CLIENT_ID", "eolo-server"),
		MQTTTopicPrefix: strings.TrimSuffix(envString("MQTT_TOPIC_PREFIX", "eolo"), "/"),
	}, nil
}

func envString(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envInt(key, def string) (int, error) {
	s := envString(key, def)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return n, nil
}

func envDuration(key, def string) (time.Duration, error) {
	s := envString(key, def)
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return d, nil
}

func envBool(key, def string) (bool, error) {
	s := envString(key, def)
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return b, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
