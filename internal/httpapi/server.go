package httpapi

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"

	"eolo-server/internal/config"
	"eolo-server/internal/metrics"
)

// NewServer wraps mux, innermost first, with metrics, panic recovery,
// compression, access logging and request ids. Recovery sits inside the
// compressor so the 500 is written before the gzip stream is closed.
func NewServer(cfg config.Config, mux *http.ServeMux, m *metrics.Metrics) *http.Server {
	var h http.Handler = mux
	h = m.Middleware(h)
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{}),
		handlers.PrintRecoveryStack(true),
	)(h)
	h = handlers.CompressHandler(h)
	h = requestLogger(h)
	h = withRequestID(h)

	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		// Lookups call two providers with a 10s timeout each.
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// recoveryLogger routes gorilla's recovered panics to slog.
type recoveryLogger struct{}

func (recoveryLogger) Println(v ...any) {
	slog.Error("http handler panic", "panic", fmt.Sprint(v...))
}
