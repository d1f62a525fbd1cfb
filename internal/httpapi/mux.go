package httpapi

import (
	"database/sql"
	"net/http"

	"eolo-server/internal/metrics"
)

// NewMux wires the infrastructure routes. Feature modules register their
// own routes on the returned mux. mqtt may be nil when publishing is off.
func NewMux(db *sql.DB, staticDir string, m *metrics.Metrics, mqtt ConnectionStatus) *http.ServeMux {
	mux := http.NewServeMux()
	registerHealthcheck(mux, db, mqtt)
	mux.Handle("GET /metrics", m.Handler())
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	return mux
}
