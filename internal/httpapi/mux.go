package httpapi

import (
	"database/sql"
	"net/http"

	"climate-server/internal/observability"
)

// NewMux returns a mux with the operational routes. Feature modules add
// their own routes to it.
func NewMux(db *sql.DB) *http.ServeMux {
	mux := http.NewServeMux()
	registerHealthcheck(mux, db)
	mux.Handle("GET /metrics", observability.Handler())
	return mux
}
