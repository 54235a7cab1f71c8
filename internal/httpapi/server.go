package httpapi

import (
	"net/http"
	"time"

	"climate-server/internal/config"
)

// NewHandler wraps mux in the middleware chain, outermost first:
// recover, request ID, request log, rate limit, metrics.
func NewHandler(cfg config.Config, mux *http.ServeMux) http.Handler {
	var h http.Handler = metrics(mux)
	h = rateLimit(newLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst))(h)
	h = requestLogger(h)
	h = requestID(h)
	return recoverer(h)
}

func NewServer(cfg config.Config, mux *http.ServeMux) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewHandler(cfg, mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
}
