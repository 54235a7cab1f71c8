package controller

import (
	"context"
	"net/http"
	"time"

	"climate-server/internal/modules/climate/types"
)

type ClimateService interface {
	Precipitation(ctx context.Context) ([]types.PrecipitationReading, error)
	Stations(ctx context.Context) ([]types.Station, error)
	MostActiveStationTemperatures(ctx context.Context) ([]types.TemperatureObservation, error)
	TemperatureSummary(ctx context.Context, start, end string) (types.TemperatureSummary, error)
}

type ClimateController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type climateControllerImpl struct {
	service    ClimateService
	windowDays int
	windowEnd  time.Time
}

// NewClimateController wires the HTTP handlers. windowDays and windowEnd are
// only used to describe the trailing window on the index page; a zero
// windowEnd means the latest measurement date.
func NewClimateController(service ClimateService, windowDays int, windowEnd time.Time) ClimateController {
	return &climateControllerImpl{service: service, windowDays: windowDays, windowEnd: windowEnd}
}

func (c *climateControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /", c.handleIndex)
	mux.HandleFunc("GET /api/v1.0/precipitation", c.handlePrecipitation)
	mux.HandleFunc("GET /api/v1.0/stations", c.handleStations)
	mux.HandleFunc("GET /api/v1.0/tobs", c.handleTobs)
	mux.HandleFunc("GET /api/v1.0/{start}", c.handleSummaryFrom)
	mux.HandleFunc("GET /api/v1.0/{start}/{end}", c.handleSummaryRange)
}
