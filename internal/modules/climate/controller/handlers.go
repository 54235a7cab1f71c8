package controller

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"climate-server/internal/modules/climate/service"
	"climate-server/internal/modules/climate/types"
	"climate-server/internal/modules/climate/views"
	"climate-server/internal/utils"
)

var indexRoutes = []views.Route{
	{Path: "/api/v1.0/precipitation", Description: "daily precipitation over the trailing window", Link: true},
	{Path: "/api/v1.0/stations", Description: "all weather stations", Link: true},
	{Path: "/api/v1.0/tobs", Description: "temperature observations of the most active station over the trailing window", Link: true},
	{Path: "/api/v1.0/{start}", Description: "min, avg and max temperature from start (YYYY-MM-DD)"},
	{Path: "/api/v1.0/{start}/{end}", Description: "min, avg and max temperature between start and end inclusive"},
}

func (c *climateControllerImpl) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	data := &views.IndexData{
		Title:      "Hawaii Climate API",
		Routes:     indexRoutes,
		WindowDays: c.windowDays,
	}
	if !c.windowEnd.IsZero() {
		data.WindowEnd = c.windowEnd.Format(types.DateLayout)
	}
	utils.WriteHTML(w, http.StatusOK, func(out io.Writer) error {
		return views.RenderIndex(out, data)
	})
}

func (c *climateControllerImpl) handlePrecipitation(w http.ResponseWriter, r *http.Request) {
	readings, err := c.service.Precipitation(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "precipitation query failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, readings)
}

func (c *climateControllerImpl) handleStations(w http.ResponseWriter, r *http.Request) {
	stations, err := c.service.Stations(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "stations query failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, stations)
}

func (c *climateControllerImpl) handleTobs(w http.ResponseWriter, r *http.Request) {
	obs, err := c.service.MostActiveStationTemperatures(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "tobs query failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, obs)
}

func (c *climateControllerImpl) handleSummaryFrom(w http.ResponseWriter, r *http.Request) {
	c.writeSummary(w, r, r.PathValue("start"), "")
}

func (c *climateControllerImpl) handleSummaryRange(w http.ResponseWriter, r *http.Request) {
	c.writeSummary(w, r, r.PathValue("start"), r.PathValue("end"))
}

func (c *climateControllerImpl) writeSummary(w http.ResponseWriter, r *http.Request, start, end string) {
	summary, err := c.service.TemperatureSummary(r.Context(), start, end)
	switch {
	case errors.Is(err, service.ErrDateNotFound):
		writeDateNotFound(w)
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "temperature summary failed", "start", start, "end", end, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, []types.TemperatureSummary{summary})
}

func writeDateNotFound(w http.ResponseWriter) {
	utils.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "Date not found"})
}
