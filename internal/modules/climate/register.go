package climate

import (
	"database/sql"
	"log/slog"
	"net/http"

	"climate-server/internal/config"
	"climate-server/internal/modules/climate/controller"
	"climate-server/internal/modules/climate/repository"
	"climate-server/internal/modules/climate/service"
)

func RegisterFeature(mux *http.ServeMux, db *sql.DB, cfg config.Config, logger *slog.Logger) {
	climateRepository := repository.NewRepository(db)
	windows := service.NewWindowResolver(cfg.AnalysisEndDate, cfg.WindowDays, climateRepository.GetLatestDate)
	climateService := service.NewService(climateRepository, windows, service.Options{StrictEmptyCheck: cfg.StrictEmptyCheck}, logger)
	climateController := controller.NewClimateController(climateService, cfg.WindowDays, cfg.AnalysisEndDate)
	climateController.RegisterRoutes(mux)
}
