package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"climate-server/internal/modules/climate/repository"
	"climate-server/internal/modules/climate/types"
	"climate-server/internal/observability"
)

var (
	// ErrDateNotFound means an aggregate query matched nothing usable.
	ErrDateNotFound = errors.New("date not found")
	// ErrInvalidDate wraps a path date that is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")
)

type Options struct {
	// StrictEmptyCheck reports "not found" only when no rows matched. When
	// false a minimum of exactly 0 is also treated as "not found", which is
	// how the API has always behaved.
	StrictEmptyCheck bool
}

type Service struct {
	repository repository.ClimateRepository
	windows    *WindowResolver
	opts       Options
	logger     *slog.Logger
}

func NewService(repo repository.ClimateRepository, windows *WindowResolver, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repository: repo, windows: windows, opts: opts, logger: logger}
}

func (s *Service) Precipitation(ctx context.Context) ([]types.PrecipitationReading, error) {
	window, err := s.windows.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return s.repository.GetPrecipitation(ctx, window)
}

func (s *Service) Stations(ctx context.Context) ([]types.Station, error) {
	return s.repository.GetStations(ctx)
}

func (s *Service) MostActiveStationTemperatures(ctx context.Context) ([]types.TemperatureObservation, error) {
	window, err := s.windows.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	station, obs, err := s.repository.GetMostActiveStationTemperatures(ctx, window)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("most active station resolved",
		"station", station,
		"window_start", window.StartDate(),
		"window_end", window.EndDate(),
		"observations", len(obs),
	)
	return obs, nil
}

// TemperatureSummary aggregates tobs for date >= start and, when end is not
// empty, date <= end. Both dates must be YYYY-MM-DD.
func (s *Service) TemperatureSummary(ctx context.Context, start, end string) (types.TemperatureSummary, error) {
	from, err := ParseDate(start)
	if err != nil {
		return types.TemperatureSummary{}, err
	}
	var to *time.Time
	if end != "" {
		t, err := ParseDate(end)
		if err != nil {
			return types.TemperatureSummary{}, err
		}
		to = &t
	}

	summary, err := s.repository.GetTemperatureSummary(ctx, from, to)
	if err != nil {
		return types.TemperatureSummary{}, err
	}
	if summary.Count == 0 {
		observability.AggregateNotFoundTotal.WithLabelValues("empty").Inc()
		return types.TemperatureSummary{}, ErrDateNotFound
	}
	if summary.Min == 0 && !s.opts.StrictEmptyCheck {
		observability.AggregateNotFoundTotal.WithLabelValues("zero_min").Inc()
		s.logger.Warn("zero minimum temperature reported as not found",
			"start", start,
			"end", end,
			"observations", summary.Count,
		)
		return types.TemperatureSummary{}, ErrDateNotFound
	}
	return summary, nil
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(types.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %w", ErrInvalidDate, s, err)
	}
	return t, nil
}
