package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"climate-server/internal/modules/climate/types"
)

//go:embed sql/get-latest-date.sql
var getLatestDateSQL string

//go:embed sql/get-precipitation.sql
var getPrecipitationSQL string

//go:embed sql/get-stations.sql
var getStationsSQL string

//go:embed sql/get-most-active-station.sql
var getMostActiveStationSQL string

//go:embed sql/get-station-temperatures.sql
var getStationTemperaturesSQL string

//go:embed sql/get-temperature-summary-from.sql
var getTemperatureSummaryFromSQL string

//go:embed sql/get-temperature-summary-range.sql
var getTemperatureSummaryRangeSQL string

// ErrNoMeasurements is returned when the measurement table has no rows to
// derive a date or a most active station from.
var ErrNoMeasurements = errors.New("no measurements in dataset")

type ClimateRepository interface {
	GetLatestDate(ctx context.Context) (time.Time, error)
	GetPrecipitation(ctx context.Context, window types.Window) ([]types.PrecipitationReading, error)
	GetStations(ctx context.Context) ([]types.Station, error)
	GetMostActiveStationTemperatures(ctx context.Context, window types.Window) (string, []types.TemperatureObservation, error)
	// GetTemperatureSummary aggregates tobs over date >= start, and date <= end
	// when end is non-nil.
	GetTemperatureSummary(ctx context.Context, start time.Time, end *time.Time) (types.TemperatureSummary, error)
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) ClimateRepository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) GetLatestDate(ctx context.Context) (time.Time, error) {
	var latest sql.NullString
	if err := r.db.QueryRowContext(ctx, getLatestDateSQL).Scan(&latest); err != nil {
		return time.Time{}, fmt.Errorf("latest date: %w", err)
	}
	if !latest.Valid {
		return time.Time{}, ErrNoMeasurements
	}
	t, err := time.Parse(types.DateLayout, latest.String)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse latest date %q: %w", latest.String, err)
	}
	return t, nil
}

func (r *repositoryImpl) GetPrecipitation(ctx context.Context, window types.Window) ([]types.PrecipitationReading, error) {
	rows, err := r.db.QueryContext(ctx, getPrecipitationSQL, window.StartDate(), window.EndDate())
	if err != nil {
		return nil, fmt.Errorf("query precipitation: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close precipitation rows", "error", err)
		}
	}()

	out := []types.PrecipitationReading{}
	for rows.Next() {
		var rec types.PrecipitationReading
		if err := rows.Scan(&rec.Date, &rec.Prcp); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) GetStations(ctx context.Context) ([]types.Station, error) {
	rows, err := r.db.QueryContext(ctx, getStationsSQL)
	if err != nil {
		return nil, fmt.Errorf("query stations: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close stations rows", "error", err)
		}
	}()

	out := []types.Station{}
	for rows.Next() {
		var s types.Station
		if err := rows.Scan(&s.ID, &s.Station, &s.Name, &s.Latitude, &s.Longitude, &s.Elevation); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetMostActiveStationTemperatures picks the station with the most
// measurements overall (ties go to the lowest station code) and returns its
// observations inside window. Both statements run on one connection.
func (r *repositoryImpl) GetMostActiveStationTemperatures(ctx context.Context, window types.Window) (string, []types.TemperatureObservation, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("acquire conn: %w", err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			slog.Error("release conn", "error", err)
		}
	}()

	var (
		station string
		count   int
	)
	err = conn.QueryRowContext(ctx, getMostActiveStationSQL).Scan(&station, &count)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil, ErrNoMeasurements
	}
	if err != nil {
		return "", nil, fmt.Errorf("most active station: %w", err)
	}

	rows, err := conn.QueryContext(ctx, getStationTemperaturesSQL, station, window.StartDate(), window.EndDate())
	if err != nil {
		return "", nil, fmt.Errorf("query temperatures for %s: %w", station, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close temperature rows", "error", err)
		}
	}()

	out := []types.TemperatureObservation{}
	for rows.Next() {
		var o types.TemperatureObservation
		if err := rows.Scan(&o.Date, &o.Tobs); err != nil {
			return "", nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return "", nil, err
	}
	return station, out, nil
}

func (r *repositoryImpl) GetTemperatureSummary(ctx context.Context, start time.Time, end *time.Time) (types.TemperatureSummary, error) {
	var row *sql.Row
	if end == nil {
		row = r.db.QueryRowContext(ctx, getTemperatureSummaryFromSQL, start.Format(types.DateLayout))
	} else {
		row = r.db.QueryRowContext(ctx, getTemperatureSummaryRangeSQL, start.Format(types.DateLayout), end.Format(types.DateLayout))
	}

	var (
		summary      types.TemperatureSummary
		lo, mean, hi sql.NullFloat64
	)
	if err := row.Scan(&summary.Count, &lo, &mean, &hi); err != nil {
		return types.TemperatureSummary{}, fmt.Errorf("temperature summary: %w", err)
	}
	summary.Min = lo.Float64
	summary.Avg = mean.Float64
	summary.Max = hi.Float64
	return summary, nil
}
