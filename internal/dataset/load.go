package dataset

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

type Station struct {
	Station   string
	Name      string
	Latitude  float64
	Longitude float64
	Elevation float64
}

type Measurement struct {
	Station string
	Date    string
	Prcp    *float64
	Tobs    float64
}

// LoadStats reports how many rows a load inserted.
type LoadStats struct {
	Stations     int
	Measurements int
}

// LoadCSV inserts stations and measurements read from CSV in one
// transaction. Both inputs need a header row; columns are matched by name:
// station,name,latitude,longitude,elevation and station,date,prcp,tobs.
// An empty prcp cell is stored as NULL.
func LoadCSV(ctx context.Context, db *sql.DB, stations, measurements io.Reader) (LoadStats, error) {
	st, err := ReadStations(stations)
	if err != nil {
		return LoadStats{}, fmt.Errorf("stations csv: %w", err)
	}
	ms, err := ReadMeasurements(measurements)
	if err != nil {
		return LoadStats{}, fmt.Errorf("measurements csv: %w", err)
	}
	if err := Insert(ctx, db, st, ms); err != nil {
		return LoadStats{}, err
	}
	return LoadStats{Stations: len(st), Measurements: len(ms)}, nil
}

// Insert writes rows in one transaction, in slice order.
func Insert(ctx context.Context, db *sql.DB, stations []Station, measurements []Measurement) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO station (station, name, latitude, longitude, elevation) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare station insert: %w", err)
	}
	defer func() { _ = stStmt.Close() }()
	for _, s := range stations {
		if _, err := stStmt.ExecContext(ctx, s.Station, s.Name, s.Latitude, s.Longitude, s.Elevation); err != nil {
			return fmt.Errorf("insert station %s: %w", s.Station, err)
		}
	}

	msStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO measurement (station, date, prcp, tobs) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare measurement insert: %w", err)
	}
	defer func() { _ = msStmt.Close() }()
	for _, m := range measurements {
		var prcp any
		if m.Prcp != nil {
			prcp = *m.Prcp
		}
		if _, err := msStmt.ExecContext(ctx, m.Station, m.Date, prcp, m.Tobs); err != nil {
			return fmt.Errorf("insert measurement %s %s: %w", m.Station, m.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func ReadStations(r io.Reader) ([]Station, error) {
	var out []Station
	err := readCSV(r, []string{"station", "name", "latitude", "longitude", "elevation"}, func(line int, get func(string) string) error {
		s := Station{Station: get("station"), Name: get("name")}
		if s.Station == "" {
			return fmt.Errorf("line %d: empty station code", line)
		}
		var err error
		if s.Latitude, err = parseFloat(get("latitude")); err != nil {
			return fmt.Errorf("line %d: latitude: %w", line, err)
		}
		if s.Longitude, err = parseFloat(get("longitude")); err != nil {
			return fmt.Errorf("line %d: longitude: %w", line, err)
		}
		if s.Elevation, err = parseFloat(get("elevation")); err != nil {
			return fmt.Errorf("line %d: elevation: %w", line, err)
		}
		out = append(out, s)
		return nil
	})
	return out, err
}

func ReadMeasurements(r io.Reader) ([]Measurement, error) {
	var out []Measurement
	err := readCSV(r, []string{"station", "date", "prcp", "tobs"}, func(line int, get func(string) string) error {
		m := Measurement{Station: get("station"), Date: get("date")}
		if m.Station == "" {
			return fmt.Errorf("line %d: empty station code", line)
		}
		if _, err := time.Parse(dateLayout, m.Date); err != nil {
			return fmt.Errorf("line %d: date %q: %w", line, m.Date, err)
		}
		if p := get("prcp"); p != "" {
			v, err := parseFloat(p)
			if err != nil {
				return fmt.Errorf("line %d: prcp: %w", line, err)
			}
			m.Prcp = &v
		}
		var err error
		if m.Tobs, err = parseFloat(get("tobs")); err != nil {
			return fmt.Errorf("line %d: tobs: %w", line, err)
		}
		out = append(out, m)
		return nil
	})
	return out, err
}

func readCSV(r io.Reader, required []string, row func(line int, get func(string) string) error) error {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("missing header row")
		}
		return err
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			return fmt.Errorf("missing column %q", col)
		}
	}

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		get := func(col string) string {
			return strings.TrimSpace(rec[idx[col]])
		}
		if err := row(line, get); err != nil {
			return err
		}
	}
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
