package types

import (
	"encoding/json"
	"time"
)

// DateLayout is how measurement dates are stored and accepted in paths.
const DateLayout = "2006-01-02"

// Station encodes as a positional row: [id, station, name, latitude, longitude, elevation].
type Station struct {
	ID        int64
	Station   string
	Name      string
	Latitude  *float64
	Longitude *float64
	Elevation *float64
}

func (s Station) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{s.ID, s.Station, s.Name, s.Latitude, s.Longitude, s.Elevation})
}

type PrecipitationReading struct {
	Date string   `json:"date"`
	Prcp *float64 `json:"prcp"`
}

// TemperatureObservation encodes as [date, tobs].
type TemperatureObservation struct {
	Date string
	Tobs float64
}

func (o TemperatureObservation) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{o.Date, o.Tobs})
}

// TemperatureSummary encodes as [min, avg, max]. Count is the number of
// observations aggregated and is not serialized.
type TemperatureSummary struct {
	Count int
	Min   float64
	Avg   float64
	Max   float64
}

func (s TemperatureSummary) MarshalJSON() ([]byte, error) {
	return json.Marshal([]float64{s.Min, s.Avg, s.Max})
}

// Window is a trailing date range: Start is exclusive, End inclusive.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) StartDate() string { return w.Start.Format(DateLayout) }

func (w Window) EndDate() string { return w.End.Format(DateLayout) }
