package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"climate-server/internal/modules/climate/repository"
	"climate-server/internal/modules/climate/types"
)

type mockRepo struct {
	latest    time.Time
	latestErr error

	precipitation []types.PrecipitationReading
	stations      []types.Station
	station       string
	observations  []types.TemperatureObservation
	activeErr     error
	summary       types.TemperatureSummary
	summaryErr    error

	gotWindow types.Window
	gotStart  time.Time
	gotEnd    *time.Time
}

func (m *mockRepo) GetLatestDate(context.Context) (time.Time, error) {
	return m.latest, m.latestErr
}

func (m *mockRepo) GetPrecipitation(_ context.Context, w types.Window) ([]types.PrecipitationReading, error) {
	m.gotWindow = w
	return m.precipitation, nil
}

func (m *mockRepo) GetStations(context.Context) ([]types.Station, error) {
	return m.stations, nil
}

func (m *mockRepo) GetMostActiveStationTemperatures(_ context.Context, w types.Window) (string, []types.TemperatureObservation, error) {
	m.gotWindow = w
	return m.station, m.observations, m.activeErr
}

func (m *mockRepo) GetTemperatureSummary(_ context.Context, start time.Time, end *time.Time) (types.TemperatureSummary, error) {
	m.gotStart, m.gotEnd = start, end
	return m.summary, m.summaryErr
}

func day(s string) time.Time {
	t, err := time.Parse(types.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func newTestService(repo *mockRepo, fixedEnd time.Time, strict bool) *Service {
	windows := NewWindowResolver(fixedEnd, 365, repo.GetLatestDate)
	return NewService(repo, windows, Options{StrictEmptyCheck: strict}, nil)
}

func TestWindowResolver(t *testing.T) {
	latest := func(context.Context) (time.Time, error) { return day("2017-08-23"), nil }

	tests := []struct {
		name      string
		fixedEnd  time.Time
		days      int
		wantStart string
		wantEnd   string
	}{
		{name: "latest date, 365 days", days: 365, wantStart: "2016-08-23", wantEnd: "2017-08-23"},
		{name: "latest date, 366 days", days: 366, wantStart: "2016-08-22", wantEnd: "2017-08-23"},
		{name: "pinned end", fixedEnd: day("2012-03-01"), days: 365, wantStart: "2011-03-02", wantEnd: "2012-03-01"},
		{name: "pinned end with clock time", fixedEnd: time.Date(2017, 8, 23, 15, 4, 5, 0, time.UTC), days: 1, wantStart: "2017-08-22", wantEnd: "2017-08-23"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := NewWindowResolver(tt.fixedEnd, tt.days, latest).Resolve(context.Background())
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if w.StartDate() != tt.wantStart || w.EndDate() != tt.wantEnd {
				t.Errorf("window = (%s, %s], want (%s, %s]", w.StartDate(), w.EndDate(), tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestWindowResolver_PinnedEndSkipsLookup(t *testing.T) {
	called := false
	latest := func(context.Context) (time.Time, error) {
		called = true
		return time.Time{}, errors.New("should not be called")
	}
	if _, err := NewWindowResolver(day("2017-08-23"), 365, latest).Resolve(context.Background()); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if called {
		t.Fatal("latest date looked up although end is pinned")
	}
}

func TestWindowResolver_EmptyDataset(t *testing.T) {
	latest := func(context.Context) (time.Time, error) { return time.Time{}, repository.ErrNoMeasurements }

	_, err := NewWindowResolver(time.Time{}, 365, latest).Resolve(context.Background())
	if !errors.Is(err, repository.ErrNoMeasurements) {
		t.Fatalf("Resolve error = %v, want ErrNoMeasurements", err)
	}
}

func TestPrecipitation_UsesResolvedWindow(t *testing.T) {
	repo := &mockRepo{latest: day("2017-08-23")}
	svc := newTestService(repo, time.Time{}, false)

	if _, err := svc.Precipitation(context.Background()); err != nil {
		t.Fatalf("Precipitation: %v", err)
	}
	if repo.gotWindow.StartDate() != "2016-08-23" || repo.gotWindow.EndDate() != "2017-08-23" {
		t.Errorf("window = %+v", repo.gotWindow)
	}
}

func TestMostActiveStationTemperatures(t *testing.T) {
	t.Run("passes through observations", func(t *testing.T) {
		obs := []types.TemperatureObservation{{Date: "2017-08-18", Tobs: 79}}
		repo := &mockRepo{latest: day("2017-08-23"), station: "USC00519281", observations: obs}
		got, err := newTestService(repo, time.Time{}, false).MostActiveStationTemperatures(context.Background())
		if err != nil {
			t.Fatalf("MostActiveStationTemperatures: %v", err)
		}
		if len(got) != 1 || got[0] != obs[0] {
			t.Errorf("got %+v, want %+v", got, obs)
		}
	})

	t.Run("empty dataset is an error", func(t *testing.T) {
		repo := &mockRepo{latest: day("2017-08-23"), activeErr: repository.ErrNoMeasurements}
		_, err := newTestService(repo, time.Time{}, false).MostActiveStationTemperatures(context.Background())
		if !errors.Is(err, repository.ErrNoMeasurements) {
			t.Fatalf("error = %v, want ErrNoMeasurements", err)
		}
	})
}

func TestTemperatureSummary(t *testing.T) {
	found := types.TemperatureSummary{Count: 3, Min: 58, Avg: 74.5, Max: 87}
	zeroMin := types.TemperatureSummary{Count: 2, Min: 0, Avg: 10, Max: 20}

	tests := []struct {
		name    string
		summary types.TemperatureSummary
		strict  bool
		start   string
		end     string
		wantErr error
		wantEnd string
	}{
		{name: "open range found", summary: found, start: "2017-01-01"},
		{name: "closed range found", summary: found, start: "2017-01-01", end: "2017-01-31", wantEnd: "2017-01-31"},
		{name: "no rows", summary: types.TemperatureSummary{}, start: "2018-01-01", wantErr: ErrDateNotFound},
		{name: "no rows strict", summary: types.TemperatureSummary{}, strict: true, start: "2018-01-01", wantErr: ErrDateNotFound},
		{name: "zero minimum is not found by default", summary: zeroMin, start: "2017-01-01", wantErr: ErrDateNotFound},
		{name: "zero minimum found when strict", summary: zeroMin, strict: true, start: "2017-01-01"},
		{name: "malformed start", summary: found, start: "2017-1-1", wantErr: ErrInvalidDate},
		{name: "malformed end", summary: found, start: "2017-01-01", end: "tomorrow", wantErr: ErrInvalidDate},
		{name: "impossible date", summary: found, start: "2017-02-30", wantErr: ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepo{summary: tt.summary}
			got, err := newTestService(repo, time.Time{}, tt.strict).TemperatureSummary(context.Background(), tt.start, tt.end)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("TemperatureSummary: %v", err)
			}
			if got != tt.summary {
				t.Errorf("summary = %+v, want %+v", got, tt.summary)
			}
			if repo.gotStart.Format(types.DateLayout) != tt.start {
				t.Errorf("start passed = %v, want %s", repo.gotStart, tt.start)
			}
			if tt.wantEnd == "" && repo.gotEnd != nil {
				t.Errorf("end passed = %v, want nil", repo.gotEnd)
			}
			if tt.wantEnd != "" && (repo.gotEnd == nil || repo.gotEnd.Format(types.DateLayout) != tt.wantEnd) {
				t.Errorf("end passed = %v, want %s", repo.gotEnd, tt.wantEnd)
			}
		})
	}
}

func TestTemperatureSummary_RepositoryError(t *testing.T) {
	boom := errors.New("disk on fire")
	repo := &mockRepo{summaryErr: boom}
	_, err := newTestService(repo, time.Time{}, false).TemperatureSummary(context.Background(), "2017-01-01", "")
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want %v", err, boom)
	}
	if errors.Is(err, ErrDateNotFound) {
		t.Fatal("repository failure reported as not found")
	}
}
