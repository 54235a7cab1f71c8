package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"climate-server/internal/config"
	"climate-server/internal/dataset"
	"climate-server/internal/db"
)

func testConfig(path string) config.Config {
	return config.Config{
		AppEnv:             "dev",
		HTTPAddr:           "127.0.0.1:0",
		SQLiteDriver:       "sqlite3",
		SQLitePath:         path,
		SQLiteMaxOpenConns: 1,
		SQLiteMaxIdleConns: 1,
		WindowDays:         365,
	}
}

func TestRun_MissingDataset(t *testing.T) {
	cfg := testConfig(filepath.Join(t.TempDir(), "missing.sqlite"))

	if err := Run(context.Background(), cfg); err == nil {
		t.Fatal("Run with missing dataset = nil; want error")
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hawaii.sqlite")
	w, err := db.OpenForWrite(path)
	if err != nil {
		t.Fatalf("OpenForWrite: %v", err)
	}
	if err := dataset.Migrate(context.Background(), w); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, testConfig(path)) }()

	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run = %v; want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
