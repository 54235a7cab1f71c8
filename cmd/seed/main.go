package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"climate-server/internal/dataset"
	"climate-server/internal/db"
)

const usage = `usage: %s <command>
  migrate                               apply pending schema migrations
  load <stations.csv> <measurements.csv> migrate, then load both CSV files
`

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}

	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, usage, os.Args[0])
		os.Exit(1)
	}

	dbPath := os.Getenv("SQLITE_PATH")
	if dbPath == "" {
		dbPath = "Resources/hawaii.sqlite"
	}
	dbPath = filepath.Clean(dbPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.OpenForWrite(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "db open: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			slog.Error("db close", "err", closeErr)
		}
	}()

	switch os.Args[1] {
	case "migrate":
		if err := dataset.Migrate(ctx, conn); err != nil {
			fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("migrations applied")
	case "load":
		if len(os.Args) != 4 {
			fmt.Fprintf(os.Stderr, usage, os.Args[0])
			os.Exit(1)
		}
		stats, err := load(ctx, conn, os.Args[2], os.Args[3])
		if err != nil {
			fmt.Fprintf(os.Stderr, "load: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("loaded %d stations and %d measurements into %s\n", stats.Stations, stats.Measurements, dbPath)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}
}

func load(ctx context.Context, conn *sql.DB, stationsPath, measurementsPath string) (dataset.LoadStats, error) {
	if err := dataset.Migrate(ctx, conn); err != nil {
		return dataset.LoadStats{}, fmt.Errorf("migrate: %w", err)
	}

	stations, err := os.Open(stationsPath)
	if err != nil {
		return dataset.LoadStats{}, err
	}
	defer stations.Close()

	measurements, err := os.Open(measurementsPath)
	if err != nil {
		return dataset.LoadStats{}, err
	}
	defer measurements.Close()

	return dataset.LoadCSV(ctx, conn, stations, measurements)
}
