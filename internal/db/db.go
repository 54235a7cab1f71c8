package db

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"climate-server/internal/config"

	_ "github.com/mattn/go-sqlite3"
)

// Open opens the dataset read-only. The file must already exist: the server
// never creates or migrates it.
func Open(cfg config.Config) (*sql.DB, error) {
	dsn := cfg.SQLiteDSN
	if dsn == "" {
		if _, err := os.Stat(cfg.SQLitePath); err != nil {
			return nil, fmt.Errorf("dataset %s: %w", cfg.SQLitePath, err)
		}
		dsn = buildDSN(cfg.SQLitePath, true)
	}

	var (
		db  *sql.DB
		err error
	)
	if cfg.SQLLog {
		connector, cerr := NewLoggingConnector(dsn, slog.Default())
		if cerr != nil {
			return nil, fmt.Errorf("db connector: %w", cerr)
		}
		db = sql.OpenDB(connector)
	} else {
		db, err = sql.Open(cfg.SQLiteDriver, dsn)
		if err != nil {
			return nil, fmt.Errorf("db open: %w", err)
		}
	}

	if cfg.SQLiteMaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.SQLiteMaxOpenConns)
	}
	if cfg.SQLiteMaxIdleConns >= 0 {
		db.SetMaxIdleConns(cfg.SQLiteMaxIdleConns)
	}
	if cfg.SQLiteConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.SQLiteConnMaxLifetime)
	}

	// Validate connectivity early
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return db, nil
}

// OpenForWrite opens (creating if needed) a dataset file for the seed tool.
func OpenForWrite(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite3", buildDSN(path, false))
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func Close(db *sql.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}

func buildDSN(path string, readOnly bool) string {
	// Rollback journal (not WAL) so a read-only handle never needs to create
	// the -shm file next to the dataset.
	params := []string{"_busy_timeout=5000"}
	if readOnly {
		params = append(params, "mode=ro", "_query_only=on")
	}

	// "file:/data/hawaii.sqlite?x=y" is passed through with our params appended
	if strings.HasPrefix(path, "file:") {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return path + sep + strings.Join(params, "&")
	}

	return fmt.Sprintf("file:%s?%s", path, strings.Join(params, "&"))
}
