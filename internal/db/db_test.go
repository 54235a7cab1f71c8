package db

import (
	"path/filepath"
	"strings"
	"testing"

	"climate-server/internal/config"
)

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		readOnly bool
		want     string
	}{
		{
			name:     "plain path read-only",
			path:     "Resources/hawaii.sqlite",
			readOnly: true,
			want:     "file:Resources/hawaii.sqlite?_busy_timeout=5000&mode=ro&_query_only=on",
		},
		{
			name: "plain path writable",
			path: "/tmp/x.sqlite",
			want: "file:/tmp/x.sqlite?_busy_timeout=5000",
		},
		{
			name:     "file uri with params",
			path:     "file:/data/h.sqlite?cache=shared",
			readOnly: true,
			want:     "file:/data/h.sqlite?cache=shared&_busy_timeout=5000&mode=ro&_query_only=on",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildDSN(tt.path, tt.readOnly); got != tt.want {
				t.Errorf("buildDSN(%q, %v) = %q, want %q", tt.path, tt.readOnly, got, tt.want)
			}
		})
	}
}

func TestOpen_MissingFile(t *testing.T) {
	cfg := config.Config{
		SQLiteDriver: "sqlite3",
		SQLitePath:   filepath.Join(t.TempDir(), "missing.sqlite"),
	}
	_, err := Open(cfg)
	if err == nil {
		t.Fatal("Open() error = nil, want error for missing dataset")
	}
	if !strings.Contains(err.Error(), "missing.sqlite") {
		t.Errorf("error %q does not name the dataset path", err)
	}
}

func TestOpen_ReadOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hawaii.sqlite")

	w, err := OpenForWrite(path)
	if err != nil {
		t.Fatalf("OpenForWrite: %v", err)
	}
	if _, err := w.Exec(`CREATE TABLE station (id INTEGER PRIMARY KEY, station TEXT)`); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := w.Exec(`INSERT INTO station (id, station) VALUES (1, 'USC00519397')`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := Close(w); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	for _, sqlLog := range []bool{false, true} {
		cfg := config.Config{
			SQLiteDriver:       "sqlite3",
			SQLitePath:         path,
			SQLiteMaxOpenConns: 2,
			SQLLog:             sqlLog,
		}
		conn, err := Open(cfg)
		if err != nil {
			t.Fatalf("Open(sqlLog=%v): %v", sqlLog, err)
		}

		var n int
		if err := conn.QueryRow(`SELECT count(*) FROM station`).Scan(&n); err != nil {
			t.Fatalf("count: %v", err)
		}
		if n != 1 {
			t.Errorf("count = %d, want 1", n)
		}
		if _, err := conn.Exec(`INSERT INTO station (id, station) VALUES (2, 'X')`); err == nil {
			t.Errorf("insert on read-only handle succeeded (sqlLog=%v)", sqlLog)
		}
		if err := Close(conn); err != nil {
			t.Fatalf("close: %v", err)
		}
	}
}

func TestClose_Nil(t *testing.T) {
	if err := Close(nil); err != nil {
		t.Fatalf("Close(nil) = %v, want nil", err)
	}
}
