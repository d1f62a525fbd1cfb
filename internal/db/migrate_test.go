package db

import (
	"context"
	"database/sql"
	"testing"
	"testing/fstest"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrate_embedded(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	// Second run is a no-op.
	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("Migrate again: %v", err)
	}

	var n int
	if err := db.QueryRow(`SELECT count(*) FROM schema_migrations`).Scan(&n); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if n != 2 {
		t.Errorf("applied migrations = %d; want 2", n)
	}
	if _, err := db.Exec(`INSERT INTO lookups (query, city, country, units, condition, created_at) VALUES ('a', 'a', 'mx', 'metric', 'normal', '2026-01-05T00:00:00Z')`); err != nil {
		t.Errorf("lookups table not usable: %v", err)
	}
}

func TestMigrateFS_orderAndSkip(t *testing.T) {
	db := openMemory(t)
	fsys := fstest.MapFS{
		"m/0002_second.sql": {Data: []byte(`INSERT INTO t (v) VALUES ('second');`)},
		"m/0001_first.sql":  {Data: []byte(`CREATE TABLE t (v TEXT); INSERT INTO t (v) VALUES ('first');`)},
		"m/README.md":       {Data: []byte(`not a migration`)},
	}

	if err := migrateFS(context.Background(), db, fsys, "m"); err != nil {
		t.Fatalf("migrateFS: %v", err)
	}

	rows, err := db.Query(`SELECT v FROM t ORDER BY rowid`)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer rows.Close()
	var got []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			t.Fatalf("scan: %v", err)
		}
		got = append(got, v)
	}
	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Errorf("rows = %v; want [first second]", got)
	}
}

func TestMigrateFS_failedMigrationRollsBack(t *testing.T) {
	db := openMemory(t)
	fsys := fstest.MapFS{
		"m/0001_broken.sql": {Data: []byte(`CREATE TABLE ok (id INTEGER); THIS IS NOT SQL;`)},
	}

	if err := migrateFS(context.Background(), db, fsys, "m"); err == nil {
		t.Fatal("expected error for broken migration")
	}
	var n int
	if err := db.QueryRow(`SELECT count(*) FROM schema_migrations`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("broken migration recorded as applied")
	}
	if err := db.QueryRow(`SELECT count(*) FROM sqlite_master WHERE name = 'ok'`).Scan(&n); err != nil {
		t.Fatalf("count tables: %v", err)
	}
	if n != 0 {
		t.Errorf("partial migration was not rolled back")
	}
}
