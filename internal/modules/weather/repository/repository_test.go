package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"eolo-server/internal/db"
	"eolo-server/internal/modules/weather/types"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() {
		if err := conn.Close(); err != nil {
			t.Errorf("close db: %v", err)
		}
	})
	if err := db.Migrate(context.Background(), conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestNewRepository(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	if repo == nil {
		t.Fatal("NewRepository returned nil")
	}
}

func TestInsertAndRecentLookups(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()
	base := time.Date(2026, 1, 5, 15, 0, 0, 0, time.UTC)

	first := types.Lookup{
		Query: "Campeche, MX", City: "Campeche", Country: "mx", Units: types.Metric,
		Condition: "very_uncomfortable", Temperature: intPtr(31),
		Lat: floatPtr(19.85), Lon: floatPtr(-90.53), CreatedAt: base,
	}
	second := types.Lookup{
		Query: "Nowhere, US", City: "Nowhere", Country: "us", Units: types.Imperial,
		Condition: "normal", CreatedAt: base.Add(time.Minute),
	}

	id1, err := repo.InsertLookup(ctx, first)
	if err != nil {
		t.Fatalf("InsertLookup: %v", err)
	}
	id2, err := repo.InsertLookup(ctx, second)
	if err != nil {
		t.Fatalf("InsertLookup: %v", err)
	}
	if id2 <= id1 {
		t.Errorf("ids = %d, %d; want increasing", id1, id2)
	}

	got, err := repo.RecentLookups(ctx, 10)
	if err != nil {
		t.Fatalf("RecentLookups: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d; want 2", len(got))
	}
	if got[0].City != "Nowhere" || got[1].City != "Campeche" {
		t.Errorf("order = %q, %q; want newest first", got[0].City, got[1].City)
	}

	c := got[1]
	if c.Units != types.Metric || c.Condition != "very_uncomfortable" {
		t.Errorf("round trip = %+v", c)
	}
	if c.Temperature == nil || *c.Temperature != 31 {
		t.Errorf("Temperature = %v; want 31", c.Temperature)
	}
	if c.Lat == nil || *c.Lat != 19.85 || c.Lon == nil || *c.Lon != -90.53 {
		t.Errorf("coords = %v, %v", c.Lat, c.Lon)
	}
	if !c.CreatedAt.Equal(base) {
		t.Errorf("CreatedAt = %v; want %v", c.CreatedAt, base)
	}

	n := got[0]
	if n.Temperature != nil || n.Lat != nil || n.Lon != nil {
		t.Errorf("unknown values should scan as nil: %+v", n)
	}
}

func TestRecentLookups_limitAndEmpty(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	got, err := repo.RecentLookups(ctx, 5)
	if err != nil {
		t.Fatalf("RecentLookups: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("empty table = %v; want empty non-nil slice", got)
	}

	for i := range 3 {
		l := types.Lookup{Query: "q", City: "c", Country: "mx", Units: types.Metric, Condition: "normal",
			CreatedAt: time.Date(2026, 1, 5, 0, i, 0, 0, time.UTC)}
		if _, err := repo.InsertLookup(ctx, l); err != nil {
			t.Fatalf("InsertLookup: %v", err)
		}
	}
	got, err = repo.RecentLookups(ctx, 2)
	if err != nil {
		t.Fatalf("RecentLookups: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len = %d; want 2", len(got))
	}
}

func TestRecentLookupsByCountry(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()
	for _, country := range []string{"mx", "us", "mx"} {
		l := types.Lookup{Query: "q", City: "c", Country: country, Units: types.Metric, Condition: "normal"}
		if _, err := repo.InsertLookup(ctx, l); err != nil {
			t.Fatalf("InsertLookup: %v", err)
		}
	}

	got, err := repo.RecentLookupsByCountry(ctx, "mx", 10)
	if err != nil {
		t.Fatalf("RecentLookupsByCountry: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d; want 2", len(got))
	}
	for _, l := range got {
		if l.Country != "mx" {
			t.Errorf("Country = %q; want mx", l.Country)
		}
	}
}

func TestInsertLookup_rejectsInvalidUnits(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	_, err := repo.InsertLookup(context.Background(), types.Lookup{Query: "q", City: "c", Country: "mx", Units: "kelvin", Condition: "normal"})
	if err == nil {
		t.Fatal("expected error for invalid units")
	}
}
