package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"eolo-server/internal/modules/weather/types"
)

//go:embed sql/insert-lookup.sql
var insertLookupSQL string

//go:embed sql/get-recent-lookups.sql
var getRecentLookupsSQL string

//go:embed sql/get-recent-lookups-by-country.sql
var getRecentLookupsByCountrySQL string

type LookupRepository interface {
	InsertLookup(ctx context.Context, l types.Lookup) (int64, error)
	RecentLookups(ctx context.Context, limit int) ([]types.Lookup, error)
	RecentLookupsByCountry(ctx context.Context, country string, limit int) ([]types.Lookup, error)
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) LookupRepository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) InsertLookup(ctx context.Context, l types.Lookup) (int64, error) {
	if !l.Units.Valid() {
		return 0, fmt.Errorf("invalid units %q", l.Units)
	}
	createdAt := l.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	res, err := r.db.ExecContext(ctx, insertLookupSQL,
		l.Query,
		l.City,
		l.Country,
		string(l.Units),
		l.Condition,
		nullableInt(l.Temperature),
		nullableFloat(l.Lat),
		nullableFloat(l.Lon),
		createdAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("insert lookup: %w", err)
	}
	return res.LastInsertId()
}

func (r *repositoryImpl) RecentLookups(ctx context.Context, limit int) ([]types.Lookup, error) {
	rows, err := r.db.QueryContext(ctx, getRecentLookupsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close recent lookups rows", "error", err)
		}
	}()
	return scanLookups(rows)
}

func (r *repositoryImpl) RecentLookupsByCountry(ctx context.Context, country string, limit int) ([]types.Lookup, error) {
	rows, err := r.db.QueryContext(ctx, getRecentLookupsByCountrySQL, country, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close recent lookups by country rows", "error", err)
		}
	}()
	return scanLookups(rows)
}

func scanLookups(rows *sql.Rows) ([]types.Lookup, error) {
	out := []types.Lookup{}
	for rows.Next() {
		var (
			l     types.Lookup
			units string
			temp  sql.NullInt64
			lat   sql.NullFloat64
			lon   sql.NullFloat64
			ts    string
		)
		if err := rows.Scan(&l.ID, &l.Query, &l.City, &l.Country, &units, &l.Condition, &temp, &lat, &lon, &ts); err != nil {
			return nil, err
		}
		l.Units = types.MeasurementSystem(units)
		if temp.Valid {
			v := int(temp.Int64)
			l.Temperature = &v
		}
		if lat.Valid {
			l.Lat = &lat.Float64
		}
		if lon.Valid {
			l.Lon = &lon.Float64
		}
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", ts, err)
		}
		l.CreatedAt = t
		out = append(out, l)
	}
	return out, rows.Err()
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
