package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/astro-conditions/internal/weather"
)

//go:embed sql/schema.sql
var schemaSQL string

//go:embed sql/save-forecast.sql
var saveForecastSQL string

//go:embed sql/get-latest-forecast.sql
var getLatestForecastSQL string

//go:embed sql/delete-expired.sql
var deleteExpiredSQL string

// Timestamps are stored as fixed-width UTC text so that they sort lexically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

// SQLStore is a weather.Store backed by sqlite3 or postgres. Each location
// holds one row; the row is only replaced by a forecast with a higher Seq.
type SQLStore struct {
	db     *sql.DB
	driver string
	maxAge time.Duration
	now    func() time.Time
}

// NewSQLStore wraps db. driver selects the placeholder style. If maxAge is
// <= 0, forecasts never expire.
func NewSQLStore(db *sql.DB, driver string, maxAge time.Duration) *SQLStore {
	return &SQLStore{
		db:     db,
		driver: driver,
		maxAge: maxAge,
		now:    time.Now,
	}
}

// Migrate creates the schema if it does not exist yet.
func (s *SQLStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *SQLStore) Save(ctx context.Context, f weather.Forecast) (bool, error) {
	payload, err := json.Marshal(f)
	if err != nil {
		return false, fmt.Errorf("encode forecast: %w", err)
	}

	res, err := s.db.ExecContext(ctx, s.rebind(saveForecastSQL),
		f.Location.Key(),
		int64(f.Seq),
		f.FetchedAt.UTC().Format(timestampLayout),
		string(payload),
	)
	if err != nil {
		return false, fmt.Errorf("save forecast: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("save forecast: %w", err)
	}
	return n > 0, nil
}

func (s *SQLStore) Latest(ctx context.Context, loc weather.Location) (weather.Forecast, error) {
	var (
		seq       int64
		fetchedAt string
		payload   string
	)
	err := s.db.QueryRowContext(ctx, s.rebind(getLatestForecastSQL), loc.Key()).Scan(&seq, &fetchedAt, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return weather.Forecast{}, ErrNotFound
	}
	if err != nil {
		return weather.Forecast{}, fmt.Errorf("load forecast: %w", err)
	}

	var f weather.Forecast
	if err := json.Unmarshal([]byte(payload), &f); err != nil {
		return weather.Forecast{}, fmt.Errorf("decode forecast: %w", err)
	}
	f.Seq = uint64(seq)
	if ts, err := time.Parse(timestampLayout, fetchedAt); err == nil {
		f.FetchedAt = ts
	}

	if expired(f, s.maxAge, s.now()) {
		return weather.Forecast{}, ErrNotFound
	}
	return f, nil
}

// Prune deletes every forecast older than the configured max age.
func (s *SQLStore) Prune(ctx context.Context) (int, error) {
	if s.maxAge <= 0 {
		return 0, nil
	}
	cutoff := s.now().Add(-s.maxAge).UTC().Format(timestampLayout)
	res, err := s.db.ExecContext(ctx, s.rebind(deleteExpiredSQL), cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune forecasts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune forecasts: %w", err)
	}
	return int(n), nil
}

// rebind turns ? placeholders into $1, $2, ... for postgres.
func (s *SQLStore) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
