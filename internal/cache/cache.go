// Package cache stores computed daily climatology grids in SQLite so a
// long-running server does not interpolate the same day twice.
//
// Grids are keyed by variable, the fingerprint of the field they were
// computed from, month, day and a leap flag. The year is otherwise
// irrelevant to a climatology, and the leap flag is only set for dates
// whose bracket spans the end of February. A grid computed from different
// data under the same variable name is never returned.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/chrissnell/sstclim/pkg/climatology"
	"github.com/vmihailenco/msgpack/v5"
	"gonum.org/v1/gonum/mat"
	_ "modernc.org/sqlite"
)

// schemaVersion is stored in PRAGMA user_version. Databases written with an
// older layout are dropped and rebuilt on open.
const schemaVersion = 2

const schema = `
CREATE TABLE IF NOT EXISTS daily_grid (
	variable    TEXT    NOT NULL,
	fingerprint TEXT    NOT NULL,
	month       INTEGER NOT NULL,
	day         INTEGER NOT NULL,
	leap        INTEGER NOT NULL,
	rows        INTEGER NOT NULL,
	cols        INTEGER NOT NULL,
	data        BLOB    NOT NULL,
	created_at  INTEGER NOT NULL,
	PRIMARY KEY (variable, fingerprint, month, day, leap)
)`

// Cache is a SQLite-backed daily grid cache. It is safe for concurrent use.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at dbPath. ":memory:" gives a
// private in-memory cache.
func Open(dbPath string) (*Cache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if dbPath == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Cache{db: db}, nil
}

// migrate creates the schema, discarding cached grids from older layouts.
func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		return fmt.Errorf("failed to read cache schema version: %w", err)
	}
	if version != schemaVersion {
		if _, err := db.Exec(`DROP TABLE IF EXISTS daily_grid`); err != nil {
			return fmt.Errorf("failed to drop outdated cache table: %w", err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create cache schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, schemaVersion)); err != nil {
		return fmt.Errorf("failed to set cache schema version: %w", err)
	}
	return nil
}

// Close closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the grid cached for variable on the calendar date of t,
// provided it was computed from the field with the given fingerprint.
func (c *Cache) Get(ctx context.Context, variable, fingerprint string, t time.Time) (*mat.Dense, bool, error) {
	var rows, cols int
	var blob []byte
	err := c.db.QueryRowContext(ctx,
		`SELECT rows, cols, data FROM daily_grid
		 WHERE variable = ? AND fingerprint = ? AND month = ? AND day = ? AND leap = ?`,
		variable, fingerprint, int(t.Month()), t.Day(), leapKey(t),
	).Scan(&rows, &cols, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query cached grid: %w", err)
	}

	var data []float64
	if err := msgpack.Unmarshal(blob, &data); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached grid: %w", err)
	}
	if rows <= 0 || cols <= 0 || len(data) != rows*cols {
		return nil, false, fmt.Errorf("cached grid for %s %s is corrupt: %d values for %dx%d",
			variable, t.Format("01-02"), len(data), rows, cols)
	}

	return mat.NewDense(rows, cols, data), true, nil
}

// Put stores g as the grid for variable on the calendar date of t,
// computed from the field with the given fingerprint. Any existing entry
// for the same key is replaced.
func (c *Cache) Put(ctx context.Context, variable, fingerprint string, t time.Time, g *mat.Dense) error {
	raw := g.RawMatrix()
	if raw.Stride != raw.Cols {
		raw = mat.DenseCopyOf(g).RawMatrix()
	}

	blob, err := msgpack.Marshal(raw.Data[:raw.Rows*raw.Cols])
	if err != nil {
		return fmt.Errorf("failed to encode grid: %w", err)
	}

	_, err = c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO daily_grid (variable, fingerprint, month, day, leap, rows, cols, data, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		variable, fingerprint, int(t.Month()), t.Day(), leapKey(t), raw.Rows, raw.Cols, blob, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to store grid: %w", err)
	}
	return nil
}

// Retain removes cached grids for variable that were computed from any
// field other than fingerprint and returns the count removed.
func (c *Cache) Retain(ctx context.Context, variable, fingerprint string) (int64, error) {
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM daily_grid WHERE variable = ? AND fingerprint <> ?`, variable, fingerprint)
	if err != nil {
		return 0, fmt.Errorf("failed to drop stale cached grids: %w", err)
	}
	return res.RowsAffected()
}

// Len returns the number of cached grids.
func (c *Cache) Len(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM daily_grid`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cached grids: %w", err)
	}
	return n, nil
}

// leapKey is 1 only when t is in a leap year and its bracket is
// February 15 to March 15, the one span whose length depends on the year.
func leapKey(t time.Time) int {
	febSpan := (t.Month() == time.February && t.Day() > climatology.AnchorDay) ||
		(t.Month() == time.March && t.Day() < climatology.AnchorDay)
	if febSpan && climatology.IsLeapYear(t) {
		return 1
	}
	return 0
}
