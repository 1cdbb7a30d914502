package catalog

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Capture is one cataloged image.
type Capture struct {
	ID        string
	Path      string
	Mode      string
	TakenAt   time.Time
	SizeBytes int64
}

// Stats summarizes the whole catalog.
type Stats struct {
	Count      int64
	TotalBytes int64
}

// Catalog persists capture records in a SQLite database next to the
// images, so sessions survive restarts and can be reported on later.
type Catalog struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS captures (
	id         TEXT PRIMARY KEY,
	path       TEXT NOT NULL,
	mode       TEXT NOT NULL,
	taken_at   TEXT NOT NULL,
	size_bytes INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_captures_taken_at ON captures(taken_at);
`

// Open opens or creates the catalog database at path.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init catalog schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

// Add records one capture. An empty ID is filled in.
// Timestamps are stored as RFC 3339 UTC so their lexicographic order
// matches their chronological order.
func (c *Catalog) Add(rec Capture) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	_, err := c.db.Exec(
		`INSERT INTO captures (id, path, mode, taken_at, size_bytes) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.Path, rec.Mode, rec.TakenAt.UTC().Format(time.RFC3339), rec.SizeBytes,
	)
	if err != nil {
		return fmt.Errorf("insert capture: %w", err)
	}
	return nil
}

// Recent returns up to limit captures, newest first.
func (c *Catalog) Recent(limit int) ([]Capture, error) {
	rows, err := c.db.Query(
		`SELECT id, path, mode, taken_at, size_bytes FROM captures
		 ORDER BY taken_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent captures: %w", err)
	}
	return scanCaptures(rows)
}

// OnDay returns the captures taken on the given local day, oldest
// first.
func (c *Catalog) OnDay(day time.Time) ([]Capture, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)
	rows, err := c.db.Query(
		`SELECT id, path, mode, taken_at, size_bytes FROM captures
		 WHERE taken_at >= ? AND taken_at < ? ORDER BY taken_at`,
		start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("query captures for %s: %w", day.Format("2006-01-02"), err)
	}
	return scanCaptures(rows)
}

// Stats reports how many captures are cataloged and their total size.
func (c *Catalog) Stats() (Stats, error) {
	var st Stats
	err := c.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(size_bytes), 0) FROM captures`,
	).Scan(&st.Count, &st.TotalBytes)
	if err != nil {
		return Stats{}, fmt.Errorf("query catalog stats: %w", err)
	}
	return st, nil
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

func scanCaptures(rows *sql.Rows) ([]Capture, error) {
	defer rows.Close()
	var out []Capture
	for rows.Next() {
		var rec Capture
		var taken string
		if err := rows.Scan(&rec.ID, &rec.Path, &rec.Mode, &taken, &rec.SizeBytes); err != nil {
			return nil, fmt.Errorf("scan capture: %w", err)
		}
		ts, err := time.Parse(time.RFC3339, taken)
		if err != nil {
			return nil, fmt.Errorf("parse taken_at %q: %w", taken, err)
		}
		rec.TakenAt = ts
		out = append(out, rec)
	}
	return out, rows.Err()
}
