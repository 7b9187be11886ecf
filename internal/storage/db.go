package storage

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sjemmeh/SuperVergelijker-Jaimie/internal"
	"github.com/sjemmeh/SuperVergelijker-Jaimie/internal/util"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS offers (
  ean TEXT PRIMARY KEY,
  titel TEXT NOT NULL,
  console TEXT NOT NULL,
  link TEXT,
  price_new REAL,
  price_used REAL,
  fetchedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_offers_console ON offers(console);

CREATE TABLE IF NOT EXISTS runs (
  id TEXT PRIMARY KEY,
  startedAt TEXT NOT NULL,
  durationMs REAL NOT NULL,
  countsJson TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`
	_, err := d.conn.Exec(schema)
	return err
}

// ReplaceOffers swaps the stored market snapshot for a new one. The
// input must already be deduplicated; ean is the primary key.
func (d *DB) ReplaceOffers(offers []internal.MarketOffer) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM offers`); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO offers (ean, titel, console, link, price_new, price_used, fetchedAt) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, o := range offers {
		if _, err := stmt.Exec(o.EAN, o.Title, o.Console, nullString(o.Link), nullFloat(o.PriceNew), nullFloat(o.PriceUsed), now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListOffers returns the stored snapshot in a stable (ean) order.
func (d *DB) ListOffers() ([]internal.MarketOffer, error) {
	rows, err := d.conn.Query(`SELECT ean, titel, console, link, price_new, price_used FROM offers ORDER BY ean`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]internal.MarketOffer, 0)
	for rows.Next() {
		var o internal.MarketOffer
		var link sql.NullString
		var pNew, pUsed sql.NullFloat64
		if err := rows.Scan(&o.EAN, &o.Title, &o.Console, &link, &pNew, &pUsed); err != nil {
			return nil, err
		}
		if link.Valid {
			o.Link = util.StringPtr(link.String)
		}
		if pNew.Valid {
			o.PriceNew = util.FloatPtr(pNew.Float64)
		}
		if pUsed.Valid {
			o.PriceUsed = util.FloatPtr(pUsed.Float64)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (d *DB) CountOffers() (int, error) {
	var n int
	err := d.conn.QueryRow(`SELECT COUNT(*) FROM offers`).Scan(&n)
	return n, err
}

// InsertRun records one reconciliation run for auditing.
func (d *DB) InsertRun(id string, startedAt time.Time, duration time.Duration, counts map[string]int) error {
	blob, err := json.Marshal(counts)
	if err != nil {
		return err
	}
	_, err = d.conn.Exec(`INSERT INTO runs (id, startedAt, durationMs, countsJson) VALUES (?, ?, ?, ?)`,
		id, startedAt.UTC().Format(time.RFC3339), float64(duration.Milliseconds()), string(blob))
	return err
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value, updatedAt) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func nullString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
