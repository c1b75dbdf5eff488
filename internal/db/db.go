package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/closetlab/wardrobe/internal/models"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite cache of fetched try-on records. The cache mirrors
// whatever the store last held, so offline starts can browse the previous
// session's history.
type DB struct {
	conn *sql.DB
}

// New creates a new database connection and initializes the schema.
func New(dbPath string) (*DB, error) {
	// Ensure the directory exists
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := conn.Exec(createTryOnRecordsTable); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create records schema: %w", err)
	}
	if _, err := conn.Exec(createSyncStateTable); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create sync state schema: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// SaveRecords replaces the cached record list with the given snapshot.
// The cache is a mirror, not a merge target: the in-memory store is the
// source of truth and a full replace keeps deletions from resurrecting.
func (db *DB) SaveRecords(records []models.TryOnRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(deleteAllTryOnRecords); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	stmt, err := tx.Prepare(insertTryOnRecord)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		images, err := json.Marshal(r.TryOnImages)
		if err != nil {
			return fmt.Errorf("failed to encode images for %s: %w", r.IdentityKey(), err)
		}

		var fav interface{}
		if r.IsFavorite != nil {
			fav = *r.IsFavorite
		}

		_, err = stmt.Exec(
			r.ID,
			r.IdentityKey(),
			fav,
			r.LatestTryOnDate,
			r.ProductInfo.BrandName,
			r.ProductInfo.ProductName,
			r.ProductInfo.Name,
			r.ProductInfo.Price,
			r.ProductInfo.Currency,
			r.ProductInfo.ProductURL,
			r.ProductInfo.URL,
			r.ProductInfo.Domain,
			r.TotalTryOns,
			string(images),
		)
		if err != nil {
			return fmt.Errorf("failed to insert record %s: %w", r.IdentityKey(), err)
		}
	}

	if _, err := tx.Exec(upsertSyncState, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to update sync state: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// LoadRecords returns the cached record list in original fetch order.
func (db *DB) LoadRecords() ([]models.TryOnRecord, error) {
	rows, err := db.conn.Query(selectTryOnRecords)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []models.TryOnRecord
	for rows.Next() {
		var r models.TryOnRecord
		var fav sql.NullBool
		var images string
		err := rows.Scan(
			&r.ID,
			&fav,
			&r.LatestTryOnDate,
			&r.ProductInfo.BrandName,
			&r.ProductInfo.ProductName,
			&r.ProductInfo.Name,
			&r.ProductInfo.Price,
			&r.ProductInfo.Currency,
			&r.ProductInfo.ProductURL,
			&r.ProductInfo.URL,
			&r.ProductInfo.Domain,
			&r.TotalTryOns,
			&images,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		if fav.Valid {
			v := fav.Bool
			r.IsFavorite = &v
		}
		if images != "" {
			if err := json.Unmarshal([]byte(images), &r.TryOnImages); err != nil {
				return nil, fmt.Errorf("failed to decode images: %w", err)
			}
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// CountRecords returns the number of cached records.
func (db *DB) CountRecords() (int, error) {
	var count int
	if err := db.conn.QueryRow(countTryOnRecords).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

// LastSyncedAt returns when the cache was last written, or the zero time
// if it never was.
func (db *DB) LastSyncedAt() (time.Time, error) {
	var ts sql.NullString
	err := db.conn.QueryRow(selectSyncState).Scan(&ts)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read sync state: %w", err)
	}
	if !ts.Valid || ts.String == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, ts.String)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse sync timestamp: %s", ts.String)
	}
	return t, nil
}
