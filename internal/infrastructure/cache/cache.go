// Package cache keeps a local sqlite mirror of the data worth reading
// without connectivity: the last fetched booking list and recent hotel
// searches. Callers treat every failure as a cache miss.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/triporia/booking-client/internal/core/domain"
)

// Cache wraps the sqlite connection. sqlite permits a single writer, so the
// pool is capped at one connection.
type Cache struct {
	conn *sql.DB
	log  zerolog.Logger
}

// Open creates (or reuses) the cache database at path and ensures the
// schema exists.
func Open(path string, log zerolog.Logger) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("cache dir: %w", err)
	}

	conn, err := sql.Open("sqlite3", fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_timeout=5000", path))
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(time.Hour)

	c := &Cache{conn: conn, log: log}
	if err := c.initSchema(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}
	return c, nil
}

func (c *Cache) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS bookings (
			id         TEXT PRIMARY KEY,
			payload    TEXT NOT NULL,
			fetched_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS hotel_searches (
			destination TEXT NOT NULL,
			hotel_id    TEXT NOT NULL,
			payload     TEXT NOT NULL,
			fetched_at  INTEGER NOT NULL,
			PRIMARY KEY (destination, hotel_id)
		)`,
	}
	for _, q := range queries {
		if _, err := c.conn.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying connection.
func (c *Cache) Close() error {
	return c.conn.Close()
}

// SaveBookings replaces the cached booking list with the given snapshot.
func (c *Cache) SaveBookings(ctx context.Context, bookings []domain.Booking) error {
	tx, err := c.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM bookings`); err != nil {
		return fmt.Errorf("clear bookings: %w", err)
	}

	now := time.Now().Unix()
	for _, b := range bookings {
		raw, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("marshal booking %s: %w", b.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO bookings (id, payload, fetched_at) VALUES (?, ?, ?)`,
			b.ID, string(raw), now); err != nil {
			return fmt.Errorf("insert booking %s: %w", b.ID, err)
		}
	}
	return tx.Commit()
}

// Bookings returns the cached booking snapshot, oldest fetch first by
// insertion order.
func (c *Cache) Bookings(ctx context.Context) ([]domain.Booking, error) {
	rows, err := c.conn.QueryContext(ctx, `SELECT payload FROM bookings ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	bookings := []domain.Booking{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		var b domain.Booking
		if err := json.Unmarshal([]byte(raw), &b); err != nil {
			// a single corrupt row must not hide the rest
			c.log.Debug().Err(err).Msg("cached booking malformed, skipping")
			continue
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// SaveHotelSearch replaces the cached result set for a destination.
func (c *Cache) SaveHotelSearch(ctx context.Context, destination string, hotels []domain.Hotel) error {
	tx, err := c.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM hotel_searches WHERE destination = ?`, destination); err != nil {
		return fmt.Errorf("clear search: %w", err)
	}

	now := time.Now().Unix()
	for _, h := range hotels {
		raw, err := json.Marshal(h)
		if err != nil {
			return fmt.Errorf("marshal hotel %s: %w", h.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO hotel_searches (destination, hotel_id, payload, fetched_at) VALUES (?, ?, ?, ?)`,
			destination, h.ID, string(raw), now); err != nil {
			return fmt.Errorf("insert hotel %s: %w", h.ID, err)
		}
	}
	return tx.Commit()
}

// HotelSearch returns the cached result set for a destination.
func (c *Cache) HotelSearch(ctx context.Context, destination string) ([]domain.Hotel, error) {
	rows, err := c.conn.QueryContext(ctx,
		`SELECT payload FROM hotel_searches WHERE destination = ? ORDER BY rowid`, destination)
	if err != nil {
		return nil, fmt.Errorf("query search: %w", err)
	}
	defer func() { _ = rows.Close() }()

	hotels := []domain.Hotel{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan hotel: %w", err)
		}
		var h domain.Hotel
		if err := json.Unmarshal([]byte(raw), &h); err != nil {
			c.log.Debug().Err(err).Msg("cached hotel malformed, skipping")
			continue
		}
		hotels = append(hotels, h)
	}
	return hotels, rows.Err()
}
