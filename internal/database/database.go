package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"calendar-order-api/internal/calendar"
	"calendar-order-api/internal/models"
)

// DB wraps the database connection and provides methods for data access.
type DB struct {
	conn *sql.DB
}

// NewDB creates a new database connection and initializes the schema.
func NewDB(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=1")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the necessary tables if they don't exist.
func (db *DB) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS offer_days (
			date TEXT PRIMARY KEY,
			slots INTEGER NOT NULL,
			active INTEGER NOT NULL,
			updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			date TEXT NOT NULL,
			status TEXT NOT NULL,
			confirmation TEXT NOT NULL DEFAULT '',
			placed_at TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_date ON orders(date)`,
		`CREATE INDEX IF NOT EXISTS idx_offer_days_active ON offer_days(active, date)`,
	}

	for _, query := range queries {
		if _, err := db.conn.Exec(query); err != nil {
			return fmt.Errorf("failed to execute schema query: %w", err)
		}
	}

	return nil
}

// UpsertOfferDays writes a batch of offer days in a single transaction and
// returns how many were written.
func (db *DB) UpsertOfferDays(days []models.OfferDay) (int, error) {
	if len(days) == 0 {
		return 0, nil
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO offer_days (date, slots, active, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			slots = excluded.slots,
			active = excluded.active,
			updated_at = excluded.updated_at`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	upserted := 0
	for _, day := range days {
		_, err := stmt.Exec(
			day.Date,
			day.Slots,
			day.Active,
			time.Now().UTC().Format(time.RFC3339),
		)
		if err != nil {
			return 0, fmt.Errorf("failed to upsert offer day %s: %w", day.Date, err)
		}
		upserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return upserted, nil
}

// OfferKeysInRange returns the date keys of active offer days with remaining
// slots within [first, last]. Lexical comparison on canonical keys matches
// chronological order.
func (db *DB) OfferKeysInRange(first, last calendar.DateKey) ([]string, error) {
	query := `SELECT date FROM offer_days
		WHERE active = 1 AND slots > 0 AND date >= ? AND date <= ?
		ORDER BY date`

	return db.queryKeys(query, string(first), string(last))
}

// OrderKeysInRange returns the date keys that already have a placed order
// within [first, last].
func (db *DB) OrderKeysInRange(first, last calendar.DateKey) ([]string, error) {
	query := `SELECT DISTINCT date FROM orders
		WHERE date >= ? AND date <= ?
		ORDER BY date`

	return db.queryKeys(query, string(first), string(last))
}

func (db *DB) queryKeys(query string, args ...interface{}) ([]string, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query date keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan date key: %w", err)
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating date keys: %w", err)
	}

	return keys, nil
}

// HasActiveOffer reports whether the given day has an active offer with
// remaining slots.
func (db *DB) HasActiveOffer(date string) (bool, error) {
	var count int
	err := db.conn.QueryRow(
		`SELECT COUNT(*) FROM offer_days WHERE date = ? AND active = 1 AND slots > 0`,
		date,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check offer day: %w", err)
	}

	return count > 0, nil
}

// InsertOrder persists a placed order and consumes one offer slot for its
// day, atomically.
func (db *DB) InsertOrder(order models.Order) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`UPDATE offer_days SET slots = slots - 1 WHERE date = ? AND active = 1 AND slots > 0`,
		order.Date,
	)
	if err != nil {
		return fmt.Errorf("failed to consume offer slot: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("no offer slot available for %s", order.Date)
	}

	_, err = tx.Exec(
		`INSERT INTO orders (id, date, status, confirmation, placed_at) VALUES (?, ?, ?, ?, ?)`,
		order.ID,
		order.Date,
		order.Status,
		order.Confirmation,
		order.PlacedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert order %s: %w", order.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetOrder fetches a single order by id. Returns sql.ErrNoRows wrapped when
// the order does not exist.
func (db *DB) GetOrder(id string) (models.Order, error) {
	var order models.Order
	var placedAtStr string

	err := db.conn.QueryRow(
		`SELECT id, date, status, confirmation, placed_at FROM orders WHERE id = ?`,
		id,
	).Scan(&order.ID, &order.Date, &order.Status, &order.Confirmation, &placedAtStr)
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to get order %s: %w", id, err)
	}

	order.PlacedAt, err = time.Parse(time.RFC3339, placedAtStr)
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to parse placed_at: %w", err)
	}

	return order, nil
}
