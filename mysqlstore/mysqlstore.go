// Package mysqlstore provides a MySQL key-value storage implementation.
//
// MySQLStore stores, retrieves and deletes raw data keyed by a string.
// A record may carry an expiration time, and the store supports periodic
// cleanup of expired records.
package mysqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

type MySQLStore struct {
	db *sql.DB
}

func New(db *sql.DB) (*MySQLStore, error) {
	err := createTable(db)
	return &MySQLStore{db: db}, err
}

// Open connects to the database described by dsn (go-sql-driver format)
// and returns a MySQLStore backed by it.
func Open(dsn string) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to mysql database: %w", err)
	}
	return New(db)
}

// Get retrieves the data associated with the given key. Returns
// the data, a boolean indicating whether the key was found and
// not expired, and an error.
func (s *MySQLStore) Get(key string) ([]byte, bool, error) {
	stmt := "SELECT data FROM kv_records WHERE id = ? AND (expires_at IS NULL OR UTC_TIMESTAMP(6) < expires_at)"
	row := s.db.QueryRow(stmt, key)

	var data []byte
	err := row.Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// Set stores the data under the given key with an expiration time. If
// a record with the same key already exists, it is overwritten. A zero
// expiresAt keeps the record until it is deleted.
func (s *MySQLStore) Set(key string, data []byte, expiresAt time.Time) error {
	var exp sql.NullTime
	if !expiresAt.IsZero() {
		exp = sql.NullTime{Time: expiresAt.UTC(), Valid: true}
	}

	stmt := "INSERT INTO kv_records(id, data, expires_at) VALUES (?, ?, ?) ON DUPLICATE KEY UPDATE data = VALUES(data), expires_at = VALUES(expires_at)"
	_, err := s.db.Exec(stmt, key, data, exp)
	return err
}

// Delete removes the data associated with the given key.
func (s *MySQLStore) Delete(key string) error {
	stmt := "DELETE FROM kv_records WHERE id = ?"
	_, err := s.db.Exec(stmt, key)
	return err
}

// PeriodicCleanUp runs a loop that periodically deletes expired records.
// The cleanup runs every interval duration until a value is received on
// the stop channel, at which point the loop returns.
//
// Example usage:
//
//	stop := make(chan struct{})
//	go store.PeriodicCleanUp(time.Minute, stop)
//	...
//	close(stop) // stop the cleanup
func (s *MySQLStore) PeriodicCleanUp(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.deleteExpired()
		case <-stop:
			return
		}
	}
}

// deleteExpired removes all expired records.
func (s *MySQLStore) deleteExpired() {
	stmt := "DELETE FROM kv_records WHERE expires_at IS NOT NULL AND UTC_TIMESTAMP(6) > expires_at"
	s.db.Exec(stmt)
}

func createTable(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv_records (
			id VARCHAR(255) COLLATE utf8mb4_bin PRIMARY KEY,
			data BLOB NOT NULL,
			expires_at TIMESTAMP(6) NULL
		)`)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS kv_records_expires_at_idx ON kv_records (expires_at)`)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	return nil
}
